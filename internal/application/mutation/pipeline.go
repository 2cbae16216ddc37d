package mutation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grafana/pyroscope-go"
	"github.com/invoicedash/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/invoicedash/backend/internal/application/mutation"

// Invalidator drops cached views of a listing page
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// Pipeline holds the collaborators shared by every entity's mutations:
// cache invalidation, submission idempotency, events and telemetry.
type Pipeline struct {
	invalidator Invalidator
	idempotency shared.IdempotencyStore
	events      shared.EventPublisher
	logger      *zap.Logger
	tracer      trace.Tracer
	meter       metric.Meter
	outcomes    metric.Int64Counter
	ttl         time.Duration
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithIdempotency enables duplicate-submission protection
func WithIdempotency(store shared.IdempotencyStore, ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.idempotency = store
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithEvents publishes MutationCommitted events to publisher
func WithEvents(publisher shared.EventPublisher) Option {
	return func(p *Pipeline) {
		p.events = publisher
	}
}

// WithTracer overrides the global tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

// WithMeter overrides the global meter
func WithMeter(meter metric.Meter) Option {
	return func(p *Pipeline) {
		p.meter = meter
	}
}

// defaultSubmissionTTL is how long submission keys are kept without WithIdempotency ttl
const defaultSubmissionTTL = 24 * time.Hour

// NewPipeline creates a mutation pipeline
func NewPipeline(invalidator Invalidator, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		invalidator: invalidator,
		logger:      logger,
		tracer:      otel.Tracer(instrumentationName),
		meter:       otel.Meter(instrumentationName),
		ttl:         defaultSubmissionTTL,
	}
	for _, opt := range opts {
		opt(p)
	}

	counter, err := p.meter.Int64Counter("mutation.outcomes",
		metric.WithDescription("Mutation outcomes by kind, action and reason"))
	if err != nil {
		logger.Warn("Failed to create mutation outcome counter", zap.Error(err))
	} else {
		p.outcomes = counter
	}
	return p
}

// Mutator runs create, update and delete for one entity kind
type Mutator[T shared.Entity] struct {
	pipeline *Pipeline
	resource Resource[T]
}

// NewMutator binds a resource to the pipeline
func NewMutator[T shared.Entity](p *Pipeline, resource Resource[T]) *Mutator[T] {
	return &Mutator[T]{pipeline: p, resource: resource}
}

// Kind returns the entity kind handled by the mutator
func (m *Mutator[T]) Kind() Kind {
	return m.resource.Kind
}

// Create validates the form and inserts a new record
func (m *Mutator[T]) Create(ctx context.Context, form Form) Outcome {
	return m.profiled(ctx, ActionCreate, "", form)
}

// Update validates the form and rewrites the record with the given id
func (m *Mutator[T]) Update(ctx context.Context, id string, form Form) Outcome {
	return m.profiled(ctx, ActionUpdate, id, form)
}

// Delete removes the record with the given id
func (m *Mutator[T]) Delete(ctx context.Context, id string, form Form) Outcome {
	return m.profiled(ctx, ActionDelete, id, form)
}

// Profile label keys set on every mutation
const (
	ProfileLabelKind   = "mutation_kind"
	ProfileLabelAction = "mutation_action"
)

// profiled runs the mutation with its kind and action attached to the
// profile samples it produces
func (m *Mutator[T]) profiled(ctx context.Context, action Action, rawID string, form Form) (out Outcome) {
	labels := pyroscope.Labels(ProfileLabelKind, string(m.resource.Kind), ProfileLabelAction, string(action))
	pyroscope.TagWrapper(ctx, labels, func(ctx context.Context) {
		out = m.run(ctx, action, rawID, form)
	})
	return out
}

func (m *Mutator[T]) run(ctx context.Context, action Action, rawID string, form Form) (out Outcome) {
	kind := m.resource.Kind
	p := m.pipeline

	ctx, span := p.tracer.Start(ctx, "mutation."+strings.ToLower(string(action)),
		trace.WithAttributes(attribute.String("mutation.kind", string(kind))))
	defer func() {
		p.record(ctx, kind, action, out.Reason)
		span.SetAttributes(attribute.String("mutation.reason", string(out.Reason)))
		if !out.Success {
			span.SetStatus(codes.Error, out.Message)
		}
		span.End()
	}()

	log := p.logger.With(
		zap.String("kind", string(kind)),
		zap.String("action", string(action)),
	)

	var (
		id    uuid.UUID
		idErr error
	)
	if action == ActionCreate {
		id = uuid.New()
	} else {
		id, idErr = shared.ParseID(rawID)
	}

	var entity T
	if action != ActionDelete {
		var errs FieldErrors
		entity, errs = m.resource.Decode(form, id)
		if !errs.Empty() {
			return Failure(validationMessage(action, kind), errs, ReasonValidation)
		}
	}
	if idErr != nil {
		return Failure(notFoundMessage(kind), nil, ReasonNotFound)
	}
	span.SetAttributes(attribute.String("mutation.id", id.String()))

	success := Redirect(m.resource.ListingPath, successMessage(action, kind))

	// Idempotency: replay committed submissions, reject concurrent ones
	scopedKey, claimed := "", false
	if key := form.IdempotencyKey(); key != "" && p.idempotency != nil {
		scopedKey = scopeKey(kind, action, rawID, key)
		replay, dup, ok := p.claim(ctx, log, scopedKey)
		switch {
		case replay:
			log.Info("Replaying completed submission", zap.String("idempotency_key", scopedKey))
			return success
		case dup:
			return Failure(duplicateMessage, nil, ReasonDuplicate)
		}
		claimed = ok
	}

	var rollback RollbackFunc
	if m.resource.Attach != nil && action != ActionDelete {
		rb, err := m.resource.Attach(ctx, action, entity, form)
		if err != nil {
			p.release(ctx, log, scopedKey, claimed)
			if errors.Is(err, ErrInvalidAvatar) {
				log.Info("Attachment rejected", zap.Error(err))
				return Failure(validationMessage(action, kind), FieldErrors{AvatarField: {InvalidAvatarMessage}}, ReasonValidation)
			}
			log.Error("Attachment failed", zap.Error(err))
			return Failure(persistenceMessage(action, kind), nil, ReasonPersistence)
		}
		rollback = rb
	}

	if err := m.persist(ctx, action, id, entity); err != nil {
		p.release(ctx, log, scopedKey, claimed)
		if rollback != nil {
			rollback(ctx)
		}
		if errors.Is(err, shared.ErrNotFound) {
			return Failure(notFoundMessage(kind), nil, ReasonNotFound)
		}
		span.RecordError(err)
		log.Error("Mutation failed", zap.String("id", id.String()), zap.Error(err))
		return Failure(persistenceMessage(action, kind), nil, ReasonPersistence)
	}

	if claimed {
		if err := p.idempotency.Complete(ctx, scopedKey, p.ttl); err != nil {
			log.Warn("Failed to mark submission completed", zap.String("idempotency_key", scopedKey), zap.Error(err))
		}
	}

	if p.invalidator != nil {
		if err := p.invalidator.Invalidate(ctx, m.resource.ListingPath); err != nil {
			log.Warn("Failed to invalidate listing cache",
				zap.String("path", m.resource.ListingPath), zap.Error(err))
		}
	}

	if p.events != nil {
		event := NewMutationCommitted(kind, action, id, m.resource.ListingPath)
		if err := p.events.Publish(ctx, event); err != nil {
			log.Warn("Failed to publish mutation event", zap.Error(err))
		}
	}

	log.Info("Mutation committed", zap.String("id", id.String()))
	return success
}

func (m *Mutator[T]) persist(ctx context.Context, action Action, id uuid.UUID, entity T) error {
	switch action {
	case ActionCreate:
		return m.resource.Store.Create(ctx, entity)
	case ActionUpdate:
		return m.resource.Store.Update(ctx, entity)
	case ActionDelete:
		return m.resource.Store.Delete(ctx, id)
	default:
		return shared.ErrInvalidInput
	}
}

// claim checks and takes the idempotency key. An unavailable store is
// treated as if no key had been sent.
func (p *Pipeline) claim(ctx context.Context, log *zap.Logger, key string) (replay, duplicate, claimed bool) {
	state, err := p.idempotency.State(ctx, key)
	if err != nil {
		log.Warn("Idempotency store unavailable", zap.Error(err))
		return false, false, false
	}
	if state == shared.SubmissionCompleted {
		return true, false, false
	}

	ok, err := p.idempotency.Claim(ctx, key, p.ttl)
	if err != nil {
		log.Warn("Idempotency store unavailable", zap.Error(err))
		return false, false, false
	}
	if ok {
		return false, false, true
	}

	// Lost the race: the holder may have finished in between
	if state, err = p.idempotency.State(ctx, key); err == nil && state == shared.SubmissionCompleted {
		return true, false, false
	}
	return false, true, false
}

func (p *Pipeline) release(ctx context.Context, log *zap.Logger, key string, claimed bool) {
	if !claimed {
		return
	}
	if err := p.idempotency.Release(ctx, key); err != nil {
		log.Warn("Failed to release submission key", zap.String("idempotency_key", key), zap.Error(err))
	}
}

func (p *Pipeline) record(ctx context.Context, kind Kind, action Action, reason Reason) {
	if p.outcomes == nil {
		return
	}
	p.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("action", string(action)),
		attribute.String("reason", string(reason)),
	))
}

func scopeKey(kind Kind, action Action, id, key string) string {
	return strings.ToLower(string(kind)) + ":" + strings.ToLower(string(action)) + ":" + id + ":" + key
}
