package handler

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/application/mutation"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temp files
const multipartMemory = mutation.MaxAvatarBytes + 1<<20

// Mutator is the write side of one entity kind
type Mutator interface {
	Kind() mutation.Kind
	Create(ctx context.Context, form mutation.Form) mutation.Outcome
	Update(ctx context.Context, id string, form mutation.Form) mutation.Outcome
	Delete(ctx context.Context, id string, form mutation.Form) mutation.Outcome
}

// MutationHandler serves the create, edit and delete form posts of one
// entity kind. A successful post redirects to the listing page with 303;
// clients sending Accept: application/json get the outcome as JSON instead.
type MutationHandler struct {
	BaseHandler
	mutator Mutator
}

// NewMutationHandler creates a handler for the given mutator
func NewMutationHandler(m Mutator) *MutationHandler {
	return &MutationHandler{mutator: m}
}

// Kind returns the entity kind the handler writes
func (h *MutationHandler) Kind() mutation.Kind {
	return h.mutator.Kind()
}

// Create handles POST /dashboard/{kind}/create
func (h *MutationHandler) Create(c *gin.Context) {
	form, ok := h.readForm(c)
	if !ok {
		return
	}
	h.respond(c, h.mutator.Create(c.Request.Context(), form))
}

// Update handles POST /dashboard/{kind}/:id/edit
func (h *MutationHandler) Update(c *gin.Context) {
	form, ok := h.readForm(c)
	if !ok {
		return
	}
	h.respond(c, h.mutator.Update(c.Request.Context(), c.Param("id"), form))
}

// Delete handles POST /dashboard/{kind}/:id/delete
func (h *MutationHandler) Delete(c *gin.Context) {
	form, ok := h.readForm(c)
	if !ok {
		return
	}
	h.respond(c, h.mutator.Delete(c.Request.Context(), c.Param("id"), form))
}

// readForm parses an urlencoded or multipart body. The Idempotency-Key header
// stands in for the hidden form field when the form has none.
func (h *MutationHandler) readForm(c *gin.Context) (mutation.Form, bool) {
	var err error
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		err = c.Request.ParseMultipartForm(multipartMemory)
	} else {
		err = c.Request.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body too large")
			return mutation.Form{}, false
		}
		logger.GetGinLogger(c).Debug("Failed to parse form", zap.Error(err))
		h.BadRequest(c, "Invalid form submission")
		return mutation.Form{}, false
	}

	values := url.Values{}
	for k, v := range c.Request.PostForm {
		values[k] = slices.Clone(v)
	}
	form := mutation.NewForm(values)

	if mf := c.Request.MultipartForm; mf != nil {
		if files := mf.File[mutation.AvatarField]; len(files) > 0 {
			form = form.WithFile(mutation.AvatarField, files[0])
		}
	}

	if key := strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader)); key != "" && form.IdempotencyKey() == "" {
		form.Values.Set(mutation.IdempotencyField, key)
	}
	return form, true
}

func (h *MutationHandler) respond(c *gin.Context, out mutation.Outcome) {
	if out.Success {
		if wantsJSON(c) {
			h.Success(c, out)
			return
		}
		c.Redirect(http.StatusSeeOther, out.RedirectTo)
		return
	}

	switch out.Reason {
	case mutation.ReasonValidation:
		h.ValidationError(c, out.Message, fieldDetails(out.Errors))
	case mutation.ReasonNotFound:
		h.NotFound(c, out.Message)
	case mutation.ReasonDuplicate:
		h.Error(c, http.StatusConflict, dto.ErrCodeDuplicateSubmission, out.Message)
	default:
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeDatabase, out.Message)
	}
}

// fieldDetails flattens field errors in field name order
func fieldDetails(errs mutation.FieldErrors) []dto.ValidationDetail {
	details := make([]dto.ValidationDetail, 0, len(errs))
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		msgs := errs[field]
		if len(msgs) == 0 {
			continue
		}
		details = append(details, dto.ValidationDetail{
			Field:    field,
			Message:  msgs[0],
			Messages: msgs,
		})
	}
	return details
}
