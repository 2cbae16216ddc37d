package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestDBTracing_FromConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())
	assert.Equal(t, 200*time.Millisecond, plugin.config.SlowQueryThresh)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)

	err := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).RegisterOtelGorm(db)
	require.NoError(t, err)
	assert.Nil(t, db.Callback().Query().Get("otel_timing:after_query"))
}

func TestDBTracingPlugin_Enabled(t *testing.T) {
	db := setupTestDB(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true

	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	assert.NotNil(t, db.Callback().Create().Get("otel_timing:before_create"))
	assert.NotNil(t, db.Callback().Query().Get("otel_timing:after_query"))
	assert.NotNil(t, db.Callback().Raw().Get("otel_timing:after_raw"))

	require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
	var rows []tracedRow
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
}

func TestRegisterAround_RunsHooksInOrder(t *testing.T) {
	db := setupTestDB(t)

	var calls []string
	require.NoError(t, registerAround(db, "sample",
		func(*gorm.DB) { calls = append(calls, "before") },
		func(*gorm.DB) { calls = append(calls, "after") },
	))

	require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
	assert.Equal(t, []string{"before", "after"}, calls)
}

func statementFor(ctx context.Context, table string, rows int64, err error) *gorm.DB {
	db := &gorm.DB{Error: err, RowsAffected: rows}
	db.Statement = &gorm.Statement{DB: db, Context: ctx, Table: table}
	return db
}

func TestDBTracingPlugin_Annotate(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, zap.NewNop())

	t.Run("rows, table and slow marker", func(t *testing.T) {
		ctx, span := tp.Tracer("test").Start(context.Background(), "select invoices")
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

		plugin.annotate(statementFor(ctx, "invoices", 3, nil))
		span.End()

		ended := recorder.Ended()
		attrs := attrMap(ended[len(ended)-1].Attributes())
		assert.Equal(t, int64(3), attrs["db.rows_affected"].AsInt64())
		assert.Equal(t, "invoices", attrs["db.sql.table"].AsString())
		assert.True(t, attrs["db.slow_query"].AsBool())
		assert.GreaterOrEqual(t, attrs["db.query_duration_ms"].AsInt64(), int64(1000))
		require.Len(t, ended[len(ended)-1].Events(), 1)
		assert.Equal(t, "slow_query_warning", ended[len(ended)-1].Events()[0].Name)
	})

	t.Run("errors except not found mark the span", func(t *testing.T) {
		ctx, span := tp.Tracer("test").Start(context.Background(), "update invoices")
		plugin.annotate(statementFor(ctx, "invoices", 0, errors.New("deadlock detected")))
		span.End()

		ended := recorder.Ended()
		assert.Equal(t, codes.Error, ended[len(ended)-1].Status().Code)

		ctx, span = tp.Tracer("test").Start(context.Background(), "select invoices")
		plugin.annotate(statementFor(ctx, "invoices", 0, gorm.ErrRecordNotFound))
		span.End()

		ended = recorder.Ended()
		assert.Equal(t, codes.Unset, ended[len(ended)-1].Status().Code)
	})

	t.Run("nil context and non-recording span are ignored", func(t *testing.T) {
		before := len(recorder.Ended())
		var noCtx context.Context
		plugin.annotate(statementFor(noCtx, "invoices", 1, nil))
		plugin.annotate(statementFor(context.Background(), "invoices", 1, nil))
		assert.Len(t, recorder.Ended(), before)
	})
}
