package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn, time.Second)
	other := gl.LogMode(gormlogger.Info).(*GormLogger)

	assert.Equal(t, gormlogger.Warn, gl.logLevel)
	assert.Equal(t, gormlogger.Info, other.logLevel)
	assert.Equal(t, time.Second, other.slowThreshold)
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM invoices", 3 }

	t.Run("failures carry request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error, 0)
		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")

		gl.Trace(ctx, time.Now(), query, errors.New("boom"))

		entries := recorded.FilterMessage("Statement failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "SELECT * FROM invoices", entries[0].ContextMap()["sql"])
	})

	t.Run("record not found is not a failure", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error, 0)

		gl.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Zero(t, recorded.Len())
	})

	t.Run("slow statements warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, time.Millisecond)

		gl.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "Slow statement", entries[0].Message)
	})

	t.Run("zero threshold disables the slow warning", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, 0)

		gl.Trace(context.Background(), time.Now().Add(-time.Hour), query, nil)

		assert.Zero(t, recorded.Len())
	})

	t.Run("debug traces every statement", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), MapGormLogLevel("debug"), time.Minute)

		gl.Trace(context.Background(), time.Now(), query, nil)

		entries := recorded.FilterMessage("Statement").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent, 0)

		gl.Trace(context.Background(), time.Now(), query, errors.New("boom"))

		assert.Zero(t, recorded.Len())
	})
}

func TestGormLogger_Printf(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, 0)

	gl.Info(context.Background(), "migrated %d tables", 5)
	gl.Warn(context.Background(), "pool at %d%%", 90)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pool at 90%", entries[0].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("DEBUG"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
}
