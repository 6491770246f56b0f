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

func observed(level gormlogger.LogLevel, cfg GormConfig) (*GormAdapter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormAdapter(zap.New(core), level, cfg), logs
}

func messages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, entry := range logs.All() {
		out = append(out, entry.Message)
	}
	return out
}

func TestGormAdapter_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		want  []string
	}{
		{"silent", gormlogger.Silent, nil},
		{"error", gormlogger.Error, []string{"error 3"}},
		{"warn", gormlogger.Warn, []string{"warn 2", "error 3"}},
		{"info", gormlogger.Info, []string{"info 1", "warn 2", "error 3", "SQL query executed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, logs := observed(tt.level, DefaultGormConfig())
			ctx := context.Background()

			adapter.Info(ctx, "info %d", 1)
			adapter.Warn(ctx, "warn %d", 2)
			adapter.Error(ctx, "error %d", 3)
			adapter.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

			assert.Equal(t, tt.want, messages(logs))
		})
	}
}

func TestGormAdapter_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT * FROM `employees` WHERE `id` = 'x'", 0 }

	t.Run("failure carries the statement and error", func(t *testing.T) {
		adapter, logs := observed(gormlogger.Warn, DefaultGormConfig())
		adapter.Trace(context.Background(), time.Now(), sql, errors.New("connection refused"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "database operation failed", entry.Message)
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		fields := entry.ContextMap()
		assert.Equal(t, "SELECT * FROM `employees` WHERE `id` = 'x'", fields["sql"])
		assert.Equal(t, "connection refused", fields["error"])
	})

	t.Run("record not found can be ignored", func(t *testing.T) {
		adapter, logs := observed(gormlogger.Info, DefaultGormConfig())
		adapter.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
		assert.Zero(t, logs.Len())

		adapter, logs = observed(gormlogger.Info, GormConfig{})
		adapter.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
		assert.Equal(t, []string{"database operation failed"}, messages(logs))
	})

	t.Run("slow statements warn", func(t *testing.T) {
		adapter, logs := observed(gormlogger.Warn, GormConfig{SlowThreshold: 50 * time.Millisecond})
		adapter.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "slow SQL query", entry.Message)
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	})

	t.Run("LogMode keeps the logger", func(t *testing.T) {
		adapter, logs := observed(gormlogger.Silent, DefaultGormConfig())
		adapter.LogMode(gormlogger.Info).Info(context.Background(), "now visible")
		assert.Equal(t, []string{"now visible"}, messages(logs))
	})
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, ParseGormLevel("silent"))
	assert.Equal(t, gormlogger.Error, ParseGormLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, ParseGormLevel("info"))
	assert.Equal(t, gormlogger.Warn, ParseGormLevel("warn"))
	assert.Equal(t, gormlogger.Warn, ParseGormLevel(""))
}
