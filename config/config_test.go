package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "hrkernel", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1000, cfg.EventBus.HistorySize)
	assert.True(t, cfg.EventBus.MetricsEnabled)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, 2*time.Second, cfg.Retry.MaxDelay)
	assert.Empty(t, cfg.Store.Path)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hrkernel.yaml")
	content := `
app:
  env: production
  actor: payroll-batch
log:
  level: warn
  format: json
event_bus:
  history_size: 10
retry:
  max_attempts: 5
  initial_delay: 10ms
store:
  path: data/employees.json
database:
  host: db.internal
  slow_threshold: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("HRKERNEL_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "payroll-batch", cfg.App.Actor)
	assert.Equal(t, "debug", cfg.Log.Level, "environment overrides the file")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10, cfg.EventBus.HistorySize)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, "data/employees.json", cfg.Store.Path)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, time.Second, cfg.Database.SlowThreshold)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"file without path", func(c *Config) { c.Log.Output = "file"; c.Log.FilePath = "" }, "log.file_path"},
		{"negative history", func(c *Config) { c.EventBus.HistorySize = -1 }, "history_size"},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, "max_attempts"},
		{"shrinking backoff", func(c *Config) { c.Retry.BackoffFactor = 0.5 }, "backoff_factor"},
		{"inverted delays", func(c *Config) { c.Retry.MaxDelay = time.Millisecond }, "max_delay"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, "store.driver"},
		{"mysql without database", func(c *Config) {
			c.Store.Driver = "mysql"
			c.Database.Database = ""
		}, "database.database"},
		{"mysql with snapshot file", func(c *Config) {
			c.Store.Driver = "mysql"
			c.Store.Path = "employees.json"
		}, "store.path"},
		{"mysql", func(c *Config) { c.Store.Driver = "mysql" }, ""},
		{"retry disabled skips retry checks", func(c *Config) {
			c.Retry.Enabled = false
			c.Retry.MaxAttempts = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "data/employees.json", cfg.Store.Path)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
}
