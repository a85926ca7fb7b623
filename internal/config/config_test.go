package config_test

import (
	"os"
	"testing"

	"github.com/huyle/flashdeck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := config.Config{
		DBPath:     "test.db",
		LogLevel:   "INFO",
		DailyGoal:  10,
		AppVersion: "1.0.0",
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := config.Config{
		DBPath:    "",
		LogLevel:  "INFO",
		DailyGoal: 10,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidDailyGoal(t *testing.T) {
	tests := []struct {
		name string
		goal int
	}{
		{name: "zero goal", goal: 0},
		{name: "negative goal", goal: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{
				DBPath:    "test.db",
				LogLevel:  "INFO",
				DailyGoal: tt.goal,
			}

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "DAILY_GOAL")
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := config.Config{
		DBPath:    "test.db",
		LogLevel:  "LOUD",
		DailyGoal: 10,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "LOG_LEVEL", "DAILY_GOAL", "APP_VERSION"} {
		old, had := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		if had {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}

	cfg := config.Load()

	assert.Equal(t, "file:flashdeck.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 10, cfg.DailyGoal)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "file:custom.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DAILY_GOAL", "25")
	t.Setenv("APP_VERSION", "2.1.0")

	cfg := config.Load()

	assert.Equal(t, "file:custom.db", cfg.DBPath)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 25, cfg.DailyGoal)
	assert.Equal(t, "2.1.0", cfg.AppVersion)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DAILY_GOAL", "lots")

	cfg := config.Load()

	assert.Equal(t, 10, cfg.DailyGoal)
}
