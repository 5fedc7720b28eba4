package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "Asia/Shanghai", cfg.App.Timezone)
	assert.True(t, cfg.Holiday.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Holiday.Timeout)
	assert.Equal(t, "http://timor.tech/api/holiday", cfg.Holiday.BaseURL)
	assert.Equal(t, "09:00:00", cfg.Attendance.LateCutoff)
	assert.Equal(t, "18:00:00", cfg.Attendance.EarlyLeaveCutoff)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "APP_PORT", "eighty"},
		{"holiday flag", "HOLIDAY_API_ENABLED", "maybe"},
		{"holiday timeout", "HOLIDAY_API_TIMEOUT", "soon"},
		{"timezone", "APP_TIMEZONE", "Mars/Olympus"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", "memory")
			t.Setenv("JWT_SECRET_KEY", "test-secret")
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	cfg := &Config{App: AppConfig{LogLevel: "DEBUG"}}
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg.App.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestConfig_CORSOrigins(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
}
