package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, AuthModeStatic, cfg.Auth.Mode)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, "secret123", cfg.Auth.Password)
	assert.False(t, cfg.Redis.Enabled())

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "taskapi", cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TASKAPI_PRIMARY.ENV", "production")
	t.Setenv("TASKAPI_SERVER.PORT", "9090")
	t.Setenv("TASKAPI_SERVER.CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TASKAPI_DATABASE.HOST", "db.internal")
	t.Setenv("TASKAPI_DATABASE.PORT", "6543")
	t.Setenv("TASKAPI_REDIS.ADDRESS", "redis:6379")
	t.Setenv("TASKAPI_AUTH.MODE", "jwt")
	t.Setenv("TASKAPI_AUTH.SECRET_KEY", "signing-key")
	t.Setenv("TASKAPI_AUTH.TOKEN_TTL", "15m")
	t.Setenv("TASKAPI_OBSERVABILITY.LOGGING.LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "taskapi", cfg.Database.Name, "unset keys keep defaults")
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, AuthModeJWT, cfg.Auth.Mode)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)

	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_InvalidAuthMode(t *testing.T) {
	t.Setenv("TASKAPI_AUTH.MODE", "basic")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfig_JWTRequiresSecret(t *testing.T) {
	t.Setenv("TASKAPI_AUTH.MODE", "jwt")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	t.Setenv("TASKAPI_OBSERVABILITY.LOGGING.LEVEL", "verbose")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level")
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  string
	}{
		{name: "production default", env: "production", want: "info"},
		{name: "development default", env: "development", want: "debug"},
		{name: "local default", env: "local", want: "debug"},
		{name: "unknown env default", env: "staging", want: "info"},
		{name: "explicit wins", env: "production", level: "error", want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultObservabilityConfig()
			cfg.Environment = tt.env
			cfg.Logging.Level = tt.level
			assert.Equal(t, tt.want, cfg.GetLogLevel())
		})
	}
}

func TestObservabilityConfig_HealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("database"))
	assert.True(t, cfg.HealthCheckEnabled("redis"))
	assert.False(t, cfg.HealthCheckEnabled("smtp"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}
