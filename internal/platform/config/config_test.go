package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 64, cfg.FormNumber.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.FormNumber.MigrationTimeout)
	assert.Equal(t, 8*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.RateLimit.PublicWrites)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LEADCRM_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")
	t.Setenv("FORM_NUMBER_MAX_ATTEMPTS", "12")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 12, cfg.FormNumber.MaxAttempts)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	t.Run("production refuses the development signing key", func(t *testing.T) {
		t.Setenv("LEADCRM_ENV", "production")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("attempt budget must be positive", func(t *testing.T) {
		t.Setenv("FORM_NUMBER_MAX_ATTEMPTS", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_PUBLIC_WRITES", "-1")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short signing key", func(t *testing.T) {
		t.Setenv("JWT_SIGNING_KEY", "short")
		_, err := Load()
		assert.Error(t, err)
	})
}
