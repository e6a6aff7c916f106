package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FOODIEHAVEN_APP_ENV", "dev")
	t.Setenv("FOODIEHAVEN_APP_PORT", "8080")
	t.Setenv("FOODIEHAVEN_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FOODIEHAVEN_JWT_SECRET", "secret")
	t.Setenv("FOODIEHAVEN_JWT_ISSUER", "foodiehaven")
	t.Setenv("FOODIEHAVEN_DB_DSN", "host=localhost user=app dbname=app")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsDev())
	assert.False(t, cfg.App.IsProd())
	assert.Equal(t, 150, cfg.Checkout.DeliveryFee)
	assert.Equal(t, 50, cfg.Checkout.ServiceFee)
	assert.Equal(t, 720, cfg.JWT.ExpirationMinutes)
	assert.False(t, cfg.PubSub.Enabled)
}

func TestLoadBuildsDSNFromParts(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FOODIEHAVEN_DB_DSN", "")
	t.Setenv("FOODIEHAVEN_DB_HOST", "db.internal")
	t.Setenv("FOODIEHAVEN_DB_USER", "app")
	t.Setenv("FOODIEHAVEN_DB_NAME", "foodiehaven")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.DB.DSN, "host=db.internal")
	assert.Contains(t, cfg.DB.DSN, "dbname=foodiehaven")
}

func TestLoadFailsWithoutDSNParts(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FOODIEHAVEN_DB_DSN", "")

	_, err := Load()
	require.Error(t, err)
}
