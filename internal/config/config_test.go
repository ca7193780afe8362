package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("OUTLET_ID", "OUTLET_042")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com")

	cfg := Load()
	require.NotNil(t, cfg)
	assert.Equal(t, "OUTLET_042", cfg.OutletID)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 15*time.Second, cfg.StreamPollInterval)
	assert.Equal(t, "en", cfg.DefaultLocale)
}

func TestWarnings(t *testing.T) {
	cfg := &Config{DatabaseDSN: defaultDSN, CORSOrigins: defaultCORSOrigins}
	assert.Len(t, cfg.Warnings(), 3)

	cfg = &Config{
		DatabaseDSN: "host=db user=app",
		CORSOrigins: "https://admin.example.com",
		RedisAddr:   "redis:6379",
	}
	assert.Empty(t, cfg.Warnings())
}

func TestCORSOriginList(t *testing.T) {
	cfg := &Config{CORSOrigins: " https://a.example.com, ,https://b.example.com ,"}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOriginList())
}

func TestFirebaseEnabled(t *testing.T) {
	assert.False(t, (&Config{}).FirebaseEnabled())
	assert.True(t, (&Config{FirebaseCredentialsPath: "/etc/firebase.json"}).FirebaseEnabled())
}
