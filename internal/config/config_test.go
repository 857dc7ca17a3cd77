package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ANONYMIZATION_SALT", "test-salt")
	t.Setenv("AUTH_GOOGLE_JWT_SECRET", "google-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "workvoice", cfg.MongoDatabase)
	assert.Equal(t, "companies", cfg.CompanyCollection)
	assert.Equal(t, "reviews", cfg.ReviewCollection)
	assert.Equal(t, "review_histories", cfg.ReviewHistoryCollection)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, "test-salt", cfg.AnonymizationSalt)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.ReviewSubmitPerMinute)
	assert.Equal(t, 3, cfg.ReviewSubmitBurst)
	assert.Contains(t, cfg.CrawlerUserAgents, "googlebot")
	require.NotNil(t, cfg.ServerLog)
}

func TestLoad_JWTConfigs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_LINE_JWT_SECRET", "line-secret")
	t.Setenv("AUTH_LINE_JWT_ISSUER", "https://access.line.me")
	t.Setenv("AUTH_JWT_AUDIENCE", "workvoice-api")

	cfg := Load()

	require.Len(t, cfg.JWTConfigs, 2)
	assert.Equal(t, "workvoice-auth", cfg.JWTConfigs[0].Issuer)
	assert.Equal(t, []byte("google-secret"), cfg.JWTConfigs[0].Secret)
	assert.Equal(t, "https://access.line.me", cfg.JWTConfigs[1].Issuer)
	assert.Equal(t, "workvoice-api", cfg.JWTAudience)
}

func TestLoad_EmptySaltIsAccepted(t *testing.T) {
	t.Setenv("ANONYMIZATION_SALT", "")
	t.Setenv("AUTH_GOOGLE_JWT_SECRET", "google-secret")

	cfg := Load()

	assert.Empty(t, cfg.AnonymizationSalt)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "30s")
	t.Setenv("CRAWLER_USER_AGENTS", "mybot, otherbot ,")
	t.Setenv("API_ALLOWED_ORIGINS", "https://workvoice.example")
	t.Setenv("REVIEW_SUBMIT_PER_MINUTE", "10")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"mybot", "otherbot"}, cfg.CrawlerUserAgents)
	assert.Equal(t, []string{"https://workvoice.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 10, cfg.ReviewSubmitPerMinute)
}

func TestParsePositiveInt_RejectsGarbage(t *testing.T) {
	t.Setenv("REVIEW_SUBMIT_PER_MINUTE", "-5")
	assert.Equal(t, 3, parsePositiveInt("REVIEW_SUBMIT_PER_MINUTE", 3))

	t.Setenv("REVIEW_SUBMIT_PER_MINUTE", "abc")
	assert.Equal(t, 3, parsePositiveInt("REVIEW_SUBMIT_PER_MINUTE", 3))
}
