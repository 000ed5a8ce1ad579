package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":              "",
		"APP_ENV":           "",
		"PUBLIC_BASE_URL":   "",
		"STCPAY_SESSION_TTL": "",
		"TABBY_SESSION_TTL": "",
		"RATE_LIMIT_MAX":    "",
	})
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "development", cfg.AppEnv)
	require.False(t, cfg.IsProduction())
	require.Equal(t, 15*time.Minute, cfg.STCPaySessionTTL)
	require.Equal(t, 30*time.Minute, cfg.TabbySessionTTL)
	require.Equal(t, 100, cfg.RateLimitMax)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                 "3000",
		"APP_ENV":              "production",
		"PUBLIC_BASE_URL":      "https://pay.example.com/",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com",
		"STCPAY_SESSION_TTL":   "5m",
		"RATE_LIMIT_MAX":       "10",
		"CREDIT_CARD_API_KEY":  "cc_custom_key",
	})
	require.NoError(t, err)
	require.Equal(t, ":3000", cfg.HTTPAddr())
	require.True(t, cfg.IsProduction())
	require.Equal(t, "https://pay.example.com", cfg.PublicBaseURL, "trailing slash is trimmed")
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 5*time.Minute, cfg.STCPaySessionTTL)
	require.Equal(t, 10, cfg.RateLimitMax)
	require.Equal(t, "cc_custom_key", cfg.CreditCardAPIKey)
}

func TestBadDurationFallsBack(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"TABBY_SESSION_TTL": "not-a-duration",
	})
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cfg.TabbySessionTTL)
}
