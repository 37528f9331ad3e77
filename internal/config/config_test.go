package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sarigama-yerra/checkout-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":             "",
		"PAYPAL_BASE_URL":  "",
		"PAYPAL_CLIENT_ID": "",
		"PAYPAL_SECRET":    "",
	})
	require.NoError(t, err)

	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, ":8000", cfg.HTTPAddr())
	require.Equal(t, "https://api-m.sandbox.paypal.com", cfg.PayPalBaseURL)
	require.Equal(t, 15*time.Second, cfg.PayPalTokenTimeout)
	require.Equal(t, 20*time.Second, cfg.PayPalOrderTimeout)
	require.False(t, cfg.PayPalConfigured())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                 "9090",
		"PAYPAL_BASE_URL":      "https://api-m.paypal.com/",
		"PAYPAL_CLIENT_ID":     "client",
		"PAYPAL_SECRET":        "secret",
		"PAYPAL_TOKEN_TIMEOUT": "5s",
		"PAYPAL_ORDER_TIMEOUT": "30s",
	})
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "https://api-m.paypal.com", cfg.PayPalBaseURL, "trailing slash trimmed")
	require.Equal(t, 5*time.Second, cfg.PayPalTokenTimeout)
	require.Equal(t, 30*time.Second, cfg.PayPalOrderTimeout)
	require.True(t, cfg.PayPalConfigured())
}

func TestCredentialsNotRequiredAtBoot(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PAYPAL_CLIENT_ID": "client",
		"PAYPAL_SECRET":    "",
	})
	require.NoError(t, err)
	require.False(t, cfg.PayPalConfigured(), "both credentials are needed")
}
