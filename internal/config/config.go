package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DefaultPayPalBaseURL points at the PayPal sandbox environment.
const DefaultPayPalBaseURL = "https://api-m.sandbox.paypal.com"

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	PayPalBaseURL      string
	PayPalClientID     string
	PayPalSecret       string
	PayPalTokenTimeout time.Duration
	PayPalOrderTimeout time.Duration
	RateLimit          string
}

// Load reads configuration from environment variables and optional .env files.
// PayPal credentials are not required here: the server can boot without them
// and serve pricing traffic, while checkout endpoints fail with a
// configuration error until credentials are set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8000"),
		PayPalBaseURL:      strings.TrimRight(valueOrDefault(k.String("PAYPAL_BASE_URL"), DefaultPayPalBaseURL), "/"),
		PayPalClientID:     strings.TrimSpace(k.String("PAYPAL_CLIENT_ID")),
		PayPalSecret:       strings.TrimSpace(k.String("PAYPAL_SECRET")),
		PayPalTokenTimeout: parseDuration(k.String("PAYPAL_TOKEN_TIMEOUT"), "15s"),
		PayPalOrderTimeout: parseDuration(k.String("PAYPAL_ORDER_TIMEOUT"), "20s"),
		RateLimit:          valueOrDefault(k.String("RATE_LIMIT"), "120-M"),
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// PayPalConfigured reports whether both provider credentials are present.
func (c *Config) PayPalConfigured() bool {
	return c.PayPalClientID != "" && c.PayPalSecret != ""
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
