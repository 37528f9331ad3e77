package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarigama-yerra/checkout-api/internal/checkout"
	"github.com/sarigama-yerra/checkout-api/internal/config"
	"github.com/sarigama-yerra/checkout-api/internal/health"
	"github.com/sarigama-yerra/checkout-api/internal/obs"
	"github.com/sarigama-yerra/checkout-api/internal/paypal"
	"github.com/sarigama-yerra/checkout-api/internal/pricing"
	"github.com/sarigama-yerra/checkout-api/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "checkout")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "checkout-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	payPalClient, err := paypal.NewClient(paypal.Config{
		BaseURL:      cfg.PayPalBaseURL,
		ClientID:     cfg.PayPalClientID,
		Secret:       cfg.PayPalSecret,
		TokenTimeout: cfg.PayPalTokenTimeout,
		OrderTimeout: cfg.PayPalOrderTimeout,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise paypal client")
	}
	if !payPalClient.Configured() {
		logger.Warn().Msg("paypal credentials not set; checkout endpoints will fail until configured")
	}

	engine := pricing.NewEngine()
	pricingHandler := &pricing.Handler{Engine: engine}
	checkoutHandler := &checkout.Handler{Svc: &checkout.Service{
		Engine:  engine,
		Gateway: payPalClient,
		Log:     logger,
	}}
	healthHandler := health.Handler{Checker: payPalClient}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, nil)
	}

	limitMiddleware, err := ratelimit.NewMiddleware(cfg.RateLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	// Wide-open CORS: any origin may call this API. Callers must not rely on
	// origin restriction.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/", healthHandler.Root)
	r.Get("/test", healthHandler.Diagnostics)
	r.Get("/health/live", healthHandler.Live)

	r.Route("/api", func(api chi.Router) {
		api.Use(limitMiddleware)
		api.Post("/calculate-pricing", pricingHandler.Calculate)
		api.Route("/checkout", func(co chi.Router) {
			co.Post("/create-order", checkoutHandler.CreateOrder)
			co.Post("/capture-order", checkoutHandler.CaptureOrder)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Str("paypal_base", cfg.PayPalBaseURL).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}
