package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/payment-simulator/internal/admin"
	"github.com/noah-isme/payment-simulator/internal/apikey"
	"github.com/noah-isme/payment-simulator/internal/common"
	"github.com/noah-isme/payment-simulator/internal/config"
	"github.com/noah-isme/payment-simulator/internal/creditcard"
	"github.com/noah-isme/payment-simulator/internal/health"
	"github.com/noah-isme/payment-simulator/internal/obs"
	"github.com/noah-isme/payment-simulator/internal/ratelimit"
	"github.com/noah-isme/payment-simulator/internal/security"
	"github.com/noah-isme/payment-simulator/internal/session"
	"github.com/noah-isme/payment-simulator/internal/stcpay"
	"github.com/noah-isme/payment-simulator/internal/tabby"
	"github.com/noah-isme/payment-simulator/internal/verify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName: "payment-simulator",
			Endpoint:    cfg.OTLPEndpoint,
			Exporter:    envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			Environment: cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			cfg.TracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	store := session.NewStore()
	registry := apikey.NewRegistry(cfg.CreditCardAPIKey, cfg.STCPayAPIKey, cfg.TabbyAPIKey)
	gate := apikey.Gate{Registry: registry}

	stcHandler := &stcpay.Handler{Store: store, PublicBaseURL: cfg.PublicBaseURL, SessionTTL: cfg.STCPaySessionTTL}
	tabbyHandler := &tabby.Handler{Store: store, PublicBaseURL: cfg.PublicBaseURL, SessionTTL: cfg.TabbySessionTTL}
	cardHandler := &creditcard.Handler{PublicBaseURL: cfg.PublicBaseURL}
	verifyHandler := &verify.Handler{Store: store}
	adminHandler := &admin.Handler{Registry: registry, Log: logger}
	healthHandler := health.Handler{}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, buckets, nil)
	}

	limiter := ratelimit.Handler{
		Limiter: ratelimit.NewMemoryLimiter("ratelimit:"),
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter")
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(recoverJSON(logger))
	r.Use(obs.RoutePatternMiddleware)
	if cfg.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.IsProduction()}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		common.JSONError(w, http.StatusNotFound, "Endpoint not found",
			fmt.Sprintf("The requested endpoint %s %s does not exist", req.Method, req.URL.Path))
	})

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/", landingPage)
	r.Get("/api", apiIndex)
	r.Get("/health", healthHandler.Status)
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(limiter.Middleware)
		v.Use(gate.RequireKey)

		v.Route("/creditcard", func(cc chi.Router) {
			cc.Post("/payment-intent", cardHandler.PaymentIntent)
			cc.Get("/payment/{paymentId}", cardHandler.PaymentStatus)
			cc.Post("/callback", cardHandler.Callback)
			cc.Post("/refund", cardHandler.Refund)
		})

		v.Route("/stcpay", func(s chi.Router) {
			s.Post("/payment", stcHandler.Payment)
			s.Post("/verify-otp", stcHandler.VerifyOTP)
			s.Get("/payment/{paymentId}", stcHandler.PaymentStatus)
			s.Post("/callback", stcHandler.Callback)
			s.Post("/refund", stcHandler.Refund)
		})

		v.Route("/tabby", func(tb chi.Router) {
			tb.Post("/checkout", tabbyHandler.Checkout)
			tb.Post("/capture", tabbyHandler.Capture)
			tb.Get("/payment/{paymentId}", tabbyHandler.PaymentStatus)
			tb.Post("/callback", tabbyHandler.Callback)
			tb.Post("/refund", tabbyHandler.Refund)
			tb.Post("/close", tabbyHandler.Close)
		})
	})

	r.Route("/verify", func(vr chi.Router) {
		vr.Use(security.VerifyPageCSP)
		vr.Get("/{method}/{sessionID}", verifyHandler.Page)
		vr.Post("/approve/{sessionID}", verifyHandler.Approve)
	})

	r.Route("/admin", func(a chi.Router) {
		a.Get("/", adminHandler.Dashboard)
		a.Get("/api-keys", adminHandler.ListKeys)
		a.Put("/api-keys", adminHandler.UpdateKey)
		a.Post("/api-keys/regenerate", adminHandler.RegenerateKey)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	<-ctx.Done()
	health.SetReady(false)
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

// recoverJSON turns panics into the simulator's JSON error envelope.
func recoverJSON(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("handler panic")
					common.JSONError(w, http.StatusInternalServerError, "Internal server error", "")
				}
			}()
			next.ServeHTTP(w, r)
		})
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
