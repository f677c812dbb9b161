package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/config"
	"github.com/kailas-cloud/sourcer/internal/db"
	dbBadger "github.com/kailas-cloud/sourcer/internal/db/badger"
	dbRedis "github.com/kailas-cloud/sourcer/internal/db/redis"
	logpkg "github.com/kailas-cloud/sourcer/internal/logger"
	"github.com/kailas-cloud/sourcer/internal/metrics"
	usagerepo "github.com/kailas-cloud/sourcer/internal/repository/usage"
	chiTransport "github.com/kailas-cloud/sourcer/internal/transport/chi"
	"github.com/kailas-cloud/sourcer/internal/transport/provider"
	assistuc "github.com/kailas-cloud/sourcer/internal/usecase/assist"
	batchuc "github.com/kailas-cloud/sourcer/internal/usecase/batch"
	generateuc "github.com/kailas-cloud/sourcer/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/sourcer/internal/usecase/health"
	usageuc "github.com/kailas-cloud/sourcer/internal/usecase/usage"
	"github.com/kailas-cloud/sourcer/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sourcer",
		zap.String("env", env),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
	)

	ctx := context.Background()

	store, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open counter store", zap.Error(err))
	}
	defer store.Close()

	readyTimeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readyTimeout); err != nil {
		logger.Fatal("Counter store not ready", zap.Error(err))
	}
	logger.Info("Counter store ready", zap.String("driver", cfg.Database.Driver))

	metrics.RegisterAssistMetrics()

	// Usage tracker: in-memory counters written behind to the store.
	tracker := usageuc.NewTracker(cfg.Storage.KeyPrefix, logger).
		WithStore(ctx, usagerepo.New(store, 48*time.Hour, 62*24*time.Hour))

	// Assist path (optional). Pass a nil interface, not a typed nil pointer.
	var assistSvc *assistuc.Service
	var assistChecker healthuc.AssistChecker
	if cfg.Assist.Enabled() {
		completer, model, err := provider.New(cfg.Assist)
		if err != nil {
			logger.Fatal("Failed to create assist completer", zap.Error(err))
		}
		instrumented := assistuc.NewInstrumentedCompleter(completer, cfg.Assist.Provider, model, tracker, logger)
		assistSvc = assistuc.New(instrumented, logger).WithMaxTokens(cfg.Assist.MaxTokens)
		if cfg.Assist.HealthCheck {
			assistChecker = instrumented
		}
		logger.Info("Assist enabled",
			zap.String("provider", cfg.Assist.Provider),
			zap.String("model", model),
		)
	} else {
		assistSvc = assistuc.New(nil, logger)
		logger.Info("Assist disabled, local engine only")
	}

	generateSvc := generateuc.New(assistSvc, tracker)

	batchSvc, err := batchuc.New(generateSvc, cfg.Batch.Workers)
	if err != nil {
		logger.Fatal("Failed to create batch service", zap.Error(err))
	}
	defer batchSvc.Close()
	batchSvc.WithMaxBatchSize(cfg.Batch.MaxSize)

	usageSvc := usageuc.New(tracker)
	healthSvc := healthuc.New(store, assistChecker)

	server := chiTransport.NewServer(generateSvc, batchSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.Handler(server, chiTransport.Options{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore picks the counter store backend by driver.
func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	case config.DriverBadger:
		s, err := dbBadger.Open(dbBadger.Config{Path: cfg.Path, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("badger store: %w", err)
		}
		return s, nil
	default:
		s, err := dbBadger.Open(dbBadger.Config{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("memory store: %w", err)
		}
		return s, nil
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}
			if tokens := ww.Header().Get("X-Assist-Tokens"); tokens != "" {
				fields = append(fields, zap.String("assist_tokens", tokens))
			}
			reqLogger.Info("http_request", fields...)
		})
	}
}
