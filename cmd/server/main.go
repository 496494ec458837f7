// Command server runs the document extraction and verification API.
// main wires dependencies and keeps the server lifecycle small; business
// logic lives in the internal feature packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"veridoc/internal/doctype"
	"veridoc/internal/extraction"
	extractionhandler "veridoc/internal/extraction/handler"
	extractionmetrics "veridoc/internal/extraction/metrics"
	httpapi "veridoc/internal/http"
	"veridoc/internal/ocr"
	"veridoc/internal/platform/config"
	"veridoc/internal/platform/httpserver"
	"veridoc/internal/platform/logger"
	platformredis "veridoc/internal/platform/redis"
	"veridoc/internal/token"
	"veridoc/internal/verify"
	verifyhandler "veridoc/internal/verify/handler"
	verifymetrics "veridoc/internal/verify/metrics"
	verifystore "veridoc/internal/verify/store"
	"veridoc/pkg/platform/audit"
	"veridoc/pkg/platform/audit/publisher"
	"veridoc/pkg/platform/middleware/auth"
	"veridoc/pkg/platform/middleware/ratelimit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx := context.Background()

	// Document type registry
	registry := doctype.Default()
	if cfg.DocTypesPath != "" {
		loaded, err := doctype.LoadYAML(cfg.DocTypesPath)
		if err != nil {
			return err
		}
		registry = loaded
		log.Info("document types loaded from file", "path", cfg.DocTypesPath, "types", registry.Keys())
	}

	// Optional Redis (extraction cache)
	var health []httpapi.HealthChecker
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	var extractionOpts []extraction.ServiceOption
	if redisClient != nil {
		defer redisClient.Close()
		extractionOpts = append(extractionOpts, extraction.WithCache(extraction.NewRedisCache(redisClient.Client, cfg.Redis.CacheTTL)))
		health = append(health, healthFunc{"redis", func() bool { return redisClient.Health(ctx) == nil }})
	}

	// Report store: Postgres when configured, in-memory otherwise
	var reportStore verify.ReportStore = verifystore.NewInMemoryStore()
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		pgStore := verifystore.NewPostgres(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return err
		}
		reportStore = pgStore
		health = append(health, healthFunc{"postgres", func() bool { return pool.Ping(ctx) == nil }})
	}

	// Audit trail: Kafka when configured, structured log otherwise
	var auditPublisher audit.Publisher = publisher.NewLog(log)
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := publisher.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		defer kafka.Close()
		auditPublisher = kafka
	}

	// Services
	engine := ocr.NewTesseract(ocr.TesseractConfig{
		Binary:      cfg.Tesseract.Binary,
		Language:    cfg.Tesseract.Language,
		TessdataDir: cfg.Tesseract.TessdataDir,
		PSM:         cfg.Tesseract.PSM,
		OEM:         cfg.Tesseract.OEM,
	}, ocr.WithLogger(log))

	extractionOpts = append(extractionOpts,
		extraction.WithLogger(log),
		extraction.WithMetrics(extractionmetrics.New()),
	)
	extractionSvc, err := extraction.NewService(registry, engine, extractionOpts...)
	if err != nil {
		return err
	}

	verifySvc, err := verify.NewService(reportStore,
		verify.WithLogger(log),
		verify.WithMetrics(verifymetrics.New()),
		verify.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return err
	}

	// Authentication
	var validator auth.TokenValidator
	switch {
	case cfg.AuthDisabled:
		log.Warn("authentication disabled")
	case cfg.JWTSigningKey == "":
		return errors.New("VERIDOC_JWT_SIGNING_KEY is required unless VERIDOC_AUTH_DISABLED=true")
	default:
		validator = token.NewJWTService(cfg.JWTSigningKey, "veridoc", "veridoc-api")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Extraction:    extractionhandler.New(extractionSvc, log),
		Verify:        verifyhandler.New(verifySvc, log),
		Validator:     validator,
		APISecretHash: cfg.APISecretHash,
		Limiter:       ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:        log,
		Health:        health,
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// healthFunc adapts a closure to the HealthChecker interface.
type healthFunc struct {
	name  string
	check func() bool
}

func (h healthFunc) Name() string  { return h.name }
func (h healthFunc) Healthy() bool { return h.check() }
