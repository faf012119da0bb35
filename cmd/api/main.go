package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imovia_backend/internal/audit"
	"imovia_backend/internal/email"
	"imovia_backend/internal/events"
	apphttp "imovia_backend/internal/http"
	"imovia_backend/internal/http/router"
	"imovia_backend/internal/leads"
	"imovia_backend/internal/matching"
	matchinghandler "imovia_backend/internal/matching/handler"
	"imovia_backend/internal/matching/notifier"
	"imovia_backend/internal/properties"
	"imovia_backend/internal/scheduler"
	"imovia_backend/internal/whatsapp"
	"imovia_backend/platform/config"
	"imovia_backend/platform/db"
	"imovia_backend/platform/logger"
	"imovia_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	jobClient, closeJobClient := initJobClient(cfg, log)
	if closeJobClient != nil {
		defer closeJobClient()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Notification channels. Either may be absent; the notifier skips
	// channels the tenant cannot receive.
	var whatsappSender notifier.WhatsAppSender
	if client := whatsapp.NewClient(cfg, log); client != nil {
		whatsappSender = client
		log.Info("whatsapp gateway enabled", "url", cfg.WhatsAppURL)
	} else {
		log.Warn("WHATSAPP_API_URL not configured; whatsapp notifications disabled")
	}

	var emailSender notifier.EmailSender
	if sender := email.NewSMTPSender(cfg); sender != nil {
		emailSender = sender
		log.Info("smtp sender enabled", "host", cfg.SMTPHost)
	} else {
		log.Warn("SMTP not configured; email notifications disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, val, eventBus, log)
	propertiesModule := properties.NewModule(pool, val)

	// Assign through an interface variable only when the client exists, so a
	// disabled job client stays a nil Enqueuer instead of a typed nil.
	var enqueuer matchinghandler.Enqueuer
	if jobClient != nil {
		enqueuer = jobClient
	}
	matchingModule, err := matching.NewModule(pool, val, cfg, eventBus, log, whatsappSender, emailSender, enqueuer)
	if err != nil {
		log.Error("failed to initialize matching module", "error", err)
		panic("failed to initialize matching module: " + err.Error())
	}

	auditModule := audit.NewModule(pool, log)
	auditModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			propertiesModule,
			matchingModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initJobClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background jobs disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize job client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
