package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imovia_backend/internal/audit"
	"imovia_backend/internal/email"
	"imovia_backend/internal/events"
	"imovia_backend/internal/leads"
	"imovia_backend/internal/matching"
	"imovia_backend/internal/matching/notifier"
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

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	var whatsappSender notifier.WhatsAppSender
	if client := whatsapp.NewClient(cfg, log); client != nil {
		whatsappSender = client
	}

	var emailSender notifier.EmailSender
	if sender := email.NewSMTPSender(cfg); sender != nil {
		emailSender = sender
	}

	// Worker-side module wiring (no HTTP handlers required).
	leadsModule := leads.NewModule(pool, val, eventBus, log)
	matchingModule, err := matching.NewModule(pool, val, cfg, eventBus, log, whatsappSender, emailSender, nil)
	if err != nil {
		log.Error("failed to initialize matching module", "error", err)
		panic("failed to initialize matching module: " + err.Error())
	}

	auditModule := audit.NewModule(pool, log)
	auditModule.RegisterHandlers(eventBus)

	jobClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize job client", "error", err)
		panic("failed to initialize job client: " + err.Error())
	}
	defer func() { _ = jobClient.Close() }()

	weeklySweep := scheduler.NewWeeklySweep(pool, jobClient, log, cfg.GetWeeklySweepInterval())
	go weeklySweep.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, matchingModule.Service, leadsModule.Scoring, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
