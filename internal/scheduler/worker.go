package scheduler

import (
	"context"
	"fmt"

	"imovia_backend/internal/leads/scoring"
	matchingservice "imovia_backend/internal/matching/service"
	"imovia_backend/platform/config"
	"imovia_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes background jobs: weekly matching sweeps and tenant-wide
// lead rescores.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	matching *matchingservice.Service
	scoring  *scoring.Service
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, matching *matchingservice.Service, scorer *scoring.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		matching: matching,
		scoring:  scorer,
		log:      log,
	}

	mux.HandleFunc(TaskWeeklyMatching, w.handleWeeklyMatching)
	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)

	return w, nil
}

func (w *Worker) handleWeeklyMatching(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWeeklyMatchingPayload(task)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return err
	}

	propertyIDs := make([]uuid.UUID, 0, len(payload.PropertyIDs))
	for _, raw := range payload.PropertyIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		propertyIDs = append(propertyIDs, id)
	}

	summary, err := w.matching.RunWeeklyMatching(ctx, tenantID, propertyIDs)
	if err != nil {
		w.log.Error("weekly matching task failed", "tenant_id", tenantID, "error", err)
		return err
	}

	w.log.Info("weekly matching task done",
		"tenant_id", tenantID,
		"notifications_sent", summary.NotificationsSent,
		"lead_failures", summary.LeadFailures,
	)
	return nil
}

func (w *Worker) handleLeadRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescorePayload(task)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return err
	}

	updated, err := w.scoring.RecalculateAll(ctx, tenantID)
	if err != nil {
		w.log.Error("lead rescore task failed", "tenant_id", tenantID, "error", err)
		return err
	}

	w.log.Info("lead rescore task done", "tenant_id", tenantID, "updated", updated)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
