package scheduler

import (
	"context"
	"time"

	tenantsrepo "imovia_backend/internal/tenants/repository"
	"imovia_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultWeeklySweepInterval = 7 * 24 * time.Hour

// WeeklySweep fans out one weekly matching job per active tenant on a
// fixed interval. The jobs themselves run on the asynq worker.
type WeeklySweep struct {
	tenants  *tenantsrepo.Repository
	client   *Client
	log      *logger.Logger
	interval time.Duration
}

func NewWeeklySweep(pool *pgxpool.Pool, client *Client, log *logger.Logger, interval time.Duration) *WeeklySweep {
	if interval <= 0 {
		interval = defaultWeeklySweepInterval
	}

	return &WeeklySweep{
		tenants:  tenantsrepo.New(pool),
		client:   client,
		log:      log,
		interval: interval,
	}
}

func (s *WeeklySweep) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *WeeklySweep) sweep(ctx context.Context) {
	tenants, err := s.tenants.ListActive(ctx)
	if err != nil {
		s.log.Warn("weekly sweep fan-out failed to list tenants", "error", err)
		return
	}

	enqueued := 0
	for _, tenant := range tenants {
		// Rescore first so the sweep matches against fresh scores. The
		// recency factors decay over time even without new writes.
		if err := s.client.EnqueueLeadRescore(ctx, tenant.ID); err != nil {
			s.log.Warn("weekly rescore enqueue failed", "tenant_id", tenant.ID, "error", err)
		}
		if err := s.client.EnqueueWeeklyMatching(ctx, tenant.ID, nil); err != nil {
			s.log.Warn("weekly sweep enqueue failed", "tenant_id", tenant.ID, "error", err)
			continue
		}
		enqueued++
	}

	s.log.Info("weekly sweep fan-out done", "tenants", len(tenants), "enqueued", enqueued)
}
