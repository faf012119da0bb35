// Package audit keeps an operational history of domain events. Score changes
// and weekly sweep outcomes are written to the audit trail so tenants can be
// debugged after the fact without replaying logs.
package audit

import (
	"context"

	"imovia_backend/internal/audit/repository"
	"imovia_backend/internal/events"
	"imovia_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists audit entries.
type Store interface {
	Record(ctx context.Context, entry repository.Entry) error
}

// Module subscribes to domain events and records them.
type Module struct {
	store Store
	log   *logger.Logger
}

var _ events.Handler = (*Module)(nil)

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{
		store: repository.New(pool),
		log:   log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Lead events
	bus.Subscribe(events.LeadScored{}.EventName(), m)

	// Matching events
	bus.Subscribe(events.WeeklyMatchingCompleted{}.EventName(), m)

	m.log.Info("audit module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadScored:
		return m.handleLeadScored(ctx, e)
	case events.WeeklyMatchingCompleted:
		return m.handleWeeklyMatchingCompleted(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleLeadScored(ctx context.Context, e events.LeadScored) error {
	err := m.store.Record(ctx, repository.Entry{
		TenantID:  e.TenantID,
		EventName: e.EventName(),
		Payload: map[string]any{
			"leadId":   e.LeadID.String(),
			"score":    e.Score,
			"oldScore": e.OldScore,
		},
		OccurredAt: e.OccurredAt(),
	})
	if err != nil {
		m.log.DatabaseError("audit_record", err)
	}
	return err
}

func (m *Module) handleWeeklyMatchingCompleted(ctx context.Context, e events.WeeklyMatchingCompleted) error {
	err := m.store.Record(ctx, repository.Entry{
		TenantID:  e.TenantID,
		EventName: e.EventName(),
		Payload: map[string]any{
			"leadsAnalyzed":     e.LeadsAnalyzed,
			"propertiesScanned": e.PropertiesScanned,
			"totalMatches":      e.TotalMatches,
			"notificationsSent": e.NotificationsSent,
			"leadFailures":      e.LeadFailures,
		},
		OccurredAt: e.OccurredAt(),
	})
	if err != nil {
		m.log.DatabaseError("audit_record", err)
	}
	return err
}
