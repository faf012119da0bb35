// Package repository persists audit trail entries for domain events.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is a single recorded domain event.
type Entry struct {
	TenantID   uuid.UUID
	EventName  string
	Payload    map[string]any
	OccurredAt time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record appends an entry to the audit trail.
func (r *Repository) Record(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_events (tenant_id, event_name, payload, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, entry.TenantID, entry.EventName, payload, entry.OccurredAt)
	return err
}

// ListByTenant returns the most recent entries for a tenant, newest first.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tenant_id, event_name, payload, occurred_at
		FROM audit_events
		WHERE tenant_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var payload []byte
		if err := rows.Scan(&e.TenantID, &e.EventName, &payload, &e.OccurredAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
