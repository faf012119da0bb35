// Package repository provides persistence for tenant accounts.
package repository

import (
	"context"
	"errors"

	"imovia_backend/internal/tenants/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("tenant not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantColumns = `
	id, name, email, phone, company_name, whatsapp_instance_key,
	status, is_active, created_at, updated_at`

// GetByID loads a tenant account.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	var t domain.Tenant
	err := r.pool.QueryRow(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Name, &t.Email, &t.Phone, &t.CompanyName, &t.WhatsAppInstanceKey,
		&t.Status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Tenant{}, ErrNotFound
	}
	if err != nil {
		return domain.Tenant{}, err
	}
	return t, nil
}

// ListActive returns every active tenant, used by the scheduler to fan the
// weekly sweep out across accounts.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE is_active AND status = $1
		ORDER BY created_at ASC
	`, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := make([]domain.Tenant, 0)
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Email, &t.Phone, &t.CompanyName, &t.WhatsAppInstanceKey,
			&t.Status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return tenants, nil
}
