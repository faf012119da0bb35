// Package repository provides persistence for the property inventory.
package repository

import (
	"context"
	"errors"
	"time"

	"imovia_backend/internal/properties/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("property not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const propertyColumns = `
	id, tenant_id, title, description, property_type, transaction_type,
	address, neighborhood, city, bedrooms, bathrooms, total_area, price,
	features, amenities, source_url, status, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Title, &p.Description, &p.PropertyType, &p.TransactionType,
		&p.Address, &p.Neighborhood, &p.City, &p.Bedrooms, &p.Bathrooms, &p.TotalArea, &p.Price,
		&p.Features, &p.Amenities, &p.SourceURL, &p.Status, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Property{}, err
	}
	return p, nil
}

// GetByID loads one property within the given tenant scope.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (domain.Property, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)

	property, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Property{}, ErrNotFound
	}
	return property, err
}

// ListAvailable returns every active, available property of the tenant.
func (r *Repository) ListAvailable(ctx context.Context, tenantID uuid.UUID) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE tenant_id = $1 AND status = $2 AND is_active
		ORDER BY created_at ASC
	`, tenantID, domain.StatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProperties(rows)
}

// ListAvailableByIDs returns the subset of the given properties that exist,
// belong to the tenant and are still available.
func (r *Repository) ListAvailableByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE tenant_id = $1 AND id = ANY($2) AND status = $3 AND is_active
		ORDER BY created_at ASC
	`, tenantID, ids, domain.StatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProperties(rows)
}

// ListCreatedSince returns available properties added after the cutoff, the
// default candidate set for the weekly sweep.
func (r *Repository) ListCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE tenant_id = $1 AND status = $2 AND is_active AND created_at >= $3
		ORDER BY created_at ASC
	`, tenantID, domain.StatusAvailable, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProperties(rows)
}

// CountAvailable counts the tenant's active, available properties.
func (r *Repository) CountAvailable(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM properties
		WHERE tenant_id = $1 AND status = $2 AND is_active
	`, tenantID, domain.StatusAvailable).Scan(&count)
	return count, err
}

func collectProperties(rows pgx.Rows) ([]domain.Property, error) {
	properties := make([]domain.Property, 0)
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return properties, nil
}

// CreatePropertyParams holds the attributes for a new listing.
type CreatePropertyParams struct {
	TenantID        uuid.UUID
	Title           string
	Description     *string
	PropertyType    string
	TransactionType *string
	Address         *string
	Neighborhood    *string
	City            string
	Bedrooms        *int
	Bathrooms       *int
	TotalArea       *float64
	Price           float64
	Features        []string
	Amenities       []string
	SourceURL       *string
}

// Create inserts a new available listing.
func (r *Repository) Create(ctx context.Context, params CreatePropertyParams) (domain.Property, error) {
	features := params.Features
	if features == nil {
		features = []string{}
	}
	amenities := params.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO properties (
			tenant_id, title, description, property_type, transaction_type,
			address, neighborhood, city, bedrooms, bathrooms, total_area, price,
			features, amenities, source_url, status, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, true)
		RETURNING `+propertyColumns+`
	`,
		params.TenantID, params.Title, params.Description, params.PropertyType, params.TransactionType,
		params.Address, params.Neighborhood, params.City, params.Bedrooms, params.Bathrooms,
		params.TotalArea, params.Price, features, amenities, params.SourceURL, domain.StatusAvailable,
	)

	return scanProperty(row)
}

// UpdateStatus transitions a property's availability status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status string) (domain.Property, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE properties
		SET status = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+propertyColumns+`
	`, id, tenantID, status)

	property, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Property{}, ErrNotFound
	}
	return property, err
}
