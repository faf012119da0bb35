// Package repository provides persistence for leads and their engagement
// signals. Every query is scoped by tenant ID; callers are responsible for
// passing the tenant they are authorized for.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"imovia_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `
	id, tenant_id, name, phone, email, whatsapp_id,
	preferences, budget_min, budget_max, preferred_locations, property_type_interest,
	score, score_factors, status, qualification_notes, source,
	created_at, updated_at, last_contact_at, converted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (domain.Lead, error) {
	var (
		lead        domain.Lead
		prefsJSON   []byte
		factorsJSON []byte
	)

	err := row.Scan(
		&lead.ID, &lead.TenantID, &lead.Name, &lead.Phone, &lead.Email, &lead.WhatsAppID,
		&prefsJSON, &lead.BudgetMin, &lead.BudgetMax, &lead.PreferredLocations, &lead.PropertyTypeInterest,
		&lead.Score, &factorsJSON, &lead.Status, &lead.QualificationNotes, &lead.Source,
		&lead.CreatedAt, &lead.UpdatedAt, &lead.LastContactAt, &lead.ConvertedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &lead.Preferences); err != nil {
			return domain.Lead{}, err
		}
	}
	if len(factorsJSON) > 0 {
		if err := json.Unmarshal(factorsJSON, &lead.ScoreFactors); err != nil {
			return domain.Lead{}, err
		}
	}

	return lead, nil
}

// GetByID loads one lead within the given tenant scope.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// ListByStatuses returns all leads of the tenant in any of the given statuses,
// in creation order.
func (r *Repository) ListByStatuses(ctx context.Context, tenantID uuid.UUID, statuses []string) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE tenant_id = $1 AND status = ANY($2)
		ORDER BY created_at ASC
	`, tenantID, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

// ListWithPreferenceSignals returns leads of the tenant in any of the given
// statuses that carry at least one matchable preference: a budget bound, a
// preferred location, or a property type interest.
func (r *Repository) ListWithPreferenceSignals(ctx context.Context, tenantID uuid.UUID, statuses []string) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE tenant_id = $1
		  AND status = ANY($2)
		  AND (
			budget_min IS NOT NULL
			OR budget_max IS NOT NULL
			OR cardinality(preferred_locations) > 0
			OR cardinality(property_type_interest) > 0
		  )
		ORDER BY created_at ASC
	`, tenantID, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

// ListAll returns every lead of the tenant in creation order.
func (r *Repository) ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

// CreateLeadParams holds the attributes for a new lead.
type CreateLeadParams struct {
	TenantID             uuid.UUID
	Name                 *string
	Phone                string
	Email                *string
	WhatsAppID           *string
	Preferences          domain.Preferences
	BudgetMin            *float64
	BudgetMax            *float64
	PreferredLocations   []string
	PropertyTypeInterest []string
	Source               *string
}

// Create inserts a new lead with status "new" and a zero score.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	prefsJSON, err := json.Marshal(params.Preferences)
	if err != nil {
		return domain.Lead{}, err
	}

	locations := params.PreferredLocations
	if locations == nil {
		locations = []string{}
	}
	typeInterest := params.PropertyTypeInterest
	if typeInterest == nil {
		typeInterest = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			tenant_id, name, phone, email, whatsapp_id,
			preferences, budget_min, budget_max, preferred_locations, property_type_interest,
			source, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+leadColumns+`
	`,
		params.TenantID, params.Name, params.Phone, params.Email, params.WhatsAppID,
		prefsJSON, params.BudgetMin, params.BudgetMax, locations, typeInterest,
		params.Source, domain.StatusNew,
	)

	return scanLead(row)
}

// UpdateStatus transitions a lead's status within the tenant scope.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status string) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+leadColumns+`
	`, id, tenantID, status)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// TouchLastContact sets the last contact timestamp to now.
func (r *Repository) TouchLastContact(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET last_contact_at = now(), updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateScore persists a recalculated quality score and the factors that
// produced it. Scores are only ever written through this method.
func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, score int, factors map[string]bool) error {
	factorsJSON, err := json.Marshal(factors)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET score = $3, score_factors = $4, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID, score, factorsJSON)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EngagementStats aggregates the conversation and appointment counts that
// feed lead scoring.
type EngagementStats struct {
	Conversations int
	Appointments  int
}

// GetEngagementStats counts conversations and appointments for a lead.
func (r *Repository) GetEngagementStats(ctx context.Context, leadID uuid.UUID, tenantID uuid.UUID) (EngagementStats, error) {
	var stats EngagementStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM conversations WHERE lead_id = $1 AND tenant_id = $2),
			(SELECT count(*) FROM appointments WHERE lead_id = $1 AND tenant_id = $2)
	`, leadID, tenantID).Scan(&stats.Conversations, &stats.Appointments)
	if err != nil {
		return EngagementStats{}, err
	}
	return stats, nil
}

// PreferenceStats counts leads by the kind of preference signal they carry,
// for the matching statistics endpoint.
type PreferenceStats struct {
	TotalActive  int
	WithAnyPref  int
	WithBudget   int
	WithLocation int
	WithType     int
}

// GetPreferenceStats aggregates preference coverage over active leads.
func (r *Repository) GetPreferenceStats(ctx context.Context, tenantID uuid.UUID, statuses []string) (PreferenceStats, error) {
	var stats PreferenceStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE budget_min IS NOT NULL OR budget_max IS NOT NULL
				OR cardinality(preferred_locations) > 0 OR cardinality(property_type_interest) > 0),
			count(*) FILTER (WHERE budget_min IS NOT NULL OR budget_max IS NOT NULL),
			count(*) FILTER (WHERE cardinality(preferred_locations) > 0),
			count(*) FILTER (WHERE cardinality(property_type_interest) > 0)
		FROM leads
		WHERE tenant_id = $1 AND status = ANY($2)
	`, tenantID, statuses).Scan(
		&stats.TotalActive, &stats.WithAnyPref, &stats.WithBudget, &stats.WithLocation, &stats.WithType,
	)
	if err != nil {
		return PreferenceStats{}, err
	}
	return stats, nil
}
