// Package scoring computes lead quality scores from profile completeness,
// engagement, and funnel position.
package scoring

import (
	"context"
	"time"

	"imovia_backend/internal/events"
	"imovia_backend/internal/leads/domain"
	"imovia_backend/internal/leads/repository"
	"imovia_backend/platform/logger"

	"github.com/google/uuid"
)

// Points holds the contribution of each scoring factor. Partial credit for
// weaker signals is half the full value, rounded down.
type Points struct {
	Name                  int
	Email                 int
	Budget                int
	Preferences           int
	RecentContact         int
	MultipleConversations int
	Appointment           int
	Engagement            int
	QualifiedStatus       int
	SourceQuality         int
}

// DefaultPoints is the production scoring model. The totals intentionally
// exceed 100 so a strong lead saturates the scale.
func DefaultPoints() Points {
	return Points{
		Name:                  5,
		Email:                 10,
		Budget:                15,
		Preferences:           10,
		RecentContact:         20,
		MultipleConversations: 15,
		Appointment:           25,
		Engagement:            20,
		QualifiedStatus:       30,
		SourceQuality:         10,
	}
}

// Contact recency windows.
const (
	recentContactWindow  = 7 * 24 * time.Hour
	partialContactWindow = 14 * 24 * time.Hour
)

// Result holds a computed score and the factors that produced it. Factors is
// always non-nil; a key is present only when the factor fired.
type Result struct {
	Score   int
	Factors map[string]bool
}

// Interpretation maps a score onto an action bucket for the UI.
type Interpretation struct {
	Category          string `json:"category"`
	Label             string `json:"label"`
	Color             string `json:"color"`
	Priority          string `json:"priority"`
	RecommendedAction string `json:"recommended_action"`
}

// LeadStore is the persistence surface the scoring service needs.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (domain.Lead, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Lead, error)
	GetEngagementStats(ctx context.Context, leadID uuid.UUID, tenantID uuid.UUID) (repository.EngagementStats, error)
	UpdateScore(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, score int, factors map[string]bool) error
}

// Service computes and persists lead scores.
type Service struct {
	store  LeadStore
	points Points
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time
}

func New(store LeadStore, points Points, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		points: points,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// Calculate computes the score for a lead given its engagement stats. It is
// pure so the model can be exercised without a database.
func (p Points) Calculate(lead domain.Lead, stats repository.EngagementStats, now time.Time) Result {
	score := 0
	factors := map[string]bool{}

	mark := func(key string, points int) {
		score += points
		factors[key] = true
	}

	if lead.Name != nil && *lead.Name != "" {
		mark("has_name", p.Name)
	}
	if lead.Email != nil && *lead.Email != "" {
		mark("has_email", p.Email)
	}
	if lead.HasBudget() {
		mark("has_budget", p.Budget)
	}
	if !lead.Preferences.IsEmpty() {
		mark("has_preferences", p.Preferences)
	}

	if lead.LastContactAt != nil {
		sinceContact := now.Sub(*lead.LastContactAt)
		switch {
		case sinceContact <= recentContactWindow:
			mark("recent_contact", p.RecentContact)
		case sinceContact <= partialContactWindow:
			mark("recent_contact_partial", p.RecentContact/2)
		}
	}

	switch {
	case stats.Conversations >= 2:
		mark("multiple_conversations", p.MultipleConversations)
	case stats.Conversations == 1:
		mark("single_conversation", p.MultipleConversations/2)
	}

	if stats.Appointments > 0 {
		mark("appointment_scheduled", p.Appointment)
	}

	// Message-level engagement is not tracked yet, so any conversation
	// earns partial engagement credit.
	if stats.Conversations > 0 {
		mark("some_engagement", p.Engagement/2)
	}

	switch lead.Status {
	case domain.StatusQualified:
		mark("qualified_status", p.QualifiedStatus)
	case domain.StatusContacted:
		mark("contacted_status", p.QualifiedStatus/2)
	}

	if lead.HasHighQualitySource() {
		mark("high_quality_source", p.SourceQuality)
	}

	return Result{Score: clampScore(score), Factors: factors}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Recalculate recomputes and persists the score for one lead, publishing a
// scored event when the value changed.
func (s *Service) Recalculate(ctx context.Context, leadID uuid.UUID, tenantID uuid.UUID) (Result, error) {
	lead, err := s.store.GetByID(ctx, leadID, tenantID)
	if err != nil {
		return Result{}, err
	}

	stats, err := s.store.GetEngagementStats(ctx, leadID, tenantID)
	if err != nil {
		return Result{}, err
	}

	result := s.points.Calculate(lead, stats, s.now())
	if err := s.store.UpdateScore(ctx, leadID, tenantID, result.Score, result.Factors); err != nil {
		return Result{}, err
	}

	if result.Score != lead.Score {
		s.publishScored(ctx, lead, result.Score)
	}

	s.log.Info("lead score recalculated",
		"tenant_id", tenantID,
		"lead_id", leadID,
		"score", result.Score,
	)
	return result, nil
}

// RecalculateAll rescans every lead of the tenant and persists only scores
// that changed. Returns the number of leads updated.
func (s *Service) RecalculateAll(ctx context.Context, tenantID uuid.UUID) (int, error) {
	leads, err := s.store.ListAll(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, lead := range leads {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		stats, err := s.store.GetEngagementStats(ctx, lead.ID, tenantID)
		if err != nil {
			s.log.DatabaseError("lead engagement stats", err)
			continue
		}

		result := s.points.Calculate(lead, stats, s.now())
		if result.Score == lead.Score {
			continue
		}

		if err := s.store.UpdateScore(ctx, lead.ID, tenantID, result.Score, result.Factors); err != nil {
			s.log.DatabaseError("lead score update", err)
			continue
		}

		s.publishScored(ctx, lead, result.Score)
		updated++
	}

	s.log.Info("lead scores rescanned",
		"tenant_id", tenantID,
		"total_leads", len(leads),
		"updated", updated,
	)
	return updated, nil
}

func (s *Service) publishScored(ctx context.Context, lead domain.Lead, newScore int) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.NewLeadScored(lead.TenantID, lead.ID, newScore, lead.Score))
}

// Interpret maps a score onto its action bucket.
func Interpret(score int) Interpretation {
	switch {
	case score >= 80:
		return Interpretation{
			Category:          "hot",
			Label:             "Hot Lead",
			Color:             "#FF4444",
			Priority:          "high",
			RecommendedAction: "Contact immediately",
		}
	case score >= 60:
		return Interpretation{
			Category:          "warm",
			Label:             "Warm Lead",
			Color:             "#FF8800",
			Priority:          "medium",
			RecommendedAction: "Follow up within 24 hours",
		}
	case score >= 40:
		return Interpretation{
			Category:          "cool",
			Label:             "Cool Lead",
			Color:             "#4488FF",
			Priority:          "low",
			RecommendedAction: "Nurture with automated content",
		}
	default:
		return Interpretation{
			Category:          "cold",
			Label:             "Cold Lead",
			Color:             "#888888",
			Priority:          "minimal",
			RecommendedAction: "Add to long-term nurture campaign",
		}
	}
}
