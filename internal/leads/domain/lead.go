// Package domain holds the lead entity and its pure business rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead lifecycle statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusNurturing = "nurturing"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

// MatchableStatuses are the statuses in which a lead is still shopping and
// therefore a candidate for property matching.
var MatchableStatuses = []string{StatusNew, StatusContacted, StatusQualified}

// High-quality acquisition channels for lead scoring.
var HighQualitySources = []string{"website", "referral", "agent"}

// Preferences is the typed form of the lead's free-form preference map.
// Every field is optional; an absent field means "no stated preference" and
// scores the neutral default during matching.
type Preferences struct {
	Bedrooms        *int     `json:"bedrooms,omitempty"`
	MinArea         *float64 `json:"min_area,omitempty"`
	MaxArea         *float64 `json:"max_area,omitempty"`
	DesiredFeatures []string `json:"desired_features,omitempty"`
}

// IsEmpty reports whether the lead stated no preference at all.
func (p Preferences) IsEmpty() bool {
	return p.Bedrooms == nil && p.MinArea == nil && p.MaxArea == nil && len(p.DesiredFeatures) == 0
}

// Lead is a prospective customer captured by the system, with contact info
// and stated or inferred property preferences.
type Lead struct {
	ID       uuid.UUID
	TenantID uuid.UUID

	Name       *string
	Phone      string
	Email      *string
	WhatsAppID *string

	Preferences          Preferences
	BudgetMin            *float64
	BudgetMax            *float64
	PreferredLocations   []string
	PropertyTypeInterest []string

	Score        int
	ScoreFactors map[string]bool

	Status             string
	QualificationNotes *string
	Source             *string

	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastContactAt *time.Time
	ConvertedAt   *time.Time
}

// HasBudget reports whether the lead stated at least one budget bound.
func (l Lead) HasBudget() bool {
	return l.BudgetMin != nil || l.BudgetMax != nil
}

// HasPreferenceSignal reports whether the lead carries any signal the
// matching sweep can act on: a budget, a location, or a type interest.
func (l Lead) HasPreferenceSignal() bool {
	return l.HasBudget() || len(l.PreferredLocations) > 0 || len(l.PropertyTypeInterest) > 0
}

// HasHighQualitySource reports whether the lead came through one of the
// acquisition channels that historically convert best.
func (l Lead) HasHighQualitySource() bool {
	if l.Source == nil {
		return false
	}
	for _, s := range HighQualitySources {
		if *l.Source == s {
			return true
		}
	}
	return false
}

// DisplayName returns the lead's name or a placeholder for unnamed leads.
func (l Lead) DisplayName() string {
	if l.Name != nil && *l.Name != "" {
		return *l.Name
	}
	return "Sem nome"
}
