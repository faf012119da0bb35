package transport

import (
	"time"

	"imovia_backend/internal/leads/domain"
	"imovia_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// CreateLeadRequest is the request body for capturing a new lead.
type CreateLeadRequest struct {
	Name                 *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone                string   `json:"phone" validate:"required,min=8,max=20"`
	Email                *string  `json:"email,omitempty" validate:"omitempty,email"`
	WhatsAppID           *string  `json:"whatsappId,omitempty" validate:"omitempty,max=100"`
	BudgetMin            *float64 `json:"budgetMin,omitempty" validate:"omitempty,gt=0"`
	BudgetMax            *float64 `json:"budgetMax,omitempty" validate:"omitempty,gt=0"`
	PreferredLocations   []string `json:"preferredLocations,omitempty" validate:"omitempty,max=20,dive,min=1,max=120"`
	PropertyTypeInterest []string `json:"propertyTypeInterest,omitempty" validate:"omitempty,max=10,dive,oneof=apartment house condo studio loft commercial land other"`
	Bedrooms             *int     `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=20"`
	MinArea              *float64 `json:"minArea,omitempty" validate:"omitempty,gt=0"`
	MaxArea              *float64 `json:"maxArea,omitempty" validate:"omitempty,gt=0"`
	DesiredFeatures      []string `json:"desiredFeatures,omitempty" validate:"omitempty,max=30,dive,min=1,max=80"`
	Source               *string  `json:"source,omitempty" validate:"omitempty,max=50"`
}

// UpdateLeadStatusRequest transitions a lead's lifecycle status.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified nurturing converted lost"`
}

// LeadPreferencesResponse echoes the lead's typed preferences.
type LeadPreferencesResponse struct {
	Bedrooms        *int     `json:"bedrooms,omitempty"`
	MinArea         *float64 `json:"minArea,omitempty"`
	MaxArea         *float64 `json:"maxArea,omitempty"`
	DesiredFeatures []string `json:"desiredFeatures,omitempty"`
}

// LeadResponse is the API representation of a lead.
type LeadResponse struct {
	ID                   uuid.UUID               `json:"id"`
	Name                 *string                 `json:"name"`
	Phone                string                  `json:"phone"`
	Email                *string                 `json:"email"`
	WhatsAppID           *string                 `json:"whatsappId"`
	Preferences          LeadPreferencesResponse `json:"preferences"`
	BudgetMin            *float64                `json:"budgetMin"`
	BudgetMax            *float64                `json:"budgetMax"`
	PreferredLocations   []string                `json:"preferredLocations"`
	PropertyTypeInterest []string                `json:"propertyTypeInterest"`
	Score                int                     `json:"score"`
	ScoreFactors         map[string]bool         `json:"scoreFactors,omitempty"`
	Status               string                  `json:"status"`
	Source               *string                 `json:"source"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
	LastContactAt        *time.Time              `json:"lastContactAt"`
}

// LeadScoreResponse couples a lead's score with its interpretation.
type LeadScoreResponse struct {
	LeadID         uuid.UUID              `json:"leadId"`
	Score          int                    `json:"score"`
	ScoreFactors   map[string]bool        `json:"scoreFactors"`
	Interpretation scoring.Interpretation `json:"interpretation"`
}

// RecalculateAllResponse reports a tenant-wide rescore.
type RecalculateAllResponse struct {
	UpdatedLeads int `json:"updatedLeads"`
}

// ListLeadsResponse is the list envelope.
type ListLeadsResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

// FromLead maps a domain lead onto the wire format.
func FromLead(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:         lead.ID,
		Name:       lead.Name,
		Phone:      lead.Phone,
		Email:      lead.Email,
		WhatsAppID: lead.WhatsAppID,
		Preferences: LeadPreferencesResponse{
			Bedrooms:        lead.Preferences.Bedrooms,
			MinArea:         lead.Preferences.MinArea,
			MaxArea:         lead.Preferences.MaxArea,
			DesiredFeatures: lead.Preferences.DesiredFeatures,
		},
		BudgetMin:            lead.BudgetMin,
		BudgetMax:            lead.BudgetMax,
		PreferredLocations:   lead.PreferredLocations,
		PropertyTypeInterest: lead.PropertyTypeInterest,
		Score:                lead.Score,
		ScoreFactors:         lead.ScoreFactors,
		Status:               lead.Status,
		Source:               lead.Source,
		CreatedAt:            lead.CreatedAt,
		UpdatedAt:            lead.UpdatedAt,
		LastContactAt:        lead.LastContactAt,
	}
}

// FromLeads maps a slice of leads onto the list envelope.
func FromLeads(leads []domain.Lead) ListLeadsResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, FromLead(lead))
	}
	return ListLeadsResponse{Leads: out, Total: len(out)}
}
