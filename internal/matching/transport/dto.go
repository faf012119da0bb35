package transport

import (
	"math"
	"time"

	leaddomain "imovia_backend/internal/leads/domain"
	"imovia_backend/internal/matching/service"

	"github.com/google/uuid"
)

// FindPropertiesRequest is the request body for matching properties to a lead.
type FindPropertiesRequest struct {
	LeadID   uuid.UUID `json:"leadId" validate:"required"`
	Limit    int       `json:"limit" validate:"omitempty,min=1,max=100"`
	MinScore *float64  `json:"minScore" validate:"omitempty,min=0,max=1"`
}

// FindLeadsRequest is the request body for matching leads to a property.
type FindLeadsRequest struct {
	PropertyID uuid.UUID `json:"propertyId" validate:"required"`
	Limit      int       `json:"limit" validate:"omitempty,min=1,max=100"`
	MinScore   *float64  `json:"minScore" validate:"omitempty,min=0,max=1"`
}

// TestMatchRequest is the request body for scoring one explicit pair.
type TestMatchRequest struct {
	LeadID     uuid.UUID `json:"leadId" validate:"required"`
	PropertyID uuid.UUID `json:"propertyId" validate:"required"`
}

// RunWeeklyMatchingRequest optionally narrows the sweep to specific listings.
type RunWeeklyMatchingRequest struct {
	PropertyIDs []uuid.UUID `json:"propertyIds,omitempty" validate:"omitempty,max=500"`
}

// PropertyLocation describes where a matched property is.
type PropertyLocation struct {
	Address      *string `json:"address"`
	Neighborhood *string `json:"neighborhood"`
	City         string  `json:"city"`
}

// PropertyDetails describes a matched property's physical attributes.
type PropertyDetails struct {
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`
	Area         *float64 `json:"area"`
	PropertyType string   `json:"propertyType"`
}

// PropertyMatchResponse is one scored property in a find-properties result.
type PropertyMatchResponse struct {
	PropertyID     uuid.UUID          `json:"propertyId"`
	Title          string             `json:"title"`
	Price          float64            `json:"price"`
	Location       PropertyLocation   `json:"location"`
	Details        PropertyDetails    `json:"details"`
	MatchScore     float64            `json:"matchScore"`
	ScoreBreakdown map[string]float64 `json:"scoreBreakdown"`
	SourceURL      *string            `json:"sourceUrl"`
}

// FindPropertiesResponse is the find-properties result envelope.
type FindPropertiesResponse struct {
	LeadID       uuid.UUID               `json:"leadId"`
	Matches      []PropertyMatchResponse `json:"matches"`
	TotalMatches int                     `json:"totalMatches"`
}

// LeadPreferences echoes the matched lead's stated preferences.
type LeadPreferences struct {
	BudgetMin          *float64 `json:"budgetMin"`
	BudgetMax          *float64 `json:"budgetMax"`
	PreferredLocations []string `json:"preferredLocations"`
	PropertyTypes      []string `json:"propertyTypes"`
	Bedrooms           *int     `json:"bedrooms"`
	MinArea            *float64 `json:"minArea"`
	MaxArea            *float64 `json:"maxArea"`
	DesiredFeatures    []string `json:"desiredFeatures"`
}

// LeadMatchResponse is one scored lead in a find-leads result.
type LeadMatchResponse struct {
	LeadID         uuid.UUID          `json:"leadId"`
	Name           *string            `json:"name"`
	Phone          string             `json:"phone"`
	Email          *string            `json:"email"`
	Preferences    LeadPreferences    `json:"preferences"`
	MatchScore     float64            `json:"matchScore"`
	ScoreBreakdown map[string]float64 `json:"scoreBreakdown"`
	LeadStatus     string             `json:"leadStatus"`
	LastContact    *time.Time         `json:"lastContact"`
}

// FindLeadsResponse is the find-leads result envelope.
type FindLeadsResponse struct {
	PropertyID   uuid.UUID           `json:"propertyId"`
	Matches      []LeadMatchResponse `json:"matches"`
	TotalMatches int                 `json:"totalMatches"`
}

// TestMatchResponse is the full detail for one scored pair.
type TestMatchResponse struct {
	Lead            TestMatchLead      `json:"lead"`
	Property        TestMatchProperty  `json:"property"`
	MatchScore      float64            `json:"matchScore"`
	ScoreBreakdown  map[string]float64 `json:"scoreBreakdown"`
	MatchPercentage float64            `json:"matchPercentage"`
}

// TestMatchLead is the lead snapshot in a test-match response.
type TestMatchLead struct {
	ID          uuid.UUID       `json:"id"`
	Name        *string         `json:"name"`
	Preferences LeadPreferences `json:"preferences"`
}

// TestMatchProperty is the property snapshot in a test-match response.
type TestMatchProperty struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Price    float64   `json:"price"`
	Location string    `json:"location"`
	Type     string    `json:"type"`
	Bedrooms *int      `json:"bedrooms"`
	Area     *float64  `json:"area"`
}

// StatsResponse summarizes matching readiness for the tenant.
type StatsResponse struct {
	LeadStatistics     LeadStatistics     `json:"leadStatistics"`
	PropertyStatistics PropertyStatistics `json:"propertyStatistics"`
	MatchingPotential  MatchingPotential  `json:"matchingPotential"`
}

type LeadStatistics struct {
	TotalActiveLeads      int `json:"totalActiveLeads"`
	LeadsWithPreferences  int `json:"leadsWithPreferences"`
	LeadsWithBudget       int `json:"leadsWithBudget"`
	LeadsWithLocationPref int `json:"leadsWithLocationPref"`
	LeadsWithTypePref     int `json:"leadsWithTypePref"`
}

type PropertyStatistics struct {
	TotalAvailable int `json:"totalAvailable"`
}

type MatchingPotential struct {
	MaxPossibleMatches       int `json:"maxPossibleMatches"`
	AveragePropertiesPerLead int `json:"averagePropertiesPerLead"`
}

// RunWeeklyMatchingResponse acknowledges an enqueued sweep.
type RunWeeklyMatchingResponse struct {
	Message     string      `json:"message"`
	TenantID    uuid.UUID   `json:"tenantId"`
	PropertyIDs []uuid.UUID `json:"propertyIds,omitempty"`
	Status      string      `json:"status"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundBreakdown(breakdown map[string]float64) map[string]float64 {
	rounded := make(map[string]float64, len(breakdown))
	for k, v := range breakdown {
		rounded[k] = round2(v)
	}
	return rounded
}

// FromPropertyMatches maps service results onto the wire format.
func FromPropertyMatches(leadID uuid.UUID, matches []service.PropertyMatch) FindPropertiesResponse {
	out := make([]PropertyMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, PropertyMatchResponse{
			PropertyID: m.Property.ID,
			Title:      m.Property.Title,
			Price:      m.Property.Price,
			Location: PropertyLocation{
				Address:      m.Property.Address,
				Neighborhood: m.Property.Neighborhood,
				City:         m.Property.City,
			},
			Details: PropertyDetails{
				Bedrooms:     m.Property.Bedrooms,
				Bathrooms:    m.Property.Bathrooms,
				Area:         m.Property.TotalArea,
				PropertyType: m.Property.PropertyType,
			},
			MatchScore:     round2(m.Score),
			ScoreBreakdown: roundBreakdown(m.Breakdown),
			SourceURL:      m.Property.SourceURL,
		})
	}
	return FindPropertiesResponse{LeadID: leadID, Matches: out, TotalMatches: len(out)}
}

// FromLeadMatches maps service results onto the wire format.
func FromLeadMatches(propertyID uuid.UUID, matches []service.LeadMatch) FindLeadsResponse {
	out := make([]LeadMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, LeadMatchResponse{
			LeadID:         m.Lead.ID,
			Name:           m.Lead.Name,
			Phone:          m.Lead.Phone,
			Email:          m.Lead.Email,
			Preferences:    leadPreferences(m.Lead),
			MatchScore:     round2(m.Score),
			ScoreBreakdown: roundBreakdown(m.Breakdown),
			LeadStatus:     m.Lead.Status,
			LastContact:    m.Lead.LastContactAt,
		})
	}
	return FindLeadsResponse{PropertyID: propertyID, Matches: out, TotalMatches: len(out)}
}

// FromPairResult maps a test-match detail onto the wire format.
func FromPairResult(pair service.PairResult) TestMatchResponse {
	return TestMatchResponse{
		Lead: TestMatchLead{
			ID:          pair.Lead.ID,
			Name:        pair.Lead.Name,
			Preferences: leadPreferences(pair.Lead),
		},
		Property: TestMatchProperty{
			ID:       pair.Property.ID,
			Title:    pair.Property.Title,
			Price:    pair.Property.Price,
			Location: pair.Property.Location(),
			Type:     pair.Property.PropertyType,
			Bedrooms: pair.Property.Bedrooms,
			Area:     pair.Property.TotalArea,
		},
		MatchScore:      round2(pair.Result.Total),
		ScoreBreakdown:  roundBreakdown(pair.Result.Breakdown),
		MatchPercentage: math.Round(pair.Result.Total*1000) / 10,
	}
}

// FromStats maps aggregate statistics onto the wire format.
func FromStats(stats service.Stats) StatsResponse {
	avgPerLead := 0
	if stats.LeadsWithPreferences > 0 {
		avgPerLead = stats.AvailableProperties
	}
	return StatsResponse{
		LeadStatistics: LeadStatistics{
			TotalActiveLeads:      stats.TotalActiveLeads,
			LeadsWithPreferences:  stats.LeadsWithPreferences,
			LeadsWithBudget:       stats.LeadsWithBudget,
			LeadsWithLocationPref: stats.LeadsWithLocation,
			LeadsWithTypePref:     stats.LeadsWithType,
		},
		PropertyStatistics: PropertyStatistics{
			TotalAvailable: stats.AvailableProperties,
		},
		MatchingPotential: MatchingPotential{
			MaxPossibleMatches:       stats.MaxPossibleMatches,
			AveragePropertiesPerLead: avgPerLead,
		},
	}
}

func leadPreferences(lead leaddomain.Lead) LeadPreferences {
	return LeadPreferences{
		BudgetMin:          lead.BudgetMin,
		BudgetMax:          lead.BudgetMax,
		PreferredLocations: lead.PreferredLocations,
		PropertyTypes:      lead.PropertyTypeInterest,
		Bedrooms:           lead.Preferences.Bedrooms,
		MinArea:            lead.Preferences.MinArea,
		MaxArea:            lead.Preferences.MaxArea,
		DesiredFeatures:    lead.Preferences.DesiredFeatures,
	}
}
