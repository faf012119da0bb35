// Package engine scores lead-property pairs. The engine is pure: it reads
// nothing, writes nothing, and always produces the same score for the same
// inputs.
package engine

import (
	"math"
	"strings"

	leaddomain "imovia_backend/internal/leads/domain"
	propdomain "imovia_backend/internal/properties/domain"
)

// Factor score returned when the lead stated no preference on that axis.
const neutralScore = 0.7

// Breakdown keys.
const (
	FactorPrice    = "price_match"
	FactorLocation = "location_match"
	FactorType     = "type_match"
	FactorSize     = "size_match"
	FactorFeatures = "features_match"
)

// similarTypes maps a desired property type to the types that are close
// enough to earn partial credit.
var similarTypes = map[string][]string{
	propdomain.TypeHouse:     {propdomain.TypeCondo},
	propdomain.TypeApartment: {propdomain.TypeStudio, propdomain.TypeLoft},
	propdomain.TypeStudio:    {propdomain.TypeApartment, propdomain.TypeLoft},
}

// Result is a scored lead-property pair. Total is the weighted composite in
// [0, 1]; Breakdown holds the unweighted per-factor scores.
type Result struct {
	Total     float64
	Breakdown map[string]float64
}

// Engine computes match scores with a fixed weight configuration.
type Engine struct {
	cfg Config
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Score computes the compatibility between a lead's preferences and a
// property's attributes.
func (e *Engine) Score(lead leaddomain.Lead, property propdomain.Property) Result {
	breakdown := map[string]float64{
		FactorPrice:    scorePrice(lead, property),
		FactorLocation: scoreLocation(lead, property),
		FactorType:     scoreType(lead, property),
		FactorSize:     scoreSize(lead, property),
		FactorFeatures: scoreFeatures(lead, property),
	}

	total := breakdown[FactorPrice]*e.cfg.PriceWeight +
		breakdown[FactorLocation]*e.cfg.LocationWeight +
		breakdown[FactorType]*e.cfg.TypeWeight +
		breakdown[FactorSize]*e.cfg.SizeWeight +
		breakdown[FactorFeatures]*e.cfg.FeaturesWeight

	return Result{Total: total, Breakdown: breakdown}
}

// scorePrice degrades linearly as the price leaves the budget window in
// either direction. A listing far under budget usually signals a mismatch
// with what the lead is actually looking for, so it is penalized too.
func scorePrice(lead leaddomain.Lead, property propdomain.Property) float64 {
	if property.Price <= 0 {
		return 0.5
	}
	if !lead.HasBudget() {
		return neutralScore
	}

	if lead.BudgetMin != nil && property.Price < *lead.BudgetMin {
		return math.Max(0, property.Price / *lead.BudgetMin)
	}
	if lead.BudgetMax != nil && property.Price > *lead.BudgetMax {
		return math.Max(0, *lead.BudgetMax/property.Price)
	}
	return 1.0
}

// scoreLocation is binary: any preferred location appearing as a
// case-insensitive substring of the property's neighborhood, city, or
// address is a hit.
func scoreLocation(lead leaddomain.Lead, property propdomain.Property) float64 {
	if len(lead.PreferredLocations) == 0 {
		return neutralScore
	}

	candidates := []string{property.City}
	if property.Neighborhood != nil {
		candidates = append(candidates, *property.Neighborhood)
	}
	if property.Address != nil {
		candidates = append(candidates, *property.Address)
	}

	for _, pref := range lead.PreferredLocations {
		prefLower := strings.ToLower(pref)
		for _, candidate := range candidates {
			if candidate != "" && strings.Contains(strings.ToLower(candidate), prefLower) {
				return 1.0
			}
		}
	}
	return 0.0
}

func scoreType(lead leaddomain.Lead, property propdomain.Property) float64 {
	if len(lead.PropertyTypeInterest) == 0 {
		return neutralScore
	}

	for _, want := range lead.PropertyTypeInterest {
		if property.PropertyType == want {
			return 1.0
		}
	}

	for _, want := range lead.PropertyTypeInterest {
		for _, similar := range similarTypes[want] {
			if property.PropertyType == similar {
				return 0.7
			}
		}
	}
	return 0.0
}

// scoreSize averages the bedroom and area sub-factors. A sub-factor only
// participates when both the preference and the property attribute are
// present, so missing data never drags the average down.
func scoreSize(lead leaddomain.Lead, property propdomain.Property) float64 {
	var scores []float64

	if lead.Preferences.Bedrooms != nil && property.Bedrooms != nil {
		diff := *property.Bedrooms - *lead.Preferences.Bedrooms
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			scores = append(scores, 1.0)
		case 1:
			scores = append(scores, 0.7)
		default:
			scores = append(scores, 0.3)
		}
	}

	hasAreaPref := lead.Preferences.MinArea != nil || lead.Preferences.MaxArea != nil
	if hasAreaPref && property.TotalArea != nil && *property.TotalArea > 0 {
		area := *property.TotalArea
		minArea := 0.0
		if lead.Preferences.MinArea != nil {
			minArea = *lead.Preferences.MinArea
		}
		maxArea := math.Inf(1)
		if lead.Preferences.MaxArea != nil {
			maxArea = *lead.Preferences.MaxArea
		}

		switch {
		case area >= minArea && area <= maxArea:
			scores = append(scores, 1.0)
		case area < minArea:
			scores = append(scores, math.Max(0, area/minArea))
		default:
			scores = append(scores, math.Max(0, maxArea/area))
		}
	}

	if len(scores) == 0 {
		return neutralScore
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// scoreFeatures is the fraction of desired features present on the property,
// counting amenities as features. Comparison is exact, so stored tags must
// share a vocabulary with lead preferences.
func scoreFeatures(lead leaddomain.Lead, property propdomain.Property) float64 {
	desired := lead.Preferences.DesiredFeatures
	if len(desired) == 0 {
		return neutralScore
	}

	available := make(map[string]struct{})
	for _, f := range property.AllFeatures() {
		available[f] = struct{}{}
	}

	seen := make(map[string]struct{}, len(desired))
	matched := 0
	unique := 0
	for _, want := range desired {
		if _, dup := seen[want]; dup {
			continue
		}
		seen[want] = struct{}{}
		unique++
		if _, ok := available[want]; ok {
			matched++
		}
	}

	return float64(matched) / float64(unique)
}
