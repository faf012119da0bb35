package engine

import (
	"math"
	"testing"

	leaddomain "imovia_backend/internal/leads/domain"
	propdomain "imovia_backend/internal/properties/domain"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func mustEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	return e
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default weights must sum to 1.0: %v", err)
	}

	bad := DefaultConfig()
	bad.PriceWeight = 0.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error when weights sum above 1.0")
	}

	negative := Config{PriceWeight: -0.1, LocationWeight: 0.5, TypeWeight: 0.3, SizeWeight: 0.2, FeaturesWeight: 0.1}
	if err := negative.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestScoreNeutralDefaults(t *testing.T) {
	e := mustEngine(t)

	lead := leaddomain.Lead{}
	property := propdomain.Property{
		Title:        "Apartamento Centro",
		PropertyType: propdomain.TypeApartment,
		City:         "São Paulo",
		Price:        350_000,
	}

	result := e.Score(lead, property)

	for factor, score := range result.Breakdown {
		if !almostEqual(score, 0.7) {
			t.Errorf("factor %s: expected neutral 0.7, got %v", factor, score)
		}
	}
	if !almostEqual(result.Total, 0.7) {
		t.Errorf("expected total 0.7 for preference-free lead, got %v", result.Total)
	}
}

func TestScoreDeterministicAndBounded(t *testing.T) {
	e := mustEngine(t)

	lead := leaddomain.Lead{
		BudgetMin:            floatPtr(100_000),
		BudgetMax:            floatPtr(300_000),
		PreferredLocations:   []string{"Palermo", "Recoleta"},
		PropertyTypeInterest: []string{propdomain.TypeApartment},
		Preferences: leaddomain.Preferences{
			Bedrooms:        intPtr(2),
			MinArea:         floatPtr(50),
			DesiredFeatures: []string{"piscina", "garagem"},
		},
	}
	property := propdomain.Property{
		PropertyType: propdomain.TypeHouse,
		Neighborhood: strPtr("Palermo"),
		City:         "Buenos Aires",
		Bedrooms:     intPtr(4),
		TotalArea:    floatPtr(30),
		Price:        900_000,
		Features:     []string{"garagem"},
	}

	first := e.Score(lead, property)
	second := e.Score(lead, property)

	if !almostEqual(first.Total, second.Total) {
		t.Errorf("score not deterministic: %v vs %v", first.Total, second.Total)
	}
	for factor, score := range first.Breakdown {
		if score < 0 || score > 1 {
			t.Errorf("factor %s out of bounds: %v", factor, score)
		}
		if !almostEqual(score, second.Breakdown[factor]) {
			t.Errorf("factor %s not deterministic: %v vs %v", factor, score, second.Breakdown[factor])
		}
	}
	if first.Total < 0 || first.Total > 1 {
		t.Errorf("total out of bounds: %v", first.Total)
	}
}

func TestPriceMatch(t *testing.T) {
	cases := []struct {
		name     string
		min, max *float64
		price    float64
		expected float64
	}{
		{"within budget", floatPtr(200_000), floatPtr(500_000), 300_000, 1.0},
		{"at budget max", nil, floatPtr(300_000), 300_000, 1.0},
		{"double the max", nil, floatPtr(300_000), 600_000, 0.5},
		{"half the min", floatPtr(200_000), nil, 100_000, 0.5},
		{"no budget", nil, nil, 300_000, 0.7},
		{"no price", floatPtr(200_000), floatPtr(500_000), 0, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := leaddomain.Lead{BudgetMin: tc.min, BudgetMax: tc.max}
			property := propdomain.Property{Price: tc.price}
			got := scorePrice(lead, property)
			if !almostEqual(got, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestLocationMatchCaseInsensitiveSubstring(t *testing.T) {
	lead := leaddomain.Lead{PreferredLocations: []string{"palermo"}}

	hit := propdomain.Property{Neighborhood: strPtr("Palermo Soho"), City: "Buenos Aires"}
	if got := scoreLocation(lead, hit); !almostEqual(got, 1.0) {
		t.Errorf("expected substring hit 1.0, got %v", got)
	}

	miss := propdomain.Property{Neighborhood: strPtr("Recoleta"), City: "Buenos Aires"}
	if got := scoreLocation(lead, miss); !almostEqual(got, 0.0) {
		t.Errorf("expected miss 0.0, got %v", got)
	}

	cityHit := propdomain.Property{City: "Palermo"}
	if got := scoreLocation(lead, cityHit); !almostEqual(got, 1.0) {
		t.Errorf("expected city hit 1.0, got %v", got)
	}
}

func TestTypeMatchAdjacency(t *testing.T) {
	cases := []struct {
		name     string
		interest []string
		propType string
		expected float64
	}{
		{"direct match", []string{propdomain.TypeApartment}, propdomain.TypeApartment, 1.0},
		{"house to condo", []string{propdomain.TypeHouse}, propdomain.TypeCondo, 0.7},
		{"apartment to studio", []string{propdomain.TypeApartment}, propdomain.TypeStudio, 0.7},
		{"apartment to loft", []string{propdomain.TypeApartment}, propdomain.TypeLoft, 0.7},
		{"studio to apartment", []string{propdomain.TypeStudio}, propdomain.TypeApartment, 0.7},
		{"condo to house is not similar", []string{propdomain.TypeCondo}, propdomain.TypeHouse, 0.0},
		{"unrelated", []string{propdomain.TypeHouse}, propdomain.TypeCommercial, 0.0},
		{"direct beats similar", []string{propdomain.TypeHouse, propdomain.TypeCondo}, propdomain.TypeCondo, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := leaddomain.Lead{PropertyTypeInterest: tc.interest}
			property := propdomain.Property{PropertyType: tc.propType}
			got := scoreType(lead, property)
			if !almostEqual(got, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSizeMatch(t *testing.T) {
	t.Run("bedroom exact", func(t *testing.T) {
		lead := leaddomain.Lead{Preferences: leaddomain.Preferences{Bedrooms: intPtr(3)}}
		property := propdomain.Property{Bedrooms: intPtr(3)}
		if got := scoreSize(lead, property); !almostEqual(got, 1.0) {
			t.Errorf("expected 1.0, got %v", got)
		}
	})

	t.Run("bedroom off by one", func(t *testing.T) {
		lead := leaddomain.Lead{Preferences: leaddomain.Preferences{Bedrooms: intPtr(3)}}
		property := propdomain.Property{Bedrooms: intPtr(2)}
		if got := scoreSize(lead, property); !almostEqual(got, 0.7) {
			t.Errorf("expected 0.7, got %v", got)
		}
	})

	t.Run("bedroom off by two", func(t *testing.T) {
		lead := leaddomain.Lead{Preferences: leaddomain.Preferences{Bedrooms: intPtr(4)}}
		property := propdomain.Property{Bedrooms: intPtr(2)}
		if got := scoreSize(lead, property); !almostEqual(got, 0.3) {
			t.Errorf("expected 0.3, got %v", got)
		}
	})

	t.Run("area below min degrades linearly", func(t *testing.T) {
		lead := leaddomain.Lead{Preferences: leaddomain.Preferences{MinArea: floatPtr(100)}}
		property := propdomain.Property{TotalArea: floatPtr(60)}
		if got := scoreSize(lead, property); !almostEqual(got, 0.6) {
			t.Errorf("expected 0.6, got %v", got)
		}
	})

	t.Run("area above max degrades linearly", func(t *testing.T) {
		lead := leaddomain.Lead{Preferences: leaddomain.Preferences{MaxArea: floatPtr(80)}}
		property := propdomain.Property{TotalArea: floatPtr(160)}
		if got := scoreSize(lead, property); !almostEqual(got, 0.5) {
			t.Errorf("expected 0.5, got %v", got)
		}
	})

	t.Run("bedroom and area averaged", func(t *testing.T) {
		lead := leaddomain.Lead{Preferences: leaddomain.Preferences{
			Bedrooms: intPtr(2),
			MinArea:  floatPtr(50),
			MaxArea:  floatPtr(100),
		}}
		property := propdomain.Property{Bedrooms: intPtr(3), TotalArea: floatPtr(70)}
		// (0.7 + 1.0) / 2
		if got := scoreSize(lead, property); !almostEqual(got, 0.85) {
			t.Errorf("expected 0.85, got %v", got)
		}
	})

	t.Run("preference without property data stays neutral", func(t *testing.T) {
		lead := leaddomain.Lead{Preferences: leaddomain.Preferences{Bedrooms: intPtr(2)}}
		property := propdomain.Property{}
		if got := scoreSize(lead, property); !almostEqual(got, 0.7) {
			t.Errorf("expected 0.7, got %v", got)
		}
	})
}

func TestFeaturesMatch(t *testing.T) {
	lead := leaddomain.Lead{Preferences: leaddomain.Preferences{
		DesiredFeatures: []string{"piscina", "garagem", "varanda", "academia"},
	}}
	property := propdomain.Property{
		Features:  []string{"garagem", "churrasqueira"},
		Amenities: []string{"piscina"},
	}

	if got := scoreFeatures(lead, property); !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5 overlap, got %v", got)
	}

	// Tag comparison is exact, not case-folded.
	upper := leaddomain.Lead{Preferences: leaddomain.Preferences{DesiredFeatures: []string{"Piscina"}}}
	if got := scoreFeatures(upper, property); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for case mismatch, got %v", got)
	}
}

func TestScoreEndToEnd(t *testing.T) {
	e := mustEngine(t)

	lead := leaddomain.Lead{
		BudgetMin:            floatPtr(150_000),
		BudgetMax:            floatPtr(250_000),
		PreferredLocations:   []string{"Palermo"},
		PropertyTypeInterest: []string{propdomain.TypeApartment},
		Preferences:          leaddomain.Preferences{Bedrooms: intPtr(2)},
	}
	property := propdomain.Property{
		Title:        "Apartamento em Palermo",
		PropertyType: propdomain.TypeApartment,
		Neighborhood: strPtr("Palermo"),
		City:         "Buenos Aires",
		Bedrooms:     intPtr(2),
		TotalArea:    floatPtr(80),
		Price:        200_000,
	}

	result := e.Score(lead, property)

	expected := map[string]float64{
		FactorPrice:    1.0,
		FactorLocation: 1.0,
		FactorType:     1.0,
		FactorSize:     1.0,
		FactorFeatures: 0.7,
	}
	for factor, want := range expected {
		if !almostEqual(result.Breakdown[factor], want) {
			t.Errorf("factor %s: expected %v, got %v", factor, want, result.Breakdown[factor])
		}
	}

	// 1.0*0.30 + 1.0*0.25 + 1.0*0.20 + 1.0*0.15 + 0.7*0.10
	if !almostEqual(result.Total, 0.97) {
		t.Errorf("expected total 0.97, got %v", result.Total)
	}
}
