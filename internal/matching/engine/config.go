package engine

import (
	"fmt"
	"math"
)

// Config holds the relative weight of each match factor. Weights must be
// non-negative and sum to 1.0 so the composite score stays in [0, 1].
type Config struct {
	PriceWeight    float64
	LocationWeight float64
	TypeWeight     float64
	SizeWeight     float64
	FeaturesWeight float64
}

// DefaultConfig is the production weighting: price dominates, features are
// the tiebreaker.
func DefaultConfig() Config {
	return Config{
		PriceWeight:    0.30,
		LocationWeight: 0.25,
		TypeWeight:     0.20,
		SizeWeight:     0.15,
		FeaturesWeight: 0.10,
	}
}

const weightSumTolerance = 1e-9

// Validate checks the weight invariants.
func (c Config) Validate() error {
	weights := map[string]float64{
		"price":    c.PriceWeight,
		"location": c.LocationWeight,
		"type":     c.TypeWeight,
		"size":     c.SizeWeight,
		"features": c.FeaturesWeight,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s weight must be non-negative, got %v", name, w)
		}
	}

	sum := c.PriceWeight + c.LocationWeight + c.TypeWeight + c.SizeWeight + c.FeaturesWeight
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("factor weights must sum to 1.0, got %v", sum)
	}
	return nil
}
