// Package domain holds the property entity.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property availability statuses.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusRented    = "rented"
	StatusInactive  = "inactive"
)

// Property type tags.
const (
	TypeApartment  = "apartment"
	TypeHouse      = "house"
	TypeCondo      = "condo"
	TypeStudio     = "studio"
	TypeLoft       = "loft"
	TypeCommercial = "commercial"
	TypeLand       = "land"
	TypeOther      = "other"
)

// Property is a real-estate listing with price, location, and physical
// attributes. Only available and active properties are matching candidates.
type Property struct {
	ID       uuid.UUID
	TenantID uuid.UUID

	Title           string
	Description     *string
	PropertyType    string
	TransactionType *string

	Address      *string
	Neighborhood *string
	City         string

	Bedrooms  *int
	Bathrooms *int
	TotalArea *float64

	Price float64

	Features  []string
	Amenities []string

	SourceURL *string

	Status   string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsMatchable reports whether the property is a matching candidate.
func (p Property) IsMatchable() bool {
	return p.Status == StatusAvailable && p.IsActive
}

// Location returns a human-readable location string for notifications.
func (p Property) Location() string {
	if p.Neighborhood != nil && *p.Neighborhood != "" {
		return *p.Neighborhood + ", " + p.City
	}
	return p.City
}

// AllFeatures returns the union of features and amenities.
func (p Property) AllFeatures() []string {
	combined := make([]string, 0, len(p.Features)+len(p.Amenities))
	combined = append(combined, p.Features...)
	combined = append(combined, p.Amenities...)
	return combined
}
