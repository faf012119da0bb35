package transport

import (
	"time"

	"imovia_backend/internal/properties/domain"

	"github.com/google/uuid"
)

// CreatePropertyRequest is the request body for adding a listing.
type CreatePropertyRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=300"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PropertyType    string   `json:"propertyType" validate:"required,oneof=apartment house condo studio loft commercial land other"`
	TransactionType *string  `json:"transactionType,omitempty" validate:"omitempty,oneof=sale rent"`
	Address         *string  `json:"address,omitempty" validate:"omitempty,max=400"`
	Neighborhood    *string  `json:"neighborhood,omitempty" validate:"omitempty,max=120"`
	City            string   `json:"city" validate:"required,min=1,max=120"`
	Bedrooms        *int     `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Bathrooms       *int     `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=50"`
	TotalArea       *float64 `json:"totalArea,omitempty" validate:"omitempty,gt=0"`
	Price           float64  `json:"price" validate:"required,gt=0"`
	Features        []string `json:"features,omitempty" validate:"omitempty,max=50,dive,min=1,max=80"`
	Amenities       []string `json:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=80"`
	SourceURL       *string  `json:"sourceUrl,omitempty" validate:"omitempty,url,max=500"`
}

// UpdatePropertyStatusRequest transitions a listing's availability.
type UpdatePropertyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available reserved sold rented inactive"`
}

// PropertyResponse is the API representation of a listing.
type PropertyResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	PropertyType    string    `json:"propertyType"`
	TransactionType *string   `json:"transactionType"`
	Address         *string   `json:"address"`
	Neighborhood    *string   `json:"neighborhood"`
	City            string    `json:"city"`
	Bedrooms        *int      `json:"bedrooms"`
	Bathrooms       *int      `json:"bathrooms"`
	TotalArea       *float64  `json:"totalArea"`
	Price           float64   `json:"price"`
	Features        []string  `json:"features"`
	Amenities       []string  `json:"amenities"`
	SourceURL       *string   `json:"sourceUrl"`
	Status          string    `json:"status"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ListPropertiesResponse is the list envelope.
type ListPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Total      int                `json:"total"`
}

// FromProperty maps a domain property onto the wire format.
func FromProperty(p domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		PropertyType:    p.PropertyType,
		TransactionType: p.TransactionType,
		Address:         p.Address,
		Neighborhood:    p.Neighborhood,
		City:            p.City,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		TotalArea:       p.TotalArea,
		Price:           p.Price,
		Features:        p.Features,
		Amenities:       p.Amenities,
		SourceURL:       p.SourceURL,
		Status:          p.Status,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// FromProperties maps a slice of properties onto the list envelope.
func FromProperties(properties []domain.Property) ListPropertiesResponse {
	out := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, FromProperty(p))
	}
	return ListPropertiesResponse{Properties: out, Total: len(out)}
}
