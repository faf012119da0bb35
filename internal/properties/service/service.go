// Package service implements property inventory operations.
package service

import (
	"context"
	"errors"

	"imovia_backend/internal/properties/domain"
	"imovia_backend/internal/properties/repository"
	"imovia_backend/internal/properties/transport"
	"imovia_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service coordinates property persistence.
type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts a new available listing.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req transport.CreatePropertyRequest) (domain.Property, error) {
	const op = "properties.Create"

	property, err := s.repo.Create(ctx, repository.CreatePropertyParams{
		TenantID:        tenantID,
		Title:           req.Title,
		Description:     req.Description,
		PropertyType:    req.PropertyType,
		TransactionType: req.TransactionType,
		Address:         req.Address,
		Neighborhood:    req.Neighborhood,
		City:            req.City,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		TotalArea:       req.TotalArea,
		Price:           req.Price,
		Features:        req.Features,
		Amenities:       req.Amenities,
		SourceURL:       req.SourceURL,
	})
	if err != nil {
		return domain.Property{}, apperr.Wrap(apperr.KindInternal, "create property", err).WithOp(op)
	}
	return property, nil
}

// GetByID loads one listing.
func (s *Service) GetByID(ctx context.Context, tenantID, propertyID uuid.UUID) (domain.Property, error) {
	const op = "properties.GetByID"

	property, err := s.repo.GetByID(ctx, propertyID, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Property{}, apperr.NotFound("property not found").WithOp(op)
		}
		return domain.Property{}, apperr.Wrap(apperr.KindInternal, "load property", err).WithOp(op)
	}
	return property, nil
}

// ListAvailable returns the tenant's active, available listings.
func (s *Service) ListAvailable(ctx context.Context, tenantID uuid.UUID) ([]domain.Property, error) {
	const op = "properties.ListAvailable"

	properties, err := s.repo.ListAvailable(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list properties", err).WithOp(op)
	}
	return properties, nil
}

// UpdateStatus transitions a listing's availability status.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, propertyID uuid.UUID, status string) (domain.Property, error) {
	const op = "properties.UpdateStatus"

	property, err := s.repo.UpdateStatus(ctx, propertyID, tenantID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Property{}, apperr.NotFound("property not found").WithOp(op)
		}
		return domain.Property{}, apperr.Wrap(apperr.KindInternal, "update property status", err).WithOp(op)
	}
	return property, nil
}
