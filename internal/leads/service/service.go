// Package service implements lead lifecycle operations on top of the
// repository and scoring layers.
package service

import (
	"context"
	"errors"

	"imovia_backend/internal/leads/domain"
	"imovia_backend/internal/leads/repository"
	"imovia_backend/internal/leads/scoring"
	"imovia_backend/internal/leads/transport"
	"imovia_backend/platform/apperr"
	"imovia_backend/platform/logger"
	"imovia_backend/platform/phone"

	"github.com/google/uuid"
)

// Service coordinates lead persistence and scoring.
type Service struct {
	repo    *repository.Repository
	scoring *scoring.Service
	log     *logger.Logger
}

func New(repo *repository.Repository, scorer *scoring.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, scoring: scorer, log: log}
}

// Create captures a new lead and computes its initial score.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req transport.CreateLeadRequest) (domain.Lead, error) {
	const op = "leads.Create"

	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return domain.Lead{}, apperr.Validation("budgetMin must not exceed budgetMax").WithOp(op)
	}
	if req.MinArea != nil && req.MaxArea != nil && *req.MinArea > *req.MaxArea {
		return domain.Lead{}, apperr.Validation("minArea must not exceed maxArea").WithOp(op)
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		TenantID:   tenantID,
		Name:       req.Name,
		Phone:      phone.NormalizeE164(req.Phone),
		Email:      req.Email,
		WhatsAppID: req.WhatsAppID,
		Preferences: domain.Preferences{
			Bedrooms:        req.Bedrooms,
			MinArea:         req.MinArea,
			MaxArea:         req.MaxArea,
			DesiredFeatures: req.DesiredFeatures,
		},
		BudgetMin:            req.BudgetMin,
		BudgetMax:            req.BudgetMax,
		PreferredLocations:   req.PreferredLocations,
		PropertyTypeInterest: req.PropertyTypeInterest,
		Source:               req.Source,
	})
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "create lead", err).WithOp(op)
	}

	if result, err := s.scoring.Recalculate(ctx, lead.ID, tenantID); err != nil {
		s.log.DatabaseError("initial lead score", err)
	} else {
		lead.Score = result.Score
		lead.ScoreFactors = result.Factors
	}

	return lead, nil
}

// GetByID loads one lead.
func (s *Service) GetByID(ctx context.Context, tenantID, leadID uuid.UUID) (domain.Lead, error) {
	const op = "leads.GetByID"

	lead, err := s.repo.GetByID(ctx, leadID, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lead{}, apperr.NotFound("lead not found").WithOp(op)
		}
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "load lead", err).WithOp(op)
	}
	return lead, nil
}

// List returns every lead of the tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Lead, error) {
	const op = "leads.List"

	leads, err := s.repo.ListAll(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list leads", err).WithOp(op)
	}
	return leads, nil
}

// UpdateStatus transitions the lead and rescores it, since status feeds the
// score directly.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, leadID uuid.UUID, status string) (domain.Lead, error) {
	const op = "leads.UpdateStatus"

	lead, err := s.repo.UpdateStatus(ctx, leadID, tenantID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lead{}, apperr.NotFound("lead not found").WithOp(op)
		}
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "update lead status", err).WithOp(op)
	}

	if result, err := s.scoring.Recalculate(ctx, leadID, tenantID); err != nil {
		s.log.DatabaseError("rescore after status change", err)
	} else {
		lead.Score = result.Score
		lead.ScoreFactors = result.Factors
	}

	return lead, nil
}

// RecordContact marks the lead as contacted just now and rescores it.
func (s *Service) RecordContact(ctx context.Context, tenantID, leadID uuid.UUID) (scoring.Result, error) {
	const op = "leads.RecordContact"

	if err := s.repo.TouchLastContact(ctx, leadID, tenantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return scoring.Result{}, apperr.NotFound("lead not found").WithOp(op)
		}
		return scoring.Result{}, apperr.Wrap(apperr.KindInternal, "record contact", err).WithOp(op)
	}

	result, err := s.scoring.Recalculate(ctx, leadID, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return scoring.Result{}, apperr.NotFound("lead not found").WithOp(op)
		}
		return scoring.Result{}, apperr.Wrap(apperr.KindInternal, "rescore lead", err).WithOp(op)
	}
	return result, nil
}

// RecalculateScore rescores one lead on demand.
func (s *Service) RecalculateScore(ctx context.Context, tenantID, leadID uuid.UUID) (scoring.Result, error) {
	const op = "leads.RecalculateScore"

	result, err := s.scoring.Recalculate(ctx, leadID, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return scoring.Result{}, apperr.NotFound("lead not found").WithOp(op)
		}
		return scoring.Result{}, apperr.Wrap(apperr.KindInternal, "rescore lead", err).WithOp(op)
	}
	return result, nil
}

// RecalculateAllScores rescans every lead of the tenant.
func (s *Service) RecalculateAllScores(ctx context.Context, tenantID uuid.UUID) (int, error) {
	const op = "leads.RecalculateAllScores"

	updated, err := s.scoring.RecalculateAll(ctx, tenantID)
	if err != nil {
		return updated, apperr.Wrap(apperr.KindInternal, "rescore leads", err).WithOp(op)
	}
	return updated, nil
}
