package handler

import (
	"net/http"

	"imovia_backend/internal/leads/scoring"
	"imovia_backend/internal/leads/service"
	"imovia_backend/internal/leads/transport"
	"imovia_backend/platform/httpkit"
	"imovia_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the lead routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.POST("/:id/contact", h.RecordContact)
	rg.GET("/:id/score", h.GetScore)
	rg.POST("/:id/score/recalculate", h.RecalculateScore)
	rg.POST("/score/recalculate-all", h.RecalculateAllScores)
}

func leadIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// Create handles POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), identity.TenantID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.FromLead(lead))
}

// List handles GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	leads, err := h.svc.List(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromLeads(leads))
}

// GetByID handles GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromLead(lead))
}

// UpdateStatus handles PATCH /api/v1/leads/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), identity.TenantID(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromLead(lead))
}

// RecordContact handles POST /api/v1/leads/:id/contact
func (h *Handler) RecordContact(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	result, err := h.svc.RecordContact(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LeadScoreResponse{
		LeadID:         id,
		Score:          result.Score,
		ScoreFactors:   result.Factors,
		Interpretation: scoring.Interpret(result.Score),
	})
}

// GetScore handles GET /api/v1/leads/:id/score
func (h *Handler) GetScore(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LeadScoreResponse{
		LeadID:         lead.ID,
		Score:          lead.Score,
		ScoreFactors:   lead.ScoreFactors,
		Interpretation: scoring.Interpret(lead.Score),
	})
}

// RecalculateScore handles POST /api/v1/leads/:id/score/recalculate
func (h *Handler) RecalculateScore(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	result, err := h.svc.RecalculateScore(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LeadScoreResponse{
		LeadID:         id,
		Score:          result.Score,
		ScoreFactors:   result.Factors,
		Interpretation: scoring.Interpret(result.Score),
	})
}

// RecalculateAllScores handles POST /api/v1/leads/score/recalculate-all
func (h *Handler) RecalculateAllScores(c *gin.Context) {
	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	updated, err := h.svc.RecalculateAllScores(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.RecalculateAllResponse{UpdatedLeads: updated})
}
