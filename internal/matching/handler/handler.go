package handler

import (
	"context"
	"net/http"

	"imovia_backend/internal/matching/service"
	"imovia_backend/internal/matching/transport"
	"imovia_backend/platform/httpkit"
	"imovia_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Enqueuer schedules a weekly matching run for asynchronous execution.
type Enqueuer interface {
	EnqueueWeeklyMatching(ctx context.Context, tenantID uuid.UUID, propertyIDs []uuid.UUID) error
}

// Handler handles HTTP requests for lead-property matching.
type Handler struct {
	svc     *service.Service
	enqueue Enqueuer
	val     *validator.Validator
}

// New creates a new matching handler.
func New(svc *service.Service, enqueue Enqueuer, val *validator.Validator) *Handler {
	return &Handler{svc: svc, enqueue: enqueue, val: val}
}

// minScoreOrDefault resolves the requested score floor. A nil value means the
// caller did not send one and gets the default; an explicit 0 lists every match.
func minScoreOrDefault(requested *float64) float64 {
	if requested == nil {
		return service.DefaultMinScore
	}
	return *requested
}

// RegisterRoutes registers the matching routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/find-properties", h.FindProperties)
	rg.POST("/find-leads", h.FindLeads)
	rg.POST("/test-match", h.TestMatch)
	rg.POST("/run-weekly-matching", h.RunWeeklyMatching)
	rg.GET("/stats", h.Stats)
}

// FindProperties handles POST /api/v1/matching/find-properties
func (h *Handler) FindProperties(c *gin.Context) {
	var req transport.FindPropertiesRequest
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

	matches, err := h.svc.FindPropertiesForLead(c.Request.Context(), identity.TenantID(), req.LeadID, req.Limit, minScoreOrDefault(req.MinScore))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromPropertyMatches(req.LeadID, matches))
}

// FindLeads handles POST /api/v1/matching/find-leads
func (h *Handler) FindLeads(c *gin.Context) {
	var req transport.FindLeadsRequest
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

	matches, err := h.svc.FindLeadsForProperty(c.Request.Context(), identity.TenantID(), req.PropertyID, req.Limit, minScoreOrDefault(req.MinScore))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromLeadMatches(req.PropertyID, matches))
}

// TestMatch handles POST /api/v1/matching/test-match
func (h *Handler) TestMatch(c *gin.Context) {
	var req transport.TestMatchRequest
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

	pair, err := h.svc.TestMatch(c.Request.Context(), identity.TenantID(), req.LeadID, req.PropertyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromPairResult(pair))
}

// RunWeeklyMatching handles POST /api/v1/matching/run-weekly-matching
func (h *Handler) RunWeeklyMatching(c *gin.Context) {
	if h.enqueue == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "background jobs are not configured", nil)
		return
	}

	var req transport.RunWeeklyMatchingRequest
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

	if err := h.enqueue.EnqueueWeeklyMatching(c.Request.Context(), identity.TenantID(), req.PropertyIDs); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to start weekly matching", nil)
		return
	}

	httpkit.JSON(c, http.StatusAccepted, transport.RunWeeklyMatchingResponse{
		Message:     "Weekly matching process started",
		TenantID:    identity.TenantID(),
		PropertyIDs: req.PropertyIDs,
		Status:      "queued",
	})
}

// Stats handles GET /api/v1/matching/stats
func (h *Handler) Stats(c *gin.Context) {
	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	stats, err := h.svc.GetStats(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromStats(stats))
}
