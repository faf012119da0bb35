package handler

import (
	"net/http"

	"imovia_backend/internal/properties/service"
	"imovia_backend/internal/properties/transport"
	"imovia_backend/platform/httpkit"
	"imovia_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest    = "invalid request"
	msgValidationFailed  = "validation failed"
	msgInvalidPropertyID = "invalid property id"
)

// Handler handles HTTP requests for properties.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new properties handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the property routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

func propertyIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidPropertyID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// Create handles POST /api/v1/properties
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePropertyRequest
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

	property, err := h.svc.Create(c.Request.Context(), identity.TenantID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.FromProperty(property))
}

// List handles GET /api/v1/properties
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	properties, err := h.svc.ListAvailable(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromProperties(properties))
}

// GetByID handles GET /api/v1/properties/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetTenant(c)
	if identity == nil {
		return
	}

	property, err := h.svc.GetByID(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromProperty(property))
}

// UpdateStatus handles PATCH /api/v1/properties/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdatePropertyStatusRequest
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

	property, err := h.svc.UpdateStatus(c.Request.Context(), identity.TenantID(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromProperty(property))
}
