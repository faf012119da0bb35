// Package properties provides the property inventory module.
package properties

import (
	apphttp "imovia_backend/internal/http"
	"imovia_backend/internal/properties/handler"
	"imovia_backend/internal/properties/repository"
	"imovia_backend/internal/properties/service"
	"imovia_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the properties domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new properties module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "properties"
}

// RegisterRoutes registers the module's routes under /api/v1/properties.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	properties := ctx.Protected.Group("/properties")
	m.handler.RegisterRoutes(properties)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
