// Package leads provides the leads domain module: capture, lifecycle, and
// quality scoring.
package leads

import (
	"imovia_backend/internal/events"
	apphttp "imovia_backend/internal/http"
	"imovia_backend/internal/leads/handler"
	"imovia_backend/internal/leads/repository"
	"imovia_backend/internal/leads/scoring"
	"imovia_backend/internal/leads/service"
	"imovia_backend/platform/logger"
	"imovia_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
	Scoring *scoring.Service
}

// NewModule creates a new leads module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	scorer := scoring.New(repo, scoring.DefaultPoints(), bus, log)
	svc := service.New(repo, scorer, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
		Scoring: scorer,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes registers the module's routes under /api/v1/leads.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leads)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
