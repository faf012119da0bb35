// Package matching provides the lead-property matching module: the scoring
// engine, on-demand match endpoints, and the weekly sweep orchestration.
package matching

import (
	"imovia_backend/internal/events"
	apphttp "imovia_backend/internal/http"
	leadsrepo "imovia_backend/internal/leads/repository"
	"imovia_backend/internal/matching/engine"
	"imovia_backend/internal/matching/handler"
	"imovia_backend/internal/matching/notifier"
	"imovia_backend/internal/matching/service"
	propsrepo "imovia_backend/internal/properties/repository"
	tenantsrepo "imovia_backend/internal/tenants/repository"
	"imovia_backend/platform/config"
	"imovia_backend/platform/logger"
	"imovia_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the matching domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new matching module with all dependencies wired.
// whatsapp and email may be nil when those channels are not configured.
func NewModule(
	pool *pgxpool.Pool,
	val *validator.Validator,
	cfg config.MatchingConfig,
	bus events.Bus,
	log *logger.Logger,
	whatsapp notifier.WhatsAppSender,
	email notifier.EmailSender,
	enqueue handler.Enqueuer,
) (*Module, error) {
	eng, err := engine.New(engine.DefaultConfig())
	if err != nil {
		return nil, err
	}

	notify := notifier.New(whatsapp, email, log)
	svc := service.New(
		eng,
		leadsrepo.New(pool),
		propsrepo.New(pool),
		tenantsrepo.New(pool),
		notify,
		bus,
		cfg,
		log,
	)
	h := handler.New(svc, enqueue, val)

	return &Module{
		handler: h,
		Service: svc,
	}, nil
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "matching"
}

// RegisterRoutes registers the module's routes under /api/v1/matching.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	matching := ctx.Protected.Group("/matching")
	m.handler.RegisterRoutes(matching)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
