// Package service orchestrates lead-property matching: on-demand lookups,
// the debugging single-pair check, aggregate statistics, and the weekly
// notification sweep.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"imovia_backend/internal/events"
	leaddomain "imovia_backend/internal/leads/domain"
	leadsrepo "imovia_backend/internal/leads/repository"
	"imovia_backend/internal/matching/engine"
	propdomain "imovia_backend/internal/properties/domain"
	propsrepo "imovia_backend/internal/properties/repository"
	tenantdomain "imovia_backend/internal/tenants/domain"
	tenantsrepo "imovia_backend/internal/tenants/repository"
	"imovia_backend/platform/apperr"
	"imovia_backend/platform/config"
	"imovia_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Defaults applied when the caller passes a non-positive limit.
const (
	DefaultPropertyLimit = 10
	DefaultLeadLimit     = 20
	DefaultMinScore      = 0.7
)

// How far back the sweep looks for new listings when no explicit property
// set is given.
const sweepLookback = 7 * 24 * time.Hour

// LeadStore is the lead persistence surface the matcher needs.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (leaddomain.Lead, error)
	ListByStatuses(ctx context.Context, tenantID uuid.UUID, statuses []string) ([]leaddomain.Lead, error)
	ListWithPreferenceSignals(ctx context.Context, tenantID uuid.UUID, statuses []string) ([]leaddomain.Lead, error)
	GetPreferenceStats(ctx context.Context, tenantID uuid.UUID, statuses []string) (leadsrepo.PreferenceStats, error)
}

// PropertyStore is the property persistence surface the matcher needs.
type PropertyStore interface {
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (propdomain.Property, error)
	ListAvailable(ctx context.Context, tenantID uuid.UUID) ([]propdomain.Property, error)
	ListAvailableByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]propdomain.Property, error)
	ListCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]propdomain.Property, error)
	CountAvailable(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// TenantStore resolves tenant accounts for notification delivery.
type TenantStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (tenantdomain.Tenant, error)
}

// Notifier delivers match digests to the tenant's agent. Implementations
// must be safe for concurrent use.
type Notifier interface {
	NotifyMatches(ctx context.Context, tenant tenantdomain.Tenant, lead leaddomain.Lead, matches []PropertyMatch) error
}

// PropertyMatch is a property scored against one lead.
type PropertyMatch struct {
	Property  propdomain.Property
	Score     float64
	Breakdown map[string]float64
}

// LeadMatch is a lead scored against one property.
type LeadMatch struct {
	Lead      leaddomain.Lead
	Score     float64
	Breakdown map[string]float64
}

// PairResult is the full scoring detail for one lead-property pair.
type PairResult struct {
	Lead     leaddomain.Lead
	Property propdomain.Property
	Result   engine.Result
}

// Stats summarizes how matchable the tenant's current book of leads and
// listings is.
type Stats struct {
	TotalActiveLeads     int
	LeadsWithPreferences int
	LeadsWithBudget      int
	LeadsWithLocation    int
	LeadsWithType        int
	AvailableProperties  int
	MaxPossibleMatches   int
}

// SweepSummary reports what a weekly sweep did for one tenant.
type SweepSummary struct {
	TenantID          uuid.UUID
	LeadsAnalyzed     int
	PropertiesScanned int
	TotalMatches      int
	NotificationsSent int
	LeadFailures      int
	Truncated         bool
	StartedAt         time.Time
	Duration          time.Duration
}

// Service coordinates the scoring engine with storage and notifications.
type Service struct {
	engine   *engine.Engine
	leads    LeadStore
	props    PropertyStore
	tenants  TenantStore
	notifier Notifier
	bus      events.Bus
	cfg      config.MatchingConfig
	log      *logger.Logger
	now      func() time.Time

	// sweeps serializes weekly runs per tenant so a double trigger
	// cannot send duplicate notifications.
	sweeps singleflight.Group
}

func New(
	eng *engine.Engine,
	leads LeadStore,
	props PropertyStore,
	tenants TenantStore,
	notifier Notifier,
	bus events.Bus,
	cfg config.MatchingConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		engine:   eng,
		leads:    leads,
		props:    props,
		tenants:  tenants,
		notifier: notifier,
		bus:      bus,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// FindPropertiesForLead scores every available property against the lead and
// returns those at or above minScore, best first.
func (s *Service) FindPropertiesForLead(ctx context.Context, tenantID, leadID uuid.UUID, limit int, minScore float64) ([]PropertyMatch, error) {
	const op = "matching.FindPropertiesForLead"

	if limit <= 0 {
		limit = DefaultPropertyLimit
	}

	lead, err := s.leads.GetByID(ctx, leadID, tenantID)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return nil, apperr.NotFound("lead not found").WithOp(op)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load lead", err).WithOp(op)
	}

	properties, err := s.props.ListAvailable(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list properties", err).WithOp(op)
	}

	matches := make([]PropertyMatch, 0)
	for _, property := range properties {
		result := s.engine.Score(lead, property)
		if result.Total >= minScore {
			matches = append(matches, PropertyMatch{
				Property:  property,
				Score:     result.Total,
				Breakdown: result.Breakdown,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// FindLeadsForProperty scores every active lead against the property and
// returns those at or above minScore, best first.
func (s *Service) FindLeadsForProperty(ctx context.Context, tenantID, propertyID uuid.UUID, limit int, minScore float64) ([]LeadMatch, error) {
	const op = "matching.FindLeadsForProperty"

	if limit <= 0 {
		limit = DefaultLeadLimit
	}

	property, err := s.props.GetByID(ctx, propertyID, tenantID)
	if err != nil {
		if errors.Is(err, propsrepo.ErrNotFound) {
			return nil, apperr.NotFound("property not found").WithOp(op)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load property", err).WithOp(op)
	}

	leads, err := s.leads.ListByStatuses(ctx, tenantID, leaddomain.MatchableStatuses)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list leads", err).WithOp(op)
	}

	matches := make([]LeadMatch, 0)
	for _, lead := range leads {
		result := s.engine.Score(lead, property)
		if result.Total >= minScore {
			matches = append(matches, LeadMatch{
				Lead:      lead,
				Score:     result.Total,
				Breakdown: result.Breakdown,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// TestMatch scores a single explicit pair, for debugging the algorithm.
func (s *Service) TestMatch(ctx context.Context, tenantID, leadID, propertyID uuid.UUID) (PairResult, error) {
	const op = "matching.TestMatch"

	lead, err := s.leads.GetByID(ctx, leadID, tenantID)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return PairResult{}, apperr.NotFound("lead not found").WithOp(op)
		}
		return PairResult{}, apperr.Wrap(apperr.KindInternal, "load lead", err).WithOp(op)
	}

	property, err := s.props.GetByID(ctx, propertyID, tenantID)
	if err != nil {
		if errors.Is(err, propsrepo.ErrNotFound) {
			return PairResult{}, apperr.NotFound("property not found").WithOp(op)
		}
		return PairResult{}, apperr.Wrap(apperr.KindInternal, "load property", err).WithOp(op)
	}

	return PairResult{
		Lead:     lead,
		Property: property,
		Result:   s.engine.Score(lead, property),
	}, nil
}

// GetStats aggregates matching readiness for the tenant.
func (s *Service) GetStats(ctx context.Context, tenantID uuid.UUID) (Stats, error) {
	const op = "matching.GetStats"

	prefStats, err := s.leads.GetPreferenceStats(ctx, tenantID, leaddomain.MatchableStatuses)
	if err != nil {
		return Stats{}, apperr.Wrap(apperr.KindInternal, "lead preference stats", err).WithOp(op)
	}

	propertyCount, err := s.props.CountAvailable(ctx, tenantID)
	if err != nil {
		return Stats{}, apperr.Wrap(apperr.KindInternal, "count properties", err).WithOp(op)
	}

	return Stats{
		TotalActiveLeads:     prefStats.TotalActive,
		LeadsWithPreferences: prefStats.WithAnyPref,
		LeadsWithBudget:      prefStats.WithBudget,
		LeadsWithLocation:    prefStats.WithLocation,
		LeadsWithType:        prefStats.WithType,
		AvailableProperties:  propertyCount,
		MaxPossibleMatches:   prefStats.WithAnyPref * propertyCount,
	}, nil
}

// RunWeeklyMatching scores every preference-bearing active lead against the
// candidate property set and notifies the tenant's agent about each lead's
// best matches. Concurrent calls for the same tenant share one run.
func (s *Service) RunWeeklyMatching(ctx context.Context, tenantID uuid.UUID, propertyIDs []uuid.UUID) (SweepSummary, error) {
	result, err, _ := s.sweeps.Do(tenantID.String(), func() (any, error) {
		return s.runSweep(ctx, tenantID, propertyIDs)
	})
	if err != nil {
		return SweepSummary{}, err
	}
	return result.(SweepSummary), nil
}

func (s *Service) runSweep(ctx context.Context, tenantID uuid.UUID, propertyIDs []uuid.UUID) (SweepSummary, error) {
	const op = "matching.RunWeeklyMatching"

	startedAt := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GetSweepDeadline())
	defer cancel()

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantsrepo.ErrNotFound) {
			return SweepSummary{}, apperr.NotFound("tenant not found").WithOp(op)
		}
		return SweepSummary{}, apperr.Wrap(apperr.KindInternal, "load tenant", err).WithOp(op)
	}

	leads, err := s.leads.ListWithPreferenceSignals(ctx, tenantID, leaddomain.MatchableStatuses)
	if err != nil {
		return SweepSummary{}, apperr.Wrap(apperr.KindInternal, "list leads", err).WithOp(op)
	}

	properties, err := s.sweepProperties(ctx, tenantID, propertyIDs, startedAt)
	if err != nil {
		return SweepSummary{}, apperr.Wrap(apperr.KindInternal, "list properties", err).WithOp(op)
	}

	summary := SweepSummary{
		TenantID:          tenantID,
		LeadsAnalyzed:     len(leads),
		PropertiesScanned: len(properties),
		StartedAt:         startedAt,
	}

	threshold := s.cfg.GetWeeklyMatchThreshold()
	topN := s.cfg.GetWeeklyMatchTopN()
	maxPairs := s.cfg.GetSweepMaxPairs()

	if pairs := len(leads) * len(properties); maxPairs > 0 && pairs > maxPairs {
		// Cap the lead set rather than aborting: earlier leads are
		// older and have waited longest for a digest.
		keep := maxPairs / len(properties)
		if keep < 1 {
			keep = 1
		}
		s.log.Warn("weekly sweep truncated",
			"tenant_id", tenantID,
			"pairs", pairs,
			"max_pairs", maxPairs,
			"leads_kept", keep,
		)
		leads = leads[:keep]
		summary.Truncated = true
	}

	for _, lead := range leads {
		if err := ctx.Err(); err != nil {
			summary.Truncated = true
			break
		}

		matches := make([]PropertyMatch, 0)
		for _, property := range properties {
			result := s.engine.Score(lead, property)
			if result.Total >= threshold {
				matches = append(matches, PropertyMatch{
					Property:  property,
					Score:     result.Total,
					Breakdown: result.Breakdown,
				})
			}
		}
		if len(matches) == 0 {
			continue
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
		summary.TotalMatches += len(matches)

		top := matches
		if len(top) > topN {
			top = top[:topN]
		}

		if err := s.notifier.NotifyMatches(ctx, tenant, lead, top); err != nil {
			summary.LeadFailures++
			s.log.NotificationError("match_digest", tenantID.String(), err)
			continue
		}
		summary.NotificationsSent++
	}

	summary.Duration = s.now().Sub(startedAt)

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewWeeklyMatchingCompleted(
			tenantID,
			summary.LeadsAnalyzed,
			summary.PropertiesScanned,
			summary.TotalMatches,
			summary.NotificationsSent,
			summary.LeadFailures,
		))
	}

	s.log.Info("weekly matching completed",
		"tenant_id", tenantID,
		"leads_analyzed", summary.LeadsAnalyzed,
		"properties_scanned", summary.PropertiesScanned,
		"total_matches", summary.TotalMatches,
		"notifications_sent", summary.NotificationsSent,
		"lead_failures", summary.LeadFailures,
		"truncated", summary.Truncated,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (s *Service) sweepProperties(ctx context.Context, tenantID uuid.UUID, propertyIDs []uuid.UUID, startedAt time.Time) ([]propdomain.Property, error) {
	if len(propertyIDs) > 0 {
		return s.props.ListAvailableByIDs(ctx, tenantID, propertyIDs)
	}
	return s.props.ListCreatedSince(ctx, tenantID, startedAt.Add(-sweepLookback))
}
