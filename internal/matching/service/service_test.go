package service

import (
	"context"
	"errors"
	"testing"
	"time"

	leaddomain "imovia_backend/internal/leads/domain"
	leadsrepo "imovia_backend/internal/leads/repository"
	"imovia_backend/internal/matching/engine"
	propdomain "imovia_backend/internal/properties/domain"
	propsrepo "imovia_backend/internal/properties/repository"
	tenantdomain "imovia_backend/internal/tenants/domain"
	"imovia_backend/platform/apperr"
	"imovia_backend/platform/logger"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

type fakeLeadStore struct {
	leads map[uuid.UUID]leaddomain.Lead
	list  []leaddomain.Lead
	stats leadsrepo.PreferenceStats
	err   error
}

func (f *fakeLeadStore) GetByID(_ context.Context, id uuid.UUID, _ uuid.UUID) (leaddomain.Lead, error) {
	if f.err != nil {
		return leaddomain.Lead{}, f.err
	}
	lead, ok := f.leads[id]
	if !ok {
		return leaddomain.Lead{}, leadsrepo.ErrNotFound
	}
	return lead, nil
}

func (f *fakeLeadStore) ListByStatuses(_ context.Context, _ uuid.UUID, _ []string) ([]leaddomain.Lead, error) {
	return f.list, f.err
}

func (f *fakeLeadStore) ListWithPreferenceSignals(_ context.Context, _ uuid.UUID, _ []string) ([]leaddomain.Lead, error) {
	return f.list, f.err
}

func (f *fakeLeadStore) GetPreferenceStats(_ context.Context, _ uuid.UUID, _ []string) (leadsrepo.PreferenceStats, error) {
	return f.stats, f.err
}

type fakePropertyStore struct {
	properties map[uuid.UUID]propdomain.Property
	list       []propdomain.Property
	count      int
	err        error
}

func (f *fakePropertyStore) GetByID(_ context.Context, id uuid.UUID, _ uuid.UUID) (propdomain.Property, error) {
	if f.err != nil {
		return propdomain.Property{}, f.err
	}
	property, ok := f.properties[id]
	if !ok {
		return propdomain.Property{}, propsrepo.ErrNotFound
	}
	return property, nil
}

func (f *fakePropertyStore) ListAvailable(_ context.Context, _ uuid.UUID) ([]propdomain.Property, error) {
	return f.list, f.err
}

func (f *fakePropertyStore) ListAvailableByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]propdomain.Property, error) {
	if f.err != nil {
		return nil, f.err
	}
	selected := make([]propdomain.Property, 0)
	for _, p := range f.list {
		for _, id := range ids {
			if p.ID == id {
				selected = append(selected, p)
			}
		}
	}
	return selected, nil
}

func (f *fakePropertyStore) ListCreatedSince(_ context.Context, _ uuid.UUID, _ time.Time) ([]propdomain.Property, error) {
	return f.list, f.err
}

func (f *fakePropertyStore) CountAvailable(_ context.Context, _ uuid.UUID) (int, error) {
	return f.count, f.err
}

type fakeTenantStore struct {
	tenant tenantdomain.Tenant
	err    error
}

func (f *fakeTenantStore) GetByID(_ context.Context, _ uuid.UUID) (tenantdomain.Tenant, error) {
	return f.tenant, f.err
}

type fakeNotifier struct {
	calls   []fakeNotification
	failFor map[uuid.UUID]error
}

type fakeNotification struct {
	leadID  uuid.UUID
	matches []PropertyMatch
}

func (f *fakeNotifier) NotifyMatches(_ context.Context, _ tenantdomain.Tenant, lead leaddomain.Lead, matches []PropertyMatch) error {
	if err, ok := f.failFor[lead.ID]; ok {
		return err
	}
	f.calls = append(f.calls, fakeNotification{leadID: lead.ID, matches: matches})
	return nil
}

type fakeConfig struct {
	threshold float64
	topN      int
	maxPairs  int
	deadline  time.Duration
}

func (f fakeConfig) GetWeeklyMatchThreshold() float64 { return f.threshold }
func (f fakeConfig) GetWeeklyMatchTopN() int          { return f.topN }
func (f fakeConfig) GetSweepMaxPairs() int            { return f.maxPairs }
func (f fakeConfig) GetSweepDeadline() time.Duration  { return f.deadline }

func defaultFakeConfig() fakeConfig {
	return fakeConfig{threshold: 0.7, topN: 5, maxPairs: 250_000, deadline: 5 * time.Minute}
}

func newTestService(t *testing.T, leads *fakeLeadStore, props *fakePropertyStore, tenants *fakeTenantStore, notifier *fakeNotifier, cfg fakeConfig) *Service {
	t.Helper()
	eng, err := engine.New(engine.DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return New(eng, leads, props, tenants, notifier, nil, cfg, logger.New("development"))
}

func matchableLead(tenantID uuid.UUID, budgetMax float64, location string) leaddomain.Lead {
	return leaddomain.Lead{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		Phone:              "+5511999990000",
		BudgetMax:          floatPtr(budgetMax),
		PreferredLocations: []string{location},
		Status:             leaddomain.StatusNew,
	}
}

func availableProperty(tenantID uuid.UUID, price float64, neighborhood string) propdomain.Property {
	return propdomain.Property{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Title:        "Listing",
		PropertyType: propdomain.TypeApartment,
		Neighborhood: strPtr(neighborhood),
		City:         "São Paulo",
		Price:        price,
		Status:       propdomain.StatusAvailable,
		IsActive:     true,
	}
}

func TestFindPropertiesForLeadThresholdFilters(t *testing.T) {
	tenantID := uuid.New()
	lead := matchableLead(tenantID, 300_000, "Moema")

	leads := &fakeLeadStore{leads: map[uuid.UUID]leaddomain.Lead{lead.ID: lead}}
	props := &fakePropertyStore{list: []propdomain.Property{
		availableProperty(tenantID, 2_000_000, "Itaim"),
	}}
	svc := newTestService(t, leads, props, &fakeTenantStore{}, &fakeNotifier{}, defaultFakeConfig())

	matches, err := svc.FindPropertiesForLead(context.Background(), tenantID, lead.ID, 0, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result when nothing clears the threshold, got %d", len(matches))
	}
}

func TestFindPropertiesForLeadSortsAndLimits(t *testing.T) {
	tenantID := uuid.New()
	lead := matchableLead(tenantID, 300_000, "Moema")

	good := availableProperty(tenantID, 250_000, "Moema")
	better := availableProperty(tenantID, 250_000, "Moema")
	worse := availableProperty(tenantID, 400_000, "Moema")

	leads := &fakeLeadStore{leads: map[uuid.UUID]leaddomain.Lead{lead.ID: lead}}
	props := &fakePropertyStore{list: []propdomain.Property{worse, good, better}}
	svc := newTestService(t, leads, props, &fakeTenantStore{}, &fakeNotifier{}, defaultFakeConfig())

	matches, err := svc.FindPropertiesForLead(context.Background(), tenantID, lead.ID, 2, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected limit 2, got %d", len(matches))
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches not sorted by score descending")
	}
	// Equal scores keep input order: good precedes better in the pool
	// after the lower-scoring worse is sorted behind them.
	if matches[0].Property.ID != good.ID || matches[1].Property.ID != better.ID {
		t.Error("tie between equal scores must preserve input order")
	}
}

func TestFindPropertiesForLeadNotFound(t *testing.T) {
	tenantID := uuid.New()
	svc := newTestService(t,
		&fakeLeadStore{leads: map[uuid.UUID]leaddomain.Lead{}},
		&fakePropertyStore{},
		&fakeTenantStore{}, &fakeNotifier{}, defaultFakeConfig())

	_, err := svc.FindPropertiesForLead(context.Background(), tenantID, uuid.New(), 0, 0.7)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestFindLeadsForPropertyThresholdFilters(t *testing.T) {
	tenantID := uuid.New()
	property := availableProperty(tenantID, 2_000_000, "Itaim")

	leads := &fakeLeadStore{list: []leaddomain.Lead{
		matchableLead(tenantID, 300_000, "Moema"),
	}}
	props := &fakePropertyStore{properties: map[uuid.UUID]propdomain.Property{property.ID: property}}
	svc := newTestService(t, leads, props, &fakeTenantStore{}, &fakeNotifier{}, defaultFakeConfig())

	matches, err := svc.FindLeadsForProperty(context.Background(), tenantID, property.ID, 0, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result when nothing clears the threshold, got %d", len(matches))
	}
}

func TestFindLeadsForPropertySortsAndLimits(t *testing.T) {
	tenantID := uuid.New()
	property := availableProperty(tenantID, 250_000, "Moema")

	good := matchableLead(tenantID, 300_000, "Moema")
	better := matchableLead(tenantID, 300_000, "Moema")
	worse := matchableLead(tenantID, 180_000, "Moema")

	leads := &fakeLeadStore{list: []leaddomain.Lead{worse, good, better}}
	props := &fakePropertyStore{properties: map[uuid.UUID]propdomain.Property{property.ID: property}}
	svc := newTestService(t, leads, props, &fakeTenantStore{}, &fakeNotifier{}, defaultFakeConfig())

	matches, err := svc.FindLeadsForProperty(context.Background(), tenantID, property.ID, 2, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected limit 2, got %d", len(matches))
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches not sorted by score descending")
	}
	// Equal scores keep input order: good precedes better in the pool
	// after the lower-scoring worse is sorted behind them.
	if matches[0].Lead.ID != good.ID || matches[1].Lead.ID != better.ID {
		t.Error("tie between equal scores must preserve input order")
	}
}

func TestFindLeadsForPropertyNotFound(t *testing.T) {
	tenantID := uuid.New()
	svc := newTestService(t,
		&fakeLeadStore{},
		&fakePropertyStore{properties: map[uuid.UUID]propdomain.Property{}},
		&fakeTenantStore{}, &fakeNotifier{}, defaultFakeConfig())

	_, err := svc.FindLeadsForProperty(context.Background(), tenantID, uuid.New(), 0, 0.7)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestGetStats(t *testing.T) {
	tenantID := uuid.New()
	leads := &fakeLeadStore{stats: leadsrepo.PreferenceStats{
		TotalActive:  10,
		WithAnyPref:  6,
		WithBudget:   5,
		WithLocation: 4,
		WithType:     3,
	}}
	props := &fakePropertyStore{count: 7}
	svc := newTestService(t, leads, props, &fakeTenantStore{}, &fakeNotifier{}, defaultFakeConfig())

	stats, err := svc.GetStats(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalActiveLeads != 10 || stats.AvailableProperties != 7 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.MaxPossibleMatches != 42 {
		t.Errorf("expected 42 possible matches, got %d", stats.MaxPossibleMatches)
	}
}

func TestRunWeeklyMatchingTallies(t *testing.T) {
	tenantID := uuid.New()
	tenant := tenantdomain.Tenant{ID: tenantID, Phone: "+5511988887777"}

	matching := matchableLead(tenantID, 300_000, "Moema")
	failing := matchableLead(tenantID, 300_000, "Moema")
	noMatch := matchableLead(tenantID, 300_000, "Campinas")

	leads := &fakeLeadStore{list: []leaddomain.Lead{matching, failing, noMatch}}
	props := &fakePropertyStore{list: []propdomain.Property{
		availableProperty(tenantID, 250_000, "Moema"),
		availableProperty(tenantID, 260_000, "Moema"),
	}}
	notifier := &fakeNotifier{failFor: map[uuid.UUID]error{failing.ID: errors.New("whatsapp down")}}
	svc := newTestService(t, leads, props, &fakeTenantStore{tenant: tenant}, notifier, defaultFakeConfig())

	summary, err := svc.RunWeeklyMatching(context.Background(), tenantID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.LeadsAnalyzed != 3 {
		t.Errorf("expected 3 leads analyzed, got %d", summary.LeadsAnalyzed)
	}
	if summary.PropertiesScanned != 2 {
		t.Errorf("expected 2 properties scanned, got %d", summary.PropertiesScanned)
	}
	if summary.TotalMatches != 4 {
		t.Errorf("expected 4 total matches, got %d", summary.TotalMatches)
	}
	if summary.NotificationsSent != 1 {
		t.Errorf("expected 1 notification sent, got %d", summary.NotificationsSent)
	}
	if summary.LeadFailures != 1 {
		t.Errorf("expected 1 lead failure, got %d", summary.LeadFailures)
	}
	if summary.Truncated {
		t.Error("small sweep must not be truncated")
	}
	if len(notifier.calls) != 1 || notifier.calls[0].leadID != matching.ID {
		t.Errorf("unexpected notifier calls: %+v", notifier.calls)
	}
}

func TestRunWeeklyMatchingTopN(t *testing.T) {
	tenantID := uuid.New()
	lead := matchableLead(tenantID, 300_000, "Moema")

	pool := make([]propdomain.Property, 0, 8)
	for i := 0; i < 8; i++ {
		pool = append(pool, availableProperty(tenantID, 250_000, "Moema"))
	}

	cfg := defaultFakeConfig()
	cfg.topN = 5
	notifier := &fakeNotifier{}
	svc := newTestService(t,
		&fakeLeadStore{list: []leaddomain.Lead{lead}},
		&fakePropertyStore{list: pool},
		&fakeTenantStore{tenant: tenantdomain.Tenant{ID: tenantID}},
		notifier, cfg)

	summary, err := svc.RunWeeklyMatching(context.Background(), tenantID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalMatches != 8 {
		t.Errorf("expected 8 matches counted, got %d", summary.TotalMatches)
	}
	if len(notifier.calls) != 1 || len(notifier.calls[0].matches) != 5 {
		t.Fatalf("expected a digest of the top 5 matches, got %+v", notifier.calls)
	}
}

func TestRunWeeklyMatchingPairBudgetTruncates(t *testing.T) {
	tenantID := uuid.New()

	leadsList := make([]leaddomain.Lead, 0, 10)
	for i := 0; i < 10; i++ {
		leadsList = append(leadsList, matchableLead(tenantID, 300_000, "Moema"))
	}
	pool := []propdomain.Property{
		availableProperty(tenantID, 250_000, "Moema"),
		availableProperty(tenantID, 260_000, "Moema"),
	}

	cfg := defaultFakeConfig()
	cfg.maxPairs = 6
	notifier := &fakeNotifier{}
	svc := newTestService(t,
		&fakeLeadStore{list: leadsList},
		&fakePropertyStore{list: pool},
		&fakeTenantStore{tenant: tenantdomain.Tenant{ID: tenantID}},
		notifier, cfg)

	summary, err := svc.RunWeeklyMatching(context.Background(), tenantID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Truncated {
		t.Error("expected truncation flag when pair budget is exceeded")
	}
	// 6 pairs / 2 properties = 3 leads kept.
	if len(notifier.calls) != 3 {
		t.Errorf("expected 3 notified leads after truncation, got %d", len(notifier.calls))
	}
}

func TestRunWeeklyMatchingDeadlineTruncates(t *testing.T) {
	tenantID := uuid.New()
	lead := matchableLead(tenantID, 300_000, "Moema")

	cfg := defaultFakeConfig()
	cfg.deadline = time.Nanosecond
	notifier := &fakeNotifier{}
	svc := newTestService(t,
		&fakeLeadStore{list: []leaddomain.Lead{lead}},
		&fakePropertyStore{list: []propdomain.Property{
			availableProperty(tenantID, 250_000, "Moema"),
		}},
		&fakeTenantStore{tenant: tenantdomain.Tenant{ID: tenantID}},
		notifier, cfg)

	summary, err := svc.RunWeeklyMatching(context.Background(), tenantID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Truncated {
		t.Error("expected truncation flag when the sweep deadline expires")
	}
	if summary.NotificationsSent != 0 {
		t.Errorf("expected no notifications after deadline expiry, got %d", summary.NotificationsSent)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("expected no digests sent, got %d", len(notifier.calls))
	}
}

func TestRunWeeklyMatchingExplicitPropertySet(t *testing.T) {
	tenantID := uuid.New()
	lead := matchableLead(tenantID, 300_000, "Moema")

	wanted := availableProperty(tenantID, 250_000, "Moema")
	other := availableProperty(tenantID, 260_000, "Moema")

	notifier := &fakeNotifier{}
	svc := newTestService(t,
		&fakeLeadStore{list: []leaddomain.Lead{lead}},
		&fakePropertyStore{list: []propdomain.Property{wanted, other}},
		&fakeTenantStore{tenant: tenantdomain.Tenant{ID: tenantID}},
		notifier, defaultFakeConfig())

	summary, err := svc.RunWeeklyMatching(context.Background(), tenantID, []uuid.UUID{wanted.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PropertiesScanned != 1 {
		t.Errorf("expected only the requested property scanned, got %d", summary.PropertiesScanned)
	}
	if len(notifier.calls) != 1 || notifier.calls[0].matches[0].Property.ID != wanted.ID {
		t.Errorf("unexpected notifications: %+v", notifier.calls)
	}
}
