package scoring

import (
	"testing"
	"time"

	"imovia_backend/internal/leads/domain"
	"imovia_backend/internal/leads/repository"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func TestCalculateEmptyLead(t *testing.T) {
	points := DefaultPoints()
	result := points.Calculate(domain.Lead{Status: domain.StatusNew}, repository.EngagementStats{}, time.Now())

	if result.Score != 0 {
		t.Errorf("expected score 0 for empty lead, got %d", result.Score)
	}
	if result.Factors == nil {
		t.Error("factors map should never be nil")
	}
	if len(result.Factors) != 0 {
		t.Errorf("expected no factors, got %v", result.Factors)
	}
}

func TestCalculateSaturatesAt100(t *testing.T) {
	now := time.Now()
	recentContact := now.Add(-24 * time.Hour)

	lead := domain.Lead{
		Name:          strPtr("Maria Silva"),
		Email:         strPtr("maria@example.com"),
		BudgetMin:     floatPtr(200_000),
		BudgetMax:     floatPtr(400_000),
		Preferences:   domain.Preferences{Bedrooms: intPtr(3)},
		Status:        domain.StatusQualified,
		Source:        strPtr("referral"),
		LastContactAt: &recentContact,
	}
	stats := repository.EngagementStats{Conversations: 4, Appointments: 1}

	result := DefaultPoints().Calculate(lead, stats, now)

	// Raw total is 5+10+15+10+20+15+25+10+30+10 = 150.
	if result.Score != 100 {
		t.Errorf("expected clamped score 100, got %d", result.Score)
	}
	for _, key := range []string{
		"has_name", "has_email", "has_budget", "has_preferences",
		"recent_contact", "multiple_conversations", "appointment_scheduled",
		"some_engagement", "qualified_status", "high_quality_source",
	} {
		if !result.Factors[key] {
			t.Errorf("expected factor %q to fire", key)
		}
	}
}

func TestCalculatePartialContactCredit(t *testing.T) {
	now := time.Now()
	tenDaysAgo := now.Add(-10 * 24 * time.Hour)

	lead := domain.Lead{Status: domain.StatusNew, LastContactAt: &tenDaysAgo}
	result := DefaultPoints().Calculate(lead, repository.EngagementStats{}, now)

	if result.Score != 10 {
		t.Errorf("expected half contact credit 10, got %d", result.Score)
	}
	if !result.Factors["recent_contact_partial"] {
		t.Error("expected recent_contact_partial factor")
	}
	if result.Factors["recent_contact"] {
		t.Error("full recent_contact must not fire for a 10-day-old contact")
	}
}

func TestCalculateStaleContactNoCredit(t *testing.T) {
	now := time.Now()
	old := now.Add(-30 * 24 * time.Hour)

	lead := domain.Lead{Status: domain.StatusNew, LastContactAt: &old}
	result := DefaultPoints().Calculate(lead, repository.EngagementStats{}, now)

	if result.Score != 0 {
		t.Errorf("expected no credit for 30-day-old contact, got %d", result.Score)
	}
}

func TestCalculateSingleConversation(t *testing.T) {
	lead := domain.Lead{Status: domain.StatusNew}
	stats := repository.EngagementStats{Conversations: 1}

	result := DefaultPoints().Calculate(lead, stats, time.Now())

	// Half conversation credit (7) plus partial engagement (10).
	if result.Score != 17 {
		t.Errorf("expected score 17, got %d", result.Score)
	}
	if !result.Factors["single_conversation"] || !result.Factors["some_engagement"] {
		t.Errorf("unexpected factors: %v", result.Factors)
	}
	if result.Factors["multiple_conversations"] {
		t.Error("multiple_conversations must not fire for one conversation")
	}
}

func TestCalculateContactedStatusHalfCredit(t *testing.T) {
	lead := domain.Lead{Status: domain.StatusContacted}
	result := DefaultPoints().Calculate(lead, repository.EngagementStats{}, time.Now())

	if result.Score != 15 {
		t.Errorf("expected half status credit 15, got %d", result.Score)
	}
	if !result.Factors["contacted_status"] {
		t.Error("expected contacted_status factor")
	}
}

func TestCalculateSourceQuality(t *testing.T) {
	cases := []struct {
		source string
		fires  bool
	}{
		{"website", true},
		{"referral", true},
		{"agent", true},
		{"cold_call", false},
		{"", false},
	}

	for _, tc := range cases {
		lead := domain.Lead{Status: domain.StatusNew}
		if tc.source != "" {
			lead.Source = strPtr(tc.source)
		}
		result := DefaultPoints().Calculate(lead, repository.EngagementStats{}, time.Now())

		if result.Factors["high_quality_source"] != tc.fires {
			t.Errorf("source %q: expected high_quality_source=%v", tc.source, tc.fires)
		}
	}
}

func TestInterpretBuckets(t *testing.T) {
	cases := []struct {
		score    int
		category string
	}{
		{100, "hot"},
		{80, "hot"},
		{79, "warm"},
		{60, "warm"},
		{59, "cool"},
		{40, "cool"},
		{39, "cold"},
		{0, "cold"},
	}

	for _, tc := range cases {
		got := Interpret(tc.score)
		if got.Category != tc.category {
			t.Errorf("score %d: expected category %q, got %q", tc.score, tc.category, got.Category)
		}
		if got.Color == "" || got.RecommendedAction == "" {
			t.Errorf("score %d: interpretation should carry color and action", tc.score)
		}
	}
}
