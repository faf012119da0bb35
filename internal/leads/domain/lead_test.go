package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestHasPreferenceSignal(t *testing.T) {
	budget := 200000.0

	cases := []struct {
		name string
		lead Lead
		want bool
	}{
		{"no signals", Lead{}, false},
		{"budget min only", Lead{BudgetMin: &budget}, true},
		{"budget max only", Lead{BudgetMax: &budget}, true},
		{"location only", Lead{PreferredLocations: []string{"Palermo"}}, true},
		{"type interest only", Lead{PropertyTypeInterest: []string{"apartment"}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.lead.HasPreferenceSignal(); got != tc.want {
				t.Errorf("HasPreferenceSignal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasHighQualitySource(t *testing.T) {
	cases := []struct {
		name   string
		source *string
		want   bool
	}{
		{"nil source", nil, false},
		{"website", strPtr("website"), true},
		{"referral", strPtr("referral"), true},
		{"agent", strPtr("agent"), true},
		{"facebook", strPtr("facebook"), false},
		{"empty string", strPtr(""), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := Lead{Source: tc.source}
			if got := lead.HasHighQualitySource(); got != tc.want {
				t.Errorf("HasHighQualitySource() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	unnamed := Lead{}
	if got := unnamed.DisplayName(); got != "Sem nome" {
		t.Errorf("DisplayName() = %q, want %q", got, "Sem nome")
	}

	emptyName := Lead{Name: strPtr("")}
	if got := emptyName.DisplayName(); got != "Sem nome" {
		t.Errorf("DisplayName() with empty name = %q, want %q", got, "Sem nome")
	}

	named := Lead{Name: strPtr("Maria Silva")}
	if got := named.DisplayName(); got != "Maria Silva" {
		t.Errorf("DisplayName() = %q, want %q", got, "Maria Silva")
	}
}

func TestPreferencesIsEmpty(t *testing.T) {
	if !(Preferences{}).IsEmpty() {
		t.Error("empty preferences should report IsEmpty")
	}

	bedrooms := 2
	if (Preferences{Bedrooms: &bedrooms}).IsEmpty() {
		t.Error("preferences with bedrooms should not report IsEmpty")
	}

	if (Preferences{DesiredFeatures: []string{"piscina"}}).IsEmpty() {
		t.Error("preferences with features should not report IsEmpty")
	}
}
