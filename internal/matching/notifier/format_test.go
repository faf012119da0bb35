package notifier

import (
	"strings"
	"testing"

	leaddomain "imovia_backend/internal/leads/domain"
	svc "imovia_backend/internal/matching/service"
	propdomain "imovia_backend/internal/properties/domain"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price    float64
		expected string
	}{
		{1_500_000, "R$ 1.5M"},
		{1_000_000, "R$ 1.0M"},
		{200_000, "R$ 200K"},
		{1_000, "R$ 1K"},
		{850, "R$ 850"},
		{0, "R$ 0"},
	}

	for _, tc := range cases {
		if got := FormatPrice(tc.price); got != tc.expected {
			t.Errorf("FormatPrice(%v): expected %q, got %q", tc.price, tc.expected, got)
		}
	}
}

func TestFormatBudgetRange(t *testing.T) {
	both := leaddomain.Lead{BudgetMin: floatPtr(150_000), BudgetMax: floatPtr(250_000)}
	if got := FormatBudgetRange(both); got != "R$ 150,000 - R$ 250,000" {
		t.Errorf("unexpected range: %q", got)
	}

	onlyMin := leaddomain.Lead{BudgetMin: floatPtr(500_000)}
	if got := FormatBudgetRange(onlyMin); got != "A partir de R$ 500,000" {
		t.Errorf("unexpected min-only range: %q", got)
	}

	onlyMax := leaddomain.Lead{BudgetMax: floatPtr(900)}
	if got := FormatBudgetRange(onlyMax); got != "Até R$ 900" {
		t.Errorf("unexpected max-only range: %q", got)
	}

	if got := FormatBudgetRange(leaddomain.Lead{}); got != "" {
		t.Errorf("expected empty range for no budget, got %q", got)
	}
}

func TestFormatPropertyTypes(t *testing.T) {
	lead := leaddomain.Lead{PropertyTypeInterest: []string{
		propdomain.TypeHouse, propdomain.TypeApartment, "castle",
	}}
	if got := FormatPropertyTypes(lead); got != "Casa, Apartamento, castle" {
		t.Errorf("unexpected types: %q", got)
	}
}

func TestBuildMatchMessage(t *testing.T) {
	lead := leaddomain.Lead{
		Name:                 strPtr("Maria Silva"),
		Phone:                "+5511999990000",
		Email:                strPtr("maria@example.com"),
		BudgetMin:            floatPtr(150_000),
		BudgetMax:            floatPtr(250_000),
		PreferredLocations:   []string{"Moema", "Vila Mariana"},
		PropertyTypeInterest: []string{propdomain.TypeApartment},
		Preferences:          leaddomain.Preferences{Bedrooms: intPtr(2)},
	}
	matches := []svc.PropertyMatch{
		{
			Property: propdomain.Property{
				Title:        "Apartamento em Moema",
				Neighborhood: strPtr("Moema"),
				City:         "São Paulo",
				Price:        230_000,
				SourceURL:    strPtr("https://example.com/123"),
			},
			Score: 0.97,
		},
		{
			Property: propdomain.Property{
				Title: "Apartamento Centro",
				City:  "São Paulo",
				Price: 1_200_000,
			},
			Score: 0.705,
		},
	}

	message := BuildMatchMessage(lead, matches)

	for _, want := range []string{
		"*Cliente*: Maria Silva",
		"📱 *Telefone*: +5511999990000",
		"📧 *Email*: maria@example.com",
		"💰 Orçamento: R$ 150,000 - R$ 250,000",
		"📍 Localizações: Moema, Vila Mariana",
		"🏢 Tipos: Apartamento",
		"🛏️ Quartos: 2",
		"1. *Apartamento em Moema*",
		"💰 R$ 230K",
		"📍 Moema, São Paulo",
		"🔗 https://example.com/123",
		"📊 Compatibilidade: 97%",
		"2. *Apartamento Centro*",
		"💰 R$ 1.2M",
		"🔗 #",
		"📊 Compatibilidade: 71%",
		"💡 *Ação sugerida*",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q\nmessage:\n%s", want, message)
		}
	}
}

func TestBuildMatchMessageUnnamedLead(t *testing.T) {
	lead := leaddomain.Lead{Phone: "+5511999990000"}
	message := BuildMatchMessage(lead, nil)

	if !strings.Contains(message, "*Cliente*: Sem nome") {
		t.Errorf("expected placeholder name, got:\n%s", message)
	}
}
