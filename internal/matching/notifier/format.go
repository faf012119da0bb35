package notifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	leaddomain "imovia_backend/internal/leads/domain"
	svc "imovia_backend/internal/matching/service"
	propdomain "imovia_backend/internal/properties/domain"
)

// Display names for property types in agent-facing messages.
var propertyTypeNames = map[string]string{
	propdomain.TypeHouse:      "Casa",
	propdomain.TypeApartment:  "Apartamento",
	propdomain.TypeCondo:      "Condomínio",
	propdomain.TypeStudio:     "Studio",
	propdomain.TypeLoft:       "Loft",
	propdomain.TypeCommercial: "Comercial",
	propdomain.TypeLand:       "Terreno",
	propdomain.TypeOther:      "Outro",
}

// FormatPrice abbreviates a price for compact display: R$ 1.5M, R$ 200K.
func FormatPrice(price float64) string {
	switch {
	case price >= 1_000_000:
		return fmt.Sprintf("R$ %.1fM", price/1_000_000)
	case price >= 1_000:
		return fmt.Sprintf("R$ %.0fK", price/1_000)
	default:
		return "R$ " + groupThousands(price)
	}
}

// FormatBudgetRange renders the lead's budget bounds, or "" when none set.
func FormatBudgetRange(lead leaddomain.Lead) string {
	switch {
	case lead.BudgetMin != nil && lead.BudgetMax != nil:
		return fmt.Sprintf("R$ %s - R$ %s", groupThousands(*lead.BudgetMin), groupThousands(*lead.BudgetMax))
	case lead.BudgetMin != nil:
		return "A partir de R$ " + groupThousands(*lead.BudgetMin)
	case lead.BudgetMax != nil:
		return "Até R$ " + groupThousands(*lead.BudgetMax)
	default:
		return ""
	}
}

// FormatPropertyTypes renders the lead's type interests with display names.
func FormatPropertyTypes(lead leaddomain.Lead) string {
	if len(lead.PropertyTypeInterest) == 0 {
		return ""
	}
	names := make([]string, 0, len(lead.PropertyTypeInterest))
	for _, t := range lead.PropertyTypeInterest {
		if name, ok := propertyTypeNames[t]; ok {
			names = append(names, name)
		} else {
			names = append(names, t)
		}
	}
	return strings.Join(names, ", ")
}

// BuildMatchMessage renders the WhatsApp digest for one lead's matches.
func BuildMatchMessage(lead leaddomain.Lead, matches []svc.PropertyMatch) string {
	var b strings.Builder

	b.WriteString("🏠 *Novos imóveis que podem interessar ao cliente*\n\n")
	b.WriteString("*Cliente*: " + lead.DisplayName() + "\n")
	b.WriteString("📱 *Telefone*: " + lead.Phone + "\n")
	if lead.Email != nil && *lead.Email != "" {
		b.WriteString("📧 *Email*: " + *lead.Email + "\n")
	}

	b.WriteString("\n*Preferências do cliente*:\n")
	if budget := FormatBudgetRange(lead); budget != "" {
		b.WriteString("💰 Orçamento: " + budget + "\n")
	}
	if len(lead.PreferredLocations) > 0 {
		b.WriteString("📍 Localizações: " + strings.Join(lead.PreferredLocations, ", ") + "\n")
	}
	if types := FormatPropertyTypes(lead); types != "" {
		b.WriteString("🏢 Tipos: " + types + "\n")
	}
	if lead.Preferences.Bedrooms != nil {
		b.WriteString("🛏️ Quartos: " + strconv.Itoa(*lead.Preferences.Bedrooms) + "\n")
	}

	b.WriteString("\n*Imóveis correspondentes*:\n")
	for i, match := range matches {
		url := "#"
		if match.Property.SourceURL != nil && *match.Property.SourceURL != "" {
			url = *match.Property.SourceURL
		}
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, match.Property.Title)
		b.WriteString("   💰 " + FormatPrice(match.Property.Price) + "\n")
		b.WriteString("   📍 " + match.Property.Location() + "\n")
		b.WriteString("   🔗 " + url + "\n")
		fmt.Fprintf(&b, "   📊 Compatibilidade: %d%%\n\n", int(math.Round(match.Score*100)))
	}

	b.WriteString("💡 *Ação sugerida*: Entre em contato com o cliente para apresentar estas opções!")
	return b.String()
}

// groupThousands renders a non-negative amount with comma separators and no
// decimals.
func groupThousands(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
