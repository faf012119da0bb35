// Package domain holds the tenant entity.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant account statuses.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusTrial     = "trial"
)

// Tenant is one real-estate agent or brokerage account. It is the isolation
// boundary: every query in the system is scoped to a tenant ID.
type Tenant struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string

	CompanyName *string

	// WhatsAppInstanceKey identifies the tenant's device on the WhatsApp
	// gateway; empty means WhatsApp notifications are disabled for the tenant.
	WhatsAppInstanceKey *string

	Status   string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanReceiveWhatsApp reports whether match notifications can be delivered to
// the tenant over WhatsApp.
func (t Tenant) CanReceiveWhatsApp() bool {
	return t.WhatsAppInstanceKey != nil && *t.WhatsAppInstanceKey != "" && t.Phone != ""
}
