// Package notifier delivers weekly match digests to the tenant's agent over
// WhatsApp and email.
package notifier

import (
	"context"
	"errors"
	"fmt"

	leaddomain "imovia_backend/internal/leads/domain"
	svc "imovia_backend/internal/matching/service"
	tenantdomain "imovia_backend/internal/tenants/domain"
	"imovia_backend/platform/logger"
)

// WhatsAppSender sends a text message through the tenant's WhatsApp instance.
type WhatsAppSender interface {
	SendText(ctx context.Context, instanceKey, to, message string) error
}

// EmailSender delivers a plain-text email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier fans a match digest out to every channel the tenant can receive.
// Either sender may be nil when the channel is not configured.
type Notifier struct {
	whatsapp WhatsAppSender
	email    EmailSender
	log      *logger.Logger
}

var _ svc.Notifier = (*Notifier)(nil)

func New(whatsapp WhatsAppSender, email EmailSender, log *logger.Logger) *Notifier {
	return &Notifier{whatsapp: whatsapp, email: email, log: log}
}

// NotifyMatches sends the digest for one lead. Delivery succeeds when at
// least one configured channel accepts the message.
func (n *Notifier) NotifyMatches(ctx context.Context, tenant tenantdomain.Tenant, lead leaddomain.Lead, matches []svc.PropertyMatch) error {
	if len(matches) == 0 {
		return nil
	}

	message := BuildMatchMessage(lead, matches)

	attempted := 0
	delivered := 0
	var failures []error

	if n.whatsapp != nil && tenant.CanReceiveWhatsApp() {
		attempted++
		if err := n.whatsapp.SendText(ctx, *tenant.WhatsAppInstanceKey, tenant.Phone, message); err != nil {
			failures = append(failures, fmt.Errorf("whatsapp: %w", err))
			n.log.NotificationError("whatsapp", tenant.ID.String(), err)
		} else {
			delivered++
		}
	}

	if n.email != nil && tenant.Email != "" {
		attempted++
		subject := "Novos imóveis para " + lead.DisplayName()
		if err := n.email.Send(ctx, tenant.Email, subject, message); err != nil {
			failures = append(failures, fmt.Errorf("email: %w", err))
			n.log.NotificationError("email", tenant.ID.String(), err)
		} else {
			delivered++
		}
	}

	if attempted == 0 {
		return errors.New("no notification channel configured for tenant")
	}
	if delivered == 0 {
		return errors.Join(failures...)
	}
	return nil
}
