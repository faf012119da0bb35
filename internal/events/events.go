package events

import "github.com/google/uuid"

// LeadScored is published after a lead's quality score is recalculated
// and persisted.
type LeadScored struct {
	BaseEvent
	TenantID uuid.UUID
	LeadID   uuid.UUID
	Score    int
	OldScore int
}

// EventName returns the unique identifier for this event type.
func (LeadScored) EventName() string { return "leads.scored" }

// NewLeadScored builds a scored event for a lead whose score changed.
func NewLeadScored(tenantID uuid.UUID, leadID uuid.UUID, score int, oldScore int) LeadScored {
	return LeadScored{
		BaseEvent: NewBaseEvent(),
		TenantID:  tenantID,
		LeadID:    leadID,
		Score:     score,
		OldScore:  oldScore,
	}
}

// WeeklyMatchingCompleted is published when a weekly matching sweep finishes
// for a tenant, successfully or not.
type WeeklyMatchingCompleted struct {
	BaseEvent
	TenantID          uuid.UUID
	LeadsAnalyzed     int
	PropertiesScanned int
	TotalMatches      int
	NotificationsSent int
	LeadFailures      int
}

// EventName returns the unique identifier for this event type.
func (WeeklyMatchingCompleted) EventName() string { return "matching.weekly.completed" }

// NewWeeklyMatchingCompleted builds the completion event for a sweep.
func NewWeeklyMatchingCompleted(tenantID uuid.UUID, leadsAnalyzed, propertiesScanned, totalMatches, notificationsSent, leadFailures int) WeeklyMatchingCompleted {
	return WeeklyMatchingCompleted{
		BaseEvent:         NewBaseEvent(),
		TenantID:          tenantID,
		LeadsAnalyzed:     leadsAnalyzed,
		PropertiesScanned: propertiesScanned,
		TotalMatches:      totalMatches,
		NotificationsSent: notificationsSent,
		LeadFailures:      leadFailures,
	}
}
