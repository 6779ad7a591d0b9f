// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"telecrm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadsAssigned is published when a manager assigns a batch of leads to a telecaller.
type LeadsAssigned struct {
	BaseEvent
	LeadIDs      []uuid.UUID `json:"leadIds"`
	TelecallerID uuid.UUID   `json:"telecallerId"`
	ManagerID    uuid.UUID   `json:"managerId"`
}

func (e LeadsAssigned) EventName() string { return "leads.assigned" }

// LeadsImported is published after a bulk upload created leads.
type LeadsImported struct {
	BaseEvent
	ImportID     uuid.UUID `json:"importId"`
	ManagerID    uuid.UUID `json:"managerId"`
	CreatedCount int       `json:"createdCount"`
	SkippedCount int       `json:"skippedCount"`
}

func (e LeadsImported) EventName() string { return "leads.imported" }

// =============================================================================
// Call Domain Events
// =============================================================================

// CallLogged is published after a call interaction has been recorded.
type CallLogged struct {
	BaseEvent
	CallID       uuid.UUID `json:"callId"`
	LeadID       uuid.UUID `json:"leadId"`
	TelecallerID uuid.UUID `json:"telecallerId"`
	CallStatus   string    `json:"callStatus"`
	LeadStatus   string    `json:"leadStatus"`
	HasFollowUp  bool      `json:"hasFollowUp"`
}

func (e CallLogged) EventName() string { return "calls.logged" }

// =============================================================================
// Follow-Up Domain Events
// =============================================================================

// FollowUpScheduled is published when a new follow-up reminder is created.
type FollowUpScheduled struct {
	BaseEvent
	FollowUpID   uuid.UUID `json:"followUpId"`
	LeadID       uuid.UUID `json:"leadId"`
	AssignedToID uuid.UUID `json:"assignedToId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

func (e FollowUpScheduled) EventName() string { return "followups.scheduled" }

// FollowUpDue is published by the worker when a pending follow-up reaches its
// scheduled time.
type FollowUpDue struct {
	BaseEvent
	FollowUpID   uuid.UUID `json:"followUpId"`
	LeadID       uuid.UUID `json:"leadId"`
	LeadName     string    `json:"leadName"`
	LeadPhone    string    `json:"leadPhone"`
	AssignedToID uuid.UUID `json:"assignedToId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

func (e FollowUpDue) EventName() string { return "followups.due" }

// =============================================================================
// Directory Domain Events
// =============================================================================

// TelecallerAssigned is published when a telecaller is claimed by a manager.
type TelecallerAssigned struct {
	BaseEvent
	TelecallerID uuid.UUID `json:"telecallerId"`
	ManagerID    uuid.UUID `json:"managerId"`
}

func (e TelecallerAssigned) EventName() string { return "directory.telecaller.assigned" }
