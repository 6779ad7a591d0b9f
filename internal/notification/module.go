// Package notification subscribes to domain events and delivers reminders
// and assignment emails. Domain modules publish events; only this module
// knows about SMTP and the reminder queue.
package notification

import (
	"context"

	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/email"
	"telecrm_backend/internal/events"
	"telecrm_backend/internal/scheduler"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
)

// StaffDirectory resolves recipients for notification emails.
type StaffDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (directoryrepo.StaffMember, error)
}

// Module wires the event subscriptions. It has no HTTP surface.
type Module struct {
	staff     StaffDirectory
	sender    email.Sender
	reminders scheduler.ReminderScheduler
	log       *logger.Logger
}

// NewModule creates the notification module and registers its handlers on
// the bus. A nil reminder scheduler disables queued reminders but keeps the
// immediate emails working.
func NewModule(bus events.Bus, staff StaffDirectory, sender email.Sender, reminders scheduler.ReminderScheduler, log *logger.Logger) *Module {
	m := &Module{staff: staff, sender: sender, reminders: reminders, log: log}

	bus.Subscribe("followups.scheduled", events.HandlerFunc(m.onFollowUpScheduled))
	bus.Subscribe("followups.due", events.HandlerFunc(m.onFollowUpDue))
	bus.Subscribe("leads.assigned", events.HandlerFunc(m.onLeadsAssigned))

	return m
}

func (m *Module) onFollowUpScheduled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowUpScheduled)
	if !ok {
		return nil
	}
	if m.reminders == nil {
		return nil
	}

	err := m.reminders.ScheduleFollowUpReminder(ctx, scheduler.FollowUpReminderPayload{
		FollowUpID: e.FollowUpID.String(),
	}, e.ScheduledFor)
	if err != nil {
		m.log.Warn("enqueue follow-up reminder failed", "followUpId", e.FollowUpID.String(), "error", err.Error())
		return err
	}
	return nil
}

func (m *Module) onFollowUpDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowUpDue)
	if !ok {
		return nil
	}

	staff, err := m.staff.GetByID(ctx, e.AssignedToID)
	if err != nil {
		m.log.Warn("follow-up reminder recipient lookup failed", "staffId", e.AssignedToID.String(), "error", err.Error())
		return err
	}

	if err := m.sender.SendFollowUpReminder(ctx, staff.Email, staff.Name, e.LeadName, e.LeadPhone); err != nil {
		m.log.Warn("follow-up reminder email failed", "staffId", e.AssignedToID.String(), "error", err.Error())
		return err
	}
	return nil
}

func (m *Module) onLeadsAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadsAssigned)
	if !ok {
		return nil
	}

	staff, err := m.staff.GetByID(ctx, e.TelecallerID)
	if err != nil {
		m.log.Warn("assignment email recipient lookup failed", "staffId", e.TelecallerID.String(), "error", err.Error())
		return err
	}

	if err := m.sender.SendLeadsAssigned(ctx, staff.Email, staff.Name, len(e.LeadIDs)); err != nil {
		m.log.Warn("assignment email failed", "staffId", e.TelecallerID.String(), "error", err.Error())
		return err
	}
	return nil
}
