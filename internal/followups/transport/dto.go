package transport

import (
	"time"

	"github.com/google/uuid"

	"telecrm_backend/internal/followups/repository"
)

type FollowUpStatus string

const (
	StatusPending   FollowUpStatus = "PENDING"
	StatusCompleted FollowUpStatus = "COMPLETED"
	StatusCancelled FollowUpStatus = "CANCELLED"
)

type ScheduleFollowUpRequest struct {
	LeadID       uuid.UUID  `json:"leadId" validate:"required"`
	ScheduledFor time.Time  `json:"scheduledFor" validate:"required"`
	AssignedToID *uuid.UUID `json:"assignedToId"`
	Notes        *string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateFollowUpRequest struct {
	Status FollowUpStatus `json:"status" validate:"required,oneof=COMPLETED CANCELLED"`
	Notes  *string        `json:"notes" validate:"omitempty,max=2000"`
}

type ListFollowUpsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	DueOnly  bool   `form:"dueOnly"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type FollowUpResponse struct {
	ID           uuid.UUID  `json:"id"`
	CallID       *uuid.UUID `json:"callId,omitempty"`
	LeadID       uuid.UUID  `json:"leadId"`
	LeadName     string     `json:"leadName"`
	LeadPhone    string     `json:"leadPhone"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	Status       string     `json:"status"`
	AssignedToID uuid.UUID  `json:"assignedToId"`
	Notes        string     `json:"notes"`
	Overdue      bool       `json:"overdue"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type FollowUpListResponse struct {
	FollowUps []FollowUpResponse `json:"followUps"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"pageSize"`
}

// ToFollowUpResponse maps a row to the API shape. Overdue is computed at read
// time against the supplied clock, never persisted.
func ToFollowUpResponse(f repository.FollowUp, now time.Time) FollowUpResponse {
	return FollowUpResponse{
		ID:           f.ID,
		CallID:       f.CallID,
		LeadID:       f.LeadID,
		LeadName:     f.LeadName,
		LeadPhone:    f.LeadPhone,
		ScheduledFor: f.ScheduledFor,
		Status:       f.Status,
		AssignedToID: f.AssignedToID,
		Notes:        f.Notes,
		Overdue:      f.Status == string(StatusPending) && f.ScheduledFor.Before(now),
		CreatedAt:    f.CreatedAt,
	}
}
