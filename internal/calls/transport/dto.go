package transport

import (
	"time"

	"github.com/google/uuid"

	"telecrm_backend/internal/calls/repository"
)

type CallStatus string

const (
	StatusConnected         CallStatus = "CONNECTED"
	StatusNoAnswer          CallStatus = "NO_ANSWER"
	StatusBusy              CallStatus = "BUSY"
	StatusWrongNumber       CallStatus = "WRONG_NUMBER"
	StatusScheduledCallback CallStatus = "SCHEDULED_CALLBACK"
)

type LogCallRequest struct {
	LeadID            uuid.UUID  `json:"leadId" validate:"required"`
	Status            CallStatus `json:"status" validate:"required,oneof=CONNECTED NO_ANSWER BUSY WRONG_NUMBER SCHEDULED_CALLBACK"`
	Duration          *int       `json:"duration" validate:"omitempty,min=0,max=14400"`
	Outcome           *string    `json:"outcome" validate:"omitempty,max=255"`
	Notes             string     `json:"notes" validate:"required,min=1,max=2000"`
	LeadStatus        *string    `json:"leadStatus" validate:"omitempty,oneof=CONTACTED INTERESTED NOT_INTERESTED CONVERTED LOST"`
	InterestedCountry *string    `json:"interestedCountry" validate:"omitempty,max=60"`
	FollowUpAt        *time.Time `json:"followUpAt"`
	FollowUpNotes     *string    `json:"followUpNotes" validate:"omitempty,max=2000"`
	CounsellorID      *uuid.UUID `json:"counsellorId"`
}

type CallResponse struct {
	ID           uuid.UUID `json:"id"`
	LeadID       uuid.UUID `json:"leadId"`
	TelecallerID uuid.UUID `json:"telecallerId"`
	Status       string    `json:"status"`
	Duration     int       `json:"duration"`
	Outcome      string    `json:"outcome,omitempty"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

type LogCallResponse struct {
	Call       CallResponse `json:"call"`
	LeadStatus string       `json:"leadStatus"`
	FollowUpID *uuid.UUID   `json:"followUpId,omitempty"`
}

func ToCallResponse(c repository.Call) CallResponse {
	return CallResponse{
		ID:           c.ID,
		LeadID:       c.LeadID,
		TelecallerID: c.TelecallerID,
		Status:       c.Status,
		Duration:     c.Duration,
		Outcome:      c.Outcome,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
	}
}

func ToCallResponses(calls []repository.Call) []CallResponse {
	out := make([]CallResponse, 0, len(calls))
	for _, c := range calls {
		out = append(out, ToCallResponse(c))
	}
	return out
}
