package transport

import (
	"time"

	"github.com/google/uuid"

	"telecrm_backend/internal/leads/repository"
)

type LeadStatus string

const (
	StatusNew           LeadStatus = "NEW"
	StatusContacted     LeadStatus = "CONTACTED"
	StatusInterested    LeadStatus = "INTERESTED"
	StatusNotInterested LeadStatus = "NOT_INTERESTED"
	StatusConverted     LeadStatus = "CONVERTED"
	StatusLost          LeadStatus = "LOST"
)

type CreateLeadRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=120"`
	Email              *string  `json:"email" validate:"omitempty,email"`
	Phone              string   `json:"phone" validate:"required,min=7,max=20"`
	Source             *string  `json:"source" validate:"omitempty,max=60"`
	PreferredCountries []string `json:"preferredCountries" validate:"omitempty,dive,max=60"`
	Notes              *string  `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateLeadRequest struct {
	Name               *string  `json:"name" validate:"omitempty,min=2,max=120"`
	Email              *string  `json:"email" validate:"omitempty,email"`
	Status             *string  `json:"status" validate:"omitempty,oneof=NEW CONTACTED INTERESTED NOT_INTERESTED CONVERTED LOST"`
	PreferredCountries []string `json:"preferredCountries" validate:"omitempty,dive,max=60"`
	InterestedCountry  *string  `json:"interestedCountry" validate:"omitempty,max=60"`
	Notes              *string  `json:"notes" validate:"omitempty,max=2000"`
}

type ListLeadsRequest struct {
	Status     string `form:"status" validate:"omitempty,oneof=NEW CONTACTED INTERESTED NOT_INTERESTED CONVERTED LOST"`
	Unassigned bool   `form:"unassigned"`
	Search     string `form:"search" validate:"omitempty,max=120"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type AssignLeadsRequest struct {
	LeadIDs      []uuid.UUID `json:"leadIds" validate:"required,min=1,dive,required"`
	TelecallerID uuid.UUID   `json:"telecallerId" validate:"required"`
}

type AssignLeadsResponse struct {
	AssignedCount int         `json:"assignedCount"`
	AssignedIDs   []uuid.UUID `json:"assignedIds"`
}

type ImportRowRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=120"`
	Email              *string  `json:"email" validate:"omitempty,email"`
	Phone              string   `json:"phone" validate:"required,min=7,max=20"`
	Source             *string  `json:"source" validate:"omitempty,max=60"`
	PreferredCountries []string `json:"preferredCountries" validate:"omitempty,dive,max=60"`
}

type ImportLeadsRequest struct {
	FileName string             `json:"fileName" validate:"required,max=255"`
	Rows     []ImportRowRequest `json:"rows" validate:"required,min=1,max=5000,dive"`
}

type ImportLeadsResponse struct {
	ImportID uuid.UUID `json:"importId"`
	Total    int       `json:"total"`
	Created  int       `json:"created"`
	Skipped  int       `json:"skipped"`
}

type ImportRecordResponse struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	TotalRows    int       `json:"totalRows"`
	CreatedCount int       `json:"createdCount"`
	SkippedCount int       `json:"skippedCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type LeadResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Email              *string    `json:"email,omitempty"`
	Phone              string     `json:"phone"`
	Source             string     `json:"source"`
	Status             string     `json:"status"`
	ManagedByID        *uuid.UUID `json:"managedById,omitempty"`
	AssignedToID       *uuid.UUID `json:"assignedToId,omitempty"`
	PreferredCountries []string   `json:"preferredCountries"`
	InterestedCountry  *string    `json:"interestedCountry,omitempty"`
	Notes              string     `json:"notes"`
	TotalCallAttempts  int        `json:"totalCallAttempts"`
	ConvertedAt        *time.Time `json:"convertedAt,omitempty"`
	LastContactedAt    *time.Time `json:"lastContactedAt,omitempty"`
	NextFollowUpDate   *time.Time `json:"nextFollowUpDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Leads    []LeadResponse `json:"leads"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type ActivityResponse struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	UserID      uuid.UUID      `json:"userId"`
	LeadID      *uuid.UUID     `json:"leadId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func ToLeadResponse(l repository.Lead) LeadResponse {
	countries := l.PreferredCountries
	if countries == nil {
		countries = []string{}
	}
	return LeadResponse{
		ID:                 l.ID,
		Name:               l.Name,
		Email:              l.Email,
		Phone:              l.Phone,
		Source:             l.Source,
		Status:             l.Status,
		ManagedByID:        l.ManagedByID,
		AssignedToID:       l.AssignedToID,
		PreferredCountries: countries,
		InterestedCountry:  l.InterestedCountry,
		Notes:              l.Notes,
		TotalCallAttempts:  l.TotalCallAttempts,
		ConvertedAt:        l.ConvertedAt,
		LastContactedAt:    l.LastContactedAt,
		NextFollowUpDate:   l.NextFollowUpDate,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out
}

func ToActivityResponse(a repository.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Description,
		UserID:      a.UserID,
		LeadID:      a.LeadID,
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt,
	}
}
