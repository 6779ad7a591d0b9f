package transport

import (
	"time"

	"github.com/google/uuid"
)

// Enum values
type StaffRole string

const (
	RoleHead       StaffRole = "HEAD"
	RoleManager    StaffRole = "MANAGER"
	RoleTelecaller StaffRole = "TELECALLER"
	RoleCounselor  StaffRole = "COUNSELOR"
	RoleStudent    StaffRole = "STUDENT"
)

type StaffStatus string

const (
	StatusActive   StaffStatus = "ACTIVE"
	StatusInactive StaffStatus = "INACTIVE"
)

// Request DTOs
type AssignTelecallerRequest struct {
	TelecallerID uuid.UUID `json:"telecallerId" validate:"required"`
}

type RemoveTelecallerRequest struct {
	TelecallerID uuid.UUID `json:"telecallerId" validate:"required"`
}

type UpdateStatusRequest struct {
	Status StaffStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

type ListStaffRequest struct {
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"min=0"`
	PageSize int    `form:"pageSize" validate:"min=0,max=100"`
}

// Response DTOs
type PerformanceResponse struct {
	Leads          int     `json:"leads"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversionRate"`
	CallsMade      int     `json:"callsMade"`
	MonthlyTarget  int     `json:"monthlyTarget"`
}

type StaffResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	EmployeeID string      `json:"employeeId"`
	Role       StaffRole   `json:"role"`
	Status     StaffStatus `json:"status"`
	ManagerID  *uuid.UUID  `json:"managerId,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type StaffWithPerformanceResponse struct {
	StaffResponse
	Performance PerformanceResponse `json:"performance"`
}

type StaffListResponse struct {
	Items      []StaffWithPerformanceResponse `json:"items"`
	Total      int                            `json:"total"`
	Page       int                            `json:"page"`
	PageSize   int                            `json:"pageSize"`
	TotalPages int                            `json:"totalPages"`
}
