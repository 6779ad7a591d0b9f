package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type RegisterRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=100"`
	Email      string     `json:"email" validate:"required,email"`
	EmployeeID string     `json:"employeeId" validate:"required,min=1,max=50"`
	Password   string     `json:"password" validate:"required,min=8,max=72"`
	Role       string     `json:"role" validate:"required,oneof=HEAD MANAGER TELECALLER COUNSELOR STUDENT"`
	ManagerID  *uuid.UUID `json:"managerId,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs
type AccountResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	EmployeeID string    `json:"employeeId"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
}

type LoginResponse struct {
	AccessToken string          `json:"accessToken"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	Account     AccountResponse `json:"account"`
}
