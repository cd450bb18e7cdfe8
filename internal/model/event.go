package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is a venue event shown on the home screen and managed by admins.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEventRequest is the DTO for POST /api/admin/events
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,notblank,max=255"`
	Description string    `json:"description" validate:"max=2000"`
	Date        time.Time `json:"date" validate:"required"`
	ImageURL    string    `json:"image_url" validate:"omitempty,max=1024"`
	IsActive    *bool     `json:"is_active"`
}

// UpdateEventRequest is the DTO for PATCH /api/admin/events/:id.
// Nil fields are left unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,notblank,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Date        *time.Time `json:"date"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,max=1024"`
	IsActive    *bool      `json:"is_active"`
}
