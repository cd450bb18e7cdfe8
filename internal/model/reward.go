package model

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a catalog item members can spend points on.
// Quantity is nil for unlimited rewards.
type Reward struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PointsRequired int       `json:"points_required"`
	ImageURL       string    `json:"image_url,omitempty"`
	IsActive       bool      `json:"is_active"`
	Quantity       *int      `json:"quantity,omitempty"`
	CreatedAt      time.Time `json:"-"`
}

// RedeemRequest is the DTO for POST /api/rewards/redeem
type RedeemRequest struct {
	RewardID uuid.UUID `json:"reward_id" validate:"required"`
}
