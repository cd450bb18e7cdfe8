package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is a loyalty program member profile.
type Member struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Points       int       `json:"points"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// MemberSnapshot is the profile subset attached to scan results so the
// admin screen can render the member without a second round trip.
type MemberSnapshot struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Points   int       `json:"points"`
}

// Snapshot returns the scan-result view of the member.
func (m *Member) Snapshot() MemberSnapshot {
	return MemberSnapshot{
		ID:       m.ID,
		FullName: m.FullName,
		Points:   m.Points,
	}
}

// SignUpRequest is the DTO for POST /api/auth/signup
type SignUpRequest struct {
	Username string `json:"username" validate:"required,notblank,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,notblank,max=255"`
}

// SignInRequest is the DTO for POST /api/auth/signin
type SignInRequest struct {
	Username string `json:"username" validate:"required,notblank,max=255"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the session token issued on sign-up/sign-in.
type AuthResponse struct {
	Token  string  `json:"token"`
	Member *Member `json:"member"`
}

// UpdateProfileRequest is the DTO for PATCH /api/profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,notblank,max=255"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=1024"`
}

// ProfileStats is the member-facing counters shown on the profile screen.
type ProfileStats struct {
	VisitsCount        int `json:"visits_count"`
	ActiveRewardsCount int `json:"active_rewards_count"`
	Points             int `json:"points"`
}
