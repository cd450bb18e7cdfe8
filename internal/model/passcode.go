package model

import (
	"time"

	"github.com/google/uuid"
)

// PassCode is the rotating entry token a member presents at the door.
// At most one pass per member is active at a time; rotation deactivates
// the predecessor. A pass is never consumed by a visit, it stays usable
// until it expires or is superseded.
type PassCode struct {
	ID        uuid.UUID  `json:"id"`
	MemberID  uuid.UUID  `json:"member_id"`
	Code      string     `json:"code"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// ValidAt reports whether the pass can be presented at the given instant.
// Expiry is evaluated lazily; is_active alone never proves validity.
func (p *PassCode) ValidAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ExpiresAt == nil {
		return true
	}
	return p.ExpiresAt.After(now)
}
