package model

import (
	"time"

	"github.com/google/uuid"
)

// Redemption status values. Accept persists active -> used. Expiry is
// derived at read time; the only place it is written back is a redeem of
// the same reward flipping a stale active row to 'expired' so the
// one-active constraint stops counting it.
const (
	RedemptionActive  = "active"
	RedemptionUsed    = "used"
	RedemptionExpired = "expired"
)

// Redemption is a claimed reward instance with its own one-time code.
// The member's points were debited when the row was created; accepting
// the code only flips status to used.
type Redemption struct {
	ID        uuid.UUID  `json:"id"`
	MemberID  uuid.UUID  `json:"member_id"`
	RewardID  uuid.UUID  `json:"reward_id"`
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	Reward    *Reward    `json:"reward,omitempty"`
}

// ValidAt reports whether the redemption can still be accepted.
func (r *Redemption) ValidAt(now time.Time) bool {
	return r.Status == RedemptionActive && r.ExpiresAt.After(now)
}

// PresentedStatus maps the stored status through lazy expiry: an active
// row past its expiry reads as expired without ever being rewritten.
func (r *Redemption) PresentedStatus(now time.Time) string {
	if r.Status == RedemptionActive && !r.ExpiresAt.After(now) {
		return RedemptionExpired
	}
	return r.Status
}
