package model

import "time"

// Scan result kinds, discriminating the payload of a valid scan.
const (
	ScanKindVisit  = "visit"
	ScanKindReward = "reward"
)

// ValidationResult is the transient outcome of an admin scan. It is
// never persisted; every scan re-derives it from current state.
type ValidationResult struct {
	Valid bool      `json:"valid"`
	Error string    `json:"error,omitempty"`
	Data  *ScanData `json:"data,omitempty"`
}

// ScanData is the enriched payload of a valid scan: the owning member's
// current profile plus, for reward codes, the reward being collected.
type ScanData struct {
	Type      string         `json:"type"`
	Code      string         `json:"code"`
	Member    MemberSnapshot `json:"member"`
	Reward    *Reward        `json:"reward,omitempty"`
	Activity  *Activity      `json:"activity,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// ValidateScanRequest is the DTO for POST /api/admin/scan/validate.
// ActivityName is optional; when present it is resolved and echoed back
// so the accept step can reuse the operator's choice.
type ValidateScanRequest struct {
	Code         string `json:"code" validate:"required,notblank,max=255"`
	ActivityName string `json:"activity_name" validate:"omitempty,max=255"`
}

// AcceptScanRequest is the DTO for POST /api/admin/scan/accept.
type AcceptScanRequest struct {
	Code         string `json:"code" validate:"required,notblank,max=255"`
	ActivityName string `json:"activity_name" validate:"omitempty,max=255"`
}
