package service

import "errors"

var (
	// ErrNotAuthenticated is returned when no verified identity accompanies the call
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotAuthorized is returned when a non-admin calls an admin operation.
	// Deliberately says nothing about the scanned code.
	ErrNotAuthorized = errors.New("admin access required")

	// ErrInvalidCredentials is returned on sign-in with a wrong username or password
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when signing up with an existing username
	ErrUsernameTaken = errors.New("username already taken")

	// ErrMemberNotFound is returned when a member cannot be found
	ErrMemberNotFound = errors.New("member not found")

	// ErrCodeNotFound is returned when a scanned code matches nothing
	ErrCodeNotFound = errors.New("code not found")

	// ErrCodeExpired is returned when a scanned code exists but has expired
	ErrCodeExpired = errors.New("code expired")

	// ErrCodeInactive is returned for a pass that was superseded by a newer one
	ErrCodeInactive = errors.New("code no longer active")

	// ErrAlreadyConsumed is returned when accepting a code that was already used
	ErrAlreadyConsumed = errors.New("code already used")

	// ErrInsufficientPoints is returned when a redemption costs more than the balance
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrDuplicateActiveRedemption is returned when the member already holds an
	// active, unexpired redemption for the same reward
	ErrDuplicateActiveRedemption = errors.New("reward already has an active redemption")

	// ErrActivePassExists signals a lost race on the single-active-pass
	// constraint; the caller re-reads and returns the winner's code
	ErrActivePassExists = errors.New("active pass code already exists")

	// ErrRewardNotFound is returned when a reward cannot be found
	ErrRewardNotFound = errors.New("reward not found")

	// ErrRewardInactive is returned when redeeming a deactivated reward
	ErrRewardInactive = errors.New("reward is not available")

	// ErrOutOfStock is returned when a limited reward has no quantity left
	ErrOutOfStock = errors.New("reward out of stock")

	// ErrActivityNotFound is returned for an unknown activity name
	ErrActivityNotFound = errors.New("unknown activity")

	// ErrEventNotFound is returned when an event cannot be found
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
