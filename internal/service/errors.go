package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Membership Errors =====
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipInactive = errors.New("membership is not active")
	ErrInvalidRenewalType = errors.New("invalid renewal type")
)

// ===== Renewal Errors =====
var (
	ErrRenewalTooEarly  = errors.New("renewal window has not opened yet")
	ErrRenewalTooLate   = errors.New("renewal deadline and grace period have passed")
	ErrCapacityExceeded = errors.New("membership has reached maximum member limit")
	ErrRenewalNotNeeded = errors.New("membership does not require renewal")
	ErrPassInProgress   = errors.New("a renewal pass is already running")
)

// ===== Gamification Errors =====
var (
	ErrUnknownAction  = errors.New("unknown action type")
	ErrAlreadyAwarded = errors.New("points already awarded for this source")
	ErrInvalidAmount  = errors.New("amount must be positive")
)
