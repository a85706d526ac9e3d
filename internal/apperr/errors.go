package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Dispatch errors. Every one of them is scoped to a single order.
var (
	// ErrNoCandidates means no courier is eligible for the order at dispatch time.
	ErrNoCandidates = errors.New("no courier within range")
	// ErrCandidatesExhausted means every ranked candidate declined the order.
	ErrCandidatesExhausted = errors.New("all candidates declined")
	// ErrStaleCallback means a decision arrived for an order that is no longer dispatching.
	ErrStaleCallback = errors.New("stale callback")
	// ErrNotificationDelivery wraps failures of the outbound offer message.
	ErrNotificationDelivery = errors.New("notification delivery failed")
	// ErrStatusSync wraps failures of the order status push.
	ErrStatusSync = errors.New("status sync failed")
)
