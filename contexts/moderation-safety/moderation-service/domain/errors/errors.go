package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("moderation request is invalid")
	ErrForbidden              = errors.New("actor is not allowed to moderate tracks")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key already used with different payload")
	ErrDependencyUnavailable  = errors.New("track decision dependency unavailable")
	ErrDecisionWindowClosed   = errors.New("moderation decisions are closed for this contest")
	ErrTrackNotFound          = errors.New("track not found")
	ErrTrackAlreadyDecided    = errors.New("track decision already recorded")
)
