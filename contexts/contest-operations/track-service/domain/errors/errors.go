package errors

import "errors"

var (
	ErrInvalidTrackInput      = errors.New("track input is invalid")
	ErrTrackNotFound          = errors.New("track not found")
	ErrRegistrationIncomplete = errors.New("artist has no completed registration payment for this contest")
	ErrRegistrationClosed     = errors.New("track submission is closed for this contest")
	ErrDuplicateSubmission    = errors.New("artist already submitted a track for this contest")
	ErrWinnerCooldown         = errors.New("recent winners must sit out before entering again")
	ErrTrackAlreadyDecided    = errors.New("track already has a moderation decision")
	ErrTrackLocked            = errors.New("track can no longer be edited")
	ErrForbidden              = errors.New("actor is not allowed to perform this track operation")
)
