package errors

import "errors"

var (
	ErrInvalidContestInput = errors.New("invalid contest input")
	ErrContestNotFound     = errors.New("contest not found")
	ErrNoCurrentContest    = errors.New("no current contest")
	ErrContestArchived     = errors.New("contest is archived")
	ErrVotingStillOpen     = errors.New("contest voting window has not closed")
	ErrNoEligibleTracks    = errors.New("contest has no approved tracks to finalize")
	ErrForbidden           = errors.New("admin role required")
	ErrConflict            = errors.New("contest conflict")
)
