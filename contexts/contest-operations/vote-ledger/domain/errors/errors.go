package errors

import "errors"

var (
	ErrInvalidVoteInput = errors.New("vote input is invalid")
	ErrVotingClosed     = errors.New("voting is closed for this contest")
	ErrTrackNotEligible = errors.New("track is not eligible to receive votes")
	ErrAlreadyVoted     = errors.New("voter already cast a vote in this contest")
	ErrVoteNotFound     = errors.New("vote not found")
	ErrLedgerCorrupted  = errors.New("vote ledger holds more than one row for a voter")
)
