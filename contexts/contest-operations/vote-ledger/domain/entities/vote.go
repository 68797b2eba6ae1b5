package entities

import "time"

// Vote is one immutable ledger row. Votes are never updated or deleted;
// the (contest, voter) pair is unique for the lifetime of the contest.
type Vote struct {
	VoteID    string
	ContestID string
	TrackID   string
	VoterID   string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
