package entities

import "time"

// ContestWinner is the single finalized winner row for a contest. At most
// one exists per contest; finalization is insert-if-absent.
type ContestWinner struct {
	WinnerID       string
	ContestID      string
	TrackID        string
	ArtistID       string
	FinalVoteCount int
	FinalizedAt    time.Time
}
