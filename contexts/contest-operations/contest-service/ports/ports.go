package ports

import (
	"context"
	"time"

	"encore/contexts/contest-operations/contest-service/domain/entities"
)

type ContestRepository interface {
	CreateContest(ctx context.Context, contest entities.Contest) error
	UpdateContest(ctx context.Context, contest entities.Contest) error
	GetContest(ctx context.Context, contestID string) (entities.Contest, error)
	// CurrentContest returns the most recently created non-archived contest.
	CurrentContest(ctx context.Context) (entities.Contest, bool, error)
	ListContests(ctx context.Context) ([]entities.Contest, error)
}

type WinnerRepository interface {
	// SaveWinner inserts if absent, keyed by contest. When a winner row
	// already exists it is returned unchanged with inserted=false.
	SaveWinner(ctx context.Context, winner entities.ContestWinner) (entities.ContestWinner, bool, error)
	GetWinner(ctx context.Context, contestID string) (entities.ContestWinner, bool, error)
	ListWinnersByArtist(ctx context.Context, artistID string) ([]entities.ContestWinner, error)
}

// TrackStanding is the ledger-derived tally for one approved track, as
// supplied by the vote ledger for winner finalization.
type TrackStanding struct {
	TrackID        string
	ArtistID       string
	VoteCount      int
	TrackCreatedAt time.Time
}

// TallySource reads authoritative standings from the vote ledger. The
// contest module never counts votes itself.
type TallySource interface {
	ContestStandings(ctx context.Context, contestID string) ([]TrackStanding, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
