package ports

import (
	"context"
	"time"

	"encore/contexts/contest-operations/vote-ledger/domain/entities"
	"encore/internal/shared/events"
)

type VoteRepository interface {
	// InsertVote appends a ledger row unless the voter already holds one for
	// the contest. inserted=false returns the pre-existing row untouched.
	InsertVote(ctx context.Context, vote entities.Vote) (entities.Vote, bool, error)
	// GetVoteByVoter returns the voter's ledger row for a contest. It must
	// fail with ErrLedgerCorrupted when more than one row exists.
	GetVoteByVoter(ctx context.Context, contestID string, voterID string) (entities.Vote, bool, error)
	CountVotesByTrack(ctx context.Context, trackID string) (int64, error)
	ListVotesByContest(ctx context.Context, contestID string) ([]entities.Vote, error)
	// TallyByContest returns per-track counts derived from ledger rows.
	TallyByContest(ctx context.Context, contestID string) (map[string]int64, error)
}

// TrackRef is the slice of track state the ledger needs: identity, owner,
// eligibility, and the creation instant used to break ties.
type TrackRef struct {
	TrackID    string
	ContestID  string
	ArtistID   string
	ArtistName string
	Title      string
	Approved   bool
	CreatedAt  time.Time
}

// TrackCatalog reads track state from the track module. Wired outside this
// package.
type TrackCatalog interface {
	GetTrackRef(ctx context.Context, trackID string) (TrackRef, bool, error)
	ApprovedTrackRefs(ctx context.Context, contestID string) ([]TrackRef, error)
}

// VotingGate answers whether a contest currently accepts votes. Wired to the
// contest module outside this package.
type VotingGate interface {
	AllowVoteCast(ctx context.Context, contestID string) error
}

type EventEnvelope = events.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// TallyCache is the track module's denormalized per-track vote count. The
// reconciler reads and repairs it; ledger rows stay authoritative.
type TallyCache interface {
	CachedCounts(ctx context.Context, contestID string) (map[string]int64, error)
	SetVoteCount(ctx context.Context, trackID string, count int64, updatedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
