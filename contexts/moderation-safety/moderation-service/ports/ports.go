package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type QueueItem struct {
	TrackID    string
	ContestID  string
	ArtistID   string
	ArtistName string
	Title      string
	Genre      string
	AudioURL   string
	QueuedAt   time.Time
}

type ModerationActionInput struct {
	TrackID   string
	ContestID string
	Reason    string
	Notes     string
}

type DecisionRecord struct {
	DecisionID  string
	TrackID     string
	ContestID   string
	ModeratorID string
	Action      string
	Reason      string
	Notes       string
	CreatedAt   time.Time
}

// TrackDecisionClient pushes the decision into the track module, which owns
// track eligibility. Wired outside this package.
type TrackDecisionClient interface {
	ApproveTrack(ctx context.Context, trackID string, moderatorID string, reason string) error
	RejectTrack(ctx context.Context, trackID string, moderatorID string, reason string) error
}

// TrackQueueClient reads the pending submissions owned by the track module.
type TrackQueueClient interface {
	PendingTracks(ctx context.Context, contestID string) ([]QueueItem, error)
}

// DecisionGate answers whether a contest currently accepts moderation
// decisions. Wired to the contest module outside this package.
type DecisionGate interface {
	AllowModerationDecision(ctx context.Context, contestID string) error
}

type Repository interface {
	RecordDecision(ctx context.Context, record DecisionRecord) (DecisionRecord, error)
	ListDecisionsByContest(ctx context.Context, contestID string, limit int, offset int) ([]DecisionRecord, error)
}
