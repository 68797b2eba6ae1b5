package ports

import (
	"context"
	"time"

	"encore/contexts/contest-operations/track-service/domain/entities"
	"encore/internal/shared/events"
)

type DecisionUpdate struct {
	Status      string
	Reason      string
	ModeratorID string
	DecidedAt   time.Time
}

type TrackRepository interface {
	// CreateTrack inserts a new entry. A second submission by the same
	// artist in the same contest must fail atomically unless the existing
	// track was rejected.
	CreateTrack(ctx context.Context, track entities.Track) error
	GetTrack(ctx context.Context, trackID string) (entities.Track, bool, error)
	GetTrackByArtist(ctx context.Context, contestID string, artistID string) (entities.Track, bool, error)
	UpdateTrack(ctx context.Context, track entities.Track) error
	ListTracksByContest(ctx context.Context, contestID string, status string) ([]entities.Track, error)
	ListTracksByArtist(ctx context.Context, artistID string) ([]entities.Track, error)
	// ApplyDecision moves a pending track to a terminal moderation status.
	// applied=false means the track was already decided; the stored track
	// is returned unchanged.
	ApplyDecision(ctx context.Context, trackID string, update DecisionUpdate) (entities.Track, bool, error)
	SetVoteCount(ctx context.Context, trackID string, count int64, updatedAt time.Time) error
}

// PaymentStatusClient reports whether the artist completed the registration
// payment for a contest. Backed by the payment module outside this package.
type PaymentStatusClient interface {
	ArtistHasPaid(ctx context.Context, artistID string, contestID string) (bool, error)
}

// SubmissionGate answers whether a contest currently accepts track
// submissions. Backed by the contest module outside this package.
type SubmissionGate interface {
	AllowTrackSubmission(ctx context.Context, contestID string) error
}

// WinnerHistory reports whether an artist won any contest finalized at or
// after the given instant.
type WinnerHistory interface {
	WonSince(ctx context.Context, artistID string, since time.Time) (bool, error)
}

type EventEnvelope = events.Envelope

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
