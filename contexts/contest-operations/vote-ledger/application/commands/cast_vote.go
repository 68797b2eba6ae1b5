package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "encore/contexts/contest-operations/vote-ledger/application"
	"encore/contexts/contest-operations/vote-ledger/domain/entities"
	domainerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	"encore/contexts/contest-operations/vote-ledger/ports"
)

type CastVoteCommand struct {
	VoterID   string
	TrackID   string
	IPAddress string
	UserAgent string
}

// CastVoteResult carries the committed vote and the ledger tally for the
// voted track at commit time.
type CastVoteResult struct {
	Vote      entities.Vote
	VoteCount int64
}

// CastVoteUseCase appends to the vote ledger. The one-vote invariant lives in
// the repository's atomic insert; this use case never pre-checks and retries.
type CastVoteUseCase struct {
	Votes  ports.VoteRepository
	Tracks ports.TrackCatalog
	Gate   ports.VotingGate
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	trackID := strings.TrimSpace(cmd.TrackID)
	if voterID == "" || trackID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	track, found, err := uc.Tracks.GetTrackRef(ctx, trackID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !found || !track.Approved {
		return CastVoteResult{}, domainerrors.ErrTrackNotEligible
	}

	if uc.Gate != nil {
		if err := uc.Gate.AllowVoteCast(ctx, track.ContestID); err != nil {
			return CastVoteResult{}, err
		}
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	now := uc.Clock.Now().UTC()
	vote := entities.Vote{
		VoteID:    voteID,
		ContestID: track.ContestID,
		TrackID:   trackID,
		VoterID:   voterID,
		IPAddress: strings.TrimSpace(cmd.IPAddress),
		UserAgent: strings.TrimSpace(cmd.UserAgent),
		CreatedAt: now,
	}

	stored, inserted, err := uc.Votes.InsertVote(ctx, vote)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !inserted {
		logger.Warn("duplicate vote rejected",
			"event", "vote_duplicate_rejected",
			"module", "contest-operations/vote-ledger",
			"layer", "application",
			"contest_id", stored.ContestID,
			"voter_id", voterID,
			"existing_track_id", stored.TrackID,
		)
		return CastVoteResult{Vote: stored}, domainerrors.ErrAlreadyVoted
	}

	count, err := uc.Votes.CountVotesByTrack(ctx, trackID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if err := uc.appendVoteCommitted(ctx, stored, count); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote committed",
		"event", "vote_committed",
		"module", "contest-operations/vote-ledger",
		"layer", "application",
		"vote_id", stored.VoteID,
		"contest_id", stored.ContestID,
		"track_id", stored.TrackID,
		"voter_id", stored.VoterID,
		"vote_count", count,
	)
	return CastVoteResult{Vote: stored, VoteCount: count}, nil
}

func (uc CastVoteUseCase) appendVoteCommitted(ctx context.Context, vote entities.Vote, count int64) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"vote_id":    vote.VoteID,
		"contest_id": vote.ContestID,
		"track_id":   vote.TrackID,
		"vote_count": count,
		"cast_at":    vote.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        "vote.committed",
		OccurredAt:       vote.CreatedAt.UTC(),
		SourceService:    "vote-ledger",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "track_id",
		PartitionKey:     vote.TrackID,
		Data:             data,
	})
}
