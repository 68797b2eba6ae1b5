package commands

import (
	"context"
	"log/slog"
	"strings"

	application "encore/contexts/contest-operations/track-service/application"
	"encore/contexts/contest-operations/track-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/track-service/domain/errors"
	"encore/contexts/contest-operations/track-service/ports"
)

type ApplyDecisionCommand struct {
	TrackID     string
	ModeratorID string
	Status      string
	Reason      string
}

type ApplyDecisionUseCase struct {
	Tracks ports.TrackRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

// Execute records a moderation decision exactly once. The first decision on a
// pending track wins; any later decision fails without overwriting it.
func (uc ApplyDecisionUseCase) Execute(ctx context.Context, cmd ApplyDecisionCommand) (entities.Track, error) {
	logger := application.ResolveLogger(uc.Logger)

	status := strings.TrimSpace(cmd.Status)
	if status != entities.TrackStatusApproved && status != entities.TrackStatusRejected {
		return entities.Track{}, domainerrors.ErrInvalidTrackInput
	}
	if status == entities.TrackStatusRejected && strings.TrimSpace(cmd.Reason) == "" {
		return entities.Track{}, domainerrors.ErrInvalidTrackInput
	}

	track, applied, err := uc.Tracks.ApplyDecision(ctx, strings.TrimSpace(cmd.TrackID), ports.DecisionUpdate{
		Status:      status,
		Reason:      strings.TrimSpace(cmd.Reason),
		ModeratorID: strings.TrimSpace(cmd.ModeratorID),
		DecidedAt:   uc.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.Track{}, err
	}
	if !applied {
		return track, domainerrors.ErrTrackAlreadyDecided
	}

	logger.Info("track moderation decision applied",
		"event", "track_decision_applied",
		"module", "contest-operations/track-service",
		"layer", "application",
		"track_id", track.TrackID,
		"status", track.Status,
		"moderator_id", strings.TrimSpace(cmd.ModeratorID),
	)
	return track, nil
}
