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

type UpdateTrackCommand struct {
	ArtistID    string
	TrackID     string
	Title       string
	Genre       string
	AudioURL    string
	CoverArtURL string
}

type UpdateTrackUseCase struct {
	Tracks ports.TrackRepository
	Gate   ports.SubmissionGate
	Clock  ports.Clock
	Logger *slog.Logger
}

// Execute lets the owning artist amend a submission while it is still in the
// moderation queue. Decided tracks are immutable.
func (uc UpdateTrackUseCase) Execute(ctx context.Context, cmd UpdateTrackCommand) (entities.Track, error) {
	logger := application.ResolveLogger(uc.Logger)

	track, found, err := uc.Tracks.GetTrack(ctx, strings.TrimSpace(cmd.TrackID))
	if err != nil {
		return entities.Track{}, err
	}
	if !found {
		return entities.Track{}, domainerrors.ErrTrackNotFound
	}
	if track.ArtistID != strings.TrimSpace(cmd.ArtistID) {
		return entities.Track{}, domainerrors.ErrForbidden
	}
	if track.IsDecided() {
		return entities.Track{}, domainerrors.ErrTrackLocked
	}
	if uc.Gate != nil {
		if err := uc.Gate.AllowTrackSubmission(ctx, track.ContestID); err != nil {
			return entities.Track{}, err
		}
	}

	if title := strings.TrimSpace(cmd.Title); title != "" {
		track.Title = title
	}
	if genre := strings.TrimSpace(cmd.Genre); genre != "" {
		track.Genre = genre
	}
	if audioURL := strings.TrimSpace(cmd.AudioURL); audioURL != "" {
		track.AudioURL = audioURL
	}
	if coverArtURL := strings.TrimSpace(cmd.CoverArtURL); coverArtURL != "" {
		track.CoverArtURL = coverArtURL
	}
	track.UpdatedAt = uc.Clock.Now().UTC()

	if err := uc.Tracks.UpdateTrack(ctx, track); err != nil {
		return entities.Track{}, err
	}

	logger.Info("track updated",
		"event", "track_updated",
		"module", "contest-operations/track-service",
		"layer", "application",
		"track_id", track.TrackID,
		"artist_id", track.ArtistID,
	)
	return track, nil
}
