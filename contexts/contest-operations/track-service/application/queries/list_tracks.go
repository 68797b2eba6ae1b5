package queries

import (
	"context"
	"strings"

	"encore/contexts/contest-operations/track-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/track-service/domain/errors"
	"encore/contexts/contest-operations/track-service/ports"
)

type TrackUseCase struct {
	Tracks ports.TrackRepository
}

// ApprovedTracks returns the publicly visible entries of a contest.
func (uc TrackUseCase) ApprovedTracks(ctx context.Context, contestID string) ([]entities.Track, error) {
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, domainerrors.ErrInvalidTrackInput
	}
	return uc.Tracks.ListTracksByContest(ctx, contestID, entities.TrackStatusApproved)
}

// PendingTracks returns the moderation queue for a contest, or across all
// contests when contestID is empty.
func (uc TrackUseCase) PendingTracks(ctx context.Context, contestID string) ([]entities.Track, error) {
	return uc.Tracks.ListTracksByContest(ctx, strings.TrimSpace(contestID), entities.TrackStatusPending)
}

// ArtistTracks returns every submission made by one artist, any status.
func (uc TrackUseCase) ArtistTracks(ctx context.Context, artistID string) ([]entities.Track, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, domainerrors.ErrInvalidTrackInput
	}
	return uc.Tracks.ListTracksByArtist(ctx, artistID)
}

func (uc TrackUseCase) GetTrack(ctx context.Context, trackID string) (entities.Track, error) {
	track, found, err := uc.Tracks.GetTrack(ctx, strings.TrimSpace(trackID))
	if err != nil {
		return entities.Track{}, err
	}
	if !found {
		return entities.Track{}, domainerrors.ErrTrackNotFound
	}
	return track, nil
}
