package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "encore/contexts/contest-operations/track-service/application"
	"encore/contexts/contest-operations/track-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/track-service/domain/errors"
	"encore/contexts/contest-operations/track-service/ports"
)

const winnerCooldown = 12 * 30 * 24 * time.Hour

type SubmitTrackCommand struct {
	ArtistID    string
	ContestID   string
	ArtistName  string
	Title       string
	Genre       string
	AudioURL    string
	CoverArtURL string
}

type SubmitTrackUseCase struct {
	Tracks   ports.TrackRepository
	Payments ports.PaymentStatusClient
	Gate     ports.SubmissionGate
	Winners  ports.WinnerHistory
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc SubmitTrackUseCase) Execute(ctx context.Context, cmd SubmitTrackCommand) (entities.Track, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	trackID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Track{}, err
	}
	track := entities.Track{
		TrackID:     trackID,
		ContestID:   strings.TrimSpace(cmd.ContestID),
		ArtistID:    strings.TrimSpace(cmd.ArtistID),
		ArtistName:  strings.TrimSpace(cmd.ArtistName),
		Title:       strings.TrimSpace(cmd.Title),
		Genre:       strings.TrimSpace(cmd.Genre),
		AudioURL:    strings.TrimSpace(cmd.AudioURL),
		CoverArtURL: strings.TrimSpace(cmd.CoverArtURL),
		Status:      entities.TrackStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !track.ValidateSubmit() {
		return entities.Track{}, domainerrors.ErrInvalidTrackInput
	}

	if uc.Gate != nil {
		if err := uc.Gate.AllowTrackSubmission(ctx, track.ContestID); err != nil {
			return entities.Track{}, err
		}
	}

	paid, err := uc.Payments.ArtistHasPaid(ctx, track.ArtistID, track.ContestID)
	if err != nil {
		return entities.Track{}, err
	}
	if !paid {
		return entities.Track{}, domainerrors.ErrRegistrationIncomplete
	}

	if uc.Winners != nil {
		won, err := uc.Winners.WonSince(ctx, track.ArtistID, now.Add(-winnerCooldown))
		if err != nil {
			return entities.Track{}, err
		}
		if won {
			return entities.Track{}, domainerrors.ErrWinnerCooldown
		}
	}

	if err := uc.Tracks.CreateTrack(ctx, track); err != nil {
		return entities.Track{}, err
	}

	logger.Info("track submitted",
		"event", "track_submitted",
		"module", "contest-operations/track-service",
		"layer", "application",
		"track_id", track.TrackID,
		"contest_id", track.ContestID,
		"artist_id", track.ArtistID,
	)
	return track, nil
}
