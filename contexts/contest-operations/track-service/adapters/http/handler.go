package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"encore/contexts/contest-operations/track-service/application/commands"
	"encore/contexts/contest-operations/track-service/application/queries"
	"encore/contexts/contest-operations/track-service/domain/entities"
	httptransport "encore/contexts/contest-operations/track-service/transport/http"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type Handler struct {
	Submit commands.SubmitTrackUseCase
	Update commands.UpdateTrackUseCase
	Tracks queries.TrackUseCase
	Logger *slog.Logger
}

func (h Handler) SubmitTrackHandler(
	ctx context.Context,
	actor identityentities.Principal,
	req httptransport.SubmitTrackRequest,
) (httptransport.TrackResponse, error) {
	track, err := h.Submit.Execute(ctx, commands.SubmitTrackCommand{
		ArtistID:    actor.UserID,
		ContestID:   req.ContestID,
		ArtistName:  req.ArtistName,
		Title:       req.Title,
		Genre:       req.Genre,
		AudioURL:    req.AudioURL,
		CoverArtURL: req.CoverArtURL,
	})
	if err != nil {
		return httptransport.TrackResponse{}, err
	}
	return httptransport.TrackResponse{Status: "success", Data: toDTO(track)}, nil
}

func (h Handler) UpdateTrackHandler(
	ctx context.Context,
	actor identityentities.Principal,
	trackID string,
	req httptransport.UpdateTrackRequest,
) (httptransport.TrackResponse, error) {
	track, err := h.Update.Execute(ctx, commands.UpdateTrackCommand{
		ArtistID:    actor.UserID,
		TrackID:     trackID,
		Title:       req.Title,
		Genre:       req.Genre,
		AudioURL:    req.AudioURL,
		CoverArtURL: req.CoverArtURL,
	})
	if err != nil {
		return httptransport.TrackResponse{}, err
	}
	return httptransport.TrackResponse{Status: "success", Data: toDTO(track)}, nil
}

func (h Handler) ApprovedTracksHandler(
	ctx context.Context,
	contestID string,
) (httptransport.TrackListResponse, error) {
	tracks, err := h.Tracks.ApprovedTracks(ctx, contestID)
	if err != nil {
		return httptransport.TrackListResponse{}, err
	}
	return toListResponse(tracks), nil
}

func (h Handler) ArtistTracksHandler(
	ctx context.Context,
	actor identityentities.Principal,
) (httptransport.TrackListResponse, error) {
	tracks, err := h.Tracks.ArtistTracks(ctx, actor.UserID)
	if err != nil {
		return httptransport.TrackListResponse{}, err
	}
	return toListResponse(tracks), nil
}

func toListResponse(tracks []entities.Track) httptransport.TrackListResponse {
	resp := httptransport.TrackListResponse{
		Status: "success",
		Data:   make([]httptransport.TrackDTO, 0, len(tracks)),
	}
	for _, track := range tracks {
		resp.Data = append(resp.Data, toDTO(track))
	}
	return resp
}

func toDTO(track entities.Track) httptransport.TrackDTO {
	return httptransport.TrackDTO{
		TrackID:         track.TrackID,
		ContestID:       track.ContestID,
		ArtistID:        track.ArtistID,
		ArtistName:      track.ArtistName,
		Title:           track.Title,
		Genre:           track.Genre,
		AudioURL:        track.AudioURL,
		CoverArtURL:     track.CoverArtURL,
		Status:          track.Status,
		RejectionReason: track.RejectionReason,
		VoteCount:       track.VoteCount,
		CreatedAt:       track.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       track.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
