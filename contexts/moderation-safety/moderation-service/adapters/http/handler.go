package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"encore/contexts/identity-access/identity-gate/domain/entities"
	"encore/contexts/moderation-safety/moderation-service/application"
	domainerrors "encore/contexts/moderation-safety/moderation-service/domain/errors"
	"encore/contexts/moderation-safety/moderation-service/ports"
	httptransport "encore/contexts/moderation-safety/moderation-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListQueueHandler(ctx context.Context, actor entities.Principal, contestID string) (httptransport.QueueResponse, error) {
	if !actor.IsAdmin() {
		return httptransport.QueueResponse{}, domainerrors.ErrForbidden
	}
	items, err := h.Service.ListQueue(ctx, contestID)
	if err != nil {
		return httptransport.QueueResponse{}, err
	}
	resp := httptransport.QueueResponse{
		Status: "success",
		Data:   make([]httptransport.QueueItemDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, httptransport.QueueItemDTO{
			TrackID:    item.TrackID,
			ContestID:  item.ContestID,
			ArtistID:   item.ArtistID,
			ArtistName: item.ArtistName,
			Title:      item.Title,
			Genre:      item.Genre,
			AudioURL:   item.AudioURL,
			QueuedAt:   item.QueuedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) ApproveTrackHandler(
	ctx context.Context,
	actor entities.Principal,
	idempotencyKey string,
	trackID string,
	req httptransport.ApproveTrackRequest,
) (httptransport.DecisionResponse, error) {
	if !actor.IsAdmin() {
		return httptransport.DecisionResponse{}, domainerrors.ErrForbidden
	}
	record, err := h.Service.Approve(ctx, idempotencyKey, actor.UserID, ports.ModerationActionInput{
		TrackID:   trackID,
		ContestID: req.ContestID,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.DecisionResponse{}, err
	}
	return httptransport.DecisionResponse{Status: "success", Data: toDTO(record)}, nil
}

func (h Handler) RejectTrackHandler(
	ctx context.Context,
	actor entities.Principal,
	idempotencyKey string,
	trackID string,
	req httptransport.RejectTrackRequest,
) (httptransport.DecisionResponse, error) {
	if !actor.IsAdmin() {
		return httptransport.DecisionResponse{}, domainerrors.ErrForbidden
	}
	record, err := h.Service.Reject(ctx, idempotencyKey, actor.UserID, ports.ModerationActionInput{
		TrackID:   trackID,
		ContestID: req.ContestID,
		Reason:    req.RejectionReason,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.DecisionResponse{}, err
	}
	return httptransport.DecisionResponse{Status: "success", Data: toDTO(record)}, nil
}

func (h Handler) ListDecisionsHandler(
	ctx context.Context,
	actor entities.Principal,
	contestID string,
	limitRaw string,
	offsetRaw string,
) (httptransport.DecisionListResponse, error) {
	if !actor.IsAdmin() {
		return httptransport.DecisionListResponse{}, domainerrors.ErrForbidden
	}
	limit := 0
	offset := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		limit = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil {
		offset = parsed
	}
	records, err := h.Service.ListDecisions(ctx, contestID, limit, offset)
	if err != nil {
		return httptransport.DecisionListResponse{}, err
	}
	resp := httptransport.DecisionListResponse{
		Status: "success",
		Data:   make([]httptransport.DecisionDTO, 0, len(records)),
	}
	for _, record := range records {
		resp.Data = append(resp.Data, toDTO(record))
	}
	return resp, nil
}

func toDTO(record ports.DecisionRecord) httptransport.DecisionDTO {
	return httptransport.DecisionDTO{
		DecisionID:  record.DecisionID,
		TrackID:     record.TrackID,
		ContestID:   record.ContestID,
		ModeratorID: record.ModeratorID,
		Action:      record.Action,
		Reason:      record.Reason,
		Notes:       record.Notes,
		CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
	}
}
