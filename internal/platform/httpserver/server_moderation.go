package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	moderationerrors "encore/contexts/moderation-safety/moderation-service/domain/errors"
	moderationhttp "encore/contexts/moderation-safety/moderation-service/transport/http"
)

func (s *Server) handleModerationQueue(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.moderation.Handler.ListQueueHandler(r.Context(), actor, r.URL.Query().Get("contest_id"))
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req moderationhttp.ApproveTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeModerationError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.moderation.Handler.ApproveTrackHandler(
		r.Context(),
		actor,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("track_id"),
		req,
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req moderationhttp.RejectTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeModerationError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.moderation.Handler.RejectTrackHandler(
		r.Context(),
		actor,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("track_id"),
		req,
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	resp, err := s.moderation.Handler.ListDecisionsHandler(
		r.Context(),
		actor,
		query.Get("contest_id"),
		query.Get("limit"),
		query.Get("offset"),
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeModerationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderationerrors.ErrInvalidRequest):
		writeModerationError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, moderationerrors.ErrForbidden):
		writeModerationError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, moderationerrors.ErrIdempotencyKeyRequired):
		writeModerationError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, moderationerrors.ErrIdempotencyConflict):
		writeModerationError(w, http.StatusConflict, err.Error())
	case errors.Is(err, moderationerrors.ErrTrackNotFound):
		writeModerationError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, moderationerrors.ErrTrackAlreadyDecided):
		writeModerationError(w, http.StatusConflict, err.Error())
	case errors.Is(err, moderationerrors.ErrDecisionWindowClosed):
		writeModerationError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, moderationerrors.ErrDependencyUnavailable):
		writeModerationError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeModerationError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeModerationError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, moderationhttp.ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
