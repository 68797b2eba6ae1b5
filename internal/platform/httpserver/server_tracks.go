package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	trackerrors "encore/contexts/contest-operations/track-service/domain/errors"
	trackhttp "encore/contexts/contest-operations/track-service/transport/http"
)

func (s *Server) handleApprovedTracks(w http.ResponseWriter, r *http.Request) {
	resp, err := s.tracks.Handler.ApprovedTracksHandler(r.Context(), r.URL.Query().Get("contest_id"))
	if err != nil {
		writeTrackDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArtistTracks(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.tracks.Handler.ArtistTracksHandler(r.Context(), actor)
	if err != nil {
		writeTrackDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req trackhttp.SubmitTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrackError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.tracks.Handler.SubmitTrackHandler(r.Context(), actor, req)
	if err != nil {
		writeTrackDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req trackhttp.UpdateTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrackError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.tracks.Handler.UpdateTrackHandler(r.Context(), actor, r.PathValue("track_id"), req)
	if err != nil {
		writeTrackDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeTrackDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trackerrors.ErrInvalidTrackInput):
		writeTrackError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, trackerrors.ErrTrackNotFound):
		writeTrackError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, trackerrors.ErrRegistrationIncomplete):
		writeTrackError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, trackerrors.ErrRegistrationClosed):
		writeTrackError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, trackerrors.ErrDuplicateSubmission):
		writeTrackError(w, http.StatusConflict, err.Error())
	case errors.Is(err, trackerrors.ErrWinnerCooldown):
		writeTrackError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, trackerrors.ErrTrackAlreadyDecided):
		writeTrackError(w, http.StatusConflict, err.Error())
	case errors.Is(err, trackerrors.ErrTrackLocked):
		writeTrackError(w, http.StatusConflict, err.Error())
	case errors.Is(err, trackerrors.ErrForbidden):
		writeTrackError(w, http.StatusForbidden, err.Error())
	default:
		writeTrackError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeTrackError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, trackhttp.ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
