package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	contesterrors "encore/contexts/contest-operations/contest-service/domain/errors"
	contesthttp "encore/contexts/contest-operations/contest-service/transport/http"
)

func (s *Server) handleListContests(w http.ResponseWriter, r *http.Request) {
	resp, err := s.contests.Handler.ListContestsHandler(r.Context())
	if err != nil {
		writeContestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateContest(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req contesthttp.CreateContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeContestError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.contests.Handler.CreateContestHandler(r.Context(), actor, req)
	if err != nil {
		writeContestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCurrentContest(w http.ResponseWriter, r *http.Request) {
	resp, err := s.contests.Handler.CurrentContestHandler(r.Context())
	if err != nil {
		writeContestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetContest(w http.ResponseWriter, r *http.Request) {
	resp, err := s.contests.Handler.GetContestHandler(r.Context(), r.PathValue("contest_id"))
	if err != nil {
		writeContestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArchiveContest(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.contests.Handler.ArchiveContestHandler(r.Context(), actor, r.PathValue("contest_id"))
	if err != nil {
		writeContestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinalizeWinner(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.contests.Handler.FinalizeWinnerHandler(r.Context(), actor, r.PathValue("contest_id"))
	if err != nil {
		writeContestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeContestDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contesterrors.ErrInvalidContestInput):
		writeContestError(w, http.StatusBadRequest, "invalid_contest_input", err.Error())
	case errors.Is(err, contesterrors.ErrContestNotFound):
		writeContestError(w, http.StatusNotFound, "contest_not_found", err.Error())
	case errors.Is(err, contesterrors.ErrNoCurrentContest):
		writeContestError(w, http.StatusNotFound, "no_current_contest", err.Error())
	case errors.Is(err, contesterrors.ErrContestArchived):
		writeContestError(w, http.StatusConflict, "contest_archived", err.Error())
	case errors.Is(err, contesterrors.ErrVotingStillOpen):
		writeContestError(w, http.StatusConflict, "voting_still_open", err.Error())
	case errors.Is(err, contesterrors.ErrNoEligibleTracks):
		writeContestError(w, http.StatusUnprocessableEntity, "no_eligible_tracks", err.Error())
	case errors.Is(err, contesterrors.ErrForbidden):
		writeContestError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, contesterrors.ErrConflict):
		writeContestError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeContestError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeContestError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, contesthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
