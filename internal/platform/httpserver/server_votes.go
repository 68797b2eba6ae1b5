package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	voteerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	votehttp "encore/contexts/contest-operations/vote-ledger/transport/http"
)

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req votehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.votes.Handler.CastVoteHandler(r.Context(), actor, resolveClientIP(r), r.UserAgent(), req)
	if err != nil {
		if errors.Is(err, voteerrors.ErrAlreadyVoted) {
			writeJSON(w, http.StatusConflict, votehttp.AlreadyVotedResponse{
				Status:  resp.Status,
				Message: err.Error(),
				Data:    resp.Data,
			})
			return
		}
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVoterStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.votes.Handler.VoterStatusHandler(r.Context(), actor, r.URL.Query().Get("contest_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.LeaderboardHandler(r.Context(), r.PathValue("contest_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeVoteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, voteerrors.ErrVotingClosed):
		writeVoteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, voteerrors.ErrTrackNotEligible):
		writeVoteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, voteerrors.ErrAlreadyVoted):
		writeVoteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, voteerrors.ErrVoteNotFound):
		writeVoteError(w, http.StatusNotFound, err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeVoteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
