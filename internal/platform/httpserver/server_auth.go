package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
	identityerrors "encore/contexts/identity-access/identity-gate/domain/errors"
)

type issueTokenRequest struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

type issueTokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

type authErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, authErrorResponse{Status: "error", Message: "request body must be valid JSON"})
		return
	}

	token, err := s.identity.Tokens.Issue(req.UserID, req.Roles, s.tokenTTL)
	if err != nil {
		switch {
		case errors.Is(err, identityerrors.ErrInvalidPrincipal):
			writeJSON(w, http.StatusBadRequest, authErrorResponse{Status: "error", Message: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, authErrorResponse{Status: "error", Message: "internal server error"})
		}
		return
	}
	writeJSON(w, http.StatusOK, issueTokenResponse{Status: "success", Token: token})
}

// authenticate resolves the bearer principal or writes a 401 and reports false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (identityentities.Principal, bool) {
	principal, err := s.identity.Handler.ResolvePrincipal(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, authErrorResponse{
			Status:  "error",
			Message: identityerrors.ErrUnauthenticated.Error(),
		})
		return identityentities.Principal{}, false
	}
	return principal, true
}
