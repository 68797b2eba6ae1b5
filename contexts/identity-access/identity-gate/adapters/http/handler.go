package httpadapter

import (
	"net/http"
	"strings"

	"encore/contexts/identity-access/identity-gate/application"
	"encore/contexts/identity-access/identity-gate/domain/entities"
	domainerrors "encore/contexts/identity-access/identity-gate/domain/errors"
)

type Handler struct {
	Tokens application.Service
}

// ResolvePrincipal authenticates the Authorization bearer token on a request.
func (h Handler) ResolvePrincipal(r *http.Request) (entities.Principal, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	return h.Tokens.Authenticate(strings.TrimSpace(token))
}
