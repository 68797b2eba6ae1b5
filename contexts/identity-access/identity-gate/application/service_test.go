package application

import (
	"errors"
	"strings"
	"testing"
	"time"

	"encore/contexts/identity-access/identity-gate/domain/entities"
	domainerrors "encore/contexts/identity-access/identity-gate/domain/errors"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

func TestIssueAndAuthenticateRoundTrip(t *testing.T) {
	service := Service{Secret: []byte("unit-secret")}

	token, err := service.Issue("user-1", []string{"voter", "artist"}, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	principal, err := service.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if principal.UserID != "user-1" {
		t.Fatalf("unexpected user_id %s", principal.UserID)
	}
	if !principal.HasRole(entities.RoleArtist) || !principal.HasRole("voter") {
		t.Fatalf("expected both roles, got %v", principal.Roles)
	}
	if principal.IsAdmin() {
		t.Fatalf("did not expect admin role")
	}
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	service := Service{Secret: []byte("unit-secret")}

	token, err := service.Issue("user-2", []string{"voter"}, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	parts := strings.Split(token, ".")
	forged := parts[0] + "." + parts[1] + "." + strings.Repeat("0", len(parts[2]))

	if _, err := service.Authenticate(forged); !errors.Is(err, domainerrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := Service{Secret: []byte("unit-secret"), Clock: fixedClock{at: issuedAt}}

	token, err := service.Issue("user-3", []string{"voter"}, 10*time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	late := Service{Secret: []byte("unit-secret"), Clock: fixedClock{at: issuedAt.Add(11 * time.Minute)}}
	if _, err := late.Authenticate(token); !errors.Is(err, domainerrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestAuthenticateRejectsForeignSecret(t *testing.T) {
	issuer := Service{Secret: []byte("secret-a")}
	verifier := Service{Secret: []byte("secret-b")}

	token, err := issuer.Issue("user-4", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.Authenticate(token); !errors.Is(err, domainerrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated across secrets, got %v", err)
	}
}
