package application

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"encore/contexts/identity-access/identity-gate/domain/entities"
	domainerrors "encore/contexts/identity-access/identity-gate/domain/errors"
	"encore/contexts/identity-access/identity-gate/ports"
)

const tokenVersion = "v1"

// Service issues and verifies bearer tokens. Verification is deterministic
// and side-effect-free for a given secret and clock instant.
type Service struct {
	Secret []byte
	Clock  ports.Clock
	Logger *slog.Logger
}

// Issue mints a signed token of the form
// v1.<base64url(user_id|roles_csv|expires_unix)>.<hex hmac-sha256>.
func (s Service) Issue(userID string, roles []string, ttl time.Duration) (string, error) {
	if len(s.Secret) == 0 {
		return "", domainerrors.ErrSecretRequired
	}
	userID = strings.TrimSpace(userID)
	if userID == "" || len(roles) == 0 || ttl <= 0 {
		return "", domainerrors.ErrInvalidPrincipal
	}
	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			return "", domainerrors.ErrInvalidPrincipal
		}
		normalized = append(normalized, role)
	}

	expiresAt := s.now().Add(ttl).Unix()
	claims := userID + "|" + strings.Join(normalized, ",") + "|" + strconv.FormatInt(expiresAt, 10)
	body := base64.RawURLEncoding.EncodeToString([]byte(claims))
	return tokenVersion + "." + body + "." + s.sign(body), nil
}

// Authenticate resolves a bearer token to a Principal. Any malformed,
// tampered, or expired token fails with ErrUnauthenticated; the caller
// receives no detail on which check failed.
func (s Service) Authenticate(token string) (entities.Principal, error) {
	if len(s.Secret) == 0 {
		return entities.Principal{}, domainerrors.ErrSecretRequired
	}
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 || parts[0] != tokenVersion {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	if !hmac.Equal([]byte(s.sign(parts[1])), []byte(parts[2])) {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	fields := strings.Split(string(raw), "|")
	if len(fields) != 3 {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	expiresAt, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || !s.now().Before(time.Unix(expiresAt, 0)) {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}

	userID := strings.TrimSpace(fields[0])
	roles := strings.Split(fields[1], ",")
	if userID == "" || len(roles) == 0 {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	return entities.Principal{UserID: userID, Roles: roles}, nil
}

func (s Service) sign(body string) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(tokenVersion + "." + body))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
