package entities

import "strings"

const (
	RoleVoter  = "voter"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// Principal is an authenticated identity plus its non-exclusive role set.
type Principal struct {
	UserID string
	Roles  []string
}

func (p Principal) HasRole(role string) bool {
	role = strings.TrimSpace(strings.ToLower(role))
	for _, item := range p.Roles {
		if strings.EqualFold(strings.TrimSpace(item), role) {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
