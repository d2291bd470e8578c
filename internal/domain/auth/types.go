package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// AtLeast reports whether r grants at least the privileges of other.
func (r Role) AtLeast(other Role) bool {
	rank := map[Role]int{RoleGuest: 0, RoleUser: 1, RoleAdmin: 2}
	return rank[r] >= rank[other]
}

// Identity represents the authenticated principal returned by the identity
// provider. Adapters map provider-specific payloads into this shape.
type Identity struct {
	UserID        string // stable user identifier (provider localId or sub)
	Email         string
	DisplayName   string
	AvatarURL     string
	EmailVerified bool
	ExpiresAt     time.Time // absolute expiry from the provider token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
// Admin is derived from the directory role lookup after sign-in; it is
// meaningless without a live session and defaults to false until the lookup
// lands.
type Session struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	AvatarURL     string    `json:"avatar_url"`
	EmailVerified bool      `json:"email_verified"`
	Admin         bool      `json:"admin"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Role maps the session's admin flag onto the role hierarchy.
func (s Session) Role() Role {
	if s.Admin {
		return RoleAdmin
	}
	return RoleUser
}

// IsExpired returns true once the session has passed its expiry.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
