package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name  string
		r     Role
		other Role
		want  bool
	}{
		{"admin at least admin", RoleAdmin, RoleAdmin, true},
		{"admin at least user", RoleAdmin, RoleUser, true},
		{"user not at least admin", RoleUser, RoleAdmin, false},
		{"user at least guest", RoleUser, RoleGuest, true},
		{"guest not at least user", RoleGuest, RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.AtLeast(tt.other))
		})
	}
}

func TestSessionRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, Session{Admin: true}.Role())
	assert.Equal(t, RoleUser, Session{Admin: false}.Role())
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, Session{}.IsExpired(now), "zero expiry never expires")
	assert.False(t, Session{ExpiresAt: now.Add(time.Hour)}.IsExpired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Minute)}.IsExpired(now))
}
