package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state GuardState
		route RouteKind
		want  GuardDecision
	}{
		{
			name:  "public route renders while checking",
			state: GuardState{Checking: true},
			route: RoutePublic,
			want:  DecideAllow,
		},
		{
			name:  "public route renders signed out",
			state: GuardState{},
			route: RoutePublic,
			want:  DecideAllow,
		},
		{
			name:  "public route renders signed in",
			state: GuardState{Authenticated: true},
			route: RoutePublic,
			want:  DecideAllow,
		},
		{
			name:  "protected route shows loader while checking",
			state: GuardState{Checking: true},
			route: RouteProtected,
			want:  DecideShowLoader,
		},
		{
			name:  "protected route redirects signed out to login",
			state: GuardState{},
			route: RouteProtected,
			want:  DecideRedirectLogin,
		},
		{
			name:  "protected route renders signed in",
			state: GuardState{Authenticated: true},
			route: RouteProtected,
			want:  DecideAllow,
		},
		{
			name:  "public-only route shows loader while checking",
			state: GuardState{Checking: true},
			route: RoutePublicOnly,
			want:  DecideShowLoader,
		},
		{
			name:  "public-only route renders signed out",
			state: GuardState{},
			route: RoutePublicOnly,
			want:  DecideAllow,
		},
		{
			name:  "public-only route redirects signed in to dashboard",
			state: GuardState{Authenticated: true},
			route: RoutePublicOnly,
			want:  DecideRedirectDashboard,
		},
		{
			name:  "checking is never treated as signed out",
			state: GuardState{Checking: true, Authenticated: false},
			route: RouteProtected,
			want:  DecideShowLoader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.route))
		})
	}
}
