package devauth

import (
	"context"

	"github.com/rentora/rentora-ui/internal/ports"
)

// TokenSource returns a fixed bearer token. Dev backends accept any token, so
// this stands in for the identity service account when AUTH_MODE=mock.
type TokenSource struct {
	Value string
}

var _ ports.TokenSource = TokenSource{}

func (t TokenSource) Token(_ context.Context) (string, error) {
	if t.Value == "" {
		return "dev-token", nil
	}
	return t.Value, nil
}
