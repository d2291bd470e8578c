package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rentora/rentora-ui/config"
	"github.com/rentora/rentora-ui/internal/adapters/backend"
	"github.com/rentora/rentora-ui/internal/adapters/devauth"
	"github.com/rentora/rentora-ui/internal/adapters/identity"
	"github.com/rentora/rentora-ui/internal/ports"
)

// BuildIdentityClient creates the identity provider REST client used for
// password sign-in and service-account token minting.
func BuildIdentityClient(cfg config.IdentityConfig, sessionDuration time.Duration) (*identity.Client, error) {
	client, err := identity.NewClient(identity.Config{
		BaseURL:         cfg.BaseURL,
		APIKey:          cfg.APIKey,
		HTTPClient:      &http.Client{Timeout: cfg.Timeout},
		SessionDuration: sessionDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("create identity client: %w", err)
	}
	return client, nil
}

// TokenSourceOptions groups dependencies for the backend token source.
type TokenSourceOptions struct {
	Mode     config.AuthMode
	Identity config.IdentityConfig
	// Client is the identity client; required when Mode is oidc.
	Client *identity.Client
}

// BuildTokenSource selects the bearer-token source for backend API calls:
// the identity service account in oidc mode, a fixed dev token in mock mode.
//
//nolint:ireturn // callers program against the port, not a concrete source.
func BuildTokenSource(opts TokenSourceOptions) (ports.TokenSource, error) {
	if opts.Mode == config.AuthModeMock {
		return devauth.TokenSource{}, nil
	}

	tokens, err := identity.NewServiceTokenSource(
		opts.Client,
		opts.Identity.ServiceEmail,
		opts.Identity.ServicePassword,
	)
	if err != nil {
		return nil, fmt.Errorf("create service token source: %w", err)
	}
	return tokens, nil
}

// BackendOptions groups dependencies for the backend API client.
type BackendOptions struct {
	Config config.BackendConfig
	Tokens ports.TokenSource
	Logger *slog.Logger
}

// BuildBackendClient creates the REST client for the rental backend that owns
// houses, bookings, reviews, and the user directory.
func BuildBackendClient(opts BackendOptions) (*backend.Client, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL:          opts.Config.BaseURL,
		Tokens:           opts.Tokens,
		HTTPClient:       &http.Client{Timeout: opts.Config.Timeout},
		Logger:           opts.Logger,
		ErrorMessagePath: opts.Config.ErrorMessagePath,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	return client, nil
}
