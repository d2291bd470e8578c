package bootstrap

import (
	"log/slog"

	"github.com/rentora/rentora-ui/config"
	"github.com/rentora/rentora-ui/internal/adapters/devauth"
	"github.com/rentora/rentora-ui/internal/adapters/oidc"
	"github.com/rentora/rentora-ui/internal/ports"
	"github.com/rentora/rentora-ui/internal/service"
)

// AuthOptions contains configuration and collaborators for the auth service.
type AuthOptions struct {
	Auth config.AuthConfig

	// Sessions is the session store shared by both modes.
	Sessions ports.SessionStore

	// Passwords backs the email/password flow in oidc mode (the identity
	// client). Ignored in mock mode, where the dev provider covers both flows.
	Passwords ports.PasswordAuthenticator

	// Directory and Roles are backed by the rental backend's user directory.
	Directory ports.Directory
	Roles     ports.RoleLookup

	Logger *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid; the UI
// then runs signed-out-only.
func BuildAuthService(opts AuthOptions) *service.AuthService {
	if opts.Sessions == nil {
		if opts.Logger != nil {
			opts.Logger.Warn("auth service disabled: session store not configured", "mode", opts.Auth.Mode)
		}
		return nil
	}

	switch opts.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(opts)

	case config.AuthModeOIDC:
		return buildOIDCAuthService(opts)

	default:
		return nil
	}
}

func buildDevAuthService(opts AuthOptions) *service.AuthService {
	// Explicitly enabled dev auth mode; one local provider covers both the
	// federated and password flows.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          opts.Auth.DevAuth.UserID,
		Email:           opts.Auth.DevAuth.Email,
		DisplayName:     opts.Auth.DevAuth.DisplayName,
		SessionDuration: opts.Auth.SessionDuration,
	})
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Passwords: prov,
		Federated: prov,
		Sessions:  opts.Sessions,
		Directory: opts.Directory,
		Roles:     opts.Roles,
		Logger:    opts.Logger,
	})
}

func buildOIDCAuthService(opts AuthOptions) *service.AuthService {
	// Only enable when fully configured
	oauth := opts.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if opts.Logger != nil {
			opts.Logger.Warn("AuthModeOIDC selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}
	if opts.Passwords == nil {
		if opts.Logger != nil {
			opts.Logger.Warn("AuthModeOIDC selected but identity client missing; auth disabled")
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Passwords: opts.Passwords,
		Federated: prov,
		Sessions:  opts.Sessions,
		Directory: opts.Directory,
		Roles:     opts.Roles,
		Logger:    opts.Logger,
	})
}
