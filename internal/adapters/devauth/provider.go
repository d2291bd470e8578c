package devauth

// Package devauth provides config-driven identity adapters for local
// development, so the UI runs without a live identity provider. It covers
// both ports: the federated flow short-circuits to our own callback, and the
// password flow accepts any non-empty password.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID          string
	Email           string
	DisplayName     string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.FederatedProvider and ports.PasswordAuthenticator
// for local development. Begin short-circuits the OAuth flow by redirecting
// back to our own callback with locally generated state and nonce; Exchange
// ignores the code and returns the configured identity.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
}

// Compile-time conformance to both identity ports.
var (
	_ ports.FederatedProvider     = (*Provider)(nil)
	_ ports.PasswordAuthenticator = (*Provider)(nil)
)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = cfg.Email
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:        cfg.UserID,
			Email:         cfg.Email,
			DisplayName:   displayName,
			EmailVerified: true,
			ExpiresAt:     time.Now().Add(dur),
		},
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// Our standard handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by handler) and returns the dev identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	// Refresh expiry on each exchange for convenience
	if time.Until(p.identity.ExpiresAt) < 5*time.Minute {
		p.identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	return p.identity, nil
}

// SignUp mints an identity from the submitted form without any remote calls.
func (p *Provider) SignUp(_ context.Context, in ports.SignUpInput) (domainauth.Identity, error) {
	if !strings.Contains(in.Email, "@") {
		return domainauth.Identity{}, domainauth.NewAuthError(domainauth.ErrInvalidEmail, "INVALID_EMAIL")
	}
	if len(in.Password) < 6 {
		return domainauth.Identity{}, domainauth.NewAuthError(domainauth.ErrWeakPassword, "WEAK_PASSWORD")
	}
	return domainauth.Identity{
		UserID:      "dev-" + in.Email,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		ExpiresAt:   time.Now().Add(p.sessionDuration),
	}, nil
}

// SignIn accepts any non-empty password for any email. Submitting an empty
// password exercises the wrong-password path end to end in dev.
func (p *Provider) SignIn(_ context.Context, email, password string) (domainauth.Identity, error) {
	if !strings.Contains(email, "@") {
		return domainauth.Identity{}, domainauth.NewAuthError(domainauth.ErrInvalidEmail, "INVALID_EMAIL")
	}
	if password == "" {
		return domainauth.Identity{}, domainauth.NewAuthError(domainauth.ErrWrongPassword, "INVALID_PASSWORD")
	}
	identity := p.identity
	if email != identity.Email {
		identity = domainauth.Identity{
			UserID:        "dev-" + email,
			Email:         email,
			DisplayName:   email,
			EmailVerified: true,
		}
	}
	identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	return identity, nil
}

func (p *Provider) SendVerificationEmail(_ context.Context, _ string) error { return nil }

func (p *Provider) ConfirmVerification(_ context.Context, _ string) error { return nil }

// ChangePassword re-checks the current password the way the real provider
// does, then succeeds.
func (p *Provider) ChangePassword(_ context.Context, in ports.ChangePasswordInput) error {
	if in.CurrentPassword == "" {
		return domainauth.NewAuthError(domainauth.ErrWrongPassword, "INVALID_PASSWORD")
	}
	if len(in.NewPassword) < 6 {
		return domainauth.NewAuthError(domainauth.ErrWeakPassword, "WEAK_PASSWORD")
	}
	return nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least n base64 URL chars
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		// pad
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
