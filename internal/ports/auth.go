package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/domain/model"
)

// ErrSessionNotFound is returned by SessionStore implementations when no
// session exists for an ID. Callers distinguish it from transport failures:
// "not found" means signed out, anything else means the store is unreachable
// and the caller must not treat the user as logged out.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating a federated auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// FederatedProvider initiates and completes a federated OIDC sign-in.
type FederatedProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SignUpInput carries inputs for email/password account creation.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
}

// ChangePasswordInput carries inputs for a password change. CurrentPassword
// is re-verified against the provider before the new password is set.
type ChangePasswordInput struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}

// PasswordAuthenticator is the email/password surface of the identity
// provider. Failures are returned as *domainauth.AuthError so callers can
// switch on the kind.
type PasswordAuthenticator interface {
	SignUp(ctx context.Context, in SignUpInput) (domainauth.Identity, error)
	SignIn(ctx context.Context, email, password string) (domainauth.Identity, error)
	SendVerificationEmail(ctx context.Context, email string) error
	ConfirmVerification(ctx context.Context, code string) error
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// Directory upserts identity records into the remote API's user directory.
type Directory interface {
	// RegisterUser is the POST /users upsert issued after email/password sign-up.
	RegisterUser(ctx context.Context, req model.RegisterUserRequest) error
	// UpsertFederatedUser is the PUT /users upsert issued after federated sign-in.
	UpsertFederatedUser(ctx context.Context, req model.FederatedUpsertRequest) error
}

// RoleLookup resolves the admin flag for an email from the remote API. An
// absent directory record means "not admin", not an error.
type RoleLookup interface {
	AdminFor(ctx context.Context, email string) (bool, error)
}

// TokenSource mints a bearer token for outgoing remote API calls. Tokens are
// obtained fresh per request; implementations must not cache.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
