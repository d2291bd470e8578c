package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Passwords ports.PasswordAuthenticator
	Federated ports.FederatedProvider
	Sessions  ports.SessionStore
	Directory ports.Directory
	Roles     ports.RoleLookup
	Logger    *slog.Logger
}

// AuthService is the session manager: the single owner of "who is logged in
// and what can they do". It coordinates the identity provider, the directory
// upserts, the role lookup, and session persistence. Handlers never touch
// those collaborators directly.
type AuthService struct {
	passwords ports.PasswordAuthenticator
	federated ports.FederatedProvider
	sessions  ports.SessionStore
	directory ports.Directory
	roles     ports.RoleLookup
	logger    *slog.Logger
}

// An expired session reads as "signed out", never as a store failure.
var errSessionExpired = fmt.Errorf("session expired: %w", ports.ErrSessionNotFound)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		passwords: opts.Passwords,
		federated: opts.Federated,
		sessions:  opts.Sessions,
		directory: opts.Directory,
		roles:     opts.Roles,
		logger:    logger,
	}
}

// AuthResult carries the session established by a sign-in or sign-up.
type AuthResult struct {
	Session domainauth.Session
}

// RegisterInput groups parameters for email/password account creation.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register creates the account at the identity provider, upserts the
// directory record, establishes the session immediately, and issues the role
// lookup. On provider failure no session is created and the typed auth error
// propagates to the form.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, errors.New("email and password are required")
	}

	identity, err := s.passwords.SignUp(ctx, ports.SignUpInput{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	// The directory upsert makes the new user visible to admin screens. The
	// account already exists at the provider, so a failed upsert is logged
	// and the sign-up still succeeds.
	upsert := model.RegisterUserRequest{Email: identity.Email, DisplayName: identity.DisplayName}
	if upsertErr := s.directory.RegisterUser(ctx, upsert); upsertErr != nil {
		s.logger.WarnContext(ctx, "directory upsert after sign-up failed",
			"email", identity.Email, "error", upsertErr)
	}

	session, err := s.establishSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Session: session}, nil
}

// LoginInput groups parameters for email/password sign-in.
type LoginInput struct {
	Email    string
	Password string
}

// Login performs a password sign-in. It never auto-retries: one submission,
// one provider call, one outcome.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if in.Email == "" {
		return nil, errors.New("email is required")
	}

	identity, err := s.passwords.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	session, err := s.establishSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Session: session}, nil
}

// BeginLoginResult contains the result of beginning a federated login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginFederatedLogin initiates the federated flow and returns the provider
// auth URL with state and nonce.
func (s *AuthService) BeginFederatedLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.federated.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a federated login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteFederatedLogin exchanges the code for an identity, upserts the
// directory record (federated sign-in doubles as registration), and
// establishes the session. The provider's identity is authoritative.
func (s *AuthService) CompleteFederatedLogin(ctx context.Context, input CompleteLoginInput) (*AuthResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	identity, err := s.federated.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	upsert := model.FederatedUpsertRequest{
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	}
	if upsertErr := s.directory.UpsertFederatedUser(ctx, upsert); upsertErr != nil {
		s.logger.WarnContext(ctx, "directory upsert after federated sign-in failed",
			"email", identity.Email, "error", upsertErr)
	}

	session, err := s.establishSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Session: session}, nil
}

// establishSession persists a fresh session for the identity and issues the
// role lookup against the directory.
func (s *AuthService) establishSession(
	ctx context.Context,
	identity domainauth.Identity,
) (domainauth.Session, error) {
	session := domainauth.Session{
		ID:            generateSessionID(),
		UserID:        identity.UserID,
		Email:         identity.Email,
		DisplayName:   identity.DisplayName,
		AvatarURL:     identity.AvatarURL,
		EmailVerified: identity.EmailVerified,
		ExpiresAt:     identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", saveErr)
	}

	s.applyRole(ctx, session.ID, session.Email)

	// Reload so the caller sees the admin flag when the lookup landed.
	refreshed, err := s.sessions.Get(ctx, session.ID)
	if err != nil {
		return session, nil
	}
	return refreshed, nil
}

// applyRole issues one role lookup and applies the result to the stored
// session. The result carries the email it was issued for and is applied only
// while the session still belongs to that email, so a slow response can never
// clobber a newer login. Lookup failures keep the previous flag: a role
// service hiccup must not lock out a legitimately authenticated user.
func (s *AuthService) applyRole(ctx context.Context, sessionID, email string) {
	admin, err := s.roles.AdminFor(ctx, email)
	if err != nil {
		s.logger.WarnContext(ctx, "role lookup failed, keeping previous role",
			"email", email, "error", err)
		return
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return
	}
	if session.Email != email {
		s.logger.InfoContext(ctx, "discarding stale role lookup result",
			"lookup_email", email, "session_email", session.Email)
		return
	}
	if session.Admin == admin {
		return
	}

	session.Admin = admin
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		s.logger.WarnContext(ctx, "persist role change failed", "email", email, "error", saveErr)
	}
}

// RefreshRole re-issues the role lookup for a live session and returns the
// (possibly updated) session.
func (s *AuthService) RefreshRole(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.applyRole(ctx, session.ID, session.Email)

	return s.GetSession(ctx, sessionID)
}

// GetSession retrieves a session by ID. It is the only channel that resolves
// "is anyone logged in".
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	// Check if session is expired
	if session.IsExpired(time.Now()) {
		// Clean up expired session
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session. Logging out an absent session is a no-op and
// issues no further calls.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// SendVerificationEmail asks the provider to mail a verification link.
func (s *AuthService) SendVerificationEmail(ctx context.Context, sessionID string) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.passwords.SendVerificationEmail(ctx, session.Email); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// ConfirmVerificationInput groups parameters for confirming email verification.
type ConfirmVerificationInput struct {
	SessionID string
	Code      string
}

// ConfirmEmailVerification confirms the mailed code at the provider and
// marks the session's email as verified.
func (s *AuthService) ConfirmEmailVerification(ctx context.Context, in ConfirmVerificationInput) error {
	session, err := s.GetSession(ctx, in.SessionID)
	if err != nil {
		return err
	}
	if err := s.passwords.ConfirmVerification(ctx, in.Code); err != nil {
		return fmt.Errorf("confirm verification: %w", err)
	}

	session.EmailVerified = true
	if saveErr := s.sessions.Save(ctx, *session); saveErr != nil {
		return fmt.Errorf("save session: %w", saveErr)
	}
	return nil
}

// SyncProfileInput groups parameters for syncing profile edits into the session.
type SyncProfileInput struct {
	SessionID   string
	DisplayName string
	AvatarURL   string
}

// SyncProfile writes fresh profile fields into the stored session after a
// directory profile edit, so the chrome reflects the change without a
// re-login.
func (s *AuthService) SyncProfile(ctx context.Context, in SyncProfileInput) error {
	session, err := s.GetSession(ctx, in.SessionID)
	if err != nil {
		return err
	}

	session.DisplayName = in.DisplayName
	session.AvatarURL = in.AvatarURL
	if saveErr := s.sessions.Save(ctx, *session); saveErr != nil {
		return fmt.Errorf("save session: %w", saveErr)
	}
	return nil
}

// ChangePasswordInput groups parameters for a password change.
type ChangePasswordInput struct {
	SessionID       string
	CurrentPassword string
	NewPassword     string
}

// ChangePassword re-authenticates with the current password and sets the new
// one. A wrong current password surfaces as the wrong-password auth error.
func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	session, err := s.GetSession(ctx, in.SessionID)
	if err != nil {
		return err
	}
	if err := s.passwords.ChangePassword(ctx, ports.ChangePasswordInput{
		Email:           session.Email,
		CurrentPassword: in.CurrentPassword,
		NewPassword:     in.NewPassword,
	}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}
