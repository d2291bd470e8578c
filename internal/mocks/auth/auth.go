package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.FederatedProvider     = (*MockFederatedProvider)(nil)
	_ ports.PasswordAuthenticator = (*MockPasswordAuthenticator)(nil)
	_ ports.SessionStore          = (*MemorySessionStore)(nil)
	_ ports.Directory             = (*MockDirectory)(nil)
	_ ports.RoleLookup            = (*StaticRoleLookup)(nil)
	_ ports.TokenSource           = (*StaticTokenSource)(nil)
)

// MockFederatedProvider simulates a federated IdP with deterministic state/nonce handling.
type MockFederatedProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockFederatedProvider creates a MockFederatedProvider with sensible defaults.
func NewMockFederatedProvider() *MockFederatedProvider {
	return &MockFederatedProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:        "mock-user-1",
			Email:         "mock.user@example.com",
			DisplayName:   "Mock User",
			EmailVerified: true,
			ExpiresAt:     time.Now().Add(time.Hour),
		},
	}
}

func (m *MockFederatedProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockFederatedProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID:        "mock-user-1",
			Email:         "mock.user@example.com",
			DisplayName:   "Mock User",
			EmailVerified: true,
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// MockPasswordAuthenticator simulates the email/password identity surface.
// The zero value accepts any credentials and echoes a derived identity.
type MockPasswordAuthenticator struct {
	SignUpFunc                func(ctx context.Context, in ports.SignUpInput) (domainauth.Identity, error)
	SignInFunc                func(ctx context.Context, email, password string) (domainauth.Identity, error)
	SendVerificationEmailFunc func(ctx context.Context, email string) error
	ConfirmVerificationFunc   func(ctx context.Context, code string) error
	ChangePasswordFunc        func(ctx context.Context, in ports.ChangePasswordInput) error
}

func (m *MockPasswordAuthenticator) SignUp(ctx context.Context, in ports.SignUpInput) (domainauth.Identity, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, in)
	}
	return domainauth.Identity{
		UserID:      "mock-" + in.Email,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func (m *MockPasswordAuthenticator) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return domainauth.Identity{
		UserID:        "mock-" + email,
		Email:         email,
		DisplayName:   email,
		EmailVerified: true,
		ExpiresAt:     time.Now().Add(time.Hour),
	}, nil
}

func (m *MockPasswordAuthenticator) SendVerificationEmail(ctx context.Context, email string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, email)
	}
	return nil
}

func (m *MockPasswordAuthenticator) ConfirmVerification(ctx context.Context, code string) error {
	if m.ConfirmVerificationFunc != nil {
		return m.ConfirmVerificationFunc(ctx, code)
	}
	return nil
}

func (m *MockPasswordAuthenticator) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, in)
	}
	return nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// ErrNotFound aliases the shared sentinel so mock stores classify the same
// way the Redis store does.
var ErrNotFound = ports.ErrSessionNotFound

// MockDirectory records directory upserts for assertions.
type MockDirectory struct {
	RegisterUserFunc        func(ctx context.Context, req model.RegisterUserRequest) error
	UpsertFederatedUserFunc func(ctx context.Context, req model.FederatedUpsertRequest) error

	Registered []model.RegisterUserRequest
	Upserted   []model.FederatedUpsertRequest
}

func (m *MockDirectory) RegisterUser(ctx context.Context, req model.RegisterUserRequest) error {
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, req)
	}
	m.Registered = append(m.Registered, req)
	return nil
}

func (m *MockDirectory) UpsertFederatedUser(ctx context.Context, req model.FederatedUpsertRequest) error {
	if m.UpsertFederatedUserFunc != nil {
		return m.UpsertFederatedUserFunc(ctx, req)
	}
	m.Upserted = append(m.Upserted, req)
	return nil
}

// StaticRoleLookup resolves admin membership from a fixed email set.
type StaticRoleLookup struct {
	Admins map[string]bool
	Err    error

	Calls []string
}

func (m *StaticRoleLookup) AdminFor(_ context.Context, email string) (bool, error) {
	m.Calls = append(m.Calls, email)
	if m.Err != nil {
		return false, m.Err
	}
	return m.Admins[email], nil
}

// StaticTokenSource returns a fixed bearer token.
type StaticTokenSource struct {
	Value string
	Err   error
}

func (m *StaticTokenSource) Token(_ context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Value == "" {
		return "mock-token", nil
	}
	return m.Value, nil
}
