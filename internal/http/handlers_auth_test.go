package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/service"
)

// mockAuthServiceForHandlers is a func-field test double for the session
// manager. Unset fields return a sensible success.
type mockAuthServiceForHandlers struct {
	registerFunc   func(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	loginFunc      func(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	beginFunc      func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeFunc   func(ctx context.Context, in service.CompleteLoginInput) (*service.AuthResult, error)
	getSessionFunc func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc     func(ctx context.Context, sessionID string) error

	loginCalls    int
	registerCalls int
	logoutCalls   int
}

func testAuthSession() domainauth.Session {
	return domainauth.Session{
		ID:          "test-session-id",
		UserID:      "user-1",
		Email:       "guest@example.com",
		DisplayName: "Guest Example",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func (m *mockAuthServiceForHandlers) Register(
	ctx context.Context,
	in service.RegisterInput,
) (*service.AuthResult, error) {
	m.registerCalls++
	if m.registerFunc != nil {
		return m.registerFunc(ctx, in)
	}
	return &service.AuthResult{Session: testAuthSession()}, nil
}

func (m *mockAuthServiceForHandlers) Login(
	ctx context.Context,
	in service.LoginInput,
) (*service.AuthResult, error) {
	m.loginCalls++
	if m.loginFunc != nil {
		return m.loginFunc(ctx, in)
	}
	return &service.AuthResult{Session: testAuthSession()}, nil
}

func (m *mockAuthServiceForHandlers) BeginFederatedLogin(
	ctx context.Context,
	redirectURL string,
) (*service.BeginLoginResult, error) {
	if m.beginFunc != nil {
		return m.beginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://id.example.com/auth?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthServiceForHandlers) CompleteFederatedLogin(
	ctx context.Context,
	in service.CompleteLoginInput,
) (*service.AuthResult, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, in)
	}
	return &service.AuthResult{Session: testAuthSession()}, nil
}

func (m *mockAuthServiceForHandlers) GetSession(
	ctx context.Context,
	sessionID string,
) (*domainauth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, sessionID)
	}
	s := testAuthSession()
	s.ID = sessionID
	return &s, nil
}

func (m *mockAuthServiceForHandlers) Logout(ctx context.Context, sessionID string) error {
	m.logoutCalls++
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthServiceForHandlers) SendVerificationEmail(context.Context, string) error {
	return errors.New("not implemented")
}

func (m *mockAuthServiceForHandlers) ConfirmEmailVerification(
	context.Context,
	service.ConfirmVerificationInput,
) error {
	return errors.New("not implemented")
}

func (m *mockAuthServiceForHandlers) ChangePassword(context.Context, service.ChangePasswordInput) error {
	return errors.New("not implemented")
}

func (m *mockAuthServiceForHandlers) SyncProfile(context.Context, service.SyncProfileInput) error {
	return errors.New("not implemented")
}

// authHandlersWithTemplates builds AuthHandlers backed by the real template
// set, skipping when templates are unavailable.
func authHandlersWithTemplates(t *testing.T, svc AuthServiceInterface) *AuthHandlers {
	t.Helper()
	ui := CreateUIHandlersForTest(t)
	if ui == nil {
		return nil
	}
	return &AuthHandlers{Svc: svc, UI: ui}
}

func loginForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	resp := w.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_LoginPage_RendersForm(t *testing.T) {
	h := authHandlersWithTemplates(t, &mockAuthServiceForHandlers{})
	if h == nil {
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=%2Fbookings%2Fmy", nil)
	w := httptest.NewRecorder()

	h.LoginPage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `name="password"`)
	assert.Contains(t, body, "/bookings/my")
}

func TestAuthHandlers_LoginSubmit_Success(t *testing.T) {
	svc := &mockAuthServiceForHandlers{}
	h := &AuthHandlers{Svc: svc}

	w := httptest.NewRecorder()
	h.LoginSubmit(w, loginForm(url.Values{
		"email":    {"guest@example.com"},
		"password": {"hunter22"},
	}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, 1, svc.loginCalls)

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Equal(t, "test-session-id", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandlers_LoginSubmit_HTMXRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthServiceForHandlers{}}

	req := loginForm(url.Values{
		"email":        {"guest@example.com"},
		"password":     {"hunter22"},
		"redirect_uri": {"/apartments"},
	})
	req.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()

	h.LoginSubmit(w, req)

	assert.Equal(t, "/apartments", w.Header().Get("Hx-Redirect"))
}

func TestAuthHandlers_LoginSubmit_WrongPassword(t *testing.T) {
	svc := &mockAuthServiceForHandlers{
		loginFunc: func(_ context.Context, _ service.LoginInput) (*service.AuthResult, error) {
			return nil, domainauth.NewAuthError(domainauth.ErrWrongPassword, "provider: invalid credentials")
		},
	}
	h := authHandlersWithTemplates(t, svc)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	h.LoginSubmit(w, loginForm(url.Values{
		"email":    {"guest@example.com"},
		"password": {"wrong"},
	}))

	body := w.Body.String()
	// The fixed sentence for the kind, never the raw provider error.
	assert.Contains(t, body, "Incorrect password. Please try again.")
	assert.NotContains(t, body, "invalid credentials")
	// The submitted email survives the re-render; no session was issued.
	assert.Contains(t, body, "guest@example.com")
	assert.Nil(t, sessionCookieFrom(t, w))
	// One submission means exactly one provider call.
	assert.Equal(t, 1, svc.loginCalls)
}

func TestAuthHandlers_LoginSubmit_ValidationSkipsProvider(t *testing.T) {
	svc := &mockAuthServiceForHandlers{}
	h := authHandlersWithTemplates(t, svc)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	h.LoginSubmit(w, loginForm(url.Values{
		"email":    {"not-an-email"},
		"password": {""},
	}))

	assert.Equal(t, 0, svc.loginCalls)
	assert.Nil(t, sessionCookieFrom(t, w))
}

func TestAuthHandlers_RegisterSubmit_Success(t *testing.T) {
	svc := &mockAuthServiceForHandlers{}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{
		"display_name":     {"Guest Example"},
		"email":            {"guest@example.com"},
		"password":         {"hunter22"},
		"password_confirm": {"hunter22"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.RegisterSubmit(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, svc.registerCalls)
	require.NotNil(t, sessionCookieFrom(t, w))
}

func TestAuthHandlers_RegisterSubmit_PasswordMismatch(t *testing.T) {
	svc := &mockAuthServiceForHandlers{}
	h := authHandlersWithTemplates(t, svc)
	if h == nil {
		return
	}

	form := url.Values{
		"display_name":     {"Guest Example"},
		"email":            {"guest@example.com"},
		"password":         {"hunter22"},
		"password_confirm": {"hunter23"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.RegisterSubmit(w, req)

	assert.Equal(t, 0, svc.registerCalls)
	assert.Contains(t, w.Body.String(), "Passwords do not match.")
}

func TestAuthHandlers_FederatedBegin_RedirectsToProvider(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthServiceForHandlers{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/federated?redirect_uri=/dashboard", nil)
	w := httptest.NewRecorder()

	h.FederatedBegin(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://id.example.com/auth")

	resp := w.Result()
	defer resp.Body.Close()
	byName := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "oauth_state")
	require.Contains(t, byName, "oauth_nonce")
	require.Contains(t, byName, "post_login_redirect")
	assert.Equal(t, "test-state", byName["oauth_state"].Value)
	assert.Equal(t, "/dashboard", byName["post_login_redirect"].Value)
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	var got service.CompleteLoginInput
	svc := &mockAuthServiceForHandlers{
		completeFunc: func(_ context.Context, in service.CompleteLoginInput) (*service.AuthResult, error) {
			got = in
			return &service.AuthResult{Session: testAuthSession()}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=test-code&state=test-state", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/dashboard"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, "test-code", got.Code)
	assert.Equal(t, "test-state", got.State)
	assert.Equal(t, "test-nonce", got.Nonce)

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Equal(t, "test-session-id", cookie.Value)
}

func TestAuthHandlers_Callback_StateMismatch(t *testing.T) {
	svc := &mockAuthServiceForHandlers{
		completeFunc: func(context.Context, service.CompleteLoginInput) (*service.AuthResult, error) {
			t.Fatal("exchange must not run on a state mismatch")
			return nil, nil
		},
	}
	h := authHandlersWithTemplates(t, svc)
	if h == nil {
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=test-code&state=evil-state", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	assert.Contains(t, w.Body.String(), "could not be verified")
	assert.Nil(t, sessionCookieFrom(t, w))
}

func TestAuthHandlers_Callback_ProviderWindowDismissed(t *testing.T) {
	h := authHandlersWithTemplates(t, &mockAuthServiceForHandlers{})
	if h == nil {
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?error=access_denied", nil)
	w := httptest.NewRecorder()

	h.Callback(w, req)

	// A dismissed provider window re-renders the login form with the fixed
	// sentence for the popup-closed kind.
	assert.Contains(t, w.Body.String(), "Sign-in was closed before completing.")
	assert.Nil(t, sessionCookieFrom(t, w))
}

func TestAuthHandlers_Callback_UnrecognizedProviderError(t *testing.T) {
	h := authHandlersWithTemplates(t, &mockAuthServiceForHandlers{})
	if h == nil {
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?error=temporarily_unavailable", nil)
	w := httptest.NewRecorder()

	h.Callback(w, req)

	// Unrecognized provider codes map to the unknown kind, which carries the
	// provider's raw string through to the form.
	assert.Contains(t, w.Body.String(), "temporarily_unavailable")
	assert.Nil(t, sessionCookieFrom(t, w))
}

func TestAuthHandlers_Logout_RedirectsToSignedOut(t *testing.T) {
	svc := &mockAuthServiceForHandlers{}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout?redirect_uri=%2Fbookings%2Fmy", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "/auth/signed-out")
	assert.Contains(t, loc, "redirect_uri=%2Fbookings%2Fmy")
	assert.Equal(t, 1, svc.logoutCalls)

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestAuthHandlers_Logout_WithoutCookieIsNoOp(t *testing.T) {
	svc := &mockAuthServiceForHandlers{}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, svc.logoutCalls)
}

func TestAuthHandlers_Logout_HTMXGetsJSON(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthServiceForHandlers{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Hx-Request", "true")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "/auth/signed-out")
}

func TestAuthHandlers_Status(t *testing.T) {
	t.Run("no cookie -> unauthenticated", func(t *testing.T) {
		h := &AuthHandlers{Svc: &mockAuthServiceForHandlers{}}

		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		w := httptest.NewRecorder()

		h.Status(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("valid session -> user payload", func(t *testing.T) {
		h := &AuthHandlers{Svc: &mockAuthServiceForHandlers{}}

		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})
		w := httptest.NewRecorder()

		h.Status(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `"authenticated":true`)
		assert.Contains(t, body, "guest@example.com")
		assert.Contains(t, body, `"role":"user"`)
	})

	t.Run("invalid session -> cookie cleared", func(t *testing.T) {
		svc := &mockAuthServiceForHandlers{
			getSessionFunc: func(context.Context, string) (*domainauth.Session, error) {
				return nil, errors.New("session expired")
			},
		}
		h := &AuthHandlers{Svc: svc}

		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "invalid-session"})
		w := httptest.NewRecorder()

		h.Status(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)

		cookie := sessionCookieFrom(t, w)
		require.NotNil(t, cookie)
		assert.Equal(t, -1, cookie.MaxAge)
	})
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/dashboard", "/dashboard"},
		{"/apartments?query=loft", "/apartments?query=loft"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com/", "/"},
		{"relative/path", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirectPath(tt.in), "input %q", tt.in)
	}
}
