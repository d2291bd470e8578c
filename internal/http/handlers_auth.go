package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/http/validation"
	"github.com/rentora/rentora-ui/internal/service"
)

// AuthServiceInterface defines the session-manager operations the HTTP layer
// depends on. *service.AuthService is the production implementation.
type AuthServiceInterface interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	BeginFederatedLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteFederatedLogin(ctx context.Context, input service.CompleteLoginInput) (*service.AuthResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	SendVerificationEmail(ctx context.Context, sessionID string) error
	ConfirmEmailVerification(ctx context.Context, in service.ConfirmVerificationInput) error
	ChangePassword(ctx context.Context, in service.ChangePasswordInput) error
	SyncProfile(ctx context.Context, in service.SyncProfileInput) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	UI           *UIHandlers
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the sign-in form.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLoginPage(w, r, loginPageData{
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	})
}

// loginPageData carries the state the login form needs to re-render itself.
type loginPageData struct {
	RedirectURI string
	Email       string
	Error       string
	FieldErrors map[string]string
}

func (h *AuthHandlers) renderLoginPage(w http.ResponseWriter, r *http.Request, d loginPageData) {
	builder := NewTemplateData(r, PageMeta{
		Title:       "Sign in - Rentora",
		PageTitle:   "Sign in",
		CurrentPage: PageLogin,
	}).
		With("RedirectURI", d.RedirectURI).
		With("FormEmail", d.Email)
	if d.Error != "" {
		builder.WithError(d.Error)
	}
	builder.WithFieldErrors(d.FieldErrors)
	h.UI.renderPage(w, r, builder.Build())
}

// LoginSubmit handles the password sign-in form.
// POST /auth/login. One submission, one provider call, one outcome: failures
// re-render the form with the inline message and never retry.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	redirectURI := safeRedirectPath(r.Form.Get("redirect_uri"))

	errs := validation.New().
		Validate("email", email, validation.Email("Email")).
		Validate("password", password, validation.Required("Password", 1024)).
		Errors()
	if len(errs) > 0 {
		h.renderLoginPage(w, r, loginPageData{
			RedirectURI: redirectURI,
			Email:       email,
			FieldErrors: errs,
		})
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{Email: email, Password: password})
	if err != nil {
		h.renderLoginPage(w, r, loginPageData{
			RedirectURI: redirectURI,
			Email:       email,
			Error:       authErrorMessage(err, "Unable to sign in. Please try again."),
		})
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.redirectAfterAuth(w, r, redirectURI)
}

// RegisterPage renders the account creation form.
// GET /auth/register.
func (h *AuthHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderRegisterPage(w, r, registerPageData{
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	})
}

// registerPageData carries the state the registration form needs to re-render.
type registerPageData struct {
	RedirectURI string
	Email       string
	DisplayName string
	Error       string
	FieldErrors map[string]string
}

func (h *AuthHandlers) renderRegisterPage(w http.ResponseWriter, r *http.Request, d registerPageData) {
	builder := NewTemplateData(r, PageMeta{
		Title:       "Create account - Rentora",
		PageTitle:   "Create account",
		CurrentPage: PageRegister,
	}).
		With("RedirectURI", d.RedirectURI).
		With("FormEmail", d.Email).
		With("FormDisplayName", d.DisplayName)
	if d.Error != "" {
		builder.WithError(d.Error)
	}
	builder.WithFieldErrors(d.FieldErrors)
	h.UI.renderPage(w, r, builder.Build())
}

const minPasswordLength = 6

// RegisterSubmit handles the account creation form.
// POST /auth/register. A successful sign-up establishes the session
// immediately; there is no separate "now log in" step.
func (h *AuthHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	displayName := strings.TrimSpace(r.Form.Get("display_name"))
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	confirm := r.Form.Get("password_confirm")
	redirectURI := safeRedirectPath(r.Form.Get("redirect_uri"))

	errs := validation.New().
		Validate("display_name", displayName, validation.Required("Name", 255)).
		Validate("email", email, validation.Email("Email")).
		Validate("password", password, validation.RequiredRange("Password", minPasswordLength, 1024)).
		Errors()
	if password != confirm {
		errs["password_confirm"] = "Passwords do not match."
	}
	if len(errs) > 0 {
		h.renderRegisterPage(w, r, registerPageData{
			RedirectURI: redirectURI,
			Email:       email,
			DisplayName: displayName,
			FieldErrors: errs,
		})
		return
	}

	result, err := h.Svc.Register(r.Context(), service.RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		h.renderRegisterPage(w, r, registerPageData{
			RedirectURI: redirectURI,
			Email:       email,
			DisplayName: displayName,
			Error:       authErrorMessage(err, "Unable to create your account. Please try again."),
		})
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.redirectAfterAuth(w, r, redirectURI)
}

// FederatedBegin starts the federated sign-in flow.
// GET /auth/federated?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) FederatedBegin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginFederatedLogin(r.Context(), callbackURL(r))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin federated login failed", "error", err)
		h.renderLoginPage(w, r, loginPageData{
			RedirectURI: redirectURI,
			Error:       "Unable to start the sign-in flow. Please try again.",
		})
		return
	}

	// Store state, nonce, and the original redirect URI in secure cookies
	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})

	// Redirect to the identity provider
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the federated provider callback.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	// A dismissed provider window comes back as an error parameter, not a code.
	if provErr := r.URL.Query().Get("error"); provErr != "" {
		h.clearOAuthCookies(w, r)
		kind := domainauth.ErrUnknown
		if provErr == "access_denied" {
			kind = domainauth.ErrPopupClosed
		}
		h.renderLoginPage(w, r, loginPageData{
			RedirectURI: h.peekPostLoginRedirect(r),
			Error:       authErrorMessage(domainauth.NewAuthError(kind, provErr), "Sign-in was interrupted. Please try again."),
		})
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		h.renderLoginPage(w, r, loginPageData{
			Error: "The sign-in response was incomplete. Please try again.",
		})
		return
	}

	// Verify state and read nonce
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		h.renderLoginPage(w, r, loginPageData{
			Error: "The sign-in request could not be verified. Please try again.",
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		h.renderLoginPage(w, r, loginPageData{
			Error: "The sign-in request could not be verified. Please try again.",
		})
		return
	}

	result, err := h.Svc.CompleteFederatedLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "federated login completion failed", "error", err)
		h.renderLoginPage(w, r, loginPageData{
			Error: authErrorMessage(err, "Unable to complete sign-in. Please try again."),
		})
		return
	}

	redirectURI := h.getPostLoginRedirect(w, r)
	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Get session ID from cookie and invalidate server-side session if present
	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	// Clear session cookie on the client
	h.clearCookie(w, r, "session_id")

	// Determine desired post-login destination (where user wanted to be after re-auth)
	redirectURI := r.FormValue("redirect_uri")
	if redirectURI == "" {
		redirectURI = r.URL.Query().Get("redirect_uri")
	}
	redirectURI = safeRedirectPath(redirectURI)

	// Build signed-out URL using url.Values to avoid edge cases
	u := url.URL{Path: "/auth/signed-out"}
	q := url.Values{}
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()
	signedOutURL := u.String()

	// AJAX/HTMX requests get a JSON payload; regular requests redirect
	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("Hx-Request"), "true") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": signedOutURL,
		})
		return
	}

	http.Redirect(w, r, signedOutURL, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("session_id")
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, "session_id")
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":             session.UserID,
			"email":          session.Email,
			"display_name":   session.DisplayName,
			"email_verified": session.EmailVerified,
			"role":           string(session.Role()),
		},
		"expires_at": session.ExpiresAt,
	})
}

// authErrorMessage maps a provider failure to the fixed sentence for its
// kind. Kinds keep their exact wording regardless of what the provider sent;
// only unknown errors fall back to the supplied default.
func authErrorMessage(err error, fallback string) string {
	authErr, ok := domainauth.AsAuthError(err)
	if !ok {
		return fallback
	}
	if msg := authErr.Message(); msg != "" {
		return msg
	}
	return fallback
}

// redirectAfterAuth lands the user on their original destination.
func (h *AuthHandlers) redirectAfterAuth(w http.ResponseWriter, r *http.Request, redirectURI string) {
	if redirectURI == "" || redirectURI == "/" {
		redirectURI = "/dashboard"
	}
	if IsHTMX(r) {
		HTMX(w).Redirect(redirectURI)
		return
	}
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// callbackURL builds the absolute callback URL for the federated flow.
func callbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/auth/callback"
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearOAuthCookies(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")
	h.clearCookie(w, r, "post_login_redirect")
}

// oauthCookieParams groups values needed to set OAuth cookies (≤3 params rule).
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    p.State,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_nonce",
		Value:    p.Nonce,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "post_login_redirect",
		Value:    p.RedirectURI,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	cookie := &http.Cookie{
		Name:     "session_id",
		Value:    s.ID,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if !s.ExpiresAt.IsZero() {
		cookie.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	http.SetCookie(w, cookie)
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := h.peekPostLoginRedirect(r)
	h.clearCookie(w, r, "post_login_redirect")
	return redirectURI
}

func (h *AuthHandlers) peekPostLoginRedirect(r *http.Request) string {
	redirectCookie, err := r.Cookie("post_login_redirect")
	if err != nil {
		return "/"
	}
	return safeRedirectPath(redirectCookie.Value)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
