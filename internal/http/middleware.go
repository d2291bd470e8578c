package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/ports"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// GuardRenderer renders the transient "still checking your session" page shown
// when the session store cannot be reached. Implemented by UIHandlers.
type GuardRenderer interface {
	SessionChecking(w http.ResponseWriter, r *http.Request)
}

// RouteGuard resolves the session for each request and applies the route
// policy: public routes always pass, protected routes bounce anonymous
// visitors to the login page, public-only routes bounce authenticated users to
// the dashboard. A session store failure is never read as "signed out" - the
// guard renders a retry page instead so a Redis blip cannot log anyone out.
type RouteGuard struct {
	Auth   AuthServiceInterface
	Loader GuardRenderer
	Logger *slog.Logger
}

func (g *RouteGuard) logger() *slog.Logger {
	if g != nil && g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// resolveSession looks up the session for the request cookie and classifies
// the outcome as a guard state. The session is non-nil only when
// state.Authenticated is true.
func (g *RouteGuard) resolveSession(r *http.Request) (*domainauth.Session, domainauth.GuardState) {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		return nil, domainauth.GuardState{}
	}

	session, err := g.Auth.GetSession(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, domainauth.GuardState{}
		}
		// The store answered with a transport error, not "no such session".
		g.logger().WarnContext(r.Context(), "session lookup failed, holding at checking",
			"error", err)
		return nil, domainauth.GuardState{Checking: true}
	}

	return session, domainauth.GuardState{Authenticated: true}
}

// Protect wraps a handler so only authenticated users reach it.
func (g *RouteGuard) Protect(next http.Handler) http.Handler {
	return g.guard(domainauth.RouteProtected, next)
}

// PublicOnly wraps a handler so authenticated users are sent to the dashboard
// instead (login and registration pages).
func (g *RouteGuard) PublicOnly(next http.Handler) http.Handler {
	return g.guard(domainauth.RoutePublicOnly, next)
}

// Attach resolves the session without enforcing anything, so public pages can
// personalize their chrome when someone is signed in.
func (g *RouteGuard) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, state := g.resolveSession(r); state.Authenticated {
			r = r.WithContext(SetSessionInContext(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnly wraps a handler so only admin sessions reach it. It layers the
// role check on top of the protected-route policy.
func (g *RouteGuard) AdminOnly(next http.Handler) http.Handler {
	roleCheck := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session == nil || session.Role() != domainauth.RoleAdmin {
			showAccessDenied(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
	return g.guard(domainauth.RouteProtected, roleCheck)
}

func (g *RouteGuard) guard(route domainauth.RouteKind, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, state := g.resolveSession(r)

		switch domainauth.Decide(state, route) {
		case domainauth.DecideShowLoader:
			g.renderChecking(w, r)
		case domainauth.DecideRedirectLogin:
			redirectToLogin(w, r)
		case domainauth.DecideRedirectDashboard:
			redirectToDashboard(w, r)
		case domainauth.DecideAllow:
			if session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		}
	})
}

// renderChecking answers a request whose session state is unknown. Browsers
// get the retry page, API callers a 503 so they know to retry.
func (g *RouteGuard) renderChecking(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) && g.Loader != nil {
		g.Loader.SessionChecking(w, r)
		return
	}
	w.Header().Set("Retry-After", "1")
	WriteError(w, ErrorParams{
		Code:    http.StatusServiceUnavailable,
		ErrCode: "session_unavailable",
		Err:     errors.New("session state is temporarily unavailable"),
	})
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// It sets a context value that can be used by downstream handlers to determine
// whether to return HTML or JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	// Fallback to direct detection if middleware wasn't used
	return isBrowserRequest(r)
}

// isBrowserRequest determines whether a request came from a browser.
// Detection is header-driven: static asset paths are excluded, HTMX
// requests always count as browser traffic, and otherwise the Accept
// header decides (JSON-only clients are not browsers).
func isBrowserRequest(r *http.Request) bool {
	// Static assets are not browser requests
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}

	// HTMX requests are browser requests
	if IsHTMX(r) {
		return true
	}

	// Check Accept header for HTML preference
	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser
		return true
	}
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return false
	}

	return strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// redirectToLogin redirects browser requests to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := redirectPathForRequest(r)
	if redirectPath == "" {
		redirectPath = "/"
	}
	redirectParam := url.QueryEscape(redirectPath)

	if IsHTMX(r) {
		// For HTMX requests, instruct the browser to navigate to the signed-out page
		// so we can show consistent messaging and a sign-in button instead of an error swap.
		signedOutURL := "/auth/signed-out?redirect_uri=" + redirectParam
		SetHXRedirect(w, signedOutURL)
		w.WriteHeader(http.StatusOK)
		return
	}

	loginURL := "/auth/login?redirect_uri=" + redirectParam
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// redirectToDashboard sends an already-authenticated visitor away from a
// public-only page (login, register).
func redirectToDashboard(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		SetHXRedirect(w, "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
		if referer := safeRedirectFromURL(r.Header.Get("Referer")); referer != "" {
			return referer
		}
	}

	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	// For absolute URLs, use just the path/query portion to keep redirects within the app.
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}

	return safeRedirectPath(raw)
}

// showAccessDenied answers a non-admin request for an admin page.
func showAccessDenied(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		http.Error(w, "Access Denied: You don't have permission to access this resource", http.StatusForbidden)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}
