package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	rentora "github.com/rentora/rentora-ui"
	"github.com/rentora/rentora-ui/internal/adapters/backend"
	"github.com/rentora/rentora-ui/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Backend      *backend.Client
	CookieDomain string
	IsDev        bool         // Development mode flag for template hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	uiHandlers := setupUIHandlers(services)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticWithFallback(services.IsDev))

	if uiHandlers != nil {
		cfg := uiRouteConfig{
			Guard: &RouteGuard{
				Auth:   services.Auth,
				Loader: uiHandlers,
				Logger: services.Logger,
			},
			CSRF: CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain}),
		}

		var authHandlers *AuthHandlers
		if services.Auth != nil {
			authHandlers = &AuthHandlers{
				Svc:          services.Auth,
				UI:           uiHandlers,
				CookieDomain: services.CookieDomain,
				Logger:       services.Logger,
			}
			registerAuthRoutes(mux, authHandlers, cfg)
		}

		registerUIRoutes(mux, uiHandlers, cfg)
	}

	// Wrap with NotFound handler and browser detection middleware
	handler := &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}

	// Apply browser detection middleware
	return BrowserDetection()(handler)
}

// setupUIHandlers creates UI handlers with a template renderer.
// In dev mode (services.IsDev=true), templates are loaded from disk for hot reloading.
// In production mode (services.IsDev=false), templates are loaded from embedded FS.
func setupUIHandlers(services RouterServices) *UIHandlers {
	var templateFS fs.FS
	if services.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
	} else {
		sub, err := fs.Sub(rentora.TemplateFS, "frontend/templates")
		if err != nil {
			log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
			sub = os.DirFS(TemplatePathFromRoot)
		}
		templateFS = sub
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	h := &UIHandlers{
		T:      tr,
		IsDev:  services.IsDev,
		Logger: services.Logger,
	}
	if services.Auth != nil {
		h.Auth = services.Auth
	}
	if services.Backend != nil {
		h.Catalog = services.Backend
		h.Bookings = services.Backend
		h.Users = services.Backend
	}
	return h
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(
			http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))),
			false,
		)
	}

	staticSub, err := fs.Sub(rentora.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		// Fallback to disk serving if embed fails
		return staticWithCacheHeaders(
			http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))),
			false,
		)
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))), true)
}

// staticWithCacheHeaders wraps a static file handler to add cache headers.
// Embedded assets only change across deploys, so a short public TTL is safe;
// dev-mode disk assets are never cached.
func staticWithCacheHeaders(handler http.Handler, cacheable bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	// Serve the request through the mux, capturing status, headers, and body
	h.mux.ServeHTTP(cw, r)

	// If the mux didn't handle the request (404), use our custom handler
	if cw.status == http.StatusNotFound {
		// For missing static assets, preserve the default file server response
		if strings.HasPrefix(r.URL.Path, "/static/") {
			cw.flushTo(w)
			return
		}
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	// Not a 404: write the captured response
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

// uiRouteConfig holds the guard and CSRF middleware shared by UI routes.
type uiRouteConfig struct {
	Guard *RouteGuard
	CSRF  func(http.Handler) http.Handler
}

// public wraps handlers on pages anyone may see. The session is attached when
// present so the chrome can personalize; CSRF issues the token cookie so forms
// on public pages carry a valid token.
func (cfg uiRouteConfig) public(h http.Handler) http.Handler {
	return cfg.Guard.Attach(cfg.csrf(h))
}

// publicOnly wraps the login/registration pages: signed-in visitors are sent
// to the dashboard instead.
func (cfg uiRouteConfig) publicOnly(h http.Handler) http.Handler {
	return cfg.Guard.PublicOnly(cfg.csrf(h))
}

// protected wraps handlers that require a signed-in session.
func (cfg uiRouteConfig) protected(h http.Handler) http.Handler {
	return cfg.Guard.Protect(cfg.csrf(h))
}

// admin wraps handlers that require the admin role.
func (cfg uiRouteConfig) admin(h http.Handler) http.Handler {
	return cfg.Guard.AdminOnly(cfg.csrf(h))
}

func (cfg uiRouteConfig) csrf(h http.Handler) http.Handler {
	if cfg.CSRF == nil {
		return h
	}
	return cfg.CSRF(h)
}

// registerAuthRoutes wires the sign-in, registration, and federated flows.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /auth/login", cfg.publicOnly(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /auth/login", cfg.publicOnly(http.HandlerFunc(h.LoginSubmit)))
	mux.Handle("GET /auth/register", cfg.publicOnly(http.HandlerFunc(h.RegisterPage)))
	mux.Handle("POST /auth/register", cfg.publicOnly(http.HandlerFunc(h.RegisterSubmit)))

	// The federated round trip carries its own state/nonce cookies.
	mux.Handle("GET /auth/federated", cfg.publicOnly(http.HandlerFunc(h.FederatedBegin)))
	mux.Handle("GET /auth/callback", http.HandlerFunc(h.Callback))

	mux.Handle("POST /auth/logout", cfg.public(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /auth/status", cfg.Guard.Attach(http.HandlerFunc(h.Status)))
}

// registerUIRoutes delegates to per-domain UI route registration functions (≤3 params each).
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUICatalogRoutes(mux, h, cfg)
	registerUIBookingRoutes(mux, h, cfg)
	registerUIProfileRoutes(mux, h, cfg)
	registerUIManageRoutes(mux, h, cfg)
	// Public auth-adjacent pages (no guard enforcement)
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(h.SignedOut))
}

// registerUICatalogRoutes wires the public catalog and the signed-in dashboard.
func registerUICatalogRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /{$}", cfg.public(http.HandlerFunc(h.Index)))
	mux.Handle("GET /apartments", cfg.public(http.HandlerFunc(h.Apartments)))
	mux.Handle("GET /apartments/{id}", cfg.public(http.HandlerFunc(h.ApartmentView)))
	mux.Handle("GET /dashboard", cfg.protected(http.HandlerFunc(h.Dashboard)))
	mux.Handle("POST /apartments/{id}/reviews", cfg.protected(http.HandlerFunc(h.ReviewCreate)))
}

// registerUIBookingRoutes wires traveller booking flows.
func registerUIBookingRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("POST /bookings", cfg.protected(http.HandlerFunc(h.BookingCreate)))
	mux.Handle("GET /bookings/my", cfg.protected(http.HandlerFunc(h.MyBookings)))
	mux.Handle("POST /bookings/{id}/cancel", cfg.protected(http.HandlerFunc(h.BookingCancel)))
}

// registerUIProfileRoutes wires the profile and credential screens.
func registerUIProfileRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /profile", cfg.protected(http.HandlerFunc(h.Profile)))
	mux.Handle("POST /profile", cfg.protected(http.HandlerFunc(h.ProfileUpdate)))
	mux.Handle("POST /profile/verify-email", cfg.protected(http.HandlerFunc(h.VerifyEmailSend)))
	mux.Handle("POST /profile/verify-email/confirm", cfg.protected(http.HandlerFunc(h.VerifyEmailConfirm)))
	mux.Handle("POST /profile/password", cfg.protected(http.HandlerFunc(h.ChangePassword)))
}

// registerUIManageRoutes wires the admin management screens.
func registerUIManageRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /manage/apartments", cfg.admin(http.HandlerFunc(h.ManageApartments)))
	mux.Handle("GET /manage/apartments/new", cfg.admin(http.HandlerFunc(h.ApartmentNew)))
	mux.Handle("GET /manage/apartments/{id}/edit", cfg.admin(http.HandlerFunc(h.ApartmentEdit)))
	mux.Handle("POST /manage/apartments", cfg.admin(http.HandlerFunc(h.ApartmentCreate)))
	mux.Handle("POST /manage/apartments/{id}", cfg.admin(http.HandlerFunc(h.ApartmentUpdate)))
	mux.Handle("POST /manage/apartments/{id}/delete", cfg.admin(http.HandlerFunc(h.ApartmentDelete)))

	mux.Handle("GET /manage/bookings", cfg.admin(http.HandlerFunc(h.ManageBookings)))
	mux.Handle("POST /manage/bookings/{id}/approve", cfg.admin(http.HandlerFunc(h.BookingApprove)))
	mux.Handle("POST /manage/bookings/{id}/reject", cfg.admin(http.HandlerFunc(h.BookingReject)))
	mux.Handle("POST /manage/bookings/{id}/delete", cfg.admin(http.HandlerFunc(h.BookingDelete)))

	mux.Handle("GET /manage/reviews", cfg.admin(http.HandlerFunc(h.ManageReviews)))
	mux.Handle("POST /manage/reviews/{id}/delete", cfg.admin(http.HandlerFunc(h.ReviewDelete)))

	mux.Handle("GET /manage/users", cfg.admin(http.HandlerFunc(h.ManageUsers)))
	mux.Handle("POST /manage/users/make-admin", cfg.admin(http.HandlerFunc(h.UserMakeAdmin)))
	mux.Handle("POST /manage/users/{id}/delete", cfg.admin(http.HandlerFunc(h.UserDelete)))
}
