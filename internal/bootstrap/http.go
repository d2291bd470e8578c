package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rentora/rentora-ui/config"
	httpx "github.com/rentora/rentora-ui/internal/http"
)

// HTTPServerOptions contains configuration for the HTTP server.
type HTTPServerOptions struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the HTTP server with the full middleware stack. The
// caller owns ListenAndServe and Shutdown.
func NewHTTPServer(opts *HTTPServerOptions) *http.Server {
	if opts == nil {
		return nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := opts.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	services := httpx.RouterServices{
		Auth:         opts.Services.Auth,
		Backend:      opts.Services.Backend,
		CookieDomain: appCfg.HTTP.CookieDomain,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	}

	handler := buildHTTPHandler(logger, services)

	addr := appCfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
		IdleTimeout:  appCfg.HTTP.IdleTimeout,
	}
}

// buildHTTPHandler wraps the router with middleware.
// Order: Recover -> Logging -> Router.
func buildHTTPHandler(logger *slog.Logger, services httpx.RouterServices) http.Handler {
	h := httpx.NewRouter(services)
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h
}

// ShutdownOptions contains dependencies for HTTP server shutdown.
type ShutdownOptions struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server. The caller
// bounds Context with the configured shutdown timeout.
func ShutdownHTTPServer(opts ShutdownOptions) error {
	if opts.Server == nil {
		return nil
	}

	if opts.Logger != nil {
		opts.Logger.Info("shutting down HTTP server")
	}

	if err := opts.Server.Shutdown(opts.Context); err != nil {
		return err
	}

	if opts.Logger != nil {
		opts.Logger.Info("HTTP server stopped")
	}

	return nil
}
