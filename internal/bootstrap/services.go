package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rentora/rentora-ui/config"
	"github.com/rentora/rentora-ui/internal/adapters/backend"
	redisadapter "github.com/rentora/rentora-ui/internal/adapters/redis"
	"github.com/rentora/rentora-ui/internal/ports"
	"github.com/rentora/rentora-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Backend *backend.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires adapters into the application services: the Redis
// session store, the identity provider, the backend API client, and the
// auth service on top of them.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	var sessions ports.SessionStore
	if deps.RedisClient != nil {
		sessions = redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")
	}

	// The identity client backs password sign-in and mints the backend
	// service-account tokens; mock mode needs neither.
	var passwords ports.PasswordAuthenticator
	tokenOpts := TokenSourceOptions{
		Mode:     cfg.Auth.Mode,
		Identity: cfg.Identity,
	}
	if cfg.Auth.Mode == config.AuthModeOIDC {
		idClient, err := BuildIdentityClient(cfg.Identity, cfg.Auth.SessionDuration)
		if err != nil {
			return ServiceContainer{}, err
		}
		passwords = idClient
		tokenOpts.Client = idClient
	}

	tokens, err := BuildTokenSource(tokenOpts)
	if err != nil {
		return ServiceContainer{}, err
	}

	backendClient, err := BuildBackendClient(BackendOptions{
		Config: cfg.Backend,
		Tokens: tokens,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	authService := BuildAuthService(AuthOptions{
		Auth:      cfg.Auth,
		Sessions:  sessions,
		Passwords: passwords,
		Directory: backendClient,
		Roles:     backendClient,
		Logger:    logger,
	})

	return ServiceContainer{
		Auth:    authService,
		Backend: backendClient,
	}, nil
}

// RunOptions contains dependencies for running the application.
type RunOptions struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until a shutdown signal
// arrives or the server fails.
func RunWithShutdown(opts *RunOptions) error {
	if opts == nil || opts.Config == nil {
		return errors.New("run options with config are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewHTTPServer(&HTTPServerOptions{
		Config:   opts.Config,
		Services: opts.Services,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			opts.Config.HTTP.ShutdownTimeout,
		)
		defer cancel()

		return ShutdownHTTPServer(ShutdownOptions{
			Context: shutdownCtx,
			Server:  server,
			Logger:  logger,
		})
	})

	return g.Wait()
}
