package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rentora/rentora-ui/config"
	"github.com/rentora/rentora-ui/internal/adapters/backend"
	"github.com/rentora/rentora-ui/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"list-users": {
			name:        "list-users",
			description: "List directory users with their admin flag",
			run:         runListUsers,
		},
		"make-admin": {
			name:        "make-admin",
			description: "Grant the admin role to a user by email",
			run:         runMakeAdmin,
		},
		"delete-user": {
			name:        "delete-user",
			description: "Remove a user from the directory",
			run:         runDeleteUser,
		},
		"list-bookings": {
			name:        "list-bookings",
			description: "List bookings, optionally filtered by status",
			run:         runListBookings,
		},
		"approve-booking": {
			name:        "approve-booking",
			description: "Approve a pending booking",
			run:         runApproveBooking,
		},
		"reject-booking": {
			name:        "reject-booking",
			description: "Reject a pending booking",
			run:         runRejectBooking,
		},
		"list-sessions": {
			name:        "list-sessions",
			description: "Inspect live browser sessions in Redis",
			run:         runListSessions,
		},
		"clear-sessions": {
			name:        "clear-sessions",
			description: "Delete browser sessions from Redis (forces re-login)",
			run:         runClearSessions,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: rentora-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(os.Stdout, "  %-18s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

// connectBackend builds the backend API client from the loaded config, minting
// service-account tokens via the identity provider in oidc mode.
func connectBackend(cmdCtx *commandContext) (*backend.Client, error) {
	cfg := &cmdCtx.Config

	tokenOpts := bootstrap.TokenSourceOptions{
		Mode:     cfg.Auth.Mode,
		Identity: cfg.Identity,
	}
	if cfg.Auth.Mode == config.AuthModeOIDC {
		idClient, err := bootstrap.BuildIdentityClient(cfg.Identity, cfg.Auth.SessionDuration)
		if err != nil {
			return nil, err
		}
		tokenOpts.Client = idClient
	}

	tokens, err := bootstrap.BuildTokenSource(tokenOpts)
	if err != nil {
		return nil, err
	}

	return bootstrap.BuildBackendClient(bootstrap.BackendOptions{
		Config: cfg.Backend,
		Tokens: tokens,
		Logger: cmdCtx.Logger,
	})
}

//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectSessionRedis(cmdCtx *commandContext) (redis.UniversalClient, error) {
	client, err := bootstrap.ConnectRedis(bootstrap.RedisOptions{
		Config: cmdCtx.Config.Redis,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func confirmAction(yes bool, warning string) error {
	if yes {
		return nil
	}

	if err := writeln(os.Stdout, warning); err != nil {
		return fmt.Errorf("print confirmation warning: %w", err)
	}
	if err := write(os.Stdout, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	reader := bufio.NewReader(os.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil {
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
