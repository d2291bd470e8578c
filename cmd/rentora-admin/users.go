package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

const commandTimeout = 2 * time.Minute

type makeAdminOptions struct {
	Email string
	Yes   bool
}

type deleteUserOptions struct {
	ID  string
	Yes bool
}

func runListUsers(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	client, err := connectBackend(cmdCtx)
	if err != nil {
		return err
	}

	users, err := client.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		return writeln(os.Stdout, "No users in the directory.")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tEmail\tName\tRole"); err != nil {
		return fmt.Errorf("write users header: %w", err)
	}
	admins := 0
	for _, u := range users {
		role := "user"
		if u.Admin {
			role = "admin"
			admins++
		}
		if err := writef(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.DisplayName, role); err != nil {
			return fmt.Errorf("write user row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush users table: %w", err)
	}

	return writef(os.Stdout, "\nTotal: %d users, %d admins\n", len(users), admins)
}

func runMakeAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseMakeAdminFlags(args)
	if err != nil {
		return err
	}

	warning := fmt.Sprintf("This grants full management access to %q.", opts.Email)
	if confirmErr := confirmAction(opts.Yes, warning); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	client, err := connectBackend(cmdCtx)
	if err != nil {
		return err
	}

	user, err := client.GetUserByEmail(ctx, opts.Email)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user.Admin {
		return writef(os.Stdout, "%s is already an admin\n", opts.Email)
	}

	if err := client.MakeAdmin(ctx, model.MakeAdminRequest{Email: opts.Email}); err != nil {
		return fmt.Errorf("make admin: %w", err)
	}

	cmdCtx.Logger.Info("admin role granted", "email", opts.Email)
	return writef(os.Stdout, "%s is now an admin\n", opts.Email)
}

func runDeleteUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseDeleteUserFlags(args)
	if err != nil {
		return err
	}

	warning := fmt.Sprintf("This permanently removes user %q from the directory.", opts.ID)
	if confirmErr := confirmAction(opts.Yes, warning); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	client, err := connectBackend(cmdCtx)
	if err != nil {
		return err
	}

	if err := client.DeleteUser(ctx, opts.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	cmdCtx.Logger.Info("user deleted", "id", opts.ID)
	return writef(os.Stdout, "User %s deleted\n", opts.ID)
}

func parseMakeAdminFlags(args []string) (makeAdminOptions, error) {
	fs := flag.NewFlagSet("make-admin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts makeAdminOptions
	fs.StringVar(&opts.Email, "email", "", "Email of the user to promote (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return makeAdminOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return makeAdminOptions{}, errors.New("--email is required")
	}
	if !strings.Contains(opts.Email, "@") {
		return makeAdminOptions{}, fmt.Errorf("--email %q does not look like an email address", opts.Email)
	}

	return opts, nil
}

func parseDeleteUserFlags(args []string) (deleteUserOptions, error) {
	fs := flag.NewFlagSet("delete-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts deleteUserOptions
	fs.StringVar(&opts.ID, "id", "", "ID of the user to delete (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return deleteUserOptions{}, err
	}

	opts.ID = strings.TrimSpace(opts.ID)
	if opts.ID == "" {
		return deleteUserOptions{}, errors.New("--id is required")
	}

	return opts, nil
}
