package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPattern = "session:*"
	sessionScanCount  = 1000
	sessionDelBatch   = 500
)

type clearSessionsOptions struct {
	DryRun bool
	Yes    bool
}

func runListSessions(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	redisClient, err := connectSessionRedis(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("scanning redis", "pattern", sessionKeyPattern)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Key\tTTL"); err != nil {
		return fmt.Errorf("write sessions header: %w", err)
	}

	count := 0
	iter := redisClient.Scan(ctx, 0, sessionKeyPattern, sessionScanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, ttlErr := redisClient.TTL(ctx, key).Result()
		if ttlErr != nil {
			return fmt.Errorf("read ttl for %s: %w", key, ttlErr)
		}
		if err := writef(w, "%s\t%s\n", key, ttl); err != nil {
			return fmt.Errorf("write session row: %w", err)
		}
		count++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sessions: %w", err)
	}

	if count == 0 {
		return writeln(os.Stdout, "No live sessions.")
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush sessions table: %w", err)
	}
	return writef(os.Stdout, "\nTotal: %d sessions\n", count)
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}

	if !opts.DryRun {
		warning := "This deletes every browser session and forces all users to sign in again."
		if confirmErr := confirmAction(opts.Yes, warning); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	redisClient, err := connectSessionRedis(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("scanning redis", "pattern", sessionKeyPattern, "dry_run", opts.DryRun)

	deleted := 0
	batch := make([]string, 0, sessionDelBatch)
	iter := redisClient.Scan(ctx, 0, sessionKeyPattern, sessionScanCount).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) < sessionDelBatch {
			continue
		}
		n, flushErr := flushSessionBatch(ctx, redisClient, batch, opts.DryRun)
		if flushErr != nil {
			return flushErr
		}
		deleted += n
		batch = batch[:0]
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sessions: %w", err)
	}
	if len(batch) > 0 {
		n, flushErr := flushSessionBatch(ctx, redisClient, batch, opts.DryRun)
		if flushErr != nil {
			return flushErr
		}
		deleted += n
	}

	if opts.DryRun {
		return writef(os.Stdout, "Dry run: %d sessions would be deleted\n", deleted)
	}
	cmdCtx.Logger.Info("sessions cleared", "count", deleted)
	return writef(os.Stdout, "Deleted %d sessions\n", deleted)
}

func flushSessionBatch(
	ctx context.Context,
	client redis.UniversalClient,
	keys []string,
	dryRun bool,
) (int, error) {
	if dryRun {
		return len(keys), nil
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("delete session batch: %w", err)
	}
	return len(keys), nil
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count matching sessions without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}

	return opts, nil
}
