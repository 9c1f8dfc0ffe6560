package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/cli"
	"github.com/okrdesk/okrdesk/internal/config"
	"github.com/okrdesk/okrdesk/internal/db"
	"github.com/okrdesk/okrdesk/internal/guard"
	"github.com/okrdesk/okrdesk/internal/repository"
	"github.com/okrdesk/okrdesk/internal/service"
	"github.com/okrdesk/okrdesk/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.ErrorMessage(err))
		os.Exit(1)
	}
}

func run() error {
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	app := &cli.App{
		IsInteractive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
	}
	app.Connect = func(ctx context.Context, cfg config.Config, opts cli.ConnectOptions) error {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		closers = append(closers, database)

		logger, logFile, err := newLogger(cfg, opts)
		if err != nil {
			return err
		}
		if logFile != nil {
			closers = append(closers, logFile)
		}

		var apiOpts []api.Option
		var observers []service.UseCaseObserver
		if logger != nil {
			apiOpts = append(apiOpts, api.WithObserver(api.NewSlogObserver(logger)))
			observers = append(observers, service.NewSlogUseCaseObserver(logger))
		}
		client := api.NewClient(api.Config{
			BaseURL:    cfg.APIURL,
			Timeout:    cfg.Timeout(),
			MaxRetries: cfg.MaxRetries,
		}, apiOpts...)

		store := session.NewStore(client, repository.NewSQLiteStateRepo(database), db.NewSQLiteUnitOfWork(database))
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		client.SetTokenSource(store)

		app.Session = store
		app.Guard = guard.New(store, client)
		app.Companies = service.NewCompanyService(client, observers...)
		app.Roles = service.NewRoleService(client, observers...)
		app.Members = service.NewMemberService(client, observers...)
		app.Teams = service.NewTeamService(client, observers...)
		app.OKRs = service.NewOKRService(client, observers...)
		app.CheckIns = service.NewCheckInService(client, observers...)
		app.Stats = service.NewStatsService(client)
		return nil
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// newLogger returns nil when nothing should be logged. --verbose logs to
// stderr except under the TUI, which owns the screen; log_calls appends to
// the log file.
func newLogger(cfg config.Config, opts cli.ConnectOptions) (*slog.Logger, *os.File, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.Verbose && !opts.TUI {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nil, nil
	}
	if !cfg.LogCalls && !opts.Verbose {
		return nil, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, handlerOpts)), f, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
