package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mbetts/wosync/internal/cli"
	"github.com/mbetts/wosync/internal/codes"
	"github.com/mbetts/wosync/internal/config"
	"github.com/mbetts/wosync/internal/db"
	"github.com/mbetts/wosync/internal/pusher"
	"github.com/mbetts/wosync/internal/remote"
	"github.com/mbetts/wosync/internal/repository"
	"github.com/mbetts/wosync/internal/service"
	"github.com/mbetts/wosync/internal/stack"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Keep piped output free of ANSI escapes.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	log := newLogger()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	workOrderRepo := repository.NewSQLiteWorkOrderRepo(database)
	referenceRepo := repository.NewSQLiteReferenceRepo(database)
	uow := db.NewUnitOfWork(database)

	store := stack.NewStore(cfg.StackPath)
	resolver := codes.NewResolver(referenceRepo)
	opener := remote.JournalOpener{Path: cfg.JournalPath}
	engine := pusher.New(opener, store, log)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("WOSYNC_VERBOSE") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}
	retry := remote.RetryPolicy{Attempts: cfg.RetryAttempts, Delay: cfg.RetryDelay()}

	staging := service.NewStageService(workOrderRepo, resolver, store, log, cfg.MinimumDurationMin, observer)

	app := &cli.App{
		Staging:    staging,
		Push:       service.NewPushService(engine, staging, store, log, cfg.DuplicateToleranceDays, retry, observer),
		Stack:      service.NewStackService(store, observer),
		WorkOrders: service.NewWorkOrderService(workOrderRepo, observer),
		Codes:      service.NewCodeService(referenceRepo, uow, observer),
	}

	return cli.NewRootCmd(app).Execute()
}

// newLogger sends warnings to stderr; WOSYNC_VERBOSE opens it up to debug.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("WOSYNC_VERBOSE") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
