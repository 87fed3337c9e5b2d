package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/reflekt/internal/cli"
	"github.com/alexanderramin/reflekt/internal/db"
	"github.com/alexanderramin/reflekt/internal/expansion"
	"github.com/alexanderramin/reflekt/internal/llm"
	"github.com/alexanderramin/reflekt/internal/service"
	"github.com/alexanderramin/reflekt/internal/store"
	"github.com/alexanderramin/reflekt/internal/title"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	states, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var useCases service.UseCaseObserver = service.NoopUseCaseObserver{}
	switch {
	case cfg.LogMode != "":
		useCases = service.NewZapUseCaseObserver(logger)
	case cfg.LLM.LogCalls:
		useCases = service.NewLogUseCaseObserver(os.Stderr)
	}

	opts := []service.PromptServiceOption{service.WithObserver(useCases)}
	var titles title.Generator

	// Model-backed expansion and titles only when the LLM is enabled.
	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		switch {
		case cfg.LLM.LogCalls:
			observer = llm.NewLogObserver(os.Stderr)
		case cfg.LogMode != "":
			observer = llm.NewZapObserver(logger)
		}
		client := llm.NewOllamaClient(cfg.LLM, observer)

		coordinator := expansion.NewCoordinator(
			expansion.NewOllamaExpander(client),
			expansion.NewCache(expansion.DefaultCacheConfig(), nil),
			cfg.MinConfidence,
		)
		opts = append(opts, service.WithExpansion(coordinator))
		titles = title.NewOllamaGenerator(client)
	}

	app := &cli.App{
		Prompts: service.NewPromptService(states, opts...),
		Titles:  service.NewTitleService(titles, useCases),
		User:    cfg.User,
		Logger:  logger,
	}

	// Detect interactive terminal for shuffle and title picking.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// newLogger returns a no-op logger unless a log mode is set.
func newLogger(mode string) (*zap.Logger, error) {
	switch mode {
	case "dev":
		return zap.NewDevelopment()
	case "prod":
		return zap.NewProduction()
	default:
		return zap.NewNop(), nil
	}
}

func openStore(ctx context.Context, cfg config) (store.SelectionStore, func(), error) {
	switch cfg.Store {
	case storeMemory:
		return store.NewMemoryStore(), func() {}, nil
	case storeRedis:
		client, err := store.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client, ""), func() { _ = client.Close() }, nil
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return store.NewSQLiteStore(db.NewSQLiteUnitOfWork(database)), func() { _ = database.Close() }, nil
	}
}
