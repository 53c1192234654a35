package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	embeddedCache "github.com/bkyoung/goodtogo/internal/adapter/cache/embedded"
	"github.com/bkyoung/goodtogo/internal/adapter/cache/noop"
	redisCache "github.com/bkyoung/goodtogo/internal/adapter/cache/redis"
	"github.com/bkyoung/goodtogo/internal/adapter/cli"
	ghclient "github.com/bkyoung/goodtogo/internal/adapter/github"
	"github.com/bkyoung/goodtogo/internal/adapter/observability"
	statesqlite "github.com/bkyoung/goodtogo/internal/adapter/state/sqlite"
	"github.com/bkyoung/goodtogo/internal/cache"
	"github.com/bkyoung/goodtogo/internal/config"
	"github.com/bkyoung/goodtogo/internal/redaction"
	"github.com/bkyoung/goodtogo/internal/usecase/analyzer"
	"github.com/bkyoung/goodtogo/internal/version"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "goodtogo",
		EnvPrefix:   "GOODTOGO",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	redactor := redaction.NewEngine()

	logger, err := observability.NewLogger(cfg.Observability.Logging, redactor)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no GitHub token configured (set github.token or GITHUB_TOKEN)")
	}

	client := ghclient.NewClient(token)
	if cfg.GitHub.BaseURL != "" {
		if err := client.SetBaseURL(cfg.GitHub.BaseURL); err != nil {
			return fmt.Errorf("set GitHub base URL: %w", err)
		}
	}

	c, closeCache, err := buildCache(cfg.Cache, logger)
	if err != nil {
		return fmt.Errorf("build cache: %w", err)
	}
	defer closeCache()

	store, err := statesqlite.Open(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer func() { _ = store.Close() }()

	an := analyzer.New(client, c, store, redactor)

	root := cli.NewRootCommand(cli.Dependencies{
		Analyzer:             an,
		DefaultOutputMode:    cfg.Output.Mode,
		DefaultExcludeChecks: cfg.Analysis.ExcludeCheckNames,
		DefaultForceRefresh:  cfg.Analysis.ForceRefresh,
		Version:              version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "goodtogo"))
	}
	return paths
}

// buildCache resolves the configured cache backend. It returns a close
// func even for backends with nothing to release, so callers can always
// defer it unconditionally.
func buildCache(cfg config.CacheConfig, logger *zap.SugaredLogger) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case "none":
		return noop.New(), func() {}, nil
	case "redis":
		c, warn, err := redisCache.Open(cfg.RedisAddr)
		if err != nil {
			return nil, func() {}, err
		}
		if warn != "" {
			logger.Warn(warn)
		}
		return c, func() { _ = c.Close() }, nil
	default:
		c, warn, err := embeddedCache.Open(cfg.Path)
		if err != nil {
			return nil, func() {}, err
		}
		if warn != "" {
			logger.Warn(warn)
		}
		return c, func() { _ = c.Close() }, nil
	}
}
