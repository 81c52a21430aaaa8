package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hammamikhairi/aichef/internal/config"
	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/engine"
	"github.com/hammamikhairi/aichef/internal/llm"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/retry"
	"github.com/hammamikhairi/aichef/internal/storage"
)

// httpTimeout bounds a single attempt against the model API.
const httpTimeout = 90 * time.Second

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file",
			Sources: cli.EnvVars("AICHEF_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "Model API key (default from AICHEF_API_KEY or GEMINI_API_KEY)",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Model provider: gemini or openai",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model name override",
		},
		&cli.StringFlag{
			Name:  "storage",
			Usage: "History endpoint: memory://, redis://host:6379/0 or postgres://...",
		},
		&cli.StringFlag{
			Name:  "user",
			Usage: "User ID that scopes history",
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "Use the built-in sample recipe instead of calling a model",
		},
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "Attempt budget per model request",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: off, info or debug",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: `File to write logs to ("stderr" logs to the console)`,
		},
	}
}

// app is the wired application shared by every command.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   domain.HistoryStore
	engine  *engine.Engine
	closers []func() error
}

// setupOptions tune setup for a command.
type setupOptions struct {
	// history opens the configured store; without it history is disabled.
	history bool
	// defaultLogFile is used when no log file is configured. Empty means stderr.
	defaultLogFile string
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"api-key":   &cfg.APIKey,
		"provider":  &cfg.Provider,
		"model":     &cfg.Model,
		"storage":   &cfg.StorageEndpoint,
		"user":      &cfg.UserID,
		"log-level": &cfg.Log.Level,
		"log-file":  &cfg.Log.File,
	}
	for flag, dst := range overrides {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	if cmd.IsSet("max-attempts") {
		cfg.MaxAttempts = int(cmd.Int("max-attempts"))
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cmd.Bool("offline") {
		cfg.APIKey = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setup(ctx context.Context, cmd *cli.Command, opts setupOptions) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = opts.defaultLogFile
	}
	out, closeLog, err := openLog(logFile)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeLog)
	a.log = logger.New(cfg.Level(), out)

	exec := retry.New(&http.Client{Timeout: httpTimeout}, a.log, retry.WithMaxAttempts(cfg.MaxAttempts))
	completer, err := llm.NewCompleter(cfg.LLMSettings(), exec, a.log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.log.Info("mode: %s (provider=%s)", cfg.Mode(), cfg.Provider)

	if opts.history {
		store, err := storage.Open(ctx, cfg.StorageEndpoint, a.log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	}

	a.engine = engine.New(completer, a.store, a.log, engine.WithHistoryLimit(cfg.HistoryLimit))
	return a, nil
}

// Close releases everything setup opened, in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.log != nil {
			a.log.Warn("close: %v", err)
		}
	}
	a.closers = nil
}

// openLog opens the log destination. Parent directories are created.
func openLog(path string) (io.Writer, func() error, error) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, f.Close, nil
}
