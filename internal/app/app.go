// Package app assembles the library, generator, draft store and capturer from
// configuration, and implements the draft workflow shared by the HTTP server,
// the CLI and the MCP tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-variants/internal/capture"
	"github.com/jonathan/resume-variants/internal/config"
	"github.com/jonathan/resume-variants/internal/db"
	"github.com/jonathan/resume-variants/internal/fetch"
	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/llm"
	"github.com/jonathan/resume-variants/internal/store"
	"github.com/jonathan/resume-variants/internal/suggestions"
	"github.com/jonathan/resume-variants/internal/variants"
)

// App holds the assembled components
type App struct {
	Config    config.Config
	Library   library.Library
	Generator *variants.Generator
	Drafts    *store.Store
	Capturer  *capture.Capturer
	Logger    *slog.Logger

	now     func() time.Time
	newID   func() string
	closers []func() error
}

// Option configures an App beyond its Config
type Option func(*App)

// WithLibrary replaces the configured library
func WithLibrary(lib library.Library) Option {
	return func(a *App) { a.Library = lib }
}

// WithProvider replaces the configured suggestion provider
func WithProvider(p suggestions.Provider) Option {
	return func(a *App) {
		a.Generator = a.newGenerator(p)
	}
}

// WithCapturer replaces the job posting capturer
func WithCapturer(c *capture.Capturer) Option {
	return func(a *App) { a.Capturer = c }
}

// WithClock overrides timestamps for drafts and variants
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithIDGenerator overrides id minting for drafts, suggestions and records
func WithIDGenerator(fn func() string) Option {
	return func(a *App) { a.newID = fn }
}

// New builds an App from cfg. Storage and the provider are opened only when
// no option supplies them.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		Config: cfg,
		Drafts: store.New(cfg.HistorySize),
		Logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Library == nil {
		lib, closer, err := OpenLibrary(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.Library = lib
		a.closers = append(a.closers, closer)
	}

	if a.Generator == nil {
		provider, closer, err := NewProvider(ctx, cfg)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, closer)
		a.Generator = a.newGenerator(provider)
	}

	if a.Capturer == nil {
		a.Capturer = newCapturer(cfg, logger)
	}
	return a, nil
}

// Close releases storage and model clients
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenLibrary picks Postgres when DatabaseURL is set, a SQLite file when
// LibraryPath is set, and memory otherwise
func OpenLibrary(ctx context.Context, cfg config.Config, logger *slog.Logger) (library.Library, func() error, error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		logger.Info("resume library ready", slog.String("backend", "postgres"))
		return pg, func() error { pg.Close(); return nil }, nil

	case cfg.LibraryPath != "":
		lite, err := library.OpenSQLite(ctx, cfg.LibraryPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("resume library ready", slog.String("backend", "sqlite"), slog.String("path", cfg.LibraryPath))
		return lite, lite.Close, nil

	default:
		logger.Info("resume library ready", slog.String("backend", "memory"))
		return library.NewMemory(), func() error { return nil }, nil
	}
}

// NewProvider returns the heuristic provider or an LLM provider for cfg.Provider
func NewProvider(ctx context.Context, cfg config.Config) (suggestions.Provider, func() error, error) {
	if cfg.Provider == "" || cfg.Provider == config.ProviderHeuristic {
		return suggestions.NewHeuristicProvider(nil), func() error { return nil }, nil
	}

	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}
	llmCfg := llm.ConfigFor(provider)
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}
	llmCfg.BaseURL = cfg.BaseURL

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return suggestions.NewLLMProvider(client, suggestions.WithConcurrency(cfg.Concurrency)), client.Close, nil
}

// newGenerator reads the clock and id generator through a so later options still apply
func (a *App) newGenerator(p suggestions.Provider) *variants.Generator {
	return variants.NewGenerator(
		variants.WithProvider(p),
		variants.WithKeywordLimit(a.Config.KeywordLimit),
		variants.WithTimeout(a.Config.GenerationTimeout.Duration),
		variants.WithLogger(a.Logger),
		variants.WithClock(func() time.Time { return a.now() }),
		variants.WithIDGenerator(func() string { return a.newID() }),
	)
}

func newCapturer(cfg config.Config, logger *slog.Logger) *capture.Capturer {
	opts := []capture.Option{
		capture.WithFetcher(fetch.NewCachedFetcher(fetch.New(nil), fetch.DefaultCacheTTL)),
		capture.WithLogger(logger),
	}
	if cfg.UseBrowser {
		opts = append(opts, capture.WithRenderer(&fetch.Browser{Logger: logger}))
	}
	return capture.New(opts...)
}
