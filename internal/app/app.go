// Package app assembles the outreach services from configuration. cmd/api and
// cmd/outreachctl share it so both run the same resolution pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kataras/golog"

	"github.com/octobees/outreach-api/internal/cache"
	"github.com/octobees/outreach-api/internal/config"
	"github.com/octobees/outreach-api/internal/database"
	"github.com/octobees/outreach-api/internal/llm"
	"github.com/octobees/outreach-api/internal/provider"
	"github.com/octobees/outreach-api/internal/provider/hunter"
	"github.com/octobees/outreach-api/internal/provider/pdl"
	"github.com/octobees/outreach-api/internal/repository"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
	"github.com/octobees/outreach-api/internal/service/finder"
)

// App holds the wired services.
type App struct {
	Config *config.Config
	Logger *golog.Logger

	Store     cache.Store
	PDL       *pdl.Client
	Hunter    *hunter.Client
	Completer llm.Completer

	Domains        *emailresolve.DomainResolver
	Resolver       *emailresolve.Resolver
	Batch          *emailresolve.Batch
	Recruiters     *finder.RecruiterFinder
	HiringManagers *finder.HiringManagerFinder

	// Contacts is nil when DATABASE_URL is unset.
	Contacts repository.ContactsRepository

	closers []func() error
}

// Options toggles the optional backends.
type Options struct {
	// WithDatabase connects to DATABASE_URL when it is set.
	WithDatabase bool
}

// New builds the services described by cfg. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *golog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = golog.Default
	}
	a := &App{Config: cfg, Logger: logger}

	store, err := a.cacheStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	pdlLimiter := provider.NewLimiter(cfg.ProviderRPS)
	hunterLimiter := provider.NewLimiter(cfg.ProviderRPS)

	pdlOpts := []pdl.Option{pdl.WithTransportOptions(provider.WithLimiter(pdlLimiter))}
	if cfg.PDLBaseURL != "" {
		pdlOpts = append(pdlOpts, pdl.WithBaseURL(cfg.PDLBaseURL))
	}
	a.PDL = pdl.NewClient(cfg.PDLAPIKey, pdlOpts...)

	hunterOpts := []hunter.Option{hunter.WithTransportOptions(provider.WithLimiter(hunterLimiter))}
	if cfg.HunterBaseURL != "" {
		hunterOpts = append(hunterOpts, hunter.WithBaseURL(cfg.HunterBaseURL))
	}
	a.Hunter = hunter.NewClient(cfg.HunterAPIKey, hunterOpts...)

	completer, err := llm.NewCompleter(ctx, llm.Config{
		Provider:    cfg.LLM.Provider,
		OpenAIKey:   cfg.LLM.OpenAIKey,
		OpenAIModel: cfg.LLM.OpenAIModel,
		OpenAIURL:   cfg.LLM.OpenAIURL,
		GeminiKey:   cfg.LLM.GeminiKey,
		GeminiModel: cfg.LLM.GeminiModel,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build completer: %w", err)
	}
	if closer, ok := completer.(io.Closer); ok {
		a.closers = append(a.closers, closer.Close)
	}
	a.Completer = completer

	a.Domains = emailresolve.NewDomainResolver(store,
		emailresolve.WithCompleter(completer),
		emailresolve.WithDomainLogger(logger),
	)
	patterns := emailresolve.NewPatternService(a.Hunter, store, logger)
	verifier := emailresolve.NewVerifier(a.Hunter, store, logger)
	a.Resolver = emailresolve.NewResolver(a.Domains, patterns, verifier, a.Hunter, emailresolve.WithLogger(logger))
	a.Batch = emailresolve.NewBatch(a.Resolver)

	finderOpts := []finder.Option{
		finder.WithLogger(logger),
		finder.WithSmallCompanyThreshold(cfg.SmallCompanyThreshold),
	}
	if _, disabled := completer.(llm.Disabled); !disabled {
		finderOpts = append(finderOpts, finder.WithOutreachWriter(finder.NewLLMOutreachWriter(completer)))
	}
	a.Recruiters = finder.NewRecruiterFinder(a.PDL, a.Batch, finderOpts...)
	a.HiringManagers = finder.NewHiringManagerFinder(a.PDL, a.Batch, finderOpts...)

	if opts.WithDatabase && cfg.DatabaseURL != "" {
		if err := a.connectDatabase(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	logger.Infof("services ready: pdl=%t hunter=%t llm=%s cache=%s persistence=%t",
		a.PDL.Configured(), a.Hunter.Configured(), a.llmName(), a.cacheName(), a.Contacts != nil)
	return a, nil
}

// DraftPolicy reports whether unverified addresses may be drafted to.
func (a *App) DraftPolicy() emailresolve.DraftPolicy {
	return emailresolve.DraftPolicy{AllowUnverified: a.Config.DraftUnverified}
}

// Close releases every backend opened by New, newest first.
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

func (a *App) cacheStore(ctx context.Context) (cache.Store, error) {
	if a.Config.RedisURL == "" {
		return cache.NewMemoryStore(), nil
	}
	client, err := cache.NewRedisClient(ctx, a.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	return cache.NewRedisStore(client, ""), nil
}

func (a *App) connectDatabase(ctx context.Context) error {
	pool, err := database.Connect(ctx, a.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})

	repo := repository.NewPGXContactsRepository(pool)
	if err := repo.InitSchema(ctx); err != nil {
		return err
	}
	a.Contacts = repo
	return nil
}

func (a *App) llmName() string {
	if _, disabled := a.Completer.(llm.Disabled); disabled {
		return "disabled"
	}
	return a.Config.LLM.Provider
}

func (a *App) cacheName() string {
	if _, ok := a.Store.(*cache.RedisStore); ok {
		return "redis"
	}
	return "memory"
}
