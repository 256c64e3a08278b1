// Package app wires all Djobi subsystems into a running service.
//
// The App struct owns the full lifecycle: New creates and connects the
// listing store, search pipeline, chat assistant and HTTP API, Run serves
// until the context is cancelled, and Shutdown tears everything down in
// reverse order of construction.
//
// For testing, inject doubles via functional options (WithStore and friends).
// When an option is not provided, New creates real implementations from the
// config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/akwaba-labs/djobi/internal/chat"
	"github.com/akwaba-labs/djobi/internal/config"
	"github.com/akwaba-labs/djobi/internal/health"
	"github.com/akwaba-labs/djobi/internal/httpapi"
	"github.com/akwaba-labs/djobi/internal/job"
	"github.com/akwaba-labs/djobi/internal/search"
	"github.com/akwaba-labs/djobi/pkg/provider/embeddings"
	"github.com/akwaba-labs/djobi/pkg/provider/llm"
	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
	"github.com/akwaba-labs/djobi/pkg/provider/stt"
)

// Providers holds one interface value per provider slot. Nil means the
// provider is not configured; the matching feature degrades or answers 503.
// Populated by main.go via the config registry.
type Providers struct {
	LLM        llm.Provider
	STT        stt.Provider
	OCR        ocr.Provider
	Embeddings embeddings.Provider
}

// App owns all subsystem lifetimes.
type App struct {
	cfg       *config.Config
	providers *Providers

	store     job.Store
	pipeline  *search.Pipeline
	assistant *chat.Assistant
	janitor   *Janitor
	server    *http.Server

	// closers are called in reverse order during Shutdown.
	closers []func() error

	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithStore injects a listing store instead of creating one from config.
func WithStore(s job.Store) Option {
	return func(a *App) { a.store = s }
}

// New creates an App by wiring all subsystems together. The providers struct
// comes from main.go (populated via the config registry).
func New(ctx context.Context, cfg *config.Config, providers *Providers, opts ...Option) (*App, error) {
	if providers == nil {
		providers = &Providers{}
	}
	a := &App{
		cfg:       cfg,
		providers: providers,
	}
	for _, o := range opts {
		o(a)
	}

	if err := a.initStore(ctx); err != nil {
		return nil, fmt.Errorf("app: init store: %w", err)
	}
	if err := a.initSearch(ctx); err != nil {
		return nil, fmt.Errorf("app: init search: %w", err)
	}
	a.initChat()
	a.initJanitor()
	a.initHTTP()

	return a, nil
}

// initStore selects the configured backend and seeds the demo data set when
// the store is empty.
func (a *App) initStore(ctx context.Context) error {
	if a.store == nil {
		switch a.cfg.Store.Backend {
		case config.StoreMemory:
			a.store = job.NewMemStore()

		case config.StorePostgres:
			store, err := job.NewPostgresStore(ctx, a.cfg.Store.PostgresDSN)
			if err != nil {
				return err
			}
			a.store = store
			a.closers = append(a.closers, func() error {
				store.Close()
				return nil
			})

		case config.StoreRedis:
			store, err := job.NewRedisStore(ctx, a.cfg.Store.RedisAddr, a.cfg.Store.RedisPassword)
			if err != nil {
				return err
			}
			a.store = store
			a.closers = append(a.closers, store.Close)

		default:
			return fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
		}
	}

	if a.cfg.Store.Seed {
		if err := job.SeedIfEmpty(ctx, a.store); err != nil {
			return err
		}
	}
	return nil
}

// initSearch assembles the pipeline: keyword pass always, assisted pass when
// an LLM is configured, semantic pass when Postgres and embeddings are both
// available.
func (a *App) initSearch(ctx context.Context) error {
	searchOpts := []search.Option{
		search.WithMinAssistQueryLen(a.cfg.Search.MinAssistQueryLen),
	}

	if a.providers.LLM != nil {
		searchOpts = append(searchOpts, search.WithAnalyzer(search.NewAnalyzer(a.providers.LLM)))
	}

	titles := make([]string, 0, 16)
	for _, o := range job.SeedOffers() {
		titles = append(titles, o.Title)
	}
	searchOpts = append(searchOpts, search.WithSuggester(search.NewSuggester(titles)))

	if a.cfg.Search.Semantic && a.providers.Embeddings != nil {
		pg, ok := a.store.(*job.PostgresStore)
		if !ok {
			return errors.New("semantic search requires the postgres backend")
		}
		idx := search.NewSemanticIndex(pg.Pool(), a.providers.Embeddings)
		if err := idx.Migrate(ctx); err != nil {
			return err
		}
		offers, err := a.store.List(ctx)
		if err != nil {
			return err
		}
		if err := idx.IndexAll(ctx, offers); err != nil {
			slog.Warn("semantic index backfill failed, continuing without it", "error", err)
		} else {
			searchOpts = append(searchOpts, search.WithSemanticIndex(idx))
		}
	}

	a.pipeline = search.NewPipeline(a.store, searchOpts...)
	return nil
}

func (a *App) initChat() {
	if a.providers.LLM == nil {
		slog.Warn("no LLM provider configured, chat assistant disabled")
		return
	}
	a.assistant = chat.NewAssistant(a.providers.LLM,
		chat.WithTemperature(a.cfg.Chat.Temperature),
		chat.WithMaxTokens(a.cfg.Chat.MaxTokens),
	)
}

func (a *App) initJanitor() {
	if a.cfg.Store.ListingTTL <= 0 {
		return
	}
	a.janitor = NewJanitor(a.store, a.cfg.Store.ListingTTL)
}

func (a *App) initHTTP() {
	checkers := []health.Checker{}
	if p, ok := a.store.(health.Pinger); ok {
		checkers = append(checkers, health.PingCheck("store", p))
	}

	serverOpts := []httpapi.ServerOption{
		httpapi.WithSearch(a.pipeline),
		httpapi.WithHealth(health.New(checkers...)),
		httpapi.WithVoiceSettings(a.cfg.Voice.SilenceTimeout, a.cfg.Voice.SampleRate),
	}
	if a.assistant != nil {
		serverOpts = append(serverOpts, httpapi.WithAssistant(a.assistant))
	}
	if a.providers.OCR != nil {
		serverOpts = append(serverOpts, httpapi.WithOCR(a.providers.OCR))
	}
	if a.providers.STT != nil {
		serverOpts = append(serverOpts, httpapi.WithSTT(a.providers.STT))
	}

	api := httpapi.NewServer(a.store, serverOpts...)

	mux := http.NewServeMux()
	mux.Handle("/", api.Handler())
	mux.Handle("GET /metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:              a.cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Store exposes the listing store, mainly for tests and admin tooling.
func (a *App) Store() job.Store {
	return a.store
}

// Run serves HTTP and runs the expiry janitor until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.janitor != nil {
		if err := a.janitor.Start(); err != nil {
			return fmt.Errorf("app: start janitor: %w", err)
		}
	}

	g.Go(func() error {
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			slog.Info("serving HTTPS", "addr", a.server.Addr)
			err = a.server.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			slog.Info("serving HTTP", "addr", a.server.Addr)
			err = a.server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown stops the janitor and releases store connections. Safe to call
// more than once.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	a.stopOnce.Do(func() {
		if a.janitor != nil {
			a.janitor.Stop()
		}
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
