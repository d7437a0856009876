// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/law-makers/reviewcrawl/internal/config"
	"github.com/law-makers/reviewcrawl/internal/crawler"
	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/law-makers/reviewcrawl/internal/engine/dynamic"
	"github.com/law-makers/reviewcrawl/internal/engine/hybrid"
	"github.com/law-makers/reviewcrawl/internal/engine/static"
	"github.com/law-makers/reviewcrawl/internal/proxy"
	"github.com/law-makers/reviewcrawl/internal/ratelimit"
	"github.com/law-makers/reviewcrawl/internal/retry"
	"github.com/law-makers/reviewcrawl/internal/sink"
	"github.com/law-makers/reviewcrawl/internal/state"
	"github.com/law-makers/reviewcrawl/internal/utils/headers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command. Heavy resources (the browser, the output
// file, the state database) are opened on demand and released by Close.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	RateLimiter ratelimit.RateLimiter
	Proxies     *proxy.Pool
	HTTPClient  *http.Client
	Retry       retry.Config

	mu       sync.Mutex
	renderer engine.Renderer
	sink     sink.Sink
	store    *state.Store

	startTime time.Time
}

// New creates and initializes a new Application.
//
// It configures logging, the per-host rate limiter, the retry policy and the
// HTTP client. Nothing that needs cleanup is created here.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg, os.Stderr)

	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.RetryAttempts

	proxies, err := proxy.Parse(cfg.Proxy)
	if err != nil {
		return nil, err
	}
	pool := proxy.NewPool(proxies)

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout, Transport: transport}
	if pool.Len() > 0 {
		httpClient.Transport = proxy.NewTransport(pool, transport)
		logger.Debug().Int("proxies", pool.Len()).Msg("Proxy rotation enabled")
	}

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: rateLimiter,
		Proxies:     pool,
		HTTPClient:  httpClient,
		Retry:       rc,
		startTime:   time.Now(),
	}

	logger.Debug().Str("renderer", cfg.Renderer).Msg("Application initialized")
	return app, nil
}

// SetupLogging configures the global zerolog logger from cfg and returns it
func SetupLogging(cfg *config.Config, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = w
	if !cfg.JSONLog {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return log.Logger
}

// Renderer returns the configured rendering engine, starting it on first use
func (a *Application) Renderer() (engine.Renderer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.renderer != nil {
		return a.renderer, nil
	}

	cfg := a.Config
	extra, err := headers.Parse(cfg.Headers)
	if err != nil {
		return nil, err
	}

	st := static.New(a.HTTPClient, a.RateLimiter, a.Retry, cfg.UserAgent)
	st.SetHeaders(extra)
	chromeProxy := ""
	if u := a.Proxies.First(); u != nil {
		// Chrome takes a single proxy for the whole session
		chromeProxy = u.String()
	}
	chrome := func() (engine.Renderer, error) {
		return dynamic.NewSession(dynamic.Options{
			ChromePath:        cfg.ChromePath,
			Headless:          cfg.BrowserHeadless,
			UserAgent:         cfg.UserAgent,
			Proxy:             chromeProxy,
			NavigationTimeout: cfg.HTTPTimeout,
			Headers:           extra,
		}, a.RateLimiter, a.Retry)
	}

	var r engine.Renderer
	switch cfg.Renderer {
	case config.RendererStatic:
		r = st
	case config.RendererAuto:
		r = hybrid.New(st, chrome)
	default:
		session, err := chrome()
		if err != nil {
			return nil, fmt.Errorf("start browser: %w", err)
		}
		r = session
	}

	a.renderer = r
	a.Logger.Info().Str("renderer", r.Name()).Msg("Renderer ready")
	return r, nil
}

// Store opens the checkpoint database. It returns nil when checkpointing is off.
func (a *Application) Store() (*state.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil || a.Config.StatePath == "" {
		return a.store, nil
	}
	s, err := state.Open(a.Config.StatePath)
	if err != nil {
		return nil, err
	}
	a.store = s
	a.Logger.Debug().Str("path", s.Path()).Msg("State database opened")
	return s, nil
}

// Sink opens the output file
func (a *Application) Sink() (sink.Sink, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sink != nil {
		return a.sink, nil
	}

	var format sink.Format
	if a.Config.OutputFormat != "" {
		f, err := sink.ParseFormat(a.Config.OutputFormat)
		if err != nil {
			return nil, err
		}
		format = f
	}
	s, err := sink.Open(a.Config.Output, format, a.Config.Resume)
	if err != nil {
		return nil, err
	}
	a.sink = s
	return s, nil
}

// CrawlOptions converts the configuration into crawler options
func (a *Application) CrawlOptions() (crawler.Options, error) {
	cfg := a.Config
	rf, err := crawler.ParseReviewFormat(cfg.ReviewFormat)
	if err != nil {
		return crawler.Options{}, err
	}
	return crawler.Options{
		ListingWait:        cfg.ListingWait,
		TitleWait:          cfg.TitleWait,
		ReviewsSectionWait: cfg.ReviewsSectionWait,
		ReviewWait:         cfg.ReviewWait,
		PollInterval:       cfg.PollInterval,
		PollAttempts:       cfg.PollAttempts,
		MaxListingPages:    cfg.MaxListingPages,
		MaxReviewPages:     cfg.MaxReviewPages,
		ReviewFormat:       rf,
	}, nil
}

// Crawl is a crawler ready to run, with the URL to start from
type Crawl struct {
	*crawler.Crawler
	StartURL string
	Resumed  bool
}

// NewCrawl assembles the renderer, sink and checkpoint store into a crawler.
// With Resume set, the visited set and listing cursor are reloaded from the
// store and the crawl restarts from the saved listing page.
func (a *Application) NewCrawl(ctx context.Context) (*Crawl, error) {
	opts, err := a.CrawlOptions()
	if err != nil {
		return nil, err
	}

	store, err := a.Store()
	if err != nil {
		return nil, err
	}

	startURL := a.Config.StartURL
	startPage := 1
	visited := crawler.NewVisitedSet()
	var run *state.Run
	resumed := false

	if store != nil {
		run = store.Run(a.Config.StartURL)
		if a.Config.Resume {
			keys, err := run.Visited(ctx)
			if err != nil {
				return nil, err
			}
			visited = crawler.NewVisitedSet(keys...)
			if cur, ok, err := run.Cursor(ctx); err != nil {
				return nil, err
			} else if ok {
				startURL = cur.PageURL
				startPage = cur.Page
				resumed = true
				a.Logger.Info().
					Int("page", cur.Page).
					Int("visited", visited.Len()).
					Msg("Resuming crawl from checkpoint")
			}
		} else if err := run.Reset(ctx); err != nil {
			return nil, err
		}
	}

	out, err := a.Sink()
	if err != nil {
		return nil, err
	}
	r, err := a.Renderer()
	if err != nil {
		return nil, err
	}

	c := crawler.New(r, out, visited, opts)
	c.StartPage = startPage
	if run != nil {
		c.Checkpoint = run
	}
	return &Crawl{Crawler: c, StartURL: startURL, Resumed: resumed}, nil
}

// Close releases the browser, the output file and the state database.
// It is safe to call on every exit path and more than once.
func (a *Application) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.renderer != nil {
		if err := a.renderer.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing renderer")
			errs = append(errs, err)
		}
		a.renderer = nil
	}
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Error closing output")
			errs = append(errs, err)
		}
		a.sink = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing state database")
			errs = append(errs, err)
		}
		a.store = nil
	}
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return errors.Join(errs...)
}
