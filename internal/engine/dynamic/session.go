// internal/engine/dynamic/session.go
package dynamic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/law-makers/reviewcrawl/internal/ratelimit"
	"github.com/law-makers/reviewcrawl/internal/retry"
	"github.com/law-makers/reviewcrawl/internal/utils/headers"
	"github.com/rs/zerolog/log"
)

// Session implements engine.Renderer with a single headless Chrome tab.
// The tab is created once and reused by every navigation of the crawl.
type Session struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	limiter    ratelimit.RateLimiter
	retry      retry.Config
	navTimeout time.Duration

	url        string
	lastStatus atomic.Int64

	mu     sync.Mutex
	closed bool
}

// NewSession starts Chrome and opens the tab used for the whole crawl
func NewSession(opts Options, lim ratelimit.RateLimiter, rc retry.Config) (*Session, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	opts.ChromePath = FindChrome(opts.ChromePath)

	log.Debug().
		Str("chrome", opts.ChromePath).
		Str("version", ChromeVersion(opts.ChromePath)).
		Bool("headless", opts.Headless).
		Msg("Starting browser session")

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		limiter:     lim,
		retry:       rc,
		navTimeout:  opts.NavigationTimeout,
	}

	// Track the status of main document responses for diagnostics
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventResponseReceived); ok && ev.Type == network.ResourceTypeDocument {
			s.lastStatus.Store(ev.Response.Status)
		}
	})

	// The first Run launches the browser process
	warmup := []chromedp.Action{network.Enable()}
	if len(opts.Headers) > 0 {
		warmup = append(warmup, network.SetExtraHTTPHeaders(network.Headers(headers.Map(opts.Headers))))
	}
	warmup = append(warmup, chromedp.Navigate("about:blank"))
	if err := chromedp.Run(tabCtx, warmup...); err != nil {
		s.Close()
		return nil, engine.NewEngineError(engine.ErrCodeBrowserCrash, "start browser", errors.Join(engine.ErrBrowserNotFound, err))
	}

	log.Info().Msg("Browser session ready")
	return s, nil
}

// Name returns the name of this renderer
func (s *Session) Name() string {
	return "ChromeRenderer"
}

// run executes actions on the tab bounded by timeout and by the caller's ctx.
// Cancelling a derived context does not close the tab.
// timedOut reports whether the failure was the timeout expiring.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) (timedOut bool, err error) {
	if cerr := ctx.Err(); cerr != nil {
		return false, cerr
	}
	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err = chromedp.Run(runCtx, actions...)
	if err == nil {
		return false, nil
	}
	if s.tabCtx.Err() != nil && ctx.Err() == nil {
		// The tab context only ends when the browser process is gone
		return false, engine.NewEngineError(engine.ErrCodeBrowserCrash, "browser session ended", err)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return true, err
	}
	return false, err
}

// Navigate loads url in the shared tab
func (s *Session) Navigate(ctx context.Context, url string) error {
	start := time.Now()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, url); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	err := retry.WithRetry(ctx, s.retry, func() error {
		_, err := s.run(ctx, s.navTimeout, chromedp.Navigate(url))
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if engine.IsFatal(err) {
			return err
		}
		return engine.NewEngineError(engine.ErrCodeNetworkError, "navigate "+url, err).WithRetry()
	})
	if err != nil {
		return err
	}

	s.url = url
	log.Debug().
		Str("url", url).
		Int64("status", s.lastStatus.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("Page loaded")
	return nil
}

// WaitFor waits until selector is present in the DOM
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	timedOut, err := s.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if timedOut {
		return engine.TimeoutError(s.url, selector)
	}
	return fmt.Errorf("wait for %q: %w", selector, err)
}

// HTML returns the rendered markup of the current page
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if _, err := s.run(ctx, s.navTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", engine.NewEngineError(engine.ErrCodeParseError, "read markup of "+s.url, err)
	}
	return html, nil
}

// ScrollIntoView scrolls the first match of selector into the viewport
func (s *Session) ScrollIntoView(ctx context.Context, selector string) error {
	if _, err := s.run(ctx, s.navTimeout, chromedp.ScrollIntoView(selector, chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return engine.NewEngineError(engine.ErrCodeNotFound, "scroll to "+selector, err).WithDetail("url", s.url)
	}
	return nil
}

// Close shuts down the tab and the browser process
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.tabCancel()
	s.allocCancel()

	log.Info().Msg("Browser session closed")
	return nil
}
