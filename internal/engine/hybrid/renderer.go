package hybrid

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/rs/zerolog/log"
)

// Factory starts the browser-backed renderer on first use
type Factory func() (engine.Renderer, error)

// Renderer serves pages over plain HTTP and escalates to a browser when the
// response is a bot check, a script shell, or lacks an awaited element.
// Once escalated, every later page goes through the browser.
type Renderer struct {
	static  engine.Renderer
	factory Factory

	mu       sync.Mutex
	dynamic  engine.Renderer
	startErr error
	sticky   bool
	active   engine.Renderer
	url      string
	strategy Strategy
}

// New creates a hybrid renderer. factory is called at most once.
func New(static engine.Renderer, factory Factory) *Renderer {
	return &Renderer{static: static, factory: factory, active: static}
}

// Name returns the name of this renderer
func (r *Renderer) Name() string {
	return "HybridRenderer"
}

// Strategy returns the engine that served the current page
func (r *Renderer) Strategy() Strategy {
	return r.strategy
}

func (r *Renderer) browser() (engine.Renderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dynamic != nil {
		return r.dynamic, nil
	}
	if r.startErr != nil {
		return nil, r.startErr
	}
	if r.factory == nil {
		return nil, engine.ErrBrowserNotFound
	}
	d, err := r.factory()
	if err != nil {
		log.Warn().Err(err).Msg("Browser unavailable, continuing with static pages")
		r.startErr = err
		return nil, err
	}
	r.dynamic = d
	return d, nil
}

func (r *Renderer) escalate(ctx context.Context, reason string) error {
	d, err := r.browser()
	if err != nil {
		return err
	}
	log.Info().Str("url", r.url).Str("reason", reason).Msg("Switching to browser rendering")
	if err := d.Navigate(ctx, r.url); err != nil {
		return err
	}
	r.active = d
	r.strategy = StrategyDynamic
	return nil
}

// Navigate loads url, statically unless the browser has taken over
func (r *Renderer) Navigate(ctx context.Context, url string) error {
	err := r.navigate(ctx, url)
	if err == nil {
		log.Debug().Str("url", url).Stringer("strategy", r.Strategy()).Msg("Page served")
	}
	return err
}

func (r *Renderer) navigate(ctx context.Context, url string) error {
	r.url = url

	if r.sticky {
		return r.active.Navigate(ctx, url)
	}

	r.active = r.static
	r.strategy = StrategyStatic
	if err := r.static.Navigate(ctx, url); err != nil {
		if ctx.Err() != nil {
			return err
		}
		log.Debug().Err(err).Str("url", url).Msg("Static fetch failed")
		if escErr := r.escalate(ctx, "static fetch failed"); escErr != nil {
			if errors.Is(escErr, engine.ErrBrowserNotFound) {
				return err
			}
			return escErr
		}
		return nil
	}

	markup, err := r.static.HTML(ctx)
	if err != nil {
		return err
	}
	if IsBlocked(markup) {
		// Bot checks persist for the session; stay in the browser
		if err := r.escalate(ctx, "bot check"); err != nil {
			return noBrowser(err)
		}
		r.sticky = true
		return nil
	}
	if DetermineStrategy(markup) == StrategyDynamic {
		return noBrowser(r.escalate(ctx, "client rendered page"))
	}
	return nil
}

// noBrowser drops the error of a failed escalation when no browser is
// available, leaving the static page current.
func noBrowser(err error) error {
	if errors.Is(err, engine.ErrBrowserNotFound) {
		return nil
	}
	return err
}

// WaitFor waits on the current page. A static page lacking the selector is
// reloaded in the browser before giving up.
func (r *Renderer) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	err := r.active.WaitFor(ctx, selector, timeout)
	if err == nil || r.strategy == StrategyDynamic || !engine.IsTimeout(err) {
		return err
	}
	if escErr := r.escalate(ctx, "missing "+selector); escErr != nil {
		if errors.Is(escErr, engine.ErrBrowserNotFound) {
			return err
		}
		return escErr
	}
	return r.active.WaitFor(ctx, selector, timeout)
}

// HTML returns the current page markup
func (r *Renderer) HTML(ctx context.Context) (string, error) {
	return r.active.HTML(ctx)
}

// ScrollIntoView scrolls on the current page
func (r *Renderer) ScrollIntoView(ctx context.Context, selector string) error {
	return r.active.ScrollIntoView(ctx, selector)
}

// Close releases both renderers
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	if r.static != nil {
		errs = append(errs, r.static.Close())
	}
	if r.dynamic != nil {
		errs = append(errs, r.dynamic.Close())
		r.dynamic = nil
	}
	return errors.Join(errs...)
}
