// internal/engine/static/renderer.go
package static

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/law-makers/reviewcrawl/internal/ratelimit"
	"github.com/law-makers/reviewcrawl/internal/retry"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps how much of a response is read into memory
const maxBodyBytes = 32 << 20

// Renderer implements engine.Renderer over plain HTTP requests.
// Markup is whatever the server returns: no JavaScript runs, so a selector
// that is absent from the response can never appear and WaitFor fails at once.
type Renderer struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	retry     retry.Config
	userAgent string
	headers   http.Header

	url  string
	html string
	doc  *goquery.Document
}

// New creates a new static Renderer with dependency injection
func New(client *http.Client, lim ratelimit.RateLimiter, rc retry.Config, ua string) *Renderer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Renderer{
		client:    client,
		limiter:   lim,
		retry:     rc,
		userAgent: ua,
	}
}

// SetHeaders adds extra headers to every request, overriding the defaults
func (r *Renderer) SetHeaders(h http.Header) {
	r.headers = h
}

// Name returns the name of this renderer
func (r *Renderer) Name() string {
	return "StaticRenderer"
}

// Navigate fetches url and parses it as the current page
func (r *Renderer) Navigate(ctx context.Context, url string) error {
	start := time.Now()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, url); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var body []byte
	var status int
	err := retry.WithRetry(ctx, r.retry, func() error {
		var err error
		body, status, err = r.fetch(ctx, url)
		return err
	})
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return engine.NewEngineError(engine.ErrCodeParseError, "parse "+url, err)
	}

	r.url = url
	r.html = string(body)
	r.doc = doc

	log.Debug().
		Str("url", url).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("Page fetched")

	return nil
}

func (r *Renderer) fetch(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range r.headers {
		req.Header[k] = append([]string(nil), v...)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, engine.NewEngineError(engine.ErrCodeNetworkError, "fetch "+url, err).WithRetry()
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, retry.NewHTTPError(resp.StatusCode, resp.Status, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, engine.NewEngineError(engine.ErrCodeNetworkError, "read "+url, err).WithRetry()
	}
	return body, resp.StatusCode, nil
}

// WaitFor checks the current page for selector. The timeout is not used.
func (r *Renderer) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if r.doc == nil {
		return engine.ErrNoPage
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.doc.Find(selector).Length() == 0 {
		return engine.TimeoutError(r.url, selector)
	}
	return nil
}

// HTML returns the markup of the current page
func (r *Renderer) HTML(ctx context.Context) (string, error) {
	if r.doc == nil {
		return "", engine.ErrNoPage
	}
	return r.html, nil
}

// ScrollIntoView only checks that selector exists; there is no viewport
func (r *Renderer) ScrollIntoView(ctx context.Context, selector string) error {
	if r.doc == nil {
		return engine.ErrNoPage
	}
	if r.doc.Find(selector).Length() == 0 {
		return engine.NotFoundError(r.url, selector)
	}
	return nil
}

// Close releases idle connections
func (r *Renderer) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
