package engine

import (
	"context"
	"time"
)

// Renderer is the rendering engine every crawl step drives.
//
// A single Renderer is shared by the whole crawl and used sequentially: it
// holds one "current page" that Navigate replaces.
type Renderer interface {
	// Navigate loads url and makes it the current page.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until at least one element matching the CSS selector is
	// present on the current page. When timeout elapses first it returns an
	// error matching ErrTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns the current rendered markup.
	HTML(ctx context.Context) (string, error)

	// ScrollIntoView scrolls the first element matching selector into view.
	ScrollIntoView(ctx context.Context, selector string) error

	// Name returns the name of the renderer implementation
	Name() string

	// Close releases the underlying session.
	Close() error
}
