package crawler

import (
	"context"
	"time"

	"github.com/law-makers/reviewcrawl/internal/engine"
)

// waitStable polls the rendered page until the number of elements matching
// selector is non-zero and unchanged between two consecutive polls, or the
// attempts run out. Running out is not an error: the caller parses whatever
// has rendered by then. It returns the last observed count.
func waitStable(ctx context.Context, r engine.Renderer, selector string, interval time.Duration, attempts int) (int, error) {
	if attempts <= 0 {
		attempts = 1
	}

	last := -1
	for i := 0; i < attempts; i++ {
		markup, err := r.HTML(ctx)
		if err != nil {
			return 0, err
		}
		n, err := countMatches(markup, selector)
		if err != nil {
			return 0, err
		}
		if n > 0 && n == last {
			return n, nil
		}
		last = n

		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return last, ctx.Err()
		}
	}
	return last, nil
}
