package crawler

import (
	"context"
	"fmt"
	"iter"

	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/law-makers/reviewcrawl/internal/trace"
)

// ReviewWalker walks the paginated reviews behind one tag URL
type ReviewWalker struct {
	renderer  engine.Renderer
	opts      Options
	formatter *reviewFormatter
}

// NewReviewWalker creates a ReviewWalker
func NewReviewWalker(r engine.Renderer, opts Options) *ReviewWalker {
	return &ReviewWalker{
		renderer:  r,
		opts:      opts,
		formatter: newReviewFormatter(opts.ReviewFormat),
	}
}

// Walk yields the text of every review reachable from tagURL.
//
// Timeout policy: when the first page never shows a review block the tag has
// no reviews and the sequence is empty. When a later page never shows one,
// pagination stops there and the reviews already yielded stand.
func (w *ReviewWalker) Walk(ctx context.Context, tagURL string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		logger := trace.Logger(ctx)
		if err := w.renderer.Navigate(ctx, tagURL); err != nil {
			yield("", fmt.Errorf("load review page: %w", err))
			return
		}
		if err := w.renderer.WaitFor(ctx, selReviewBlock, w.opts.ReviewWait); err != nil {
			if engine.IsTimeout(err) {
				logger.Info().Str("url", tagURL).Msg("No reviews found for tag")
				return
			}
			yield("", fmt.Errorf("wait for reviews: %w", err))
			return
		}

		seen := map[string]bool{tagURL: true}
		pageURL := tagURL

		for page := 1; ; page++ {
			markup, err := w.renderer.HTML(ctx)
			if err != nil {
				yield("", fmt.Errorf("read review page %d: %w", page, err))
				return
			}
			doc, err := parseDocument(markup)
			if err != nil {
				yield("", err)
				return
			}

			bodies := reviewBodies(doc)
			logger.Debug().Int("page", page).Int("reviews", len(bodies)).Str("url", pageURL).Msg("Review page parsed")

			for _, body := range bodies {
				text, err := w.formatter.render(body)
				if err != nil {
					logger.Warn().Err(err).Str("url", pageURL).Msg("Failed to render review body")
					continue
				}
				if !yield(text, nil) {
					return
				}
			}

			next := extractNextReviewPage(doc, pageURL)
			if next == "" {
				return
			}
			if w.opts.MaxReviewPages > 0 && page >= w.opts.MaxReviewPages {
				logger.Warn().Int("max_pages", w.opts.MaxReviewPages).Str("url", tagURL).Msg("Review page cap reached")
				return
			}
			if seen[next] {
				logger.Warn().Str("url", next).Msg("Review pagination loops back, stopping")
				return
			}
			seen[next] = true

			if err := w.renderer.Navigate(ctx, next); err != nil {
				yield("", fmt.Errorf("load review page %d: %w", page+1, err))
				return
			}
			if err := w.renderer.WaitFor(ctx, selReviewBlock, w.opts.ReviewWait); err != nil {
				if engine.IsTimeout(err) {
					logger.Info().Str("url", next).Msg("Reached the last page of reviews")
					return
				}
				yield("", fmt.Errorf("wait for reviews: %w", err))
				return
			}
			if _, err := waitStable(ctx, w.renderer, selReviewBlock, w.opts.PollInterval, w.opts.PollAttempts); err != nil {
				yield("", fmt.Errorf("wait for review page %d: %w", page+1, err))
				return
			}
			pageURL = next
		}
	}
}
