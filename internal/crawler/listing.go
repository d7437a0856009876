package crawler

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/rs/zerolog/log"
)

// ErrEmptyListing is returned when the first listing page shows no products
var ErrEmptyListing = errors.New("listing page has no product links")

// ListingLink is one product link found on a listing page
type ListingLink struct {
	Page    int
	PageURL string
	URL     string
}

// ListingWalker enumerates product links across paginated listing pages
type ListingWalker struct {
	renderer engine.Renderer
	opts     Options
}

// NewListingWalker creates a ListingWalker
func NewListingWalker(r engine.Renderer, opts Options) *ListingWalker {
	return &ListingWalker{renderer: r, opts: opts}
}

// Walk yields every product link of every listing page starting at startURL.
// The sequence is lazy and single-use; it ends when a page has no next link,
// when a later page fails to load or never shows product links, or on the
// page cap. A non-nil error is always the last element.
func (w *ListingWalker) Walk(ctx context.Context, startURL string) iter.Seq2[ListingLink, error] {
	return w.WalkFrom(ctx, startURL, 1)
}

// WalkFrom is Walk for a crawl resumed at listing page number firstPage.
// Page numbers, the page cap and the empty-first-page error all count from
// firstPage.
func (w *ListingWalker) WalkFrom(ctx context.Context, startURL string, firstPage int) iter.Seq2[ListingLink, error] {
	if firstPage < 1 {
		firstPage = 1
	}
	return func(yield func(ListingLink, error) bool) {
		seen := make(map[string]bool)
		pageURL := startURL

		// fail ends the walk. Past the first page only cancellation and a
		// crashed browser are reported; other failures just stop pagination.
		fail := func(page int, err error) {
			if page > firstPage && ctx.Err() == nil && !engine.IsFatal(err) {
				log.Warn().Err(err).Int("page", page).Str("url", pageURL).Msg("Listing page failed, stopping")
				return
			}
			yield(ListingLink{}, fmt.Errorf("listing page %d: %w", page, err))
		}

		for page := firstPage; pageURL != ""; page++ {
			if w.opts.MaxListingPages > 0 && page > w.opts.MaxListingPages {
				log.Warn().Int("max_pages", w.opts.MaxListingPages).Msg("Listing page cap reached")
				return
			}
			if seen[pageURL] {
				log.Warn().Str("url", pageURL).Msg("Listing pagination loops back, stopping")
				return
			}
			seen[pageURL] = true

			log.Info().Int("page", page).Str("url", pageURL).Msg("Loading listing page")

			if err := w.renderer.Navigate(ctx, pageURL); err != nil {
				fail(page, err)
				return
			}

			if err := w.renderer.WaitFor(ctx, selListingLink, w.opts.ListingWait); err != nil {
				if engine.IsTimeout(err) && page > firstPage {
					log.Warn().Int("page", page).Str("url", pageURL).Msg("Listing page shows no products, stopping")
					return
				}
				if engine.IsTimeout(err) {
					err = fmt.Errorf("%w: %w", ErrEmptyListing, err)
				}
				fail(page, err)
				return
			}

			markup, err := w.renderer.HTML(ctx)
			if err != nil {
				fail(page, err)
				return
			}
			doc, err := parseDocument(markup)
			if err != nil {
				fail(page, err)
				return
			}

			links, next := extractListing(doc, pageURL)
			log.Debug().Int("page", page).Int("links", len(links)).Bool("has_next", next != "").Msg("Listing page parsed")

			for _, link := range links {
				if !yield(ListingLink{Page: page, PageURL: pageURL, URL: link}, nil) {
					return
				}
			}

			pageURL = next
		}
	}
}
