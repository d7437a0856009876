package crawler

import (
	"context"
	"fmt"

	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/law-makers/reviewcrawl/internal/engine/metadata"
	"github.com/law-makers/reviewcrawl/internal/trace"
	"github.com/law-makers/reviewcrawl/pkg/models"
)

// Inspector loads product pages and extracts their name and review tags
type Inspector struct {
	renderer engine.Renderer
	opts     Options
}

// NewInspector creates an Inspector
func NewInspector(r engine.Renderer, opts Options) *Inspector {
	return &Inspector{renderer: r, opts: opts}
}

// Inspect loads productURL and returns its details.
// It fails when the title or the reviews section never appears; a missing
// tag region is not a failure and yields a product with no tags.
func (in *Inspector) Inspect(ctx context.Context, productURL string) (*models.Product, error) {
	logger := trace.Logger(ctx)
	if err := in.renderer.Navigate(ctx, productURL); err != nil {
		return nil, fmt.Errorf("load product page: %w", err)
	}
	if err := in.renderer.WaitFor(ctx, selProductTitle, in.opts.TitleWait); err != nil {
		return nil, fmt.Errorf("product title on %s: %w", in.describe(ctx), err)
	}
	if err := in.renderer.WaitFor(ctx, selReviewsSection, in.opts.ReviewsSectionWait); err != nil {
		return nil, fmt.Errorf("reviews section on %s: %w", in.describe(ctx), err)
	}

	// Tags are rendered lazily once the reviews section is on screen
	if err := in.renderer.ScrollIntoView(ctx, selReviewsSection); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug().Err(err).Str("url", productURL).Msg("Scroll to reviews section failed")
	}
	if _, err := waitStable(ctx, in.renderer, selTagRegion+" "+selTagTerm, in.opts.PollInterval, in.opts.PollAttempts); err != nil {
		return nil, fmt.Errorf("wait for tags: %w", err)
	}

	markup, err := in.renderer.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read product page: %w", err)
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	name, tags := extractProduct(doc, productURL)
	if doc.Find(selTagRegion).Length() == 0 {
		logger.Info().Str("url", productURL).Msg("Product tags section not found")
	}

	return &models.Product{
		Name: name,
		URL:  productURL,
		Tags: tags,
	}, nil
}

// describe names the current page for skip diagnostics
func (in *Inspector) describe(ctx context.Context) string {
	markup, err := in.renderer.HTML(ctx)
	if err != nil {
		return "unreadable page"
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return "unparsable page"
	}
	return metadata.Extract(doc).String()
}
