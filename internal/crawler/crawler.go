package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/law-makers/reviewcrawl/internal/trace"
	urlutil "github.com/law-makers/reviewcrawl/internal/utils/url"
	"github.com/law-makers/reviewcrawl/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrSinkWrite wraps failures to persist a review row. They end the run.
var ErrSinkWrite = errors.New("write review row")

// RowWriter receives review rows as soon as they are found
type RowWriter interface {
	WriteRow(row models.ReviewRow) error
}

// Checkpointer persists crawl progress so an interrupted run can resume
type Checkpointer interface {
	// MarkVisited records that the product with the given normalized URL
	// has been attempted.
	MarkVisited(ctx context.Context, normalizedURL string) error
	// SaveCursor records the listing page currently being walked.
	SaveCursor(ctx context.Context, pageURL string, page int) error
}

// Crawler drives the listing, product and review walks over one shared renderer
type Crawler struct {
	listing   *ListingWalker
	inspector *Inspector
	reviews   *ReviewWalker
	sink      RowWriter
	visited   *VisitedSet

	// StartPage is the listing page number of the start URL, for resumed crawls
	StartPage int
	// Checkpoint is optional
	Checkpoint Checkpointer
	// OnOutcome is called after every product attempt, if set
	OnOutcome func(link ListingLink, outcome models.Outcome)
}

// New creates a Crawler. A nil visited set starts an empty one.
func New(r engine.Renderer, sink RowWriter, visited *VisitedSet, opts Options) *Crawler {
	if visited == nil {
		visited = NewVisitedSet()
	}
	return &Crawler{
		listing:   NewListingWalker(r, opts),
		inspector: NewInspector(r, opts),
		reviews:   NewReviewWalker(r, opts),
		sink:      sink,
		visited:   visited,
	}
}

// Visited returns the set of products processed so far
func (c *Crawler) Visited() *VisitedSet {
	return c.visited
}

// Run walks the listing from startURL and writes a row for every review of
// every tag of every unique product.
//
// A product whose page does not load or lacks the expected layout is skipped
// and the walk continues. A later listing page that fails to load ends the
// walk without an error. Cancellation, a failing first listing page, a
// crashed browser and sink write failures end the run; the stats gathered so
// far are returned with the error.
func (c *Crawler) Run(ctx context.Context, startURL string) (models.RunStats, error) {
	var stats models.RunStats
	start := time.Now()

	lastPage := ""
	for link, err := range c.listing.WalkFrom(ctx, startURL, c.StartPage) {
		if err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}

		if link.PageURL != lastPage {
			lastPage = link.PageURL
			stats.ListingPages++
			if c.Checkpoint != nil {
				if err := c.Checkpoint.SaveCursor(ctx, link.PageURL, link.Page); err != nil {
					log.Warn().Err(err).Msg("Failed to save listing cursor")
				}
			}
		}
		stats.LinksSeen++

		key := urlutil.NormalizeProductURL(link.URL)
		if c.visited.Has(key) {
			stats.Duplicates++
			log.Debug().Str("url", key).Msg("Product already visited")
			continue
		}

		outcome, err := c.processProduct(ctx, link.URL, key)
		stats.RowsWritten += outcome.Rows
		if err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}

		c.visited.Add(key)
		if c.Checkpoint != nil {
			if err := c.Checkpoint.MarkVisited(ctx, key); err != nil {
				log.Warn().Err(err).Str("url", key).Msg("Failed to checkpoint product")
			}
		}

		switch outcome.Kind {
		case models.OutcomeSuccess:
			stats.Processed++
		case models.OutcomeSkipped:
			stats.Skipped++
		}
		if c.OnOutcome != nil {
			c.OnOutcome(link, outcome)
		}
	}

	stats.Elapsed = time.Since(start)
	return stats, ctx.Err()
}

// processProduct inspects one product and writes the reviews of each of its
// tags. A non-nil error is fatal to the run.
func (c *Crawler) processProduct(ctx context.Context, productURL, key string) (models.Outcome, error) {
	ctx, span := trace.Start(ctx, "product")
	spanLog := trace.Logger(ctx)
	logger := spanLog.With().Str("product", productURL).Logger()

	logger.Info().Msg("Inspecting product")

	product, err := c.inspector.Inspect(ctx, productURL)
	if err != nil {
		if ctx.Err() != nil {
			return models.Outcome{}, ctx.Err()
		}
		if engine.IsFatal(err) {
			return models.Outcome{}, err
		}
		logger.Warn().Err(err).Msg("Skipping product")
		return models.Skipped(err.Error()), nil
	}
	product.NormalizedURL = key

	logger.Info().
		Str("name", product.Name).
		Int("tags", len(product.Tags)).
		Msg("Product inspected")

	rows := 0
	for _, tag := range product.Tags {
		n, err := c.writeTagReviews(ctx, logger, product, tag)
		rows += n
		if err != nil {
			return models.Outcome{Kind: models.OutcomeSuccess, Product: product, Rows: rows}, err
		}
	}

	logger.Info().
		Int("rows", rows).
		Dur("elapsed", span.Elapsed()).
		Msg("Product done")

	return models.Success(product, rows), nil
}

func (c *Crawler) writeTagReviews(ctx context.Context, logger zerolog.Logger, product *models.Product, tag models.Tag) (int, error) {
	rows := 0
	for text, err := range c.reviews.Walk(ctx, tag.URL) {
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			if engine.IsFatal(err) {
				return rows, err
			}
			logger.Warn().Err(err).Str("tag", tag.Label).Int("kept", rows).Msg("Review pagination interrupted")
			return rows, nil
		}

		row := models.ReviewRow{
			ProductName: product.Name,
			ProductURL:  product.URL,
			Tag:         tag.Label,
			Review:      text,
		}
		if err := c.sink.WriteRow(row); err != nil {
			return rows, fmt.Errorf("%w: %w", ErrSinkWrite, err)
		}
		rows++
	}

	logger.Debug().Str("tag", tag.Label).Int("reviews", rows).Msg("Tag done")
	return rows, nil
}
