package models

import "time"

// ProductNameNotFound is the display name used when a product page has no title.
const ProductNameNotFound = "Product name not found"

// CSVHeader is the fixed column header of every review sink
var CSVHeader = []string{"Product name", "Product URL", "Product Tag", "Review"}

// Tag is a retailer-defined review label and the URL of its filtered review listing
type Tag struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Product represents the details extracted from a single product page
type Product struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	NormalizedURL string `json:"normalized_url"`
	Tags          []Tag  `json:"tags,omitempty"`
}

// ReviewRow is one output row: a single review found under one tag of one product
type ReviewRow struct {
	ProductName string `json:"product_name"`
	ProductURL  string `json:"product_url"`
	Tag         string `json:"tag"`
	Review      string `json:"review"`
}

// Record returns the row as sink fields, in CSVHeader order
func (r ReviewRow) Record() []string {
	return []string{r.ProductName, r.ProductURL, r.Tag, r.Review}
}

// OutcomeKind tells whether a product was crawled or skipped
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeSkipped OutcomeKind = "skipped"
)

// Outcome is the per-product result of a crawl step
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Product *Product    `json:"product,omitempty"`
	Rows    int         `json:"rows"`
	Reason  string      `json:"reason,omitempty"`
}

// Success builds a successful outcome
func Success(p *Product, rows int) Outcome {
	return Outcome{Kind: OutcomeSuccess, Product: p, Rows: rows}
}

// Skipped builds a skipped outcome with the reason it was skipped
func Skipped(reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: reason}
}

// RunStats summarizes a crawl run
type RunStats struct {
	ListingPages int           `json:"listing_pages"`
	LinksSeen    int           `json:"links_seen"`
	Duplicates   int           `json:"duplicates"`
	Processed    int           `json:"processed"`
	Skipped      int           `json:"skipped"`
	RowsWritten  int           `json:"rows_written"`
	Elapsed      time.Duration `json:"elapsed"`
}
