package crawler

import "time"

// Options tunes waits, polling and pagination guards
type Options struct {
	// Bounded waits for the element that marks each page type as loaded
	ListingWait        time.Duration
	TitleWait          time.Duration
	ReviewsSectionWait time.Duration
	ReviewWait         time.Duration

	// Polling used instead of fixed sleeps while lazy content settles
	PollInterval time.Duration
	PollAttempts int

	// Pagination guards against link cycles; 0 means unbounded
	MaxListingPages int
	MaxReviewPages  int

	ReviewFormat ReviewFormat
}

// DefaultOptions returns the waits of the original crawl schedule
func DefaultOptions() Options {
	return Options{
		ListingWait:        20 * time.Second,
		TitleWait:          15 * time.Second,
		ReviewsSectionWait: 20 * time.Second,
		ReviewWait:         20 * time.Second,
		PollInterval:       500 * time.Millisecond,
		PollAttempts:       10,
		MaxListingPages:    400,
		MaxReviewPages:     100,
		ReviewFormat:       ReviewFormatText,
	}
}
