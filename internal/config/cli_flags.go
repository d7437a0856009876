package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("proxy", "", "HTTP/SOCKS5 proxies, comma-separated (e.g., http://localhost:8080)")
	cmd.PersistentFlags().Duration("timeout", DefaultHTTPTimeout, "Navigation timeout per page load")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().StringArrayP("header", "H", nil, "Extra request header \"Key: Value\" (repeatable)")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (optional)")
	cmd.PersistentFlags().String("state", "", "Checkpoint database path (enables resumable crawls)")
}

// RegisterRunFlags registers the flags of the run command
func RegisterRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", DefaultOutput, "Output file")
	f.String("format", "", "Output format: csv, xlsx or jsonl (default: by file extension)")
	f.String("review-format", DefaultReviewFormat, "Review text format: text or markdown")
	f.Bool("resume", false, "Continue a previous crawl from its checkpoint and append to the output")
	f.String("renderer", DefaultRenderer, "Rendering engine: chrome, static or auto")
	f.Bool("headless", DefaultBrowserHeadless, "Run Chrome headless")
	f.String("chrome-path", "", "Chrome executable (default: auto-detect)")

	f.Duration("listing-wait", DefaultListingWait, "Wait for product links on a listing page")
	f.Duration("title-wait", DefaultTitleWait, "Wait for the product title")
	f.Duration("section-wait", DefaultReviewsSectionWait, "Wait for the reviews section")
	f.Duration("review-wait", DefaultReviewWait, "Wait for review blocks on a review page")
	f.Duration("poll-interval", DefaultPollInterval, "Interval between checks for lazily rendered content")
	f.Int("poll-attempts", DefaultPollAttempts, "Checks before parsing lazily rendered content as is")

	f.Int("max-listing-pages", DefaultMaxListingPages, "Maximum listing pages to walk (0 = unbounded)")
	f.Int("max-review-pages", DefaultMaxReviewPages, "Maximum review pages per tag (0 = unbounded)")
	f.Float64("rps", DefaultRateLimitRPS, "Page loads per second per host (0 = unlimited)")
	f.Int("burst", DefaultRateLimitBurst, "Page load burst per host")
	f.Int("retries", DefaultRetryAttempts, "Attempts per page load on network errors")
}
