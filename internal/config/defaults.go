package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	DefaultStartURL     = "https://www.amazon.in/s?i=beauty&rh=n%3A1374407031&fs=true&qid=16934"
	DefaultOutput       = "amazon_product_data.csv"
	DefaultReviewFormat = "text"
	DefaultStatePath    = ".reviewcrawl/state.db"

	DefaultRenderer        = RendererChrome
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultBrowserHeadless = true

	DefaultListingWait        = 20 * time.Second
	DefaultTitleWait          = 15 * time.Second
	DefaultReviewsSectionWait = 20 * time.Second
	DefaultReviewWait         = 20 * time.Second
	DefaultPollInterval       = 500 * time.Millisecond
	DefaultPollAttempts       = 10
	DefaultMaxListingPages    = 400
	DefaultMaxReviewPages     = 100

	DefaultRateLimitRPS   = 0.5
	DefaultRateLimitBurst = 1
	DefaultRetryAttempts  = 2
	MaxRetryAttempts      = 10

	// DefaultConfigFile is looked up in the working and home directories
	// when --config is not given.
	DefaultConfigFile = ".reviewcrawl.yaml"

	EnvPrefix = "REVIEWCRAWL_"
)

// Renderer names
const (
	RendererChrome = "chrome"
	RendererStatic = "static"
	RendererAuto   = "auto"
)
