package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	Quiet    bool

	// Crawl
	StartURL     string
	Output       string
	OutputFormat string // csv, xlsx, jsonl; empty means by extension
	ReviewFormat string
	StatePath    string // empty disables checkpointing
	Resume       bool

	// Rendering
	Renderer        string
	HTTPTimeout     time.Duration
	UserAgent       string
	Proxy           string
	Headers         []string // "Key: Value"
	BrowserHeadless bool
	ChromePath      string

	// Waits and pagination
	ListingWait        time.Duration
	TitleWait          time.Duration
	ReviewsSectionWait time.Duration
	ReviewWait         time.Duration
	PollInterval       time.Duration
	PollAttempts       int
	MaxListingPages    int
	MaxReviewPages     int

	// Rate limiting and retries
	RateLimitRPS   float64
	RateLimitBurst int
	RetryAttempts  int

	// ConfigFile is the YAML file the values were read from, if any
	ConfigFile string
}

// Defaults returns a Config populated with the default values
func Defaults() *Config {
	return &Config{
		LogLevel:           DefaultLogLevel,
		JSONLog:            DefaultJSONLog,
		StartURL:           DefaultStartURL,
		Output:             DefaultOutput,
		ReviewFormat:       DefaultReviewFormat,
		Renderer:           DefaultRenderer,
		HTTPTimeout:        DefaultHTTPTimeout,
		UserAgent:          DefaultUserAgent,
		BrowserHeadless:    DefaultBrowserHeadless,
		ListingWait:        DefaultListingWait,
		TitleWait:          DefaultTitleWait,
		ReviewsSectionWait: DefaultReviewsSectionWait,
		ReviewWait:         DefaultReviewWait,
		PollInterval:       DefaultPollInterval,
		PollAttempts:       DefaultPollAttempts,
		MaxListingPages:    DefaultMaxListingPages,
		MaxReviewPages:     DefaultMaxReviewPages,
		RateLimitRPS:       DefaultRateLimitRPS,
		RateLimitBurst:     DefaultRateLimitBurst,
		RetryAttempts:      DefaultRetryAttempts,
	}
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the command being executed so its flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Defaults()

	explicit := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}
	if path := FindConfigFile(explicit); path != "" {
		file, err := LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		file.apply(cfg)
		cfg.ConfigFile = path
	} else if explicit != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := applyFlags(cfg, cmd); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides cfg from REVIEWCRAWL_* variables
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = d
		}
		return nil
	}
	num := func(name string, dst *int) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
		return nil
	}

	str("START_URL", &cfg.StartURL)
	str("OUTPUT", &cfg.Output)
	str("STATE", &cfg.StatePath)
	str("RENDERER", &cfg.Renderer)
	str("USER_AGENT", &cfg.UserAgent)
	str("PROXY", &cfg.Proxy)
	str("CHROME_PATH", &cfg.ChromePath)
	str("LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup(EnvPrefix + "HEADLESS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHEADLESS: %w", EnvPrefix, err)
		}
		cfg.BrowserHeadless = b
	}
	if v, ok := lookup(EnvPrefix + "RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRPS: %w", EnvPrefix, err)
		}
		cfg.RateLimitRPS = f
	}

	if err := dur("TIMEOUT", &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := dur("POLL_INTERVAL", &cfg.PollInterval); err != nil {
		return err
	}
	return num("RETRIES", &cfg.RetryAttempts)
}

// applyFlags overrides cfg with the flags the user actually set
func applyFlags(cfg *Config, cmd *cobra.Command) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	setStr := func(name string, dst *string) {
		if err == nil && changed(name) {
			*dst, err = flags.GetString(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if err == nil && changed(name) {
			*dst, err = flags.GetBool(name)
		}
	}
	setInt := func(name string, dst *int) {
		if err == nil && changed(name) {
			*dst, err = flags.GetInt(name)
		}
	}
	setDur := func(name string, dst *time.Duration) {
		if err == nil && changed(name) {
			*dst, err = flags.GetDuration(name)
		}
	}

	setStr("proxy", &cfg.Proxy)
	setStr("user-agent", &cfg.UserAgent)
	if err == nil && changed("header") {
		cfg.Headers, err = flags.GetStringArray("header")
	}
	setDur("timeout", &cfg.HTTPTimeout)
	setBool("json", &cfg.JSONLog)
	setBool("quiet", &cfg.Quiet)

	setStr("output", &cfg.Output)
	setStr("format", &cfg.OutputFormat)
	setStr("review-format", &cfg.ReviewFormat)
	setStr("state", &cfg.StatePath)
	setBool("resume", &cfg.Resume)
	setStr("renderer", &cfg.Renderer)
	setBool("headless", &cfg.BrowserHeadless)
	setStr("chrome-path", &cfg.ChromePath)
	setDur("listing-wait", &cfg.ListingWait)
	setDur("title-wait", &cfg.TitleWait)
	setDur("section-wait", &cfg.ReviewsSectionWait)
	setDur("review-wait", &cfg.ReviewWait)
	setDur("poll-interval", &cfg.PollInterval)
	setInt("poll-attempts", &cfg.PollAttempts)
	setInt("max-listing-pages", &cfg.MaxListingPages)
	setInt("max-review-pages", &cfg.MaxReviewPages)
	setInt("burst", &cfg.RateLimitBurst)
	setInt("retries", &cfg.RetryAttempts)
	if err == nil && changed("rps") {
		cfg.RateLimitRPS, err = flags.GetFloat64("rps")
	}
	if err != nil {
		return err
	}

	if changed("verbose") {
		if v, _ := flags.GetBool("verbose"); v {
			cfg.LogLevel = "debug"
		}
	}
	if cfg.Quiet {
		cfg.LogLevel = "error"
	}
	if cfg.Resume && cfg.StatePath == "" {
		cfg.StatePath = DefaultStatePath
	}
	return nil
}
