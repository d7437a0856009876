package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when an explicitly named config file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the YAML config file. Absent keys leave the defaults alone.
type File struct {
	StartURL     *string `yaml:"start_url"`
	Output       *string `yaml:"output"`
	OutputFormat *string `yaml:"output_format"`
	ReviewFormat *string `yaml:"review_format"`
	State        *string `yaml:"state"`
	LogLevel     *string `yaml:"log_level"`
	JSONLog      *bool   `yaml:"json_log"`

	Browser struct {
		Renderer  *string        `yaml:"renderer"`
		Headless  *bool          `yaml:"headless"`
		Path      *string        `yaml:"chrome_path"`
		UserAgent *string        `yaml:"user_agent"`
		Proxy     *string        `yaml:"proxy"`
		Headers   []string       `yaml:"headers"`
		Timeout   *time.Duration `yaml:"timeout"`
	} `yaml:"browser"`

	Waits struct {
		Listing        *time.Duration `yaml:"listing"`
		Title          *time.Duration `yaml:"title"`
		ReviewsSection *time.Duration `yaml:"reviews_section"`
		Review         *time.Duration `yaml:"review"`
		PollInterval   *time.Duration `yaml:"poll_interval"`
		PollAttempts   *int           `yaml:"poll_attempts"`
	} `yaml:"waits"`

	Limits struct {
		MaxListingPages *int     `yaml:"max_listing_pages"`
		MaxReviewPages  *int     `yaml:"max_review_pages"`
		RPS             *float64 `yaml:"rps"`
		Burst           *int     `yaml:"burst"`
		Retries         *int     `yaml:"retries"`
	} `yaml:"limits"`
}

// LoadConfigFile parses the YAML file at path
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile returns configPath when given and present, otherwise the
// first DefaultConfigFile found in the working or home directory, or "".
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (f *File) apply(cfg *Config) {
	set(&cfg.StartURL, f.StartURL)
	set(&cfg.Output, f.Output)
	set(&cfg.OutputFormat, f.OutputFormat)
	set(&cfg.ReviewFormat, f.ReviewFormat)
	set(&cfg.StatePath, f.State)
	set(&cfg.LogLevel, f.LogLevel)
	set(&cfg.JSONLog, f.JSONLog)

	set(&cfg.Renderer, f.Browser.Renderer)
	set(&cfg.BrowserHeadless, f.Browser.Headless)
	set(&cfg.ChromePath, f.Browser.Path)
	set(&cfg.UserAgent, f.Browser.UserAgent)
	set(&cfg.Proxy, f.Browser.Proxy)
	if f.Browser.Headers != nil {
		cfg.Headers = f.Browser.Headers
	}
	set(&cfg.HTTPTimeout, f.Browser.Timeout)

	set(&cfg.ListingWait, f.Waits.Listing)
	set(&cfg.TitleWait, f.Waits.Title)
	set(&cfg.ReviewsSectionWait, f.Waits.ReviewsSection)
	set(&cfg.ReviewWait, f.Waits.Review)
	set(&cfg.PollInterval, f.Waits.PollInterval)
	set(&cfg.PollAttempts, f.Waits.PollAttempts)

	set(&cfg.MaxListingPages, f.Limits.MaxListingPages)
	set(&cfg.MaxReviewPages, f.Limits.MaxReviewPages)
	set(&cfg.RateLimitRPS, f.Limits.RPS)
	set(&cfg.RateLimitBurst, f.Limits.Burst)
	set(&cfg.RetryAttempts, f.Limits.Retries)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
