package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/reviewcrawl/internal/proxy"
	"github.com/law-makers/reviewcrawl/internal/utils/headers"
	urlutil "github.com/law-makers/reviewcrawl/internal/utils/url"
)

func validate(c *Config) error {
	if err := urlutil.ValidateURL(c.StartURL); err != nil {
		return fmt.Errorf("start url: %w", err)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path is required")
	}
	switch c.Renderer {
	case RendererChrome, RendererStatic, RendererAuto:
	default:
		return fmt.Errorf("renderer must be %q, %q or %q, got %q", RendererChrome, RendererStatic, RendererAuto, c.Renderer)
	}
	if _, err := proxy.Parse(c.Proxy); err != nil {
		return err
	}
	if _, err := headers.Parse(c.Headers); err != nil {
		return err
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	waits := []struct {
		name string
		d    time.Duration
	}{
		{"listing wait", c.ListingWait},
		{"title wait", c.TitleWait},
		{"reviews section wait", c.ReviewsSectionWait},
		{"review wait", c.ReviewWait},
	}
	for _, w := range waits {
		if w.d <= 0 {
			return fmt.Errorf("%s must be > 0", w.name)
		}
	}
	if c.PollInterval < 0 || c.PollAttempts < 1 {
		return fmt.Errorf("poll interval must be >= 0 and poll attempts >= 1")
	}
	if c.MaxListingPages < 0 || c.MaxReviewPages < 0 {
		return fmt.Errorf("page caps must be >= 0 (0 means unbounded)")
	}
	if c.RetryAttempts < 1 || c.RetryAttempts > MaxRetryAttempts {
		return fmt.Errorf("retries must be between 1 and %d", MaxRetryAttempts)
	}
	if c.Resume && c.StatePath == "" {
		return fmt.Errorf("resume requires a state path")
	}
	return nil
}
