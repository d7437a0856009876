// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"
)

// blockMarkers appear on interstitials served instead of the requested page
var blockMarkers = []string{
	"/errors/validatecaptcha",
	"enter the characters you see below",
	"sorry, we just need to make sure you're not a robot",
	"to discuss automated access to amazon data",
	"api-services-support@amazon.com",
}

// IsBlocked reports whether markup is a bot-check or captcha page
func IsBlocked(markup string) bool {
	lower := strings.ToLower(markup)
	for _, m := range blockMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// NeedsJavaScript determines if a page is a client-rendered shell whose
// content only appears after scripts run
func NeedsJavaScript(markup string) bool {
	lower := strings.ToLower(markup)
	scripts := strings.Count(lower, "<script")
	return scripts > 0 && strings.Count(lower, "<div") < 3
}
