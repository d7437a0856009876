package urlutil

import (
	"net/url"
	"strings"
)

// asinParam is the query parameter carrying the product identifier.
const asinParam = "asin"

// NormalizeProductURL collapses cosmetic variants of a product URL into one key.
//
// When the query string carries a non-empty asin value, the result keeps the
// scheme, host and path verbatim and replaces the query with asin=<first value>.
// Tracking parameters and the fragment are dropped. URLs without an asin, or
// that cannot be parsed, are returned unchanged.
func NormalizeProductURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	asin, ok := firstASIN(u.RawQuery)
	if !ok {
		return raw
	}

	normalized := url.URL{
		Scheme:   u.Scheme,
		User:     u.User,
		Host:     u.Host,
		Path:     u.Path,
		RawPath:  u.RawPath,
		RawQuery: url.Values{asinParam: []string{asin}}.Encode(),
	}
	return normalized.String()
}

// ExtractASIN returns the first non-empty asin query value of a URL
func ExtractASIN(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	return firstASIN(u.RawQuery)
}

// firstASIN scans the raw query in order so that the first occurrence wins.
// Blank values are ignored and malformed pairs are skipped rather than failing.
func firstASIN(rawQuery string) (string, bool) {
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil || key != asinParam {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil || value == "" {
			continue
		}
		return value, true
	}
	return "", false
}
