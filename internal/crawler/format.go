package crawler

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ReviewFormat selects how a review body is turned into the Review column
type ReviewFormat string

const (
	// ReviewFormatText keeps text fragments and line breaks only
	ReviewFormatText ReviewFormat = "text"
	// ReviewFormatMarkdown converts the body markup to Markdown
	ReviewFormatMarkdown ReviewFormat = "markdown"
)

// ParseReviewFormat validates a format name
func ParseReviewFormat(s string) (ReviewFormat, error) {
	switch ReviewFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReviewFormatText:
		return ReviewFormatText, nil
	case ReviewFormatMarkdown:
		return ReviewFormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown review format %q (must be text or markdown)", s)
	}
}

// reviewFormatter renders review bodies in the configured format
type reviewFormatter struct {
	format    ReviewFormat
	converter *md.Converter
}

func newReviewFormatter(format ReviewFormat) *reviewFormatter {
	f := &reviewFormatter{format: format}
	if format == ReviewFormatMarkdown {
		f.converter = md.NewConverter("", true, nil)
		f.converter.Use(plugin.GitHubFlavored())
	}
	return f
}

func (f *reviewFormatter) render(body *goquery.Selection) (string, error) {
	if f.format != ReviewFormatMarkdown {
		return reviewText(body), nil
	}

	inner, err := body.Html()
	if err != nil {
		return "", err
	}
	cleaned, err := cleanFragment(inner)
	if err != nil {
		return "", err
	}
	out, err := f.converter.ConvertString(cleaned)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// cleanFragment strips scripts, widgets and attributes from review markup so
// only the text formatting survives the Markdown conversion.
func cleanFragment(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, iframe, svg, form, input, button, video, img").Remove()

	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			if node.Type != html.ElementNode {
				continue
			}
			var kept []html.Attribute
			for _, attr := range node.Attr {
				if node.Data == "a" && attr.Key == "href" {
					kept = append(kept, attr)
				}
			}
			node.Attr = kept
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
