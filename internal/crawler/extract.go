package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/reviewcrawl/internal/engine"
	urlutil "github.com/law-makers/reviewcrawl/internal/utils/url"
	"github.com/law-makers/reviewcrawl/pkg/models"
	"golang.org/x/net/html"
)

func parseDocument(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeParseError, "parse markup", err)
	}
	return doc, nil
}

// extractListing returns the absolute product URLs of a listing page, in
// document order, and the next listing page URL ("" on the last page).
func extractListing(doc *goquery.Document, pageURL string) (links []string, next string) {
	doc.Find(selListingLink).Each(func(i int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			links = append(links, urlutil.ResolveURL(pageURL, href))
		}
	})

	if href, ok := doc.Find(selListingNext).First().Attr("href"); ok {
		next = urlutil.ResolveURL(pageURL, href)
	}
	return links, next
}

// extractProduct reads the product name and review tags from a product page.
// A page without the tag region yields no tags.
func extractProduct(doc *goquery.Document, pageURL string) (name string, tags []models.Tag) {
	name = models.ProductNameNotFound
	if title := doc.Find(selTitleBlock).First().Find(selTitleSpan).First(); title.Length() > 0 {
		name = strippedText(title)
	}

	region := doc.Find(selTagRegion).First()
	if region.Length() == 0 {
		return name, nil
	}

	region.Find(selTagTerm).Each(func(i int, term *goquery.Selection) {
		href, ok := term.Closest("a").Attr("href")
		if !ok {
			return
		}
		label := strippedText(term)
		if label == "" {
			return
		}
		tags = append(tags, models.Tag{
			Label: label,
			URL:   urlutil.ResolveURL(pageURL, href),
		})
	})
	return name, tags
}

// extractNextReviewPage returns the URL behind the "next" pagination control
func extractNextReviewPage(doc *goquery.Document, pageURL string) string {
	href, ok := doc.Find(selReviewLast).First().Find("a").First().Attr("href")
	if !ok {
		return ""
	}
	return urlutil.ResolveURL(pageURL, href)
}

// reviewBodies returns the body element of every review block on the page.
// Blocks without a body are skipped.
func reviewBodies(doc *goquery.Document) []*goquery.Selection {
	var bodies []*goquery.Selection
	doc.Find(selReviewBlock).Each(func(i int, block *goquery.Selection) {
		if body := block.Find(selReviewBody).First(); body.Length() > 0 {
			bodies = append(bodies, body)
		}
	})
	return bodies
}

// reviewText rebuilds the text of a review body: every text node trimmed and
// a newline for every <br>, in document order, joined by single spaces.
// Whitespace-only fragments are dropped.
func reviewText(body *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if t := strings.TrimSpace(c.Data); t != "" {
					parts = append(parts, t)
				}
			case html.ElementNode:
				if c.Data == "br" {
					parts = append(parts, "\n")
				}
			}
			walk(c)
		}
	}

	for _, n := range body.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// strippedText concatenates the trimmed text nodes under sel with no separator
func strippedText(sel *goquery.Selection) string {
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return sb.String()
}

// countMatches returns how many elements of markup match selector
func countMatches(markup, selector string) (int, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return doc.Find(selector).Length(), nil
}
