// internal/engine/metadata/extractor.go
package metadata

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page holds the document-level metadata of a rendered page
type Page struct {
	Title     string
	Canonical string
	Language  string
	Robots    string
}

// Extract reads the title, canonical link, language and robots meta of doc
func Extract(doc *goquery.Document) Page {
	var p Page
	if doc == nil {
		return p
	}

	p.Title = strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	p.Canonical, _ = doc.Find(`link[rel="canonical"]`).First().Attr("href")
	p.Language, _ = doc.Find("html").First().Attr("lang")

	doc.Find("meta").Each(func(i int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		if strings.EqualFold(name, "robots") {
			content, _ := sel.Attr("content")
			p.Robots = strings.TrimSpace(content)
		}
	})
	return p
}

// String identifies the page for logs: the quoted title followed by the
// canonical URL, robots directives and language when present.
func (p Page) String() string {
	var b strings.Builder
	if p.Title != "" {
		b.WriteString(strconv.Quote(p.Title))
	} else {
		b.WriteString("untitled page")
	}
	for _, kv := range [...]struct{ k, v string }{
		{"canonical", p.Canonical},
		{"robots", p.Robots},
		{"lang", p.Language},
	} {
		if kv.v != "" {
			b.WriteString(" " + kv.k + "=" + kv.v)
		}
	}
	return b.String()
}
