package metadata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestExtract(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html lang="en-in"><head>
		<title>
			Amazon.in : Running Shoes
		</title>
		<link rel="canonical" href="https://www.amazon.in/dp/B0TEST">
		<meta name="description" content=" Buy shoes ">
		<meta name="ROBOTS" content=" noindex ">
	</head><body></body></html>`))
	if err != nil {
		t.Fatal(err)
	}

	p := Extract(doc)
	if p.Title != "Amazon.in : Running Shoes" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Canonical != "https://www.amazon.in/dp/B0TEST" || p.Language != "en-in" {
		t.Errorf("unexpected page %+v", p)
	}
	if p.Robots != "noindex" {
		t.Errorf("Robots = %q", p.Robots)
	}
}

func TestPage_String(t *testing.T) {
	tests := []struct {
		page Page
		want string
	}{
		{Page{}, "untitled page"},
		{Page{Title: "Robot Check"}, `"Robot Check"`},
		{
			Page{Title: "Page Not Found", Canonical: "https://x.test/404", Robots: "noindex"},
			`"Page Not Found" canonical=https://x.test/404 robots=noindex`,
		},
		{Page{Canonical: "https://x.test/", Language: "en"}, "untitled page canonical=https://x.test/ lang=en"},
	}
	for _, tt := range tests {
		if got := tt.page.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
