package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/reviewcrawl/internal/engine"
	"github.com/law-makers/reviewcrawl/pkg/models"
)

// fakeRenderer serves canned markup by URL. WaitFor fails with an element
// timeout when the selector is absent from the current page.
type fakeRenderer struct {
	pages    map[string]string
	failNav  map[string]error
	current  string
	visits   []string
	scrolled int
	closed   bool
}

func newFakeRenderer(pages map[string]string) *fakeRenderer {
	return &fakeRenderer{pages: pages, failNav: map[string]error{}}
}

func (f *fakeRenderer) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.visits = append(f.visits, url)
	if err, ok := f.failNav[url]; ok {
		return err
	}
	markup, ok := f.pages[url]
	if !ok {
		return engine.NewEngineError(engine.ErrCodeNotFound, "no such page "+url, engine.ErrNotFound)
	}
	f.current = markup
	return nil
}

func (f *fakeRenderer) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	n, err := countMatches(f.current, selector)
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.TimeoutError("fake", selector)
	}
	return nil
}

func (f *fakeRenderer) HTML(ctx context.Context) (string, error) {
	return f.current, ctx.Err()
}

func (f *fakeRenderer) ScrollIntoView(ctx context.Context, selector string) error {
	f.scrolled++
	return nil
}

func (f *fakeRenderer) Name() string { return "FakeRenderer" }

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

func (f *fakeRenderer) visitCount(url string) int {
	n := 0
	for _, v := range f.visits {
		if v == url {
			n++
		}
	}
	return n
}

type memorySink struct {
	rows []models.ReviewRow
	err  error
}

func (m *memorySink) WriteRow(row models.ReviewRow) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, row)
	return nil
}

const base = "https://www.amazon.in"

func testOptions() Options {
	opts := DefaultOptions()
	opts.PollInterval = time.Millisecond
	opts.PollAttempts = 3
	return opts
}

func listingPage(next string, hrefs ...string) string {
	body := ""
	for i, h := range hrefs {
		body += fmt.Sprintf(`<div class="s-result-item"><h2><a class="a-link-normal s-underline-text s-underline-link-text s-link-style a-text-normal" href="%s"><span>Item %d</span></a></h2></div>`, h, i)
	}
	if next != "" {
		body += fmt.Sprintf(`<a class="s-pagination-item s-pagination-next" href="%s">Next</a>`, next)
	}
	return "<html><body>" + body + "</body></html>"
}

type tagLink struct{ label, href string }

func productPage(name string, tags ...tagLink) string {
	body := fmt.Sprintf(`<div id="title_feature_div"><h1><span id="productTitle">  %s  </span></h1></div>`, name)
	body += `<div id="customerReviews"><h2>Customer reviews</h2>`
	if tags != nil {
		body += `<div id="cr-dp-lighthut">`
		for _, t := range tags {
			body += fmt.Sprintf(`<a href="%s"><span class="cr-lighthouse-term"> %s </span></a>`, t.href, t.label)
		}
		body += `</div>`
	}
	body += `</div>`
	return "<html><body>" + body + "</body></html>"
}

func reviewPage(next string, reviews ...string) string {
	body := ""
	for _, r := range reviews {
		body += fmt.Sprintf(`<div data-hook="review"><span data-hook="review-body"><span>%s</span></span></div>`, r)
	}
	body += `<ul class="a-pagination">`
	if next != "" {
		body += fmt.Sprintf(`<li class="a-last"><a href="%s">Next page</a></li>`, next)
	} else {
		body += `<li class="a-disabled a-last">Next page</li>`
	}
	body += `</ul>`
	return "<html><body>" + body + "</body></html>"
}
