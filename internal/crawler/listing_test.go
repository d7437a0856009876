package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/law-makers/reviewcrawl/internal/engine"
)

func collectLinks(t *testing.T, w *ListingWalker, start string) ([]ListingLink, error) {
	t.Helper()
	var links []ListingLink
	for link, err := range w.Walk(context.Background(), start) {
		if err != nil {
			return links, err
		}
		links = append(links, link)
	}
	return links, nil
}

func TestListingWalker_FollowsPagination(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?k=shoes":        listingPage("/s?k=shoes&page=2", "/p/a?asin=A", "/p/b?asin=B"),
		base + "/s?k=shoes&page=2": listingPage("", "/p/c?asin=C"),
	})
	links, err := collectLinks(t, NewListingWalker(r, testOptions()), base+"/s?k=shoes")
	if err != nil {
		t.Fatal(err)
	}

	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if links[0].Page != 1 || links[1].Page != 1 || links[2].Page != 2 {
		t.Errorf("unexpected pages: %+v", links)
	}
	if links[2].PageURL != base+"/s?k=shoes&page=2" {
		t.Errorf("unexpected page url %q", links[2].PageURL)
	}
}

func TestListingWalker_EmptyFirstPage(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?k=none": "<html><body><p>No results</p></body></html>",
	})
	_, err := collectLinks(t, NewListingWalker(r, testOptions()), base+"/s?k=none")
	if !errors.Is(err, ErrEmptyListing) {
		t.Fatalf("expected ErrEmptyListing, got %v", err)
	}
}

func TestListingWalker_EmptyLaterPageStops(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?k=shoes":        listingPage("/s?k=shoes&page=2", "/p/a?asin=A"),
		base + "/s?k=shoes&page=2": "<html><body>captcha</body></html>",
	})
	links, err := collectLinks(t, NewListingWalker(r, testOptions()), base+"/s?k=shoes")
	if err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if len(links) != 1 {
		t.Errorf("expected first page links kept, got %d", len(links))
	}
}

func TestListingWalker_StopsOnCycle(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?k=loop": listingPage("/s?k=loop", "/p/a?asin=A"),
	})
	links, err := collectLinks(t, NewListingWalker(r, testOptions()), base+"/s?k=loop")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Errorf("expected one page of links, got %d", len(links))
	}
}

func TestListingWalker_PageCap(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?page=1": listingPage("/s?page=2", "/p/a?asin=A"),
		base + "/s?page=2": listingPage("/s?page=3", "/p/b?asin=B"),
		base + "/s?page=3": listingPage("", "/p/c?asin=C"),
	})
	opts := testOptions()
	opts.MaxListingPages = 2

	links, err := collectLinks(t, NewListingWalker(r, opts), base+"/s?page=1")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 links under the cap, got %d", len(links))
	}
}

func TestListingWalker_EarlyBreak(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?k=shoes":        listingPage("/s?k=shoes&page=2", "/p/a?asin=A", "/p/b?asin=B"),
		base + "/s?k=shoes&page=2": listingPage("", "/p/c?asin=C"),
	})
	for range NewListingWalker(r, testOptions()).Walk(context.Background(), base+"/s?k=shoes") {
		break
	}
	if r.visitCount(base+"/s?k=shoes&page=2") != 0 {
		t.Error("walker should not load further pages after the consumer stops")
	}
}

func TestListingWalker_WalkFrom(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?page=3": listingPage("/s?page=4", "/p/a?asin=A"),
		base + "/s?page=4": "<html><body></body></html>",
	})
	var pages []int
	for link, err := range NewListingWalker(r, testOptions()).WalkFrom(context.Background(), base+"/s?page=3", 3) {
		if err != nil {
			t.Fatal(err)
		}
		pages = append(pages, link.Page)
	}
	if len(pages) != 1 || pages[0] != 3 {
		t.Errorf("expected numbering to continue from page 3, got %v", pages)
	}
}

func TestListingWalker_LaterPageLoadFailureStops(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?k=shoes": listingPage("/s?k=shoes&page=2", "/p/a?asin=A"),
	})
	r.failNav[base+"/s?k=shoes&page=2"] = engine.NewEngineError(engine.ErrCodeNetworkError, "navigate", engine.ErrNetworkError)

	links, err := collectLinks(t, NewListingWalker(r, testOptions()), base+"/s?k=shoes")
	if err != nil {
		t.Fatalf("expected the walk to end cleanly, got %v", err)
	}
	if len(links) != 1 {
		t.Errorf("expected first page links kept, got %d", len(links))
	}
}

func TestListingWalker_FirstPageLoadFailureIsError(t *testing.T) {
	r := newFakeRenderer(nil)
	r.failNav[base+"/s?k=shoes"] = engine.NewEngineError(engine.ErrCodeNetworkError, "navigate", engine.ErrNetworkError)

	_, err := collectLinks(t, NewListingWalker(r, testOptions()), base+"/s?k=shoes")
	if !errors.Is(err, engine.ErrNetworkError) {
		t.Fatalf("expected the network error, got %v", err)
	}
}

func TestListingWalker_LaterPageBrowserCrashIsError(t *testing.T) {
	r := newFakeRenderer(map[string]string{
		base + "/s?k=shoes": listingPage("/s?k=shoes&page=2", "/p/a?asin=A"),
	})
	r.failNav[base+"/s?k=shoes&page=2"] = engine.NewEngineError(engine.ErrCodeBrowserCrash, "browser session ended", nil)

	_, err := collectLinks(t, NewListingWalker(r, testOptions()), base+"/s?k=shoes")
	if !errors.Is(err, engine.ErrBrowserCrash) {
		t.Fatalf("expected a browser crash error, got %v", err)
	}
}
