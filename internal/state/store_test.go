package state

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "crawl.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRun_VisitedRoundTrip(t *testing.T) {
	ctx := context.Background()
	run := openTestStore(t).Run("https://x.test/s?k=shoes")

	for _, u := range []string{"https://x.test/p?asin=A", "https://x.test/p?asin=B", "https://x.test/p?asin=A"} {
		if err := run.MarkVisited(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	got, err := run.Visited(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 unique products, got %v", got)
	}
}

func TestRun_CursorUpsert(t *testing.T) {
	ctx := context.Background()
	run := openTestStore(t).Run("https://x.test/s?k=shoes")

	if _, ok, err := run.Cursor(ctx); err != nil || ok {
		t.Fatalf("expected no cursor yet, got ok=%v err=%v", ok, err)
	}

	_ = run.SaveCursor(ctx, "https://x.test/s?k=shoes", 1)
	_ = run.SaveCursor(ctx, "https://x.test/s?k=shoes&page=2", 2)

	c, ok, err := run.Cursor(ctx)
	if err != nil || !ok {
		t.Fatalf("Cursor: ok=%v err=%v", ok, err)
	}
	if c.Page != 2 || c.PageURL != "https://x.test/s?k=shoes&page=2" {
		t.Errorf("unexpected cursor %+v", c)
	}
}

func TestRun_IsolatedAndReset(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	shoes := s.Run("https://x.test/s?k=shoes")
	boots := s.Run("https://x.test/s?k=boots")

	_ = shoes.MarkVisited(ctx, "https://x.test/p?asin=A")
	_ = shoes.SaveCursor(ctx, "https://x.test/s?k=shoes", 1)
	_ = boots.MarkVisited(ctx, "https://x.test/p?asin=Z")

	sums, err := s.Summaries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 crawls, got %+v", sums)
	}

	if err := shoes.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if v, _ := shoes.Visited(ctx); len(v) != 0 {
		t.Errorf("reset should clear visited, got %v", v)
	}
	if _, ok, _ := shoes.Cursor(ctx); ok {
		t.Error("reset should clear the cursor")
	}
	if v, _ := boots.Visited(ctx); len(v) != 1 {
		t.Errorf("other crawls must be untouched, got %v", v)
	}
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crawl.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Run("https://x.test/s").MarkVisited(ctx, "https://x.test/p?asin=A")
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	v, err := s.Run("https://x.test/s").Visited(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 1 {
		t.Errorf("expected progress to survive reopening, got %v", v)
	}
}
