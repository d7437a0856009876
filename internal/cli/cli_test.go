package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/reviewcrawl/internal/state"
	"github.com/law-makers/reviewcrawl/pkg/models"
)

func TestPrintNormalized(t *testing.T) {
	var buf bytes.Buffer
	err := printNormalized(&buf, []string{
		"https://www.amazon.in/Some-Cream/dp/B0ABC12345?asin=B0ABC12345&ref=sr_1_1&th=1",
		"https://www.amazon.in/gp/help",
	})
	if err != nil {
		t.Fatalf("printNormalized: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[0], "\tB0ABC12345") {
		t.Errorf("expected ASIN column, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "\t-") {
		t.Errorf("expected placeholder for URL without ASIN, got %q", lines[1])
	}
}

func TestPrintNormalized_InvalidURL(t *testing.T) {
	var buf bytes.Buffer
	if err := printNormalized(&buf, []string{"not a url"}); err == nil {
		t.Error("expected validation error")
	}
}

func TestWrapText(t *testing.T) {
	in := "one two three four five six\n\n- keep this item intact even if long"
	got := wrapText(in, 10)

	paras := strings.Split(got, "\n\n")
	if len(paras) != 2 {
		t.Fatalf("expected paragraphs to be kept, got %q", got)
	}
	for _, line := range strings.Split(paras[0], "\n") {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if paras[1] != "- keep this item intact even if long" {
		t.Errorf("list item was wrapped: %q", paras[1])
	}
}

func TestPrintSummaries(t *testing.T) {
	var buf bytes.Buffer
	printSummaries(&buf, "state.db", nil)
	if !strings.Contains(buf.String(), "state.db") {
		t.Errorf("expected empty-state message, got %q", buf.String())
	}

	buf.Reset()
	printSummaries(&buf, "state.db", []state.Summary{{
		StartURL: "https://www.amazon.in/s?k=a",
		Visited:  12,
		Cursor:   state.Cursor{PageURL: "https://www.amazon.in/s?k=a&page=3", Page: 3, UpdatedAt: time.Now()},
	}})
	out := buf.String()
	for _, want := range []string{"LISTING", "https://www.amazon.in/s?k=a", "12", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, "out.csv", models.RunStats{ListingPages: 2, Processed: 5, RowsWritten: 17})
	out := buf.String()
	for _, want := range []string{"Crawl summary", "17", "out.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "normalize", "state"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	if f := runCmd.Flags().Lookup("resume"); f == nil {
		t.Error("run is missing --resume")
	}
}
