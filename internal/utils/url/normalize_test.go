package urlutil

import (
	"net/url"
	"testing"
)

func TestNormalizeProductURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tracking params dropped",
			in:   "https://www.amazon.in/sspa/click?ie=UTF8&asin=B0ABC123&qid=1&sr=8-1",
			want: "https://www.amazon.in/sspa/click?asin=B0ABC123",
		},
		{
			name: "first asin wins",
			in:   "https://www.amazon.in/p?asin=FIRST&asin=SECOND",
			want: "https://www.amazon.in/p?asin=FIRST",
		},
		{
			name: "blank asin skipped",
			in:   "https://www.amazon.in/p?asin=&asin=REAL",
			want: "https://www.amazon.in/p?asin=REAL",
		},
		{
			name: "fragment dropped",
			in:   "https://www.amazon.in/p?asin=B01#reviews",
			want: "https://www.amazon.in/p?asin=B01",
		},
		{
			name: "port preserved",
			in:   "http://127.0.0.1:8080/p?x=1&asin=B01",
			want: "http://127.0.0.1:8080/p?asin=B01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeProductURL(tt.in); got != tt.want {
				t.Errorf("NormalizeProductURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeProductURL_Identity(t *testing.T) {
	inputs := []string{
		"https://www.amazon.in/Some-Product/dp/B0ABC123/ref=sr_1_1?keywords=soap",
		"https://www.amazon.in/p",
		"https://www.amazon.in/p?ASIN=B01",
		"://not a url",
		"",
	}
	for _, in := range inputs {
		if got := NormalizeProductURL(in); got != in {
			t.Errorf("expected identity for %q, got %q", in, got)
		}
	}
}

func TestNormalizeProductURL_SingleParam(t *testing.T) {
	in := "https://www.amazon.in/a/b/c?z=9&asin=B0XYZ&y=8&asin=B0OTHER"
	out := NormalizeProductURL(in)

	u, err := url.Parse(out)
	if err != nil {
		t.Fatalf("normalized URL does not parse: %v", err)
	}
	q := u.Query()
	if len(q) != 1 || len(q["asin"]) != 1 {
		t.Fatalf("expected exactly one asin param, got %v", q)
	}
	if q.Get("asin") != "B0XYZ" {
		t.Errorf("expected asin B0XYZ, got %s", q.Get("asin"))
	}
	if u.Scheme != "https" || u.Host != "www.amazon.in" || u.Path != "/a/b/c" {
		t.Errorf("scheme/host/path not preserved: %s", out)
	}
}

func TestNormalizeProductURL_Collapses(t *testing.T) {
	a := NormalizeProductURL("https://www.amazon.in/p?asin=B01&ref=listing1")
	b := NormalizeProductURL("https://www.amazon.in/p?qid=77&asin=B01")
	if a != b {
		t.Errorf("expected variants to collapse, got %q and %q", a, b)
	}
}

func TestExtractASIN(t *testing.T) {
	if asin, ok := ExtractASIN("https://x.test/p?asin=B01"); !ok || asin != "B01" {
		t.Errorf("unexpected result %q %v", asin, ok)
	}
	if _, ok := ExtractASIN("https://x.test/p"); ok {
		t.Error("expected no asin")
	}
}
