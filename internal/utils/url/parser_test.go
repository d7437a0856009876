package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.amazon.in/s?i=beauty",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://www.amazon.in/s?k=x", "/dp/B01?ref=a", "https://www.amazon.in/dp/B01?ref=a"},
		{"https://www.amazon.in/s?k=x", "https://other.example/p", "https://other.example/p"},
		{"https://www.amazon.in/product-reviews/B01", "?pageNumber=2", "https://www.amazon.in/product-reviews/B01?pageNumber=2"},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.href); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestOrigin(t *testing.T) {
	if got := Origin("https://www.amazon.in/s?k=x"); got != "https://www.amazon.in" {
		t.Errorf("unexpected origin %q", got)
	}
	if got := Origin("/relative/path"); got != "" {
		t.Errorf("expected empty origin for relative path, got %q", got)
	}
}
