package headers

import (
	"testing"
)

func TestParse(t *testing.T) {
	out, err := Parse([]string{"accept-language: en-IN,en;q=0.9", "Cookie:  i18n-prefs=INR ", "Accept-Language: hi-IN"})
	if err != nil {
		t.Fatal(err)
	}
	got := out.Values("Accept-Language")
	if len(got) != 2 || got[0] != "en-IN,en;q=0.9" || got[1] != "hi-IN" {
		t.Errorf("repeated key should keep every value, got %q", got)
	}
	if got := out.Get("Cookie"); got != "i18n-prefs=INR" {
		t.Errorf("Cookie = %q", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"BadHeader", ": empty key", "Bad Key: v"} {
		if _, err := Parse([]string{in}); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestMap(t *testing.T) {
	h, _ := Parse([]string{"X-A: 1", "X-A: 2", "Cookie: a=1", "Cookie: b=2"})
	m := Map(h)
	if len(m) != 2 {
		t.Fatalf("unexpected map %v", m)
	}
	if m["X-A"] != "1, 2" {
		t.Errorf("X-A = %v", m["X-A"])
	}
	if m["Cookie"] != "a=1; b=2" {
		t.Errorf("Cookie = %v", m["Cookie"])
	}
}
