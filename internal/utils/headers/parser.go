package headers

import (
	"fmt"
	"net/http"
	"strings"
)

// Parse converts "Key: Value" strings into request headers.
// Repeating a key adds another value, as curl does with -H.
func Parse(h []string) (http.Header, error) {
	out := make(http.Header, len(h))
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("invalid header %q (want \"Key: Value\")", hdr)
		}
		out.Add(key, strings.TrimSpace(value))
	}
	return out, nil
}

// Map flattens h to one value per key, as browsers take extra headers.
// Repeated values are joined the way they would be folded on the wire.
func Map(h http.Header) map[string]interface{} {
	m := make(map[string]interface{}, len(h))
	for k, v := range h {
		sep := ", "
		if k == "Cookie" {
			sep = "; "
		}
		m[k] = strings.Join(v, sep)
	}
	return m
}
