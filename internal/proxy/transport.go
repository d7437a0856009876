package proxy

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"
)

// Transport is an http.RoundTripper that sends each request through the
// next proxy of a Pool and benches proxies whose requests fail.
type Transport struct {
	pool *Pool
	base *http.Transport

	mu         sync.Mutex
	transports map[string]*http.Transport
}

// NewTransport wraps base, which is cloned once per proxy
func NewTransport(pool *Pool, base *http.Transport) *Transport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport)
	}
	return &Transport{
		pool:       pool,
		base:       base,
		transports: make(map[string]*http.Transport),
	}
}

func (t *Transport) transportFor(u *url.URL) *http.Transport {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := u.String()
	if tr, ok := t.transports[key]; ok {
		return tr
	}
	tr := t.base.Clone()
	tr.Proxy = http.ProxyURL(u)
	t.transports[key] = tr
	return tr
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	u := t.pool.Next()
	if u == nil {
		return t.base.RoundTrip(req)
	}

	resp, err := t.transportFor(u).RoundTrip(req)
	if err != nil {
		if req.Context().Err() == nil {
			log.Warn().Str("proxy", u.Redacted()).Err(err).Msg("Proxy request failed")
			t.pool.MarkFailed(u)
		}
		return nil, err
	}
	return resp, nil
}

// CloseIdleConnections closes idle connections of every proxy transport
func (t *Transport) CloseIdleConnections() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tr := range t.transports {
		tr.CloseIdleConnections()
	}
	t.base.CloseIdleConnections()
}
