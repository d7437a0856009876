// Package proxy rotates page fetches across a list of HTTP/SOCKS5 proxies.
package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool hands out proxies round-robin, skipping ones that failed recently
type Pool struct {
	proxies  []*url.URL
	index    int
	cooldown time.Duration
	mu       sync.Mutex
	failed   map[string]time.Time
}

// Parse splits a comma-separated proxy list. Entries must be absolute URLs.
func Parse(list string) ([]*url.URL, error) {
	var out []*url.URL
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", raw)
		}
		out = append(out, u)
	}
	return out, nil
}

// NewPool creates a Pool
func NewPool(proxies []*url.URL) *Pool {
	return &Pool{
		proxies:  proxies,
		cooldown: DefaultCooldown,
		failed:   make(map[string]time.Time),
	}
}

// Len returns the number of proxies in the pool
func (p *Pool) Len() int {
	return len(p.proxies)
}

// First returns the first proxy, or nil for an empty pool
func (p *Pool) First() *url.URL {
	if len(p.proxies) == 0 {
		return nil
	}
	return p.proxies[0]
}

// Next returns the next healthy proxy from the pool. When every proxy is
// cooling down the next one in order is returned anyway.
func (p *Pool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil
	}

	start := p.index
	for {
		u := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		if failTime, ok := p.failed[u.String()]; ok {
			if time.Since(failTime) < p.cooldown {
				if p.index == start {
					return u
				}
				continue
			}
			delete(p.failed, u.String())
		}
		return u
	}
}

// MarkFailed marks a proxy as failed so it will be skipped for a while
func (p *Pool) MarkFailed(u *url.URL) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[u.String()] = time.Now()
}

// MarkHealthy clears the failure status of a proxy
func (p *Pool) MarkHealthy(u *url.URL) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, u.String())
}
