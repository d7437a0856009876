// Package trace tags each product traversal with a short id so that the log
// lines of one product can be grouped together.
package trace

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const spanKey key = 0

// Span identifies one unit of crawl work.
type Span struct {
	ID    string
	Name  string
	Start time.Time
}

// Elapsed returns the time since the span started
func (s *Span) Elapsed() time.Duration {
	return time.Since(s.Start)
}

// Start returns a child context carrying a new span
func Start(ctx context.Context, name string) (context.Context, *Span) {
	s := &Span{
		ID:    newID(),
		Name:  name,
		Start: time.Now(),
	}
	return context.WithValue(ctx, spanKey, s), s
}

// FromContext returns the span stored in ctx
func FromContext(ctx context.Context) (*Span, bool) {
	s, ok := ctx.Value(spanKey).(*Span)
	return s, ok
}

// Logger returns the global logger tagged with the span of ctx, if any
func Logger(ctx context.Context) zerolog.Logger {
	s, ok := FromContext(ctx)
	if !ok {
		return log.Logger
	}
	return log.With().Str("span", s.ID).Str("step", s.Name).Logger()
}

// newID returns the random leading 12 hex digits of a v4 UUID
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
