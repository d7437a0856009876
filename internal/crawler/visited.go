package crawler

// VisitedSet holds the normalized URLs of products already processed in a run.
// It only grows. Not safe for concurrent use; the crawl is sequential.
type VisitedSet struct {
	seen map[string]struct{}
}

// NewVisitedSet returns a set seeded with keys, typically reloaded from a
// checkpoint store.
func NewVisitedSet(keys ...string) *VisitedSet {
	v := &VisitedSet{seen: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		v.seen[k] = struct{}{}
	}
	return v
}

// Has reports whether key was already processed
func (v *VisitedSet) Has(key string) bool {
	_, ok := v.seen[key]
	return ok
}

// Add records key as processed and reports whether it was new
func (v *VisitedSet) Add(key string) bool {
	if _, ok := v.seen[key]; ok {
		return false
	}
	v.seen[key] = struct{}{}
	return true
}

// Len returns the number of processed products
func (v *VisitedSet) Len() int {
	return len(v.seen)
}
