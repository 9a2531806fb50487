package listctl

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Controller wraps a record snapshot with a memoized Visible computation.
// Visible is a pure function of (records, query), so caching is safe:
// replacing the snapshot invalidates the cache, and results are keyed on a
// canonical rendering of the query.
type Controller[T any] struct {
	schema Schema[T]

	mu       sync.Mutex
	records  []T
	cacheKey string
	cached   []T
}

// NewController builds a controller for one entity schema.
func NewController[T any](schema Schema[T]) *Controller[T] {
	return &Controller[T]{schema: schema}
}

// Replace swaps in a new record snapshot, invalidating the cache.
func (c *Controller[T]) Replace(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.cacheKey = ""
	c.cached = nil
}

// Visible computes (or returns the cached) visible subset for the query.
func (c *Controller[T]) Visible(q Query) []T {
	key := queryKey(q)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cacheKey == key && c.cached != nil {
		return c.cached
	}
	result := Visible(c.schema, c.records, q)
	c.cacheKey = key
	c.cached = result
	return result
}

// queryKey renders the query into a canonical string. Every component is
// quoted so criterion names and values may contain any byte without two
// distinct queries colliding on the same key.
func queryKey(q Query) string {
	var b strings.Builder
	b.WriteString(strconv.Quote(strings.ToLower(strings.TrimSpace(q.Text))))
	names := make([]string, 0, len(q.Criteria))
	for name, accepted := range q.Criteria {
		if len(accepted) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		accepted := append([]string(nil), q.Criteria[name]...)
		sort.Strings(accepted)
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(name))
		b.WriteByte('=')
		for i, v := range accepted {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(v))
		}
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Quote(q.SortKey))
	if q.Desc {
		b.WriteString(" desc")
	}
	return b.String()
}
