package mutation

// SliceCollection adapts an ordered record slice to the Collection
// interface. Mutations replace the backing slice wholesale, preserving the
// relative order of untouched records.
type SliceCollection[T any] struct {
	records []T
	idOf    func(T) string
}

// NewSliceCollection wraps records with an id extractor.
func NewSliceCollection[T any](records []T, idOf func(T) string) *SliceCollection[T] {
	return &SliceCollection[T]{records: records, idOf: idOf}
}

// Records returns the current backing slice.
func (c *SliceCollection[T]) Records() []T {
	return c.records
}

// Get looks up a record by id.
func (c *SliceCollection[T]) Get(id string) (T, bool) {
	for _, rec := range c.records {
		if c.idOf(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Apply replaces the matching record with patch(record).
func (c *SliceCollection[T]) Apply(id string, patch func(T) T) (T, bool) {
	next := make([]T, len(c.records))
	var updated T
	found := false
	for i, rec := range c.records {
		if c.idOf(rec) == id {
			updated = patch(rec)
			next[i] = updated
			found = true
			continue
		}
		next[i] = rec
	}
	if !found {
		var zero T
		return zero, false
	}
	c.records = next
	return updated, true
}

// Remove filters out the matching record.
func (c *SliceCollection[T]) Remove(id string) bool {
	next := make([]T, 0, len(c.records))
	found := false
	for _, rec := range c.records {
		if !found && c.idOf(rec) == id {
			found = true
			continue
		}
		next = append(next, rec)
	}
	if !found {
		return false
	}
	c.records = next
	return true
}
