// Package listctl implements the list controller shared by every entity
// surface: free-text search over designated fields, categorical criteria,
// single-key sorting and derived aggregates. All functions are pure; callers
// may re-invoke them on every request or cache results via Controller.
package listctl

import (
	"sort"
	"strings"
	"time"
)

// FieldFunc extracts a named categorical field from a record. The boolean
// reports whether the field is present on this record.
type FieldFunc[T any] func(T) (string, bool)

// SortKind selects the comparison applied by a sort key.
type SortKind int

const (
	SortString SortKind = iota
	SortNumber
	SortTime
)

// SortField describes one sortable key. Exactly one accessor matching Kind
// must be set.
type SortField[T any] struct {
	Kind   SortKind
	String func(T) string
	Number func(T) float64
	Time   func(T) time.Time
}

// Schema describes how records of one entity type are searched, filtered
// and sorted.
type Schema[T any] struct {
	Searchable []func(T) string
	Fields     map[string]FieldFunc[T]
	Sorts      map[string]SortField[T]
}

// Criteria maps a field name to its accepted values. An empty accepted set
// is a no-op for that field.
type Criteria map[string][]string

// Query bundles the three list-controller inputs.
type Query struct {
	Text     string
	Criteria Criteria
	SortKey  string
	Desc     bool
}

// Visible returns the subset of records matching the query, preserving the
// original relative order. A record is visible iff the text query matches a
// searchable field case-insensitively (or is empty) and every criterion with
// a non-empty accepted set contains the record's field value. A criterion
// naming a field the schema does not define fails closed: no record matches.
func Visible[T any](s Schema[T], records []T, q Query) []T {
	out := make([]T, 0, len(records))
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	for _, rec := range records {
		if needle != "" && !matchesSearch(s, rec, needle) {
			continue
		}
		if !matchesCriteria(s, rec, q.Criteria) {
			continue
		}
		out = append(out, rec)
	}
	if q.SortKey != "" {
		SortBy(s, out, q.SortKey, q.Desc)
	}
	return out
}

func matchesSearch[T any](s Schema[T], rec T, needle string) bool {
	for _, get := range s.Searchable {
		if strings.Contains(strings.ToLower(get(rec)), needle) {
			return true
		}
	}
	return false
}

func matchesCriteria[T any](s Schema[T], rec T, criteria Criteria) bool {
	for name, accepted := range criteria {
		if len(accepted) == 0 {
			continue
		}
		get, ok := s.Fields[name]
		if !ok {
			return false
		}
		value, present := get(rec)
		if !present {
			return false
		}
		if !containsFold(accepted, value) {
			return false
		}
	}
	return true
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

// SortBy orders records in place by the named sort key. String keys compare
// case-insensitively, numeric and time keys by natural order; ties keep the
// original relative order. An unknown key leaves the slice untouched.
func SortBy[T any](s Schema[T], records []T, key string, desc bool) {
	field, ok := s.Sorts[key]
	if !ok {
		return
	}
	less := lessFunc(field, records)
	if less == nil {
		return
	}
	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(records, less)
}

func lessFunc[T any](field SortField[T], records []T) func(i, j int) bool {
	switch field.Kind {
	case SortString:
		if field.String == nil {
			return nil
		}
		return func(i, j int) bool {
			return strings.ToLower(field.String(records[i])) < strings.ToLower(field.String(records[j]))
		}
	case SortNumber:
		if field.Number == nil {
			return nil
		}
		return func(i, j int) bool {
			return field.Number(records[i]) < field.Number(records[j])
		}
	case SortTime:
		if field.Time == nil {
			return nil
		}
		return func(i, j int) bool {
			return field.Time(records[i]).Before(field.Time(records[j]))
		}
	}
	return nil
}

// CountBy tallies records by the value the accessor yields.
func CountBy[T any](records []T, get func(T) string) map[string]int {
	out := make(map[string]int)
	for _, rec := range records {
		out[get(rec)]++
	}
	return out
}

// SumBy totals a numeric field across records.
func SumBy[T any](records []T, get func(T) float64) float64 {
	var sum float64
	for _, rec := range records {
		sum += get(rec)
	}
	return sum
}
