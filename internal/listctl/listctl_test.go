package listctl

import (
	"reflect"
	"testing"
	"time"
)

type item struct {
	id       string
	name     string
	status   string
	priority float64
	created  time.Time
}

func itemSchema() Schema[item] {
	return Schema[item]{
		Searchable: []func(item) string{
			func(i item) string { return i.name },
		},
		Fields: map[string]FieldFunc[item]{
			"status": func(i item) (string, bool) { return i.status, i.status != "" },
		},
		Sorts: map[string]SortField[item]{
			"name":     {Kind: SortString, String: func(i item) string { return i.name }},
			"priority": {Kind: SortNumber, Number: func(i item) float64 { return i.priority }},
			"created":  {Kind: SortTime, Time: func(i item) time.Time { return i.created }},
		},
	}
}

func sampleItems() []item {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []item{
		{id: "1", name: "Acme router outage", status: "open", priority: 3, created: base},
		{id: "2", name: "Printer jam", status: "closed", priority: 1, created: base.Add(time.Hour)},
		{id: "3", name: "ACME billing question", status: "open", priority: 2, created: base.Add(2 * time.Hour)},
	}
}

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.id)
	}
	return out
}

func TestVisible(t *testing.T) {
	schema := itemSchema()
	records := sampleItems()

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query returns all in order", Query{}, []string{"1", "2", "3"}},
		{"search is case insensitive", Query{Text: "acme"}, []string{"1", "3"}},
		{"search upper needle", Query{Text: "ACME"}, []string{"1", "3"}},
		{"search no match", Query{Text: "zebra"}, []string{}},
		{"criterion filters by value", Query{Criteria: Criteria{"status": {"open"}}}, []string{"1", "3"}},
		{"criterion value folds case", Query{Criteria: Criteria{"status": {"OPEN"}}}, []string{"1", "3"}},
		{"empty criterion is a no-op", Query{Criteria: Criteria{"status": {}}}, []string{"1", "2", "3"}},
		{"unknown field fails closed", Query{Criteria: Criteria{"flavor": {"sweet"}}}, []string{}},
		{"search and criteria combine", Query{Text: "acme", Criteria: Criteria{"status": {"closed"}}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Visible(schema, records, tt.q))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleDoesNotMutateInput(t *testing.T) {
	schema := itemSchema()
	records := sampleItems()
	before := ids(records)

	Visible(schema, records, Query{SortKey: "priority", Desc: true})

	if got := ids(records); !reflect.DeepEqual(got, before) {
		t.Fatalf("input order changed: %v, want %v", got, before)
	}
}

func TestVisibleIdempotent(t *testing.T) {
	schema := itemSchema()
	records := sampleItems()
	q := Query{Text: "acme", Criteria: Criteria{"status": {"open"}}, SortKey: "name"}

	first := Visible(schema, records, q)
	second := Visible(schema, first, q)
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("second application changed result: %v vs %v", ids(first), ids(second))
	}
}

func TestSortBy(t *testing.T) {
	schema := itemSchema()

	t.Run("string sort is case insensitive", func(t *testing.T) {
		records := sampleItems()
		SortBy(schema, records, "name", false)
		if got := ids(records); !reflect.DeepEqual(got, []string{"3", "1", "2"}) {
			t.Fatalf("sort by name = %v", got)
		}
	})

	t.Run("numeric descending", func(t *testing.T) {
		records := sampleItems()
		SortBy(schema, records, "priority", true)
		if got := ids(records); !reflect.DeepEqual(got, []string{"1", "3", "2"}) {
			t.Fatalf("sort by priority desc = %v", got)
		}
	})

	t.Run("time ascending", func(t *testing.T) {
		records := sampleItems()
		SortBy(schema, records, "created", false)
		if got := ids(records); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
			t.Fatalf("sort by created = %v", got)
		}
	})

	t.Run("unknown key leaves order untouched", func(t *testing.T) {
		records := sampleItems()
		SortBy(schema, records, "nope", false)
		if got := ids(records); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
			t.Fatalf("unknown sort changed order: %v", got)
		}
	})

	t.Run("ties keep original order", func(t *testing.T) {
		records := []item{
			{id: "a", priority: 1},
			{id: "b", priority: 1},
			{id: "c", priority: 1},
		}
		SortBy(schema, records, "priority", false)
		if got := ids(records); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Fatalf("stable sort broke ties: %v", got)
		}
	})
}

func TestAggregates(t *testing.T) {
	records := sampleItems()

	counts := CountBy(records, func(i item) string { return i.status })
	if want := map[string]int{"open": 2, "closed": 1}; !reflect.DeepEqual(counts, want) {
		t.Fatalf("CountBy = %v, want %v", counts, want)
	}

	sum := SumBy(records, func(i item) float64 { return i.priority })
	if sum != 6 {
		t.Fatalf("SumBy = %v, want 6", sum)
	}
}

func TestControllerKeyDistinguishesCriterionShapes(t *testing.T) {
	ctl := NewController(itemSchema())
	ctl.Replace(sampleItems())

	// one value containing a comma is not the same query as two values
	joined := ctl.Visible(Query{Criteria: Criteria{"status": {"open,closed"}}})
	if len(joined) != 0 {
		t.Fatalf("no record has the literal value, got %v", ids(joined))
	}
	split := ctl.Visible(Query{Criteria: Criteria{"status": {"open", "closed"}}})
	if got := ids(split); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("split values = %v, want all records", got)
	}
}

func TestControllerCaching(t *testing.T) {
	schema := itemSchema()
	ctl := NewController(schema)
	ctl.Replace(sampleItems())

	q := Query{Criteria: Criteria{"status": {"open"}}}
	first := ctl.Visible(q)
	second := ctl.Visible(Query{Criteria: Criteria{"status": {"open"}}})
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("cached result differs: %v vs %v", ids(first), ids(second))
	}

	ctl.Replace(sampleItems()[:1])
	after := ctl.Visible(q)
	if got := ids(after); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("Replace did not invalidate cache: %v", got)
	}
}
