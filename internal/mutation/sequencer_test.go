package mutation

import (
	"reflect"
	"testing"
)

type record struct {
	ID   string
	Name string
	Qty  int
}

func newCollection() *SliceCollection[record] {
	return NewSliceCollection([]record{
		{ID: "a", Name: "alpha", Qty: 1},
		{ID: "b", Name: "beta", Qty: 2},
		{ID: "c", Name: "gamma", Qty: 3},
	}, func(r record) string { return r.ID })
}

func recordIDs(records []record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestSequencerTransitions(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *Sequencer[record])
		op        func(s *Sequencer[record]) error
		wantErr   bool
		wantState State
	}{
		{
			"select from idle",
			func(s *Sequencer[record]) {},
			func(s *Sequencer[record]) error { return s.Select("a") },
			false, StateSelected,
		},
		{
			"select while selected is invalid",
			func(s *Sequencer[record]) { _ = s.Select("a") },
			func(s *Sequencer[record]) error { return s.Select("b") },
			true, StateSelected,
		},
		{
			"edit from selected",
			func(s *Sequencer[record]) { _ = s.Select("a") },
			func(s *Sequencer[record]) error { return s.Edit() },
			false, StateEditing,
		},
		{
			"edit from idle is invalid",
			func(s *Sequencer[record]) {},
			func(s *Sequencer[record]) error { return s.Edit() },
			true, StateIdle,
		},
		{
			"request delete from selected",
			func(s *Sequencer[record]) { _ = s.Select("a") },
			func(s *Sequencer[record]) error { return s.RequestDelete() },
			false, StateConfirmingDelete,
		},
		{
			"request delete while editing is invalid",
			func(s *Sequencer[record]) { _ = s.Select("a"); _ = s.Edit() },
			func(s *Sequencer[record]) error { return s.RequestDelete() },
			true, StateEditing,
		},
		{
			"cancel editing returns to selected",
			func(s *Sequencer[record]) { _ = s.Select("a"); _ = s.Edit() },
			func(s *Sequencer[record]) error { return s.Cancel() },
			false, StateSelected,
		},
		{
			"cancel delete confirmation returns to selected",
			func(s *Sequencer[record]) { _ = s.Select("a"); _ = s.RequestDelete() },
			func(s *Sequencer[record]) error { return s.Cancel() },
			false, StateSelected,
		},
		{
			"cancel from idle is invalid",
			func(s *Sequencer[record]) {},
			func(s *Sequencer[record]) error { return s.Cancel() },
			true, StateIdle,
		},
		{
			"confirm without request is invalid",
			func(s *Sequencer[record]) { _ = s.Select("a") },
			func(s *Sequencer[record]) error { return s.Confirm() },
			true, StateSelected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := NewSequencer[record](newCollection(), nil)
			tt.setup(seq)
			err := tt.op(seq)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if seq.State() != tt.wantState {
				t.Fatalf("state = %s, want %s", seq.State(), tt.wantState)
			}
		})
	}
}

func TestSelectUnknownIDIsNoOp(t *testing.T) {
	seq := NewSequencer[record](newCollection(), nil)
	if err := seq.Select("missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.State() != StateIdle {
		t.Fatalf("state = %s, want %s", seq.State(), StateIdle)
	}
	if _, ok := seq.SelectedID(); ok {
		t.Fatal("no record should be selected")
	}
}

func TestSaveAppliesPatchToOnlySelectedRecord(t *testing.T) {
	coll := newCollection()
	seq := NewSequencer[record](coll, nil)
	if err := seq.Select("b"); err != nil {
		t.Fatal(err)
	}
	if err := seq.Edit(); err != nil {
		t.Fatal(err)
	}

	updated, err := seq.Save(func(r record) record {
		r.Qty = 20
		return r
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if updated.Qty != 20 || updated.Name != "beta" {
		t.Fatalf("patched record = %+v", updated)
	}
	if seq.State() != StateIdle {
		t.Fatalf("state after save = %s", seq.State())
	}

	records := coll.Records()
	if !reflect.DeepEqual(recordIDs(records), []string{"a", "b", "c"}) {
		t.Fatalf("order changed: %v", recordIDs(records))
	}
	if records[0].Qty != 1 || records[2].Qty != 3 {
		t.Fatalf("untouched records changed: %+v", records)
	}
}

func TestConfirmRemovesExactlyOne(t *testing.T) {
	coll := newCollection()
	seq := NewSequencer[record](coll, nil)
	if err := seq.Select("b"); err != nil {
		t.Fatal(err)
	}
	if err := seq.RequestDelete(); err != nil {
		t.Fatal(err)
	}
	if err := seq.Confirm(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if seq.State() != StateIdle {
		t.Fatalf("state after confirm = %s", seq.State())
	}
	if got := recordIDs(coll.Records()); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("records after delete = %v", got)
	}
}

func TestCloseFromAnyState(t *testing.T) {
	for _, setup := range []func(s *Sequencer[record]){
		func(s *Sequencer[record]) {},
		func(s *Sequencer[record]) { _ = s.Select("a") },
		func(s *Sequencer[record]) { _ = s.Select("a"); _ = s.Edit() },
		func(s *Sequencer[record]) { _ = s.Select("a"); _ = s.RequestDelete() },
	} {
		seq := NewSequencer[record](newCollection(), nil)
		setup(seq)
		seq.Close()
		if seq.State() != StateIdle {
			t.Fatalf("state after close = %s", seq.State())
		}
	}
}

func TestCancelDiscardsPendingDelete(t *testing.T) {
	coll := newCollection()
	seq := NewSequencer[record](coll, nil)
	_ = seq.Select("c")
	_ = seq.RequestDelete()
	if err := seq.Cancel(); err != nil {
		t.Fatal(err)
	}
	if got := recordIDs(coll.Records()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("cancel removed a record: %v", got)
	}
	if id, ok := seq.SelectedID(); !ok || id != "c" {
		t.Fatalf("selection lost after cancel: %q %v", id, ok)
	}
}
