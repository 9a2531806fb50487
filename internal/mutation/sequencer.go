// Package mutation serializes the select/edit/delete interaction over a
// record collection into a deterministic state machine. One sequencer is a
// single synchronous actor; there are no timers and no concurrency.
package mutation

import (
	"fmt"

	"go.uber.org/zap"
)

// State enumerates sequencer states.
type State string

const (
	StateIdle             State = "IDLE"
	StateSelected         State = "SELECTED"
	StateEditing          State = "EDITING"
	StateConfirmingDelete State = "CONFIRMING_DELETE"
)

// Collection is the record store a sequencer operates on. Apply must mutate
// only the record with the given id; Remove must remove exactly that record
// and leave all others in their original relative order.
type Collection[T any] interface {
	Get(id string) (T, bool)
	Apply(id string, patch func(T) T) (T, bool)
	Remove(id string) bool
}

// Sequencer drives one select -> edit/delete -> confirm flow.
type Sequencer[T any] struct {
	collection Collection[T]
	logger     *zap.Logger
	state      State
	selected   string
}

// NewSequencer starts a sequencer in Idle over the given collection.
func NewSequencer[T any](collection Collection[T], logger *zap.Logger) *Sequencer[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer[T]{collection: collection, logger: logger, state: StateIdle}
}

// State reports the current state.
func (s *Sequencer[T]) State() State {
	return s.state
}

// SelectedID reports the id of the selected record, if any.
func (s *Sequencer[T]) SelectedID() (string, bool) {
	if s.state == StateIdle {
		return "", false
	}
	return s.selected, true
}

// Select moves Idle -> Selected. Selecting an id not present in the
// collection is a logged no-op.
func (s *Sequencer[T]) Select(id string) error {
	if s.state != StateIdle {
		return s.invalid("select")
	}
	if _, ok := s.collection.Get(id); !ok {
		s.logger.Info("select ignored, record not found", zap.String("id", id))
		return nil
	}
	s.state = StateSelected
	s.selected = id
	return nil
}

// Edit moves Selected -> Editing.
func (s *Sequencer[T]) Edit() error {
	if s.state != StateSelected {
		return s.invalid("edit")
	}
	s.state = StateEditing
	return nil
}

// Save applies the patch to the selected record and returns to Idle. Only
// fields the patch touches change.
func (s *Sequencer[T]) Save(patch func(T) T) (T, error) {
	var zero T
	if s.state != StateEditing {
		return zero, s.invalid("save")
	}
	id := s.selected
	updated, ok := s.collection.Apply(id, patch)
	s.reset()
	if !ok {
		return zero, fmt.Errorf("record %q vanished during edit", id)
	}
	return updated, nil
}

// RequestDelete moves Selected -> ConfirmingDelete.
func (s *Sequencer[T]) RequestDelete() error {
	if s.state != StateSelected {
		return s.invalid("requestDelete")
	}
	s.state = StateConfirmingDelete
	return nil
}

// Confirm removes the selected record and returns to Idle.
func (s *Sequencer[T]) Confirm() error {
	if s.state != StateConfirmingDelete {
		return s.invalid("confirm")
	}
	id := s.selected
	s.reset()
	if !s.collection.Remove(id) {
		return fmt.Errorf("record %q vanished during delete", id)
	}
	return nil
}

// Cancel returns Editing or ConfirmingDelete to Selected, discarding any
// pending patch or delete request.
func (s *Sequencer[T]) Cancel() error {
	if s.state != StateEditing && s.state != StateConfirmingDelete {
		return s.invalid("cancel")
	}
	s.state = StateSelected
	return nil
}

// Close unconditionally returns to Idle from any state.
func (s *Sequencer[T]) Close() {
	s.reset()
}

func (s *Sequencer[T]) reset() {
	s.state = StateIdle
	s.selected = ""
}

func (s *Sequencer[T]) invalid(op string) error {
	return fmt.Errorf("%s not allowed in state %s", op, s.state)
}
