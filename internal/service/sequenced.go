package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/mutation"
)

// storeCollection adapts repository calls to the mutation.Collection contract
// for the duration of one request. Repository errors are captured on err so
// callers can distinguish a missing record from a failed round trip.
type storeCollection[T any] struct {
	ctx    context.Context
	get    func(context.Context, string) (T, error)
	update func(context.Context, T) error
	remove func(context.Context, string) error
	err    error
}

func (c *storeCollection[T]) Get(id string) (T, bool) {
	record, err := c.get(c.ctx, id)
	if err != nil {
		var zero T
		return zero, false
	}
	return record, true
}

func (c *storeCollection[T]) Apply(id string, patch func(T) T) (T, bool) {
	record, err := c.get(c.ctx, id)
	if err != nil {
		var zero T
		c.err = err
		return zero, false
	}
	updated := patch(record)
	if err := c.update(c.ctx, updated); err != nil {
		var zero T
		c.err = err
		return zero, false
	}
	return updated, true
}

func (c *storeCollection[T]) Remove(id string) bool {
	if err := c.remove(c.ctx, id); err != nil {
		c.err = err
		return false
	}
	return true
}

// sequencedSave runs the select/edit/save flow over a collection and applies
// the patch to the record with the given id.
func sequencedSave[T any](coll *storeCollection[T], logger *zap.Logger, id string, patch func(T) T) (T, error) {
	var zero T
	seq := mutation.NewSequencer[T](coll, logger)
	if err := seq.Select(id); err != nil {
		return zero, err
	}
	if _, ok := seq.SelectedID(); !ok {
		return zero, errNotSelected
	}
	if err := seq.Edit(); err != nil {
		return zero, err
	}
	updated, err := seq.Save(patch)
	if err != nil {
		if coll.err != nil {
			return zero, coll.err
		}
		return zero, err
	}
	return updated, nil
}

// sequencedDelete runs the select/request/confirm flow over a collection and
// removes the record with the given id.
func sequencedDelete[T any](coll *storeCollection[T], logger *zap.Logger, id string) error {
	seq := mutation.NewSequencer[T](coll, logger)
	if err := seq.Select(id); err != nil {
		return err
	}
	if _, ok := seq.SelectedID(); !ok {
		return errNotSelected
	}
	if err := seq.RequestDelete(); err != nil {
		return err
	}
	if err := seq.Confirm(); err != nil {
		if coll.err != nil {
			return coll.err
		}
		return err
	}
	return nil
}
