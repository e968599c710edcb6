package storage

import (
	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// UpdatableDao wraps TypedDao, turning a versioned command into a new value
// by delegating to T's own Accept method and resubmitting it as the next
// version. The early header comparison here is an input-validation check,
// not the race-safety guarantee: that guarantee comes from SimpleDao.Update's
// atomic next-version check on the actual write.
type UpdatableDao[T versioning.Acceptor[T, U], U versioning.UpdateCommand] struct {
	inner *TypedDao[T]
}

// NewUpdatableDao builds an UpdatableDao[T, U] over inner.
func NewUpdatableDao[T versioning.Acceptor[T, U], U versioning.UpdateCommand](inner *TypedDao[T]) *UpdatableDao[T, U] {
	return &UpdatableDao[T, U]{inner: inner}
}

func (d *UpdatableDao[T, U]) Get(id string) (versioning.Versioned[T], bool, error) {
	return d.inner.Get(id)
}

func (d *UpdatableDao[T, U]) GetAllKeys() ([]string, error) {
	return d.inner.GetAllKeys()
}

func (d *UpdatableDao[T, U]) Create(id string, value T) (versioning.Versioned[T], error) {
	return d.inner.Create(id, value)
}

func (d *UpdatableDao[T, U]) Delete(id string) (*versioning.Versioned[T], error) {
	return d.inner.Delete(id)
}

func (d *UpdatableDao[T, U]) Clear() error {
	return d.inner.Clear()
}

// Accept reads the current value for id, applies cmd to it, and writes the
// result back as the next version.
func (d *UpdatableDao[T, U]) Accept(id string, cmd U) (versioning.Versioned[T], error) {
	current, found, err := d.inner.Get(id)
	if err != nil {
		return versioning.Versioned[T]{}, err
	}

	if !found {
		return versioning.Versioned[T]{}, poolyerrors.NewCouldNotFindValueToUpdate()
	}

	if !current.Header.IsCurrent(cmd.Header()) {
		header := current.Header

		return versioning.Versioned[T]{}, poolyerrors.NewOptimisticLocking(header, cmd.Header())
	}

	newValue, err := current.Value.Accept(cmd)
	if err != nil {
		return versioning.Versioned[T]{}, err
	}

	candidate := current.NextVersion(newValue)

	return d.inner.Update(id, candidate)
}
