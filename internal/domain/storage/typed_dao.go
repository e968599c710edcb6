package storage

import (
	"github.com/vmihailenco/msgpack/v5"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// TypedDao wraps EncryptedDao, applying a msgpack struct serializer between
// T and the zeroizing byte buffer EncryptedDao consumes.
type TypedDao[T any] struct {
	inner *EncryptedDao
}

// NewTypedDao builds a TypedDao[T] over inner.
func NewTypedDao[T any](inner *EncryptedDao) *TypedDao[T] {
	return &TypedDao[T]{inner: inner}
}

func (d *TypedDao[T]) decode(raw []byte) (T, error) {
	var value T
	if err := msgpack.Unmarshal(raw, &value); err != nil {
		var zero T

		return zero, poolyerrors.WrapSerde(err)
	}

	return value, nil
}

func (d *TypedDao[T]) encode(value T) ([]byte, error) {
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return nil, poolyerrors.WrapSerde(err)
	}

	return raw, nil
}

func (d *TypedDao[T]) Get(id string) (versioning.Versioned[T], bool, error) {
	stored, found, err := d.inner.Get(id)
	if err != nil || !found {
		return versioning.Versioned[T]{}, found, err
	}

	value, err := d.decode(stored.Value)
	if err != nil {
		return versioning.Versioned[T]{}, false, err
	}

	return versioning.WithValue(stored, value), true, nil
}

func (d *TypedDao[T]) GetAllKeys() ([]string, error) {
	return d.inner.GetAllKeys()
}

func (d *TypedDao[T]) Create(id string, value T) (versioning.Versioned[T], error) {
	raw, err := d.encode(value)
	if err != nil {
		return versioning.Versioned[T]{}, err
	}

	stored, err := d.inner.Create(id, raw)
	if err != nil {
		return versioning.Versioned[T]{}, err
	}

	return versioning.WithValue(stored, value), nil
}

func (d *TypedDao[T]) Update(id string, candidate versioning.Versioned[T]) (versioning.Versioned[T], error) {
	raw, err := d.encode(candidate.Value)
	if err != nil {
		return versioning.Versioned[T]{}, err
	}

	stored, err := d.inner.Update(id, versioning.WithValue(candidate, raw))
	if err != nil {
		return versioning.Versioned[T]{}, err
	}

	return versioning.WithValue(stored, candidate.Value), nil
}

func (d *TypedDao[T]) Delete(id string) (*versioning.Versioned[T], error) {
	removed, err := d.inner.Delete(id)
	if err != nil || removed == nil {
		return nil, err
	}

	value, err := d.decode(removed.Value)
	if err != nil {
		return nil, err
	}

	decoded := versioning.WithValue(*removed, value)

	return &decoded, nil
}

func (d *TypedDao[T]) Clear() error {
	return d.inner.Clear()
}
