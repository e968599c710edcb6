package storage

import (
	"github.com/vmihailenco/msgpack/v5"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// SimpleDao binds a KeyValueStore to one keyspace, serializing
// Versioned[[]byte] with msgpack and enforcing CAS-based insert and
// next-version-checked update.
type SimpleDao struct {
	kv KeyValueStore
}

// NewSimpleDao builds a SimpleDao over kv.
func NewSimpleDao(kv KeyValueStore) *SimpleDao {
	return &SimpleDao{kv: kv}
}

func encodeVersioned(v versioning.Versioned[[]byte]) ([]byte, error) {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return nil, poolyerrors.WrapSerde(err)
	}

	return raw, nil
}

func decodeVersioned(raw []byte) (versioning.Versioned[[]byte], error) {
	var v versioning.Versioned[[]byte]
	if err := msgpack.Unmarshal(raw, &v); err != nil {
		return versioning.Versioned[[]byte]{}, poolyerrors.WrapSerde(err)
	}

	return v, nil
}

// Get returns the stored value for id, if present.
func (d *SimpleDao) Get(id string) (versioning.Versioned[[]byte], bool, error) {
	raw, err := d.kv.Get([]byte(id))
	if err != nil {
		return versioning.Versioned[[]byte]{}, false, poolyerrors.WrapRetrieval(err)
	}

	if raw == nil {
		return versioning.Versioned[[]byte]{}, false, nil
	}

	v, err := decodeVersioned(raw)

	return v, err == nil, err
}

// GetAllKeys returns every id present in this keyspace.
func (d *SimpleDao) GetAllKeys() ([]string, error) {
	keys, err := d.kv.Keys()
	if err != nil {
		return nil, poolyerrors.WrapRetrieval(err)
	}

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}

	return out, nil
}

// Create inserts value under id as a zero-version entry, failing with
// AlreadyExists if id is already present.
func (d *SimpleDao) Create(id string, value []byte) (versioning.Versioned[[]byte], error) {
	v := versioning.NewVersioned(value)

	raw, err := encodeVersioned(v)
	if err != nil {
		return versioning.Versioned[[]byte]{}, err
	}

	if err := d.kv.CompareAndSwap([]byte(id), nil, raw); err != nil {
		if _, ok := err.(ErrCompareAndSwapFailed); ok {
			return versioning.Versioned[[]byte]{}, poolyerrors.NewAlreadyExists()
		}

		return versioning.Versioned[[]byte]{}, poolyerrors.WrapRetrieval(err)
	}

	if err := d.kv.Flush(); err != nil {
		return versioning.Versioned[[]byte]{}, poolyerrors.WrapRetrieval(err)
	}

	return v, nil
}

// Update atomically re-reads the stored header, verifies it is exactly the
// predecessor of newValue.Header (the next-version rule), and writes
// newValue if so. The read-check-write sequence runs inside one KeyValueStore
// transaction, so concurrent Update calls on the same id serialize correctly.
func (d *SimpleDao) Update(id string, newValue versioning.Versioned[[]byte]) (versioning.Versioned[[]byte], error) {
	key := []byte(id)

	var result versioning.Versioned[[]byte]

	err := d.kv.Transaction(func(tx KVTransaction) error {
		raw, err := tx.Get(key)
		if err != nil {
			return poolyerrors.WrapRetrieval(err)
		}

		if raw == nil {
			return poolyerrors.NewCouldNotFindValueToUpdate()
		}

		current, err := decodeVersioned(raw)
		if err != nil {
			return err
		}

		if !current.Header.IsNextVersion(newValue.Header) {
			return poolyerrors.NewOptimisticLocking(current.Header, newValue.Header)
		}

		encoded, err := encodeVersioned(newValue)
		if err != nil {
			return err
		}

		if err := tx.Put(key, encoded); err != nil {
			return poolyerrors.WrapRetrieval(err)
		}

		result = newValue

		return nil
	})

	return result, err
}

// Delete removes id, returning the removed value if it was present.
func (d *SimpleDao) Delete(id string) (*versioning.Versioned[[]byte], error) {
	raw, err := d.kv.Remove([]byte(id))
	if err != nil {
		return nil, poolyerrors.WrapRetrieval(err)
	}

	if raw == nil {
		return nil, nil
	}

	v, err := decodeVersioned(raw)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// Clear removes every entry in this keyspace.
func (d *SimpleDao) Clear() error {
	if err := d.kv.Clear(); err != nil {
		return poolyerrors.WrapRetrieval(err)
	}

	return nil
}
