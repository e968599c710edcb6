// Package kv adapts go.etcd.io/bbolt to the storage.KeyValueStore contract,
// pulled into the stack from cuemby-warren (the only example repo with an
// embedded ordered KV engine in its dependency tree).
package kv

import (
	"bytes"

	"go.etcd.io/bbolt"

	"github.com/mrrabbitte/pooly/internal/domain/storage"
)

// Database wraps a single bbolt file shared by every bucket.
type Database struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the bbolt database file at path.
func Open(path string) (*Database, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// Close closes the underlying bbolt file.
func (d *Database) Close() error {
	return d.db.Close()
}

// Bucket returns a storage.KeyValueStore bound to the named bucket, creating
// it if it doesn't already exist.
func (d *Database) Bucket(name string) (storage.KeyValueStore, error) {
	bucketName := []byte(name)

	if err := d.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)

		return err
	}); err != nil {
		return nil, err
	}

	return &boltStore{db: d.db, bucket: bucketName}, nil
}

type boltStore struct {
	db     *bbolt.DB
	bucket []byte
}

func (s *boltStore) Get(key []byte) ([]byte, error) {
	var value []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get(key)
		if raw != nil {
			value = append([]byte(nil), raw...)
		}

		return nil
	})

	return value, err
}

func (s *boltStore) CompareAndSwap(key, expected, newValue []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		current := b.Get(key)

		if !bytes.Equal(current, expected) {
			return storage.ErrCompareAndSwapFailed{}
		}

		return b.Put(key, newValue)
	})
}

func (s *boltStore) Remove(key []byte) ([]byte, error) {
	var prior []byte

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)

		if raw := b.Get(key); raw != nil {
			prior = append([]byte(nil), raw...)
		}

		return b.Delete(key)
	})

	return prior, err
}

func (s *boltStore) Keys() ([][]byte, error) {
	var keys [][]byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))

			return nil
		})
	})

	return keys, err
}

func (s *boltStore) Transaction(fn func(tx storage.KVTransaction) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{bucket: tx.Bucket(s.bucket)})
	})
}

// Flush is a no-op: bbolt commits durably and synchronously on every Update
// transaction, so there's nothing left to force.
func (s *boltStore) Flush() error {
	return nil
}

func (s *boltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil {
			return err
		}

		_, err := tx.CreateBucket(s.bucket)

		return err
	})
}

type boltTx struct {
	bucket *bbolt.Bucket
}

func (t *boltTx) Get(key []byte) ([]byte, error) {
	raw := t.bucket.Get(key)
	if raw == nil {
		return nil, nil
	}

	return append([]byte(nil), raw...), nil
}

func (t *boltTx) Put(key, value []byte) error {
	return t.bucket.Put(key, value)
}

func (t *boltTx) Delete(key []byte) ([]byte, error) {
	prior, err := t.Get(key)
	if err != nil {
		return nil, err
	}

	return prior, t.bucket.Delete(key)
}
