package auth

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/mrrabbitte/pooly/internal/domain/auth"
	"github.com/mrrabbitte/pooly/internal/domain/secrets"
	"github.com/mrrabbitte/pooly/internal/domain/storage"
)

// memKeyValueStore is a minimal in-memory KeyValueStore, standing in for
// the bbolt-backed adapter so the DAO pipeline can be exercised without
// disk I/O.
type memKeyValueStore struct {
	values map[string][]byte
}

func newMemKeyValueStore() *memKeyValueStore {
	return &memKeyValueStore{values: make(map[string][]byte)}
}

func (s *memKeyValueStore) Get(key []byte) ([]byte, error) {
	return s.values[string(key)], nil
}

func (s *memKeyValueStore) CompareAndSwap(key, expected, newValue []byte) error {
	current := s.values[string(key)]
	if !bytes.Equal(current, expected) {
		return storage.ErrCompareAndSwapFailed{}
	}

	s.values[string(key)] = newValue

	return nil
}

func (s *memKeyValueStore) Remove(key []byte) ([]byte, error) {
	prior := s.values[string(key)]
	delete(s.values, string(key))

	return prior, nil
}

func (s *memKeyValueStore) Keys() ([][]byte, error) {
	keys := make([][]byte, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, []byte(k))
	}

	return keys, nil
}

func (s *memKeyValueStore) Flush() error { return nil }

func (s *memKeyValueStore) Clear() error {
	s.values = make(map[string][]byte)

	return nil
}

type memTx struct {
	store *memKeyValueStore
}

func (t *memTx) Get(key []byte) ([]byte, error) {
	return t.store.values[string(key)], nil
}

func (t *memTx) Put(key, value []byte) error {
	t.store.values[string(key)] = value

	return nil
}

func (t *memTx) Delete(key []byte) ([]byte, error) {
	prior := t.store.values[string(key)]
	delete(t.store.values, string(key))

	return prior, nil
}

func (s *memKeyValueStore) Transaction(fn func(tx storage.KVTransaction) error) error {
	return fn(&memTx{store: s})
}

func newTestSecretsManager(t *testing.T) *secrets.Manager {
	t.Helper()

	files := secrets.NewDiskFilesService(t.TempDir())
	registry := secrets.NewPendingSharesRegistry()
	mgr := secrets.NewManager(files, registry)

	shares, err := mgr.Initialize()
	require.NoError(t, err)
	require.NoError(t, registry.AddAll(shares))
	require.NoError(t, mgr.Unseal())

	return mgr
}

func newTestKeyService(t *testing.T) *JwtVerificationKeyService {
	t.Helper()

	mgr := newTestSecretsManager(t)

	dao := storage.NewUpdatableDao[domainauth.JwtVerificationKey, domainauth.JwtVerificationKeyUpdateCommand](
		storage.NewTypedDao[domainauth.JwtVerificationKey](
			storage.NewEncryptedDao(storage.NewSimpleDao(newMemKeyValueStore()), mgr)))

	return NewJwtVerificationKeyService(dao)
}
