package access

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrrabbitte/pooly/internal/domain/access"
	"github.com/mrrabbitte/pooly/internal/domain/secrets"
	"github.com/mrrabbitte/pooly/internal/domain/storage"
)

// memKeyValueStore is a minimal in-memory storage.KeyValueStore, standing in
// for the bbolt-backed adapter so the DAO pipeline can be exercised without
// disk I/O.
type memKeyValueStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemKeyValueStore() *memKeyValueStore {
	return &memKeyValueStore{values: make(map[string][]byte)}
}

func (s *memKeyValueStore) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.values[string(key)], nil
}

func (s *memKeyValueStore) CompareAndSwap(key, expected, newValue []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.values[string(key)]
	if !bytes.Equal(current, expected) {
		return storage.ErrCompareAndSwapFailed{}
	}

	s.values[string(key)] = newValue

	return nil
}

func (s *memKeyValueStore) Remove(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.values[string(key)]
	delete(s.values, string(key))

	return prior, nil
}

func (s *memKeyValueStore) Keys() ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([][]byte, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, []byte(k))
	}

	return keys, nil
}

func (s *memKeyValueStore) Flush() error {
	return nil
}

func (s *memKeyValueStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string][]byte)

	return nil
}

// memTx is the KVTransaction view over memKeyValueStore, holding the lock
// for the duration of the closure to match bbolt's single-writer semantics.
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
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(&memTx{store: s})
}

// newTestSecretsManager builds an Initialize'd and Unseal'd Manager rooted
// at a temp directory, so EncryptedDao has a real AEAD to exercise.
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

// newTestAccessServices builds real Literal/WildcardPattern access entry
// services over the in-memory KV store and a freshly unsealed secrets
// manager, so AccessControlService can be exercised end to end without the
// bbolt adapter.
func newTestAccessServices(t *testing.T) (*LiteralConnectionIdAccessEntryService, *WildcardPatternConnectionIdAccessEntryService) {
	t.Helper()

	mgr := newTestSecretsManager(t)

	literalDao := storage.NewUpdatableDao[access.LiteralConnectionIdAccessEntry, access.SetCommand[string]](
		storage.NewTypedDao[access.LiteralConnectionIdAccessEntry](
			storage.NewEncryptedDao(storage.NewSimpleDao(newMemKeyValueStore()), mgr)))

	patternDao := storage.NewUpdatableDao[access.WildcardPatternConnectionIdAccessEntry, access.SetCommand[access.WildcardPattern]](
		storage.NewTypedDao[access.WildcardPatternConnectionIdAccessEntry](
			storage.NewEncryptedDao(storage.NewSimpleDao(newMemKeyValueStore()), mgr)))

	return NewLiteralConnectionIdAccessEntryService(literalDao),
		NewWildcardPatternConnectionIdAccessEntryService(patternDao)
}
