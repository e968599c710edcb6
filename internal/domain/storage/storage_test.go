package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/secrets"
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// memKeyValueStore is a minimal in-memory KeyValueStore, standing in for
// the bbolt-backed adapter so the DAO pipeline can be tested without disk
// I/O.
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
		return ErrCompareAndSwapFailed{}
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

func (s *memKeyValueStore) Transaction(fn func(tx KVTransaction) error) error {
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

func TestSimpleDao_CreateGetUpdateDelete(t *testing.T) {
	dao := NewSimpleDao(newMemKeyValueStore())

	created, err := dao.Create("a", []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), created.Header.Version)

	fetched, found, err := dao.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v1"), fetched.Value)

	next := fetched.NextVersion([]byte("v2"))
	updated, err := dao.Update("a", next)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), updated.Value)

	removed, err := dao.Delete("a")
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, []byte("v2"), removed.Value)

	_, found, err = dao.Get("a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSimpleDao_Create_RejectsDuplicate(t *testing.T) {
	dao := NewSimpleDao(newMemKeyValueStore())

	_, err := dao.Create("a", []byte("v1"))
	require.NoError(t, err)

	_, err = dao.Create("a", []byte("v2"))
	require.Error(t, err)

	storageErr, ok := err.(*poolyerrors.StorageError)
	require.True(t, ok)
	assert.Equal(t, poolyerrors.StorageAlreadyExists, storageErr.Kind)
}

func TestSimpleDao_Update_RejectsStaleVersion(t *testing.T) {
	dao := NewSimpleDao(newMemKeyValueStore())

	created, err := dao.Create("a", []byte("v1"))
	require.NoError(t, err)

	_, err = dao.Update("a", created.NextVersion([]byte("v2")))
	require.NoError(t, err)

	_, err = dao.Update("a", created.NextVersion([]byte("v3")))
	require.Error(t, err)

	storageErr, ok := err.(*poolyerrors.StorageError)
	require.True(t, ok)
	assert.Equal(t, poolyerrors.StorageOptimisticLocking, storageErr.Kind)
}

func TestEncryptedDao_RoundTripsPlaintextThroughCiphertext(t *testing.T) {
	mgr := newTestSecretsManager(t)
	kv := newMemKeyValueStore()
	dao := NewEncryptedDao(NewSimpleDao(kv), mgr)

	created, err := dao.Create("a", []byte("secret-value"))
	require.NoError(t, err)
	assert.Equal(t, []byte("secret-value"), created.Value)

	rawKeys, err := kv.Keys()
	require.NoError(t, err)
	require.Len(t, rawKeys, 1)

	rawStored, err := kv.Get(rawKeys[0])
	require.NoError(t, err)
	assert.NotContains(t, string(rawStored), "secret-value")

	fetched, found, err := dao.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("secret-value"), fetched.Value)
}

type typedThing struct {
	ID_  string `msgpack:"id"`
	Name string `msgpack:"name"`
}

func (t typedThing) ID() string { return t.ID_ }

type typedThingUpdate struct {
	HeaderV versioning.VersionHeader
	Name    string
}

func (u typedThingUpdate) Header() versioning.VersionHeader { return u.HeaderV }

func (t typedThing) Accept(u typedThingUpdate) (typedThing, error) {
	return typedThing{ID_: t.ID_, Name: u.Name}, nil
}

func TestTypedDao_EncodesAndDecodesStruct(t *testing.T) {
	mgr := newTestSecretsManager(t)
	dao := NewTypedDao[typedThing](NewEncryptedDao(NewSimpleDao(newMemKeyValueStore()), mgr))

	created, err := dao.Create("a", typedThing{ID_: "a", Name: "first"})
	require.NoError(t, err)

	fetched, found, err := dao.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "first", fetched.Value.Name)

	updated, err := dao.Update("a", created.NextVersion(typedThing{ID_: "a", Name: "second"}))
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Value.Name)
}

func TestUpdatableDao_Accept_AppliesCommandAndAdvancesVersion(t *testing.T) {
	mgr := newTestSecretsManager(t)
	dao := NewUpdatableDao[typedThing, typedThingUpdate](
		NewTypedDao[typedThing](NewEncryptedDao(NewSimpleDao(newMemKeyValueStore()), mgr)))

	created, err := dao.Create("a", typedThing{ID_: "a", Name: "first"})
	require.NoError(t, err)

	updated, err := dao.Accept("a", typedThingUpdate{HeaderV: created.Header, Name: "second"})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), updated.Header.Version)
	assert.Equal(t, "second", updated.Value.Name)
}

func TestUpdatableDao_Accept_StaleHeaderFailsWithOptimisticLocking(t *testing.T) {
	mgr := newTestSecretsManager(t)
	dao := NewUpdatableDao[typedThing, typedThingUpdate](
		NewTypedDao[typedThing](NewEncryptedDao(NewSimpleDao(newMemKeyValueStore()), mgr)))

	created, err := dao.Create("a", typedThing{ID_: "a", Name: "first"})
	require.NoError(t, err)

	_, err = dao.Accept("a", typedThingUpdate{HeaderV: created.Header, Name: "second"})
	require.NoError(t, err)

	_, err = dao.Accept("a", typedThingUpdate{HeaderV: created.Header, Name: "conflicting"})
	require.Error(t, err)

	storageErr, ok := err.(*poolyerrors.StorageError)
	require.True(t, ok)
	assert.Equal(t, poolyerrors.StorageOptimisticLocking, storageErr.Kind)
}

func TestUpdatableDao_Accept_MissingIdFails(t *testing.T) {
	mgr := newTestSecretsManager(t)
	dao := NewUpdatableDao[typedThing, typedThingUpdate](
		NewTypedDao[typedThing](NewEncryptedDao(NewSimpleDao(newMemKeyValueStore()), mgr)))

	_, err := dao.Accept("missing", typedThingUpdate{Name: "whatever"})
	require.Error(t, err)

	storageErr, ok := err.(*poolyerrors.StorageError)
	require.True(t, ok)
	assert.Equal(t, poolyerrors.StorageCouldNotFindValueToUpdate, storageErr.Kind)
}
