package cache

import (
	"github.com/mrrabbitte/pooly/internal/domain/storage"
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// updatableDao narrows storage.UpdatableDao[T, U] to what CacheBackedService
// needs, so this package depends on behavior rather than a concrete type.
type updatableDao[T any, U versioning.UpdateCommand] interface {
	Get(id string) (versioning.Versioned[T], bool, error)
	GetAllKeys() ([]string, error)
	Create(id string, value T) (versioning.Versioned[T], error)
	Delete(id string) (*versioning.Versioned[T], error)
	Clear() error
	Accept(id string, cmd U) (versioning.Versioned[T], error)
}

// entity is the constraint satisfied by values a CacheBackedService can
// manage: mutable via U through Accept, and self-identifying for Create.
type entity[T any, U versioning.UpdateCommand] interface {
	versioning.Acceptor[T, U]
	versioning.Identifiable
}

// CacheBackedService is a read-through cache in front of an UpdatableDao: a
// sharded-mutex map from id to the latest observed Versioned[T], kept
// consistent with the DAO via the version-wins replacement rule.
type CacheBackedService[T entity[T, U], U versioning.UpdateCommand] struct {
	cache *shardedMap[versioning.Versioned[T]]
	dao   updatableDao[T, U]
}

// NewCacheBackedService builds a CacheBackedService over dao.
func NewCacheBackedService[T entity[T, U], U versioning.UpdateCommand](
	dao *storage.UpdatableDao[T, U],
) *CacheBackedService[T, U] {
	return &CacheBackedService[T, U]{
		cache: newShardedMap[versioning.Versioned[T]](),
		dao:   dao,
	}
}

func (s *CacheBackedService[T, U]) upsert(id string, value versioning.Versioned[T]) versioning.Versioned[T] {
	return s.cache.Upsert(id, value, func(old, candidate versioning.Versioned[T]) bool {
		return old.ShouldReplace(candidate)
	})
}

// Get returns the current value for id, consulting the cache first and
// falling through to the DAO (populating the cache) on a miss.
func (s *CacheBackedService[T, U]) Get(id string) (versioning.Versioned[T], bool, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached, true, nil
	}

	stored, found, err := s.dao.Get(id)
	if err != nil || !found {
		return versioning.Versioned[T]{}, found, err
	}

	return s.upsert(id, stored), true, nil
}

// GetAllKeys delegates to the DAO, which is authoritative for key listing.
func (s *CacheBackedService[T, U]) GetAllKeys() ([]string, error) {
	return s.dao.GetAllKeys()
}

// Create persists value as a zero-version entry. The cache is left
// unpopulated on success; the next Get will populate it from the DAO.
func (s *CacheBackedService[T, U]) Create(value T) (versioning.Versioned[T], error) {
	return s.dao.Create(value.ID(), value)
}

// Update applies cmd to the value stored under id and upserts the result
// into the cache.
func (s *CacheBackedService[T, U]) Update(id string, cmd U) (versioning.Versioned[T], error) {
	updated, err := s.dao.Accept(id, cmd)
	if err != nil {
		return versioning.Versioned[T]{}, err
	}

	return s.upsert(id, updated), nil
}

// Delete removes id via the DAO, then evicts the cache entry iff its header
// still matches what was removed — a concurrently refreshed newer entry is
// left in place.
func (s *CacheBackedService[T, U]) Delete(id string) error {
	removed, err := s.dao.Delete(id)
	if err != nil {
		return err
	}

	if removed == nil {
		return nil
	}

	s.cache.RemoveIf(id, func(current versioning.Versioned[T]) bool {
		return current.Header.IsCurrent(removed.Header)
	})

	return nil
}

// Clear empties both the DAO's backing store and the in-memory cache.
func (s *CacheBackedService[T, U]) Clear() error {
	if err := s.dao.Clear(); err != nil {
		return err
	}

	s.cache.Clear()

	return nil
}
