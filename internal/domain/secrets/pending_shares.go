package secrets

import (
	"sync"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
)

// MaxPendingShares is the hard cap on the number of pending shares accepted
// at once; pooly always splits into exactly this many shares.
const MaxPendingShares = 8

// PendingSharesRegistry is an in-memory, concurrency-safe set of
// MasterKeyShare values submitted by operators before an Unseal call.
// Grounded on original_source's MasterKeySharesService (a DashSet wrapper) —
// realized here as a single mutex-guarded map, since the set is bounded to
// 8 entries and never contended enough to need sharding.
type PendingSharesRegistry struct {
	mu     sync.Mutex
	shares map[string]MasterKeyShare
}

// NewPendingSharesRegistry builds an empty registry.
func NewPendingSharesRegistry() *PendingSharesRegistry {
	return &PendingSharesRegistry{shares: make(map[string]MasterKeyShare)}
}

// Add inserts a single share, rejecting it once the registry already holds
// MaxPendingShares distinct entries.
func (r *PendingSharesRegistry) Add(share MasterKeyShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := share.Key()
	if _, exists := r.shares[key]; exists {
		return nil
	}

	if len(r.shares) >= MaxPendingShares {
		return &poolyerrors.InitializationError{Kind: poolyerrors.InitTooManyShares}
	}

	r.shares[key] = share

	return nil
}

// AddAll inserts every share in shares, stopping at the first one that
// would overflow the registry.
func (r *PendingSharesRegistry) AddAll(shares []MasterKeyShare) error {
	for _, share := range shares {
		if err := r.Add(share); err != nil {
			return err
		}
	}

	return nil
}

// Remove deletes a share from the registry, if present.
func (r *PendingSharesRegistry) Remove(share MasterKeyShare) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.shares, share.Key())
}

// Snapshot returns a copy of every share currently pending.
func (r *PendingSharesRegistry) Snapshot() []MasterKeyShare {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]MasterKeyShare, 0, len(r.shares))
	for _, share := range r.shares {
		out = append(out, share)
	}

	return out
}

// Clear removes every pending share.
func (r *PendingSharesRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shares = make(map[string]MasterKeyShare)
}

// Len reports how many shares are currently pending.
func (r *PendingSharesRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.shares)
}
