// Package access wires the literal and wildcard connection-id allowlists
// into the single entry point query authorization consults.
package access

import (
	"github.com/mrrabbitte/pooly/internal/domain/access"
	"github.com/mrrabbitte/pooly/internal/domain/storage"
	"github.com/mrrabbitte/pooly/internal/services/cache"
)

// LiteralConnectionIdAccessEntryService manages the literal connection-id
// allowlist, one entry per client_id, through the cache-backed DAO stack.
type LiteralConnectionIdAccessEntryService struct {
	*cache.CacheBackedService[access.LiteralConnectionIdAccessEntry, access.SetCommand[string]]
}

// NewLiteralConnectionIdAccessEntryService builds the service over dao.
func NewLiteralConnectionIdAccessEntryService(
	dao *storage.UpdatableDao[access.LiteralConnectionIdAccessEntry, access.SetCommand[string]],
) *LiteralConnectionIdAccessEntryService {
	return &LiteralConnectionIdAccessEntryService{cache.NewCacheBackedService(dao)}
}

// WildcardPatternConnectionIdAccessEntryService manages the wildcard-pattern
// connection-id allowlist, one entry per client_id.
type WildcardPatternConnectionIdAccessEntryService struct {
	*cache.CacheBackedService[access.WildcardPatternConnectionIdAccessEntry, access.SetCommand[access.WildcardPattern]]
}

// NewWildcardPatternConnectionIdAccessEntryService builds the service over dao.
func NewWildcardPatternConnectionIdAccessEntryService(
	dao *storage.UpdatableDao[access.WildcardPatternConnectionIdAccessEntry, access.SetCommand[access.WildcardPattern]],
) *WildcardPatternConnectionIdAccessEntryService {
	return &WildcardPatternConnectionIdAccessEntryService{cache.NewCacheBackedService(dao)}
}

// AccessControlService answers whether client_id may reach connection_id,
// by consulting both allowlists. Absent entries never grant access; either
// entry present and matching is sufficient.
type AccessControlService struct {
	literalIDs *LiteralConnectionIdAccessEntryService
	patterns   *WildcardPatternConnectionIdAccessEntryService
}

// NewAccessControlService builds an AccessControlService over the two entry
// services.
func NewAccessControlService(
	literalIDs *LiteralConnectionIdAccessEntryService,
	patterns *WildcardPatternConnectionIdAccessEntryService,
) *AccessControlService {
	return &AccessControlService{literalIDs: literalIDs, patterns: patterns}
}

// IsAllowed reports whether client_id may reach connection_id.
func (s *AccessControlService) IsAllowed(clientID, connectionID string) (bool, error) {
	literal, literalFound, err := s.literalIDs.Get(clientID)
	if err != nil {
		return false, err
	}

	if literalFound && literal.Value.Contains(connectionID) {
		return true, nil
	}

	pattern, patternFound, err := s.patterns.Get(clientID)
	if err != nil {
		return false, err
	}

	if patternFound && pattern.Value.MatchesAny(connectionID) {
		return true, nil
	}

	return false, nil
}
