// Package auth verifies bearer tokens against JwtVerificationKey material
// managed through the cache-backed DAO stack.
package auth

import (
	"github.com/mrrabbitte/pooly/internal/domain/auth"
	"github.com/mrrabbitte/pooly/internal/domain/storage"
	"github.com/mrrabbitte/pooly/internal/services/cache"
)

// JwtVerificationKeyService manages JwtVerificationKey entries, one per
// (kid, alg) pair, through the cache-backed DAO stack.
type JwtVerificationKeyService struct {
	*cache.CacheBackedService[auth.JwtVerificationKey, auth.JwtVerificationKeyUpdateCommand]
}

// NewJwtVerificationKeyService builds the service over dao.
func NewJwtVerificationKeyService(
	dao *storage.UpdatableDao[auth.JwtVerificationKey, auth.JwtVerificationKeyUpdateCommand],
) *JwtVerificationKeyService {
	return &JwtVerificationKeyService{cache.NewCacheBackedService(dao)}
}
