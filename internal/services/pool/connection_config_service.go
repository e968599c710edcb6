package pool

import (
	domainpool "github.com/mrrabbitte/pooly/internal/domain/pool"
	"github.com/mrrabbitte/pooly/internal/domain/storage"
	"github.com/mrrabbitte/pooly/internal/services/cache"
)

// ConnectionConfigService manages ConnectionConfig entries through the
// cache-backed DAO stack: one entry per connection_id.
type ConnectionConfigService struct {
	*cache.CacheBackedService[domainpool.ConnectionConfig, domainpool.ConnectionConfigUpdateCommand]
}

// NewConnectionConfigService builds the service over dao.
func NewConnectionConfigService(
	dao *storage.UpdatableDao[domainpool.ConnectionConfig, domainpool.ConnectionConfigUpdateCommand],
) *ConnectionConfigService {
	return &ConnectionConfigService{cache.NewCacheBackedService(dao)}
}
