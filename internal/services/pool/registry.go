package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrrabbitte/pooly/internal/domain/clock"
	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	domainpool "github.com/mrrabbitte/pooly/internal/domain/pool"
)

// maxConnLifetime bounds how long a pool reuses one backend connection. A
// cached pool keeps the settings it was built with; a later change to its
// ConnectionConfig does not reach it.
const maxConnLifetime = 30 * time.Minute

type pooledConnection struct {
	pool        *pgxpool.Pool
	rateLimiter RateLimiter
}

// ConnectionPoolRegistry lazily builds and caches one pgxpool.Pool plus rate
// limiter per connection_id, probing each newly built pool before caching it.
type ConnectionPoolRegistry struct {
	configs *ConnectionConfigService
	clock   clock.Clock

	mu    sync.RWMutex
	pools map[string]*pooledConnection
}

// NewConnectionPoolRegistry builds a registry resolving configs through
// configService.
func NewConnectionPoolRegistry(configService *ConnectionConfigService, c clock.Clock) *ConnectionPoolRegistry {
	return &ConnectionPoolRegistry{
		configs: configService,
		clock:   c,
		pools:   make(map[string]*pooledConnection),
	}
}

// Get checks out a pooled connection for connectionID, lazily building and
// probing a pool on first use.
func (r *ConnectionPoolRegistry) Get(ctx context.Context, connectionID string) (*pgxpool.Conn, error) {
	r.mu.RLock()
	entry, ok := r.pools[connectionID]
	r.mu.RUnlock()

	if ok {
		if err := entry.rateLimiter.Acquire(); err != nil {
			return nil, err
		}

		conn, err := entry.pool.Acquire(ctx)
		if err != nil {
			return nil, poolyerrors.WrapPoolError(err)
		}

		return conn, nil
	}

	return r.buildAndCache(ctx, connectionID)
}

func (r *ConnectionPoolRegistry) buildAndCache(ctx context.Context, connectionID string) (*pgxpool.Conn, error) {
	versioned, found, err := r.configs.Get(connectionID)
	if err != nil {
		return nil, poolyerrors.WrapStorageError(err)
	}

	if !found {
		return nil, poolyerrors.NewUnknownDatabaseConnection(connectionID)
	}

	config := versioned.Value
	defer config.Zero()

	newPool, err := buildPool(ctx, config)
	if err != nil {
		return nil, poolyerrors.WrapCreatePoolError(err)
	}

	conn, err := newPool.Acquire(ctx)
	if err != nil {
		newPool.Close()

		return nil, poolyerrors.WrapPoolError(err)
	}

	limiter := buildRateLimiter(r.clock, config.RateLimit)

	r.mu.Lock()
	r.pools[connectionID] = &pooledConnection{pool: newPool, rateLimiter: limiter}
	r.mu.Unlock()

	return conn, nil
}

func buildRateLimiter(c clock.Clock, cfg *domainpool.RateLimitConfig) RateLimiter {
	if cfg == nil {
		return NoOpRateLimiter{}
	}

	return NewLeakyBucket(c, cfg.MaxRequestsPerPeriod, cfg.PeriodMillis)
}

func buildPool(ctx context.Context, config domainpool.ConnectionConfig) (*pgxpool.Pool, error) {
	host := "localhost"
	if len(config.Hosts) > 0 {
		host = config.Hosts[0]
	}

	port := uint16(5432)
	if len(config.Ports) > 0 {
		port = config.Ports[0]
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=prefer",
		config.User, config.Password, host, port, config.DbName,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if config.MaxConnections > 0 {
		poolConfig.MaxConns = config.MaxConnections
	}

	poolConfig.MaxConnLifetime = maxConnLifetime

	return pgxpool.NewWithConfig(ctx, poolConfig)
}

// Close closes every pool currently cached in the registry.
func (r *ConnectionPoolRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.pools {
		entry.pool.Close()
	}

	r.pools = make(map[string]*pooledConnection)
}
