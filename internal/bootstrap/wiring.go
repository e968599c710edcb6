package bootstrap

import (
	"path/filepath"

	"github.com/mrrabbitte/pooly/common/mlog"
	"github.com/mrrabbitte/pooly/internal/adapters/kv"
	domainaccess "github.com/mrrabbitte/pooly/internal/domain/access"
	domainauth "github.com/mrrabbitte/pooly/internal/domain/auth"
	"github.com/mrrabbitte/pooly/internal/domain/clock"
	domainpool "github.com/mrrabbitte/pooly/internal/domain/pool"
	"github.com/mrrabbitte/pooly/internal/domain/secrets"
	"github.com/mrrabbitte/pooly/internal/domain/storage"
	"github.com/mrrabbitte/pooly/internal/config"
	serviceaccess "github.com/mrrabbitte/pooly/internal/services/access"
	serviceauth "github.com/mrrabbitte/pooly/internal/services/auth"
	servicepool "github.com/mrrabbitte/pooly/internal/services/pool"
	servicequery "github.com/mrrabbitte/pooly/internal/services/query"
)

const (
	connectionConfigsBucket = "connection_configs_v1"
	literalAccessBucket     = "literal_connection_id_aces_v1"
	patternAccessBucket     = "pattern_connection_id_aces_v1"
	jwtKeysBucket           = "jwt_keys_v1"
)

// Graph is pooly's fully constructed dependency graph: one instance is
// built once at boot and shared by both HTTP scopes.
type Graph struct {
	Config *config.PoolyConfig
	Logger mlog.Logger

	db *kv.Database

	Secrets       *secrets.Manager
	PendingShares *secrets.PendingSharesRegistry

	ConnectionConfigs *servicepool.ConnectionConfigService
	LiteralAccess     *serviceaccess.LiteralConnectionIdAccessEntryService
	PatternAccess     *serviceaccess.WildcardPatternConnectionIdAccessEntryService
	AccessControl     *serviceaccess.AccessControlService
	JwtKeys           *serviceauth.JwtVerificationKeyService

	TokenVerifier *serviceauth.TokenVerifier
	Pools         *servicepool.ConnectionPoolRegistry
	Query         *servicequery.QueryService
	Initializer   *Initializer
}

// Build constructs pooly's entire dependency graph from cfg: the bbolt KV
// store, the secrets manager, the four storage pipelines (one per
// keyspace), their cache-backed services, the connection pool registry,
// the query service, and the token verifier.
func Build(cfg *config.PoolyConfig, logger mlog.Logger) (*Graph, error) {
	db, err := kv.Open(cfg.KVPath)
	if err != nil {
		return nil, err
	}

	pendingShares := secrets.NewPendingSharesRegistry()
	files := secrets.NewDiskFilesService(filepath.Dir(cfg.KVPath))
	mgr := secrets.NewManager(files, pendingShares)

	connectionConfigs, err := buildConnectionConfigService(db, mgr)
	if err != nil {
		return nil, err
	}

	literalAccess, err := buildLiteralAccessService(db, mgr)
	if err != nil {
		return nil, err
	}

	patternAccess, err := buildPatternAccessService(db, mgr)
	if err != nil {
		return nil, err
	}

	jwtKeys, err := buildJwtKeysService(db, mgr)
	if err != nil {
		return nil, err
	}

	accessControl := serviceaccess.NewAccessControlService(literalAccess, patternAccess)
	tokenVerifier := serviceauth.NewTokenVerifier(jwtKeys)
	pools := servicepool.NewConnectionPoolRegistry(connectionConfigs, clock.System{})
	queryService := servicequery.NewQueryService(accessControl, pools)
	initializer := NewInitializer(mgr, pendingShares, jwtKeys)

	return &Graph{
		Config:            cfg,
		Logger:            logger,
		db:                db,
		Secrets:           mgr,
		PendingShares:     pendingShares,
		ConnectionConfigs: connectionConfigs,
		LiteralAccess:     literalAccess,
		PatternAccess:     patternAccess,
		AccessControl:     accessControl,
		JwtKeys:           jwtKeys,
		TokenVerifier:     tokenVerifier,
		Pools:             pools,
		Query:             queryService,
		Initializer:       initializer,
	}, nil
}

// Close releases the backend connection pools and the bbolt file.
func (g *Graph) Close() error {
	g.Pools.Close()

	return g.db.Close()
}

func buildConnectionConfigService(db *kv.Database, mgr *secrets.Manager) (*servicepool.ConnectionConfigService, error) {
	bucket, err := db.Bucket(connectionConfigsBucket)
	if err != nil {
		return nil, err
	}

	dao := storage.NewUpdatableDao[domainpool.ConnectionConfig, domainpool.ConnectionConfigUpdateCommand](
		storage.NewTypedDao[domainpool.ConnectionConfig](storage.NewEncryptedDao(storage.NewSimpleDao(bucket), mgr)),
	)

	return servicepool.NewConnectionConfigService(dao), nil
}

func buildLiteralAccessService(db *kv.Database, mgr *secrets.Manager) (*serviceaccess.LiteralConnectionIdAccessEntryService, error) {
	bucket, err := db.Bucket(literalAccessBucket)
	if err != nil {
		return nil, err
	}

	dao := storage.NewUpdatableDao[domainaccess.LiteralConnectionIdAccessEntry, domainaccess.SetCommand[string]](
		storage.NewTypedDao[domainaccess.LiteralConnectionIdAccessEntry](storage.NewEncryptedDao(storage.NewSimpleDao(bucket), mgr)),
	)

	return serviceaccess.NewLiteralConnectionIdAccessEntryService(dao), nil
}

func buildPatternAccessService(db *kv.Database, mgr *secrets.Manager) (*serviceaccess.WildcardPatternConnectionIdAccessEntryService, error) {
	bucket, err := db.Bucket(patternAccessBucket)
	if err != nil {
		return nil, err
	}

	dao := storage.NewUpdatableDao[domainaccess.WildcardPatternConnectionIdAccessEntry, domainaccess.SetCommand[domainaccess.WildcardPattern]](
		storage.NewTypedDao[domainaccess.WildcardPatternConnectionIdAccessEntry](storage.NewEncryptedDao(storage.NewSimpleDao(bucket), mgr)),
	)

	return serviceaccess.NewWildcardPatternConnectionIdAccessEntryService(dao), nil
}

func buildJwtKeysService(db *kv.Database, mgr *secrets.Manager) (*serviceauth.JwtVerificationKeyService, error) {
	bucket, err := db.Bucket(jwtKeysBucket)
	if err != nil {
		return nil, err
	}

	dao := storage.NewUpdatableDao[domainauth.JwtVerificationKey, domainauth.JwtVerificationKeyUpdateCommand](
		storage.NewTypedDao[domainauth.JwtVerificationKey](storage.NewEncryptedDao(storage.NewSimpleDao(bucket), mgr)),
	)

	return serviceauth.NewJwtVerificationKeyService(dao), nil
}
