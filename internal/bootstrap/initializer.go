// Package bootstrap orchestrates first-boot initialization and wires
// pooly's dependency graph together, matching common/app.go's App/Launcher
// shape for process entry points.
package bootstrap

import (
	domainauth "github.com/mrrabbitte/pooly/internal/domain/auth"
	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/secrets"
	serviceauth "github.com/mrrabbitte/pooly/internal/services/auth"
)

// Initializer orchestrates pooly's first-boot sequence: splitting a fresh
// master key into operator shares, unsealing, and seeding the bootstrap
// admin JwtVerificationKey so the first admin request can authenticate.
type Initializer struct {
	secrets       *secrets.Manager
	pendingShares *secrets.PendingSharesRegistry
	keys          *serviceauth.JwtVerificationKeyService
}

// NewInitializer builds an Initializer over its three collaborators.
func NewInitializer(
	mgr *secrets.Manager,
	pendingShares *secrets.PendingSharesRegistry,
	keys *serviceauth.JwtVerificationKeyService,
) *Initializer {
	return &Initializer{secrets: mgr, pendingShares: pendingShares, keys: keys}
}

// Initialize generates a fresh master key (returning its shares), unseals
// the secrets manager with them, and creates a bootstrap HS256
// JwtVerificationKey carrying seedAdminKey so that a first Admin bearer
// token can be verified and authenticated.
func (i *Initializer) Initialize(seedAdminKey []byte) ([]secrets.MasterKeyShare, error) {
	shares, err := i.secrets.Initialize()
	if err != nil {
		return nil, err
	}

	if err := i.pendingShares.AddAll(shares); err != nil {
		return nil, err
	}

	if err := i.secrets.Unseal(); err != nil {
		return nil, err
	}

	key := domainauth.NewJwtVerificationKey("", domainauth.Hs256, seedAdminKey)

	if _, err := i.keys.Create(key); err != nil {
		return nil, err
	}

	return shares, nil
}

// Clear reverses Initialize: clears the secrets manager's persisted
// artifacts, the JwtVerificationKey store, and any still-pending shares.
func (i *Initializer) Clear() error {
	if err := i.secrets.Clear(); err != nil {
		return err
	}

	if err := i.keys.Clear(); err != nil {
		return poolyerrors.WrapAuthClearError(err)
	}

	i.pendingShares.Clear()

	return nil
}
