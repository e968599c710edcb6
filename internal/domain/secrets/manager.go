package secrets

import (
	"crypto/rand"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/chacha20poly1305"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
)

// ShareThreshold is pooly's fixed k (and n) for the Shamir scheme — see
// DESIGN.md Open Question 1.
const ShareThreshold = 8

type keyWithAad struct {
	aead cipherAEAD
	aad  ZeroizingBytes
}

// cipherAEAD narrows the standard cipher.AEAD interface to what Manager
// needs, keeping the chacha20poly1305 dependency contained to one
// constructor call.
type cipherAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// Manager is the sealed/unsealed secrets lifecycle described in spec §4.2:
// envelope-encrypted DEK on disk, master key reconstructed from operator
// shares, AEAD encrypt/decrypt gated on the unsealed state.
type Manager struct {
	files  FilesService
	shares *PendingSharesRegistry

	sealed atomic.Bool

	keyMu     sync.RWMutex
	keyWithAad keyWithAad
}

// NewManager builds a sealed Manager persisting artifacts via files and
// reading pending shares from shares.
func NewManager(files FilesService, shares *PendingSharesRegistry) *Manager {
	m := &Manager{files: files, shares: shares}
	m.sealed.Store(true)

	return m
}

// IsSealed reports whether the manager currently holds no DEK in memory.
func (m *Manager) IsSealed() bool {
	return m.sealed.Load()
}

// Initialize generates a new DEK, master key, and AAD, persists the
// envelope-encrypted DEK and AAD, and returns exactly ShareThreshold shares
// of the master key. Preconditions: sealed, and neither artifact exists yet.
func (m *Manager) Initialize() ([]MasterKeyShare, error) {
	if !m.IsSealed() {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsAlreadyInitialized, nil)
	}

	keyExists, err := m.files.ExistsKey()
	if err != nil {
		return nil, err
	}

	aadExists, err := m.files.ExistsAad()
	if err != nil {
		return nil, err
	}

	if keyExists || aadExists {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsAlreadyInitialized, nil)
	}

	dek := make([]byte, KeyLength)
	if _, err := rand.Read(dek); err != nil {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsUnspecified, err)
	}

	masterKey := make([]byte, KeyLength)
	if _, err := rand.Read(masterKey); err != nil {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsUnspecified, err)
	}

	aad := make([]byte, KeyLength)
	if _, err := rand.Read(aad); err != nil {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsUnspecified, err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsUnspecified, err)
	}

	aead, err := chacha20poly1305.NewX(masterKey)
	if err != nil {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsAeadError, err)
	}

	ciphertext := aead.Seal(nil, nonce, dek, aad)

	if err := m.files.StoreKey(NewEncryptedPayload(nonce, ciphertext)); err != nil {
		return nil, err
	}

	if err := m.files.StoreAad(aad); err != nil {
		return nil, err
	}

	rawShares, err := ShamirSplit(masterKey, ShareThreshold, ShareThreshold)

	for i := range masterKey {
		masterKey[i] = 0
	}

	if err != nil {
		return nil, poolyerrors.NewSecretsErr(poolyerrors.SecretsMasterKeyShare, err)
	}

	shares := make([]MasterKeyShare, len(rawShares))
	for i, raw := range rawShares {
		shares[i] = NewMasterKeyShare(raw)
	}

	return shares, nil
}

// Unseal reconstructs the master key from at least ShareThreshold pending
// shares, decrypts the stored DEK, and installs it for Encrypt/Decrypt.
func (m *Manager) Unseal() error {
	if !m.IsSealed() {
		return poolyerrors.NewSecretsErr(poolyerrors.SecretsAlreadyUnsealed, nil)
	}

	pending := m.shares.Snapshot()
	if len(pending) < ShareThreshold {
		return poolyerrors.NewSecretsErr(poolyerrors.SecretsMasterKeyShare, nil)
	}

	rawShares := make([][]byte, 0, len(pending))
	for _, share := range pending {
		rawShares = append(rawShares, share.Value())
	}

	masterKeyBytes, err := ShamirCombine(rawShares)
	if err != nil {
		return poolyerrors.NewSecretsErr(poolyerrors.SecretsMasterKeyShare, err)
	}

	masterAead, err := chacha20poly1305.NewX(masterKeyBytes)

	for i := range masterKeyBytes {
		masterKeyBytes[i] = 0
	}

	if err != nil {
		return poolyerrors.NewSecretsErr(poolyerrors.SecretsAeadError, err)
	}

	encryptedDek, err := m.files.ReadKey()
	if err != nil {
		return err
	}

	aad, err := m.files.ReadAad()
	if err != nil {
		return err
	}

	dek, err := masterAead.Open(nil, encryptedDek.Nonce, encryptedDek.Ciphertext, aad)
	if err != nil {
		return poolyerrors.NewSecretsErr(poolyerrors.SecretsAeadError, err)
	}

	dekAead, err := chacha20poly1305.NewX(dek)

	for i := range dek {
		dek[i] = 0
	}

	if err != nil {
		return poolyerrors.NewSecretsErr(poolyerrors.SecretsAeadError, err)
	}

	m.keyMu.Lock()
	m.keyWithAad = keyWithAad{aead: dekAead, aad: NewZeroizingBytes(aad)}
	m.keyMu.Unlock()

	m.sealed.Store(false)

	return nil
}

// Encrypt seals plaintext with the installed DEK and AAD under a freshly
// generated nonce.
func (m *Manager) Encrypt(plaintext []byte) (EncryptedPayload, error) {
	if m.IsSealed() {
		return EncryptedPayload{}, poolyerrors.NewSecretsErr(poolyerrors.SecretsSealed, nil)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return EncryptedPayload{}, poolyerrors.NewSecretsErr(poolyerrors.SecretsUnspecified, err)
	}

	m.keyMu.RLock()
	defer m.keyMu.RUnlock()

	ciphertext := m.keyWithAad.aead.Seal(nil, nonce, plaintext, m.keyWithAad.aad.Value())

	return NewEncryptedPayload(nonce, ciphertext), nil
}

// Decrypt opens payload with the installed DEK and AAD, returning the
// plaintext wrapped in a ZeroizingBytes.
func (m *Manager) Decrypt(payload EncryptedPayload) (ZeroizingBytes, error) {
	if m.IsSealed() {
		return ZeroizingBytes{}, poolyerrors.NewSecretsErr(poolyerrors.SecretsSealed, nil)
	}

	m.keyMu.RLock()
	defer m.keyMu.RUnlock()

	plaintext, err := m.keyWithAad.aead.Open(nil, payload.Nonce, payload.Ciphertext, m.keyWithAad.aad.Value())
	if err != nil {
		return ZeroizingBytes{}, poolyerrors.NewSecretsErr(poolyerrors.SecretsAeadError, err)
	}

	return NewZeroizingBytes(plaintext), nil
}

// Clear removes the persisted artifacts and returns to the uninitialized
// state. The pending-shares registry is cleared separately by the caller.
func (m *Manager) Clear() error {
	if err := m.files.Clear(); err != nil {
		return err
	}

	m.keyMu.Lock()
	m.keyWithAad = keyWithAad{}
	m.keyMu.Unlock()

	m.sealed.Store(true)

	return nil
}
