package secrets

// KeyLength is the size, in bytes, of every key in the envelope-encryption
// scheme (DEK, master key, AAD).
const KeyLength = 32

// NonceSize is the XChaCha20-Poly1305 nonce length.
const NonceSize = 24

// EncryptionKey is the data-encryption key (DEK) that directly protects
// stored payloads.
type EncryptionKey struct {
	value ZeroizingBytes
}

// NewEncryptionKey wraps value as an EncryptionKey.
func NewEncryptionKey(value []byte) EncryptionKey {
	return EncryptionKey{value: NewZeroizingBytes(value)}
}

// Value returns the raw key bytes.
func (k EncryptionKey) Value() []byte { return k.value.Value() }

// Zero overwrites the key material.
func (k *EncryptionKey) Zero() { k.value.Zero() }

// MasterKey protects the encrypted DEK envelope; it exists only transiently,
// reconstructed from shares at unseal time and zeroed immediately after use.
type MasterKey struct {
	value ZeroizingBytes
}

// NewMasterKey wraps value as a MasterKey.
func NewMasterKey(value []byte) MasterKey {
	return MasterKey{value: NewZeroizingBytes(value)}
}

// Value returns the raw key bytes.
func (k MasterKey) Value() []byte { return k.value.Value() }

// Zero overwrites the key material.
func (k *MasterKey) Zero() { k.value.Zero() }

// MasterKeyShare is one of the n shares produced by splitting a MasterKey.
// Shares are comparable by byte value to allow deduplication in the
// pending-share set.
type MasterKeyShare struct {
	value ZeroizingBytes
}

// NewMasterKeyShare wraps value as a MasterKeyShare.
func NewMasterKeyShare(value []byte) MasterKeyShare {
	return MasterKeyShare{value: NewZeroizingBytes(append([]byte(nil), value...))}
}

// Value returns the raw share bytes.
func (s MasterKeyShare) Value() []byte { return s.value.Value() }

// Key returns a comparable map key for this share's byte content, since a
// []byte cannot itself be a map key.
func (s MasterKeyShare) Key() string { return string(s.value.Value()) }

// Zero overwrites the share material.
func (s *MasterKeyShare) Zero() { s.value.Zero() }

// EncryptedPayload is a nonce paired with its ciphertext.
type EncryptedPayload struct {
	Nonce      []byte `msgpack:"nonce"`
	Ciphertext []byte `msgpack:"ciphertext"`
}

// NewEncryptedPayload builds an EncryptedPayload from its two parts.
func NewEncryptedPayload(nonce, ciphertext []byte) EncryptedPayload {
	return EncryptedPayload{Nonce: nonce, Ciphertext: ciphertext}
}
