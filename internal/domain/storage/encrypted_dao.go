package storage

import (
	"github.com/vmihailenco/msgpack/v5"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/secrets"
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// secretsManager narrows secrets.Manager to what EncryptedDao needs, so this
// package doesn't otherwise depend on the concrete sealed-state machine.
type secretsManager interface {
	Encrypt(plaintext []byte) (secrets.EncryptedPayload, error)
	Decrypt(payload secrets.EncryptedPayload) (secrets.ZeroizingBytes, error)
}

// EncryptedDao wraps SimpleDao, encrypting the value on write and decrypting
// on read. The version header travels alongside the ciphertext in the same
// envelope so optimistic checks never require decryption.
type EncryptedDao struct {
	inner *SimpleDao
	mgr   secretsManager
}

// NewEncryptedDao builds an EncryptedDao over inner, using mgr for AEAD.
func NewEncryptedDao(inner *SimpleDao, mgr secretsManager) *EncryptedDao {
	return &EncryptedDao{inner: inner, mgr: mgr}
}

func (d *EncryptedDao) encrypt(plaintext []byte) ([]byte, error) {
	payload, err := d.mgr.Encrypt(plaintext)
	if err != nil {
		return nil, poolyerrors.WrapSecrets(err)
	}

	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, poolyerrors.WrapSerde(err)
	}

	return raw, nil
}

func (d *EncryptedDao) decrypt(raw []byte) ([]byte, error) {
	var payload secrets.EncryptedPayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, poolyerrors.WrapSerde(err)
	}

	plaintext, err := d.mgr.Decrypt(payload)
	if err != nil {
		return nil, poolyerrors.WrapSecrets(err)
	}

	return plaintext.Value(), nil
}

func (d *EncryptedDao) Get(id string) (versioning.Versioned[[]byte], bool, error) {
	stored, found, err := d.inner.Get(id)
	if err != nil || !found {
		return versioning.Versioned[[]byte]{}, found, err
	}

	plaintext, err := d.decrypt(stored.Value)
	if err != nil {
		return versioning.Versioned[[]byte]{}, false, err
	}

	return versioning.WithValue(stored, plaintext), true, nil
}

func (d *EncryptedDao) GetAllKeys() ([]string, error) {
	return d.inner.GetAllKeys()
}

func (d *EncryptedDao) Create(id string, plaintext []byte) (versioning.Versioned[[]byte], error) {
	ciphertext, err := d.encrypt(plaintext)
	if err != nil {
		return versioning.Versioned[[]byte]{}, err
	}

	stored, err := d.inner.Create(id, ciphertext)
	if err != nil {
		return versioning.Versioned[[]byte]{}, err
	}

	return versioning.WithValue(stored, plaintext), nil
}

func (d *EncryptedDao) Update(id string, candidate versioning.Versioned[[]byte]) (versioning.Versioned[[]byte], error) {
	ciphertext, err := d.encrypt(candidate.Value)
	if err != nil {
		return versioning.Versioned[[]byte]{}, err
	}

	stored, err := d.inner.Update(id, versioning.WithValue(candidate, ciphertext))
	if err != nil {
		return versioning.Versioned[[]byte]{}, err
	}

	return versioning.WithValue(stored, candidate.Value), nil
}

func (d *EncryptedDao) Delete(id string) (*versioning.Versioned[[]byte], error) {
	removed, err := d.inner.Delete(id)
	if err != nil || removed == nil {
		return removed, err
	}

	plaintext, err := d.decrypt(removed.Value)
	if err != nil {
		return nil, err
	}

	decoded := versioning.WithValue(*removed, plaintext)

	return &decoded, nil
}

func (d *EncryptedDao) Clear() error {
	return d.inner.Clear()
}
