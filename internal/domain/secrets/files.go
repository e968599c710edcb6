package secrets

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
)

const (
	encryptionKeyRelPath = "stored/pk"
	aadRelPath           = "stored/pa"
)

// FilesService persists the two envelope-encryption artifacts: the
// encrypted DEK and its AAD. Grounded on original_source's FilesService
// trait / SimpleFilesService implementation.
type FilesService interface {
	ReadKey() (EncryptedPayload, error)
	StoreKey(payload EncryptedPayload) error
	ExistsKey() (bool, error)

	ReadAad() ([]byte, error)
	StoreAad(aad []byte) error
	ExistsAad() (bool, error)

	Clear() error
}

// DiskFilesService is the on-disk FilesService, rooted under a configured
// base directory (pooly's configured KV path directory).
type DiskFilesService struct {
	mu      sync.RWMutex
	baseDir string
}

// NewDiskFilesService builds a FilesService rooted at baseDir.
func NewDiskFilesService(baseDir string) *DiskFilesService {
	return &DiskFilesService{baseDir: baseDir}
}

func (s *DiskFilesService) keyPath() string { return filepath.Join(s.baseDir, encryptionKeyRelPath) }
func (s *DiskFilesService) aadPath() string { return filepath.Join(s.baseDir, aadRelPath) }

func fileReadErr(err error) error {
	return poolyerrors.NewSecretsErr(poolyerrors.SecretsFileReadError, err)
}

func (s *DiskFilesService) ReadKey() (EncryptedPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.keyPath())
	if err != nil {
		return EncryptedPayload{}, fileReadErr(err)
	}

	var payload EncryptedPayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return EncryptedPayload{}, poolyerrors.NewSecretsErr(poolyerrors.SecretsSerdeError, err)
	}

	return payload, nil
}

func (s *DiskFilesService) StoreKey(payload EncryptedPayload) error {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return poolyerrors.NewSecretsErr(poolyerrors.SecretsSerdeError, err)
	}

	return s.store(raw, s.keyPath())
}

func (s *DiskFilesService) ExistsKey() (bool, error) {
	return s.exists(s.keyPath())
}

func (s *DiskFilesService) ReadAad() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.aadPath())
	if err != nil {
		return nil, fileReadErr(err)
	}

	return raw, nil
}

func (s *DiskFilesService) StoreAad(aad []byte) error {
	return s.store(aad, s.aadPath())
}

func (s *DiskFilesService) ExistsAad() (bool, error) {
	return s.exists(s.aadPath())
}

func (s *DiskFilesService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyPath()); err != nil && !os.IsNotExist(err) {
		return fileReadErr(err)
	}

	if err := os.Remove(s.aadPath()); err != nil && !os.IsNotExist(err) {
		return fileReadErr(err)
	}

	return nil
}

func (s *DiskFilesService) store(payload []byte, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fileReadErr(err)
	}

	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fileReadErr(err)
	}

	return nil
}

func (s *DiskFilesService) exists(path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, fileReadErr(err)
}
