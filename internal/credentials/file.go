package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/conchis/internal/common"
	"gopkg.in/yaml.v3"
)

// credentialFile is the on-disk layout of a FileStore.
type credentialFile struct {
	UpdatedAt time.Time `yaml:"updated_at"`
	APIKey    string    `yaml:"api_key"`
}

// FileStore keeps the key in a YAML file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path. The file is
// created on the first SetKey.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// GetKey reads the key from disk.
func (f *FileStore) GetKey() (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading credentials: %w", err)
	}

	var cf credentialFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return "", false, fmt.Errorf("reading credentials: parsing YAML: %w", err)
	}

	key := Normalize(cf.APIKey)
	return key, key != "", nil
}

// SetKey writes the key to disk with 0600 permissions.
func (f *FileStore) SetKey(key string) error {
	key = Normalize(key)
	if key == "" {
		return fmt.Errorf("%w: empty API key", common.ErrInvalidArgument)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("saving credentials: creating directory: %w", err)
	}

	data, err := yaml.Marshal(&credentialFile{APIKey: key, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("saving credentials: marshaling YAML: %w", err)
	}

	// Replace the file atomically.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("saving credentials: writing file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Clear removes the credential file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}
