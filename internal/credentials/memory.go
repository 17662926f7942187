package credentials

import (
	"fmt"
	"sync"

	"github.com/Veraticus/conchis/internal/common"
)

// MemoryStore keeps the key in process memory.
type MemoryStore struct {
	key string
	mu  sync.RWMutex
}

// NewMemoryStore creates a store holding key, which may be empty.
func NewMemoryStore(key string) *MemoryStore {
	return &MemoryStore{key: Normalize(key)}
}

// GetKey returns the stored key.
func (m *MemoryStore) GetKey() (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key, m.key != "", nil
}

// SetKey replaces the stored key.
func (m *MemoryStore) SetKey(key string) error {
	key = Normalize(key)
	if key == "" {
		return fmt.Errorf("%w: empty API key", common.ErrInvalidArgument)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = key
	return nil
}

// Clear forgets the key.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = ""
	return nil
}
