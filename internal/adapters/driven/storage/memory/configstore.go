package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. Save snapshots the values and
// Load restores the last snapshot, so tests can observe unsaved changes
// being discarded.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
	saved  map[string]any
	saves  int
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		values: make(map[string]any),
		saved:  make(map[string]any),
	}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = maps.Clone(s.values)
	s.saves++
	return nil
}

func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = maps.Clone(s.saved)
	return nil
}

// Saves reports how many times Save has been called.
func (s *ConfigStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func (s *ConfigStore) Path() string {
	return ":memory:"
}
