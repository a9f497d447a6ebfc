package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps configuration in a map. Save snapshots the values and
// Load restores the last snapshot, which lets tests exercise code that
// discards unsaved changes.
type ConfigStore struct {
	mu    sync.RWMutex
	live  map[string]any
	saved map[string]any
}

// NewConfigStore creates a config store holding a copy of initial, which
// counts as already saved. initial may be nil.
func NewConfigStore(initial ...map[string]any) *ConfigStore {
	s := &ConfigStore{live: make(map[string]any)}
	for _, m := range initial {
		maps.Copy(s.live, m)
	}
	s.saved = maps.Clone(s.live)
	return s
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.live[key]
	return val, ok
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[key] = value
	return nil
}

// Unset removes key.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.live))
}

// Save snapshots the current values.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = maps.Clone(s.live)
	return nil
}

// Load restores the last snapshot.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = maps.Clone(s.saved)
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
