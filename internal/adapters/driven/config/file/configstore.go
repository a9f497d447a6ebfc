package file

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// DefaultDirName is the config directory created under the user's home.
const DefaultDirName = ".sercha-federated"

// configFileName is the TOML file inside the config directory.
const configFileName = "config.toml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Errors returned by ConfigStore.
var (
	ErrInvalidKey       = errors.New("config: invalid key")
	ErrUnsupportedValue = errors.New("config: unsupported value type")
)

// ConfigStore keeps configuration in config.toml. Tables are flattened to
// dot keys on Load ("[llm] provider" becomes "llm.provider") and rebuilt
// into tables on Save. Save replaces the file atomically.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

// NewConfigStore opens the store in configDir, creating the directory if
// needed and loading config.toml when it exists. An empty configDir means
// ~/.sercha-federated.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, DefaultDirName)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		path: filepath.Join(configDir, configFileName),
		data: make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// Set stores a scalar value under key. Call Save to persist it.
func (s *ConfigStore) Set(key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	switch value.(type) {
	case string, bool, int, int32, int64, float32, float64:
	default:
		return fmt.Errorf("%w: %s is %T", ErrUnsupportedValue, key, value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Unset removes key.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}

// Save writes the configuration to a temporary file next to config.toml
// and renames it into place, so readers never see a partial file.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	tree, err := nest(s.data)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	out, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), configFileName+".*")
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save config: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Load reads config.toml, replacing everything held in memory. A missing
// file leaves the store empty. Syntax errors carry the line and column.
func (s *ConfigStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.data = make(map[string]any)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("%s:%d:%d: %w", s.path, row, col, err)
		}
		return fmt.Errorf("%s: %w", s.path, err)
	}

	flat := make(map[string]any)
	flatten(tree, "", flat)

	s.mu.Lock()
	s.data = flat
	s.mu.Unlock()
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

func checkKey(key string) error {
	if key == "" || slices.Contains(strings.Split(key, "."), "") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// flatten writes every leaf of tree into out under its dot path.
func flatten(tree map[string]any, prefix string, out map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flatten(table, key, out)
			continue
		}
		out[key] = value
	}
}

// nest rebuilds TOML tables from dot keys. A key that is both a value and
// a table ("llm" and "llm.model") cannot be encoded and is an error.
func nest(flat map[string]any) (map[string]any, error) {
	root := make(map[string]any)
	for _, key := range slices.Sorted(maps.Keys(flat)) {
		parts := strings.Split(key, ".")
		table := root
		for i, part := range parts[:len(parts)-1] {
			next, exists := table[part]
			if !exists {
				child := make(map[string]any)
				table[part] = child
				table = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %q conflicts with %q",
					ErrInvalidKey, key, strings.Join(parts[:i+1], "."))
			}
			table = child
		}

		leaf := parts[len(parts)-1]
		if _, isTable := table[leaf].(map[string]any); isTable {
			return nil, fmt.Errorf("%w: %q is also a table", ErrInvalidKey, key)
		}
		table[leaf] = flat[key]
	}
	return root, nil
}
