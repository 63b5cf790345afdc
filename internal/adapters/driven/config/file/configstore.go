package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

const configFileName = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a TOML file. The first segment of a
// dot-notation key names a table, so "markov.min_quotes" is written as
// min_quotes under [markov].
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens config.toml in configDir, defaulting to
// ~/.quotechain. A missing file is not an error.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		configDir = filepath.Join(home, ".quotechain")
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(configDir, configFileName)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

func (s *ConfigStore) Set(key string, value any) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
		return fmt.Errorf("invalid config key %q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Save writes the file through a temporary sibling and a rename, so a
// crash never leaves a half-written config behind.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	data, err := toml.Marshal(nest(s.values))
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), configFileName+".*")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}

	values := make(map[string]any)
	flatten(values, "", tables)

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Path() string {
	return s.path
}

// flatten copies the leaves of tables into dst under dot-joined keys.
func flatten(dst map[string]any, prefix string, tables map[string]any) {
	for key, value := range tables {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flatten(dst, key, table)
			continue
		}
		dst[key] = value
	}
}

// nest is the inverse of flatten. A key that is both a value and a table
// prefix keeps the table and loses the value.
func nest(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		table := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := table[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				table[part] = child
			}
			table = child
		}
		leaf := parts[len(parts)-1]
		if _, isTable := table[leaf].(map[string]any); !isTable {
			table[leaf] = value
		}
	}
	return root
}
