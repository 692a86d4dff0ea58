package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"
)

// Store owns the settings file. Reads return copies; writes go through Update
// and are flushed to disk immediately.
type Store struct {
	path string

	mu       sync.Mutex
	settings Settings
	extra    map[string]json.RawMessage
	// writes counts Updates; Reload drops a read that an Update overtook.
	writes uint64
}

// readSettings is replaced in tests to interleave writes with a reload.
var readSettings = readFile

// Open loads the settings file at path. A missing or unreadable file yields
// defaults; the returned store is always usable.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	settings, extra, err := readFile(path)
	s.settings = settings
	s.extra = extra
	return s, err
}

// NewMemoryStore returns a store that never touches disk.
func NewMemoryStore(settings Settings) *Store {
	settings.Sanitize()
	return &Store{settings: settings.Clone()}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Update applies fn to a copy of the settings, sanitizes the result, and persists it.
// The in-memory value is updated even when the write fails.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.settings.Clone()
	fn(&next)
	next.Sanitize()
	s.settings = next
	s.writes++
	return s.saveLocked()
}

// Reload re-reads the file and reports whether anything changed.
// The in-memory value wins when an Update lands while the file is being read.
func (s *Store) Reload() (Settings, bool, error) {
	s.mu.Lock()
	seen := s.writes
	s.mu.Unlock()

	settings, extra, err := readSettings(s.path)
	if err != nil {
		return s.Get(), false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes != seen {
		return s.settings.Clone(), false, nil
	}
	changed := !reflect.DeepEqual(settings, s.settings)
	s.settings = settings
	s.extra = extra
	return settings.Clone(), changed, nil
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := encode(s.settings, s.extra)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func readFile(path string) (Settings, map[string]json.RawMessage, error) {
	settings := Defaults()
	if path == "" {
		return settings, nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil, nil
	}
	if err != nil {
		return settings, nil, fmt.Errorf("read config %s: %w", path, err)
	}
	settings, extra, err := decode(data)
	if err != nil {
		log.Printf("config: %s is not valid JSON, using defaults: %v", path, err)
		return Defaults(), nil, nil
	}
	return settings, extra, nil
}

// decode overlays every readable key of data onto the defaults. A key whose
// value has the wrong shape keeps its default; unknown keys are returned as extras.
func decode(data []byte) (Settings, map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Settings{}, nil, err
	}
	known := knownKeys()
	settings := Defaults()
	extra := map[string]json.RawMessage{}
	for key, raw := range fields {
		if !known[key] {
			extra[key] = raw
			continue
		}
		frag, err := json.Marshal(map[string]json.RawMessage{key: raw})
		if err != nil {
			continue
		}
		next := settings.Clone()
		if err := json.Unmarshal(frag, &next); err != nil {
			log.Printf("config: ignoring %q: %v", key, err)
			continue
		}
		settings = next
	}
	settings.Sanitize()
	return settings, extra, nil
}

func encode(settings Settings, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return json.MarshalIndent(settings, "", "    ")
	}
	base, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.MarshalIndent(merged, "", "    ")
}

func knownKeys() map[string]bool {
	t := reflect.TypeOf(Settings{})
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag != "" && tag != "-" {
			keys[tag] = true
		}
	}
	return keys
}
