package envsource

import (
	"strings"
	"sync"
)

// Origin records where a value came from.
type Origin int

const (
	// OriginEnviron marks values taken from the process environment.
	OriginEnviron Origin = iota
	// OriginDotenv marks values read from a dotenv file.
	OriginDotenv
	// OriginOverride marks values set by an override hook.
	OriginOverride
)

func (o Origin) String() string {
	switch o {
	case OriginEnviron:
		return "environ"
	case OriginDotenv:
		return "dotenv"
	case OriginOverride:
		return "override"
	default:
		return "unknown"
	}
}

type entry struct {
	value  string
	origin Origin
}

// Source is an ordered key/value view over the merged environment.
type Source struct {
	mu      sync.RWMutex
	keys    []string
	entries map[string]entry
}

// New returns an empty Source.
func New() *Source {
	return &Source{entries: make(map[string]entry)}
}

// FromEnviron builds a Source from KEY=VALUE pairs as returned by os.Environ.
// Later duplicates of a key are ignored.
func FromEnviron(environ []string) *Source {
	s := New()
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		s.add(key, value, OriginEnviron)
	}
	return s
}

// FromMap builds a Source from a plain map. Keys are inserted in sorted order.
func FromMap(values map[string]string) *Source {
	s := New()
	for _, key := range sortedKeys(values) {
		s.add(key, values[key], OriginEnviron)
	}
	return s
}

// Get returns the value stored for key and whether it is present.
func (s *Source) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e.value, ok
}

// GetDefault returns the value for key, or fallback when the key is absent.
func (s *Source) GetDefault(key, fallback string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return fallback
}

// Origin reports where the value for key came from.
func (s *Source) Origin(key string) (Origin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e.origin, ok
}

// Set stores value for key, replacing any previous value.
func (s *Source) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = entry{value: value, origin: OriginOverride}
}

// Unset removes key from the source.
func (s *Source) Unset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s *Source) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Export pushes every value that did not come from the process environment
// through setenv, typically os.Setenv. Dotenv values and override values are
// exported; values still holding what the environment supplied are skipped.
func (s *Source) Export(setenv func(key, value string) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.keys {
		e := s.entries[key]
		if e.origin == OriginEnviron {
			continue
		}
		if err := setenv(key, e.value); err != nil {
			return err
		}
	}
	return nil
}

// add inserts key only if it is absent and reports whether it did.
func (s *Source) add(key, value string, origin Origin) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		return false
	}
	s.keys = append(s.keys, key)
	s.entries[key] = entry{value: value, origin: origin}
	return true
}
