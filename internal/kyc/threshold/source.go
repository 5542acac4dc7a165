package threshold

import (
	"errors"
	"os"
	"strings"
	"sync"
)

var errOutOfRange = errors.New("threshold outside [0,1]")

// MapSource is a static override snapshot.
type MapSource map[string]string

// NewMapSource copies values, upper-casing keys.
func NewMapSource(values map[string]string) MapSource {
	m := make(MapSource, len(values))
	for k, v := range values {
		m[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return m
}

// Lookup implements Source.
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvSource snapshots process environment variables whose upper-cased name
// starts with prefix. The environment does not change at runtime, so one
// snapshot at start-up is enough.
func EnvSource(prefix string) MapSource {
	prefix = strings.ToUpper(prefix)
	values := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(k), prefix) {
			values[k] = v
		}
	}
	return NewMapSource(values)
}

// Chain consults sources in order; the first one holding a valid threshold
// for a key wins. A malformed value in one source does not hide a valid value
// for the same key further down the chain. When every source holding the key
// is malformed, the first such value is returned so the resolver can report
// it and move on to the next key.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(key string) (string, bool) {
	var (
		malformed string
		found     bool
	)
	for _, s := range c {
		if s == nil {
			continue
		}
		v, ok := s.Lookup(key)
		if !ok {
			continue
		}
		if _, err := parseThreshold(v); err == nil {
			return v, true
		}
		if !found {
			malformed, found = v, true
		}
	}
	return malformed, found
}

// snapshot is a swappable MapSource shared by the reloading sources.
type snapshot struct {
	mu     sync.RWMutex
	values MapSource
}

func (s *snapshot) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *snapshot) swap(values MapSource) {
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
}

// Len reports the number of keys in the current snapshot.
func (s *snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
