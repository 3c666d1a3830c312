// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package baseline serves the verified per-country share series used as a
// fallback when report extraction fails or reports are missing. The table is
// compiled into the binary and read-only at runtime.
package baseline

import (
	_ "embed"
	"fmt"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/share-tracker/pkg/types"
)

//go:embed baseline.yaml
var baselineYAML []byte

// Store is a read-only lookup from country key to baseline entry.
type Store struct {
	entries map[string]types.BaselineEntry
}

var defaultStore = mustLoad(baselineYAML)

// Default returns the store backed by the embedded table.
func Default() *Store {
	return defaultStore
}

// New returns a store over the given entries. The map is copied.
func New(entries map[string]types.BaselineEntry) *Store {
	s := &Store{entries: make(map[string]types.BaselineEntry, len(entries))}
	for k, e := range entries {
		e.Trend = append([]float64(nil), e.Trend...)
		s.entries[k] = e
	}
	return s
}

// Parse decodes a baseline table from YAML.
func Parse(data []byte) (*Store, error) {
	var entries map[string]types.BaselineEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing baseline table: %w", err)
	}
	return New(entries), nil
}

func mustLoad(data []byte) *Store {
	s, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the entry for a country key. ok is false when no fallback
// exists for the country. The returned trend is a copy.
func (s *Store) Lookup(key string) (types.BaselineEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return types.BaselineEntry{}, false
	}
	e.Trend = append([]float64(nil), e.Trend...)
	return e, true
}

// Keys returns the country keys with baseline coverage, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
