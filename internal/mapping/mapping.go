// Package mapping is the user-owned overlay on top of the built-in exercise
// catalog. Overlay rows shadow catalog rows when resolving an exercise's
// primary muscle.
package mapping

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/meltforce/liftlog/internal/catalog"
)

// FileName is the name of the persisted overlay document.
const FileName = "exercise_mapping.json"

// MuscleMapping is one overlay row. An empty Primary defers to the catalog.
type MuscleMapping struct {
	Primary   string   `json:"primary"`
	Secondary []string `json:"secondary"`
	Category  string   `json:"category"`
}

func (m MuscleMapping) clone() MuscleMapping {
	if m.Secondary != nil {
		m.Secondary = append([]string(nil), m.Secondary...)
	}
	return m
}

// Persister reads and writes the serialized overlay.
type Persister interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Store holds the overlay. All access goes through one mutex.
// A nil *Store behaves as an empty overlay for lookups.
type Store struct {
	mu       sync.Mutex
	mappings map[string]MuscleMapping
	p        Persister
	log      *slog.Logger
}

// New creates an empty store. p may be nil for an in-memory overlay.
func New(p Persister, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{
		mappings: make(map[string]MuscleMapping),
		p:        p,
		log:      log,
	}
}

// Load replaces the in-memory overlay with the persisted one. A missing or
// unreadable document leaves the overlay empty.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mappings = make(map[string]MuscleMapping)
	if s.p == nil {
		return
	}
	data, err := s.p.Read()
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("reading exercise mappings", "error", err)
		}
		return
	}
	var m map[string]MuscleMapping
	if err := json.Unmarshal(data, &m); err != nil {
		s.log.Warn("parsing exercise mappings", "error", err)
		return
	}
	if m != nil {
		s.mappings = m
	}
	s.log.Debug("exercise mappings loaded", "count", len(s.mappings))
}

// Save writes the overlay through the persister. Failures are logged only.
func (s *Store) Save() {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.mappings, "", "  ")
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("encoding exercise mappings", "error", err)
		return
	}
	if s.p == nil {
		return
	}
	if err := s.p.Write(data); err != nil {
		s.log.Warn("writing exercise mappings", "error", err)
	}
}

// Get returns the overlay row for name.
func (s *Store) Get(name string) (MuscleMapping, bool) {
	if s == nil {
		return MuscleMapping{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mappings[name]
	return m.clone(), ok
}

// Set stores m for name, replacing any existing row.
func (s *Store) Set(name string, m MuscleMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[name] = m.clone()
}

// Remove deletes the overlay row for name.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, name)
}

// All returns a copy of every overlay row.
func (s *Store) All() map[string]MuscleMapping {
	if s == nil {
		return map[string]MuscleMapping{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]MuscleMapping, len(s.mappings))
	for k, v := range s.mappings {
		out[k] = v.clone()
	}
	return out
}

// Len returns the number of overlay rows.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mappings)
}

// BodyPartFor resolves the primary muscle of name: the overlay row when its
// Primary is set, otherwise the catalog.
func (s *Store) BodyPartFor(name string) (string, bool) {
	if m, ok := s.Get(name); ok && m.Primary != "" {
		return m.Primary, true
	}
	return catalog.PrimaryFor(name)
}

// CategoryFor returns the overlay category of name. The catalog has no
// categories.
func (s *Store) CategoryFor(name string) (string, bool) {
	m, ok := s.Get(name)
	if !ok {
		return "", false
	}
	return m.Category, true
}

// PrimaryMuscleGroups returns every primary muscle known to the catalog or
// set in the overlay, sorted and deduplicated.
func (s *Store) PrimaryMuscleGroups() []string {
	seen := make(map[string]struct{})
	for _, m := range catalog.PrimaryMuscles() {
		seen[m] = struct{}{}
	}
	for _, m := range s.All() {
		if m.Primary != "" {
			seen[m.Primary] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// AllWithDefaults returns a row for every catalog exercise plus every
// overlay-only name. Catalog exercises without an overlay row get an empty
// row.
func (s *Store) AllWithDefaults() map[string]MuscleMapping {
	out := s.All()
	for _, name := range catalog.Names() {
		if _, ok := out[name]; !ok {
			out[name] = MuscleMapping{}
		}
	}
	return out
}

// ExportAll writes AllWithDefaults to path as indented JSON, creating the
// parent directory.
func (s *Store) ExportAll(path string) error {
	data, err := json.MarshalIndent(s.AllWithDefaults(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mappings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ImportAll replaces the overlay with the document at path and adds an
// empty row for every catalog exercise it does not mention.
func (s *Store) ImportAll(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var m map[string]MuscleMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]MuscleMapping)
	}
	for _, name := range catalog.Names() {
		if _, ok := m[name]; !ok {
			m[name] = MuscleMapping{}
		}
	}

	s.mu.Lock()
	s.mappings = m
	s.mu.Unlock()
	s.log.Info("exercise mappings imported", "path", path, "count", len(m))
	return nil
}
