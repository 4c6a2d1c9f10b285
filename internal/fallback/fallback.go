// Package fallback persists the single local recovery draft written when a
// remote submission fails.
//
// The slot is one fixed file with whole-value overwrite semantics: at most
// one draft exists, each failure replaces the previous one, and success never
// touches it. This is a deliberate simplification, not a queue.
package fallback

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sabrisig-create/sadar/internal/reflection"
)

// Draft is the recovery artifact: the three captured fields plus the moment
// the failed submission was attempted.
type Draft struct {
	Scene             string    `json:"scene"`
	TherapistAffect   string    `json:"therapistAffect"`
	InitialHypothesis string    `json:"initialHypothesis"`
	Timestamp         time.Time `json:"timestamp"`
}

// Reflection converts the recovery artifact back into a wizard draft.
func (d Draft) Reflection() reflection.Draft {
	return reflection.Draft{
		Scene:             d.Scene,
		TherapistAffect:   d.TherapistAffect,
		InitialHypothesis: d.InitialHypothesis,
	}
}

// ErrNoDraft is returned by Load when the slot is empty.
var ErrNoDraft = errors.New("no fallback draft")

// Store reads and writes the fixed-path slot.
type Store struct {
	path string
}

// NewStore returns a store over the given slot path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the slot path.
func (s *Store) Path() string { return s.path }

// Save overwrites the slot with the given draft and capture timestamp.
func (s *Store) Save(d reflection.Draft, at time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create fallback dir: %w", err)
	}

	data, err := json.MarshalIndent(Draft{
		Scene:             d.Scene,
		TherapistAffect:   d.TherapistAffect,
		InitialHypothesis: d.InitialHypothesis,
		Timestamp:         at.UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fallback draft: %w", err)
	}

	// Reflection text is sensitive, keep it owner-only.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write fallback draft: %w", err)
	}
	return nil
}

// Load reads the slot. Returns ErrNoDraft when it is empty.
func (s *Store) Load() (*Draft, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("read fallback draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode fallback draft: %w", err)
	}
	return &d, nil
}

// Clear removes the slot. Only an explicit user action calls this; a
// successful submission does not.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
