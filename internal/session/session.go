// Package session persists the signed-in identity between CLI runs.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrNotSignedIn is returned when no stored session exists.
var ErrNotSignedIn = errors.New("not signed in")

// Session is the stored identity. The token is opaque to the client.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Store reads and writes one session file.
type Store struct {
	path string
}

// NewStore binds the store to a file path (normally ~/.sadar/session.json).
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the session, replacing any previous one. The file is only
// readable by the owner.
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load returns the stored session, or ErrNotSignedIn when there is none.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Token == "" {
		return nil, ErrNotSignedIn
	}
	return &sess, nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
