package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivePrompt returns the text of the active system prompt with the given
// name, or ErrNotFound when none is configured. The caller decides the
// fallback (a built-in default prompt).
func (s *Store) ActivePrompt(ctx context.Context, name string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT prompt_text FROM system_prompts WHERE name = ? AND is_active = 1`,
		name).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// SetActivePrompt installs prompt text under a name, deactivating any prior
// active prompt of that name first.
func (s *Store) SetActivePrompt(ctx context.Context, name, text string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE system_prompts SET is_active = 0, updated_at = ? WHERE name = ? AND is_active = 1`,
		time.Now().UTC(), name); err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO system_prompts (id, name, prompt_text, is_active, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)`,
		uuid.NewString(), name, text, now, now); err != nil {
		return err
	}

	return tx.Commit()
}
