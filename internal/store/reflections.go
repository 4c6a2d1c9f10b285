package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sabrisig-create/sadar/internal/reflection"
)

// InsertReflection persists a new reflection, assigning its id and
// timestamps. ULIDs keep insertion order and creation order aligned.
func (s *Store) InsertReflection(ctx context.Context, userID string, draft reflection.Draft, aiResponse string, deIDConfirmed bool) (*reflection.Reflection, error) {
	now := time.Now().UTC()
	rec := &reflection.Reflection{
		ID:                ulid.Make().String(),
		UserID:            userID,
		Scene:             draft.Scene,
		TherapistAffect:   draft.TherapistAffect,
		InitialHypothesis: draft.InitialHypothesis,
		AIResponse:        aiResponse,
		DeIDConfirmed:     deIDConfirmed,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var ai any
	if rec.AIResponse != "" {
		ai = rec.AIResponse
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reflections
		(id, user_id, scene, therapist_affect, initial_hypothesis, ai_response, de_id_confirmed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Scene, rec.TherapistAffect, rec.InitialHypothesis,
		ai, rec.DeIDConfirmed, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListReflections returns the user's reflections, most recent first.
// limit <= 0 means no limit.
func (s *Store) ListReflections(ctx context.Context, userID string, limit int) ([]*reflection.Reflection, error) {
	q := `
		SELECT id, user_id, scene, therapist_affect, initial_hypothesis, ai_response, de_id_confirmed, created_at, updated_at
		FROM reflections WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*reflection.Reflection
	for rows.Next() {
		rec, err := scanReflection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetReflection loads one reflection, owner-checked: a record belonging to a
// different user reads as not found.
func (s *Store) GetReflection(ctx context.Context, id, userID string) (*reflection.Reflection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, scene, therapist_affect, initial_hypothesis, ai_response, de_id_confirmed, created_at, updated_at
		FROM reflections WHERE id = ? AND user_id = ?`, id, userID)

	rec, err := scanReflection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReflection(row rowScanner) (*reflection.Reflection, error) {
	var rec reflection.Reflection
	var ai sql.NullString
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Scene, &rec.TherapistAffect,
		&rec.InitialHypothesis, &ai, &rec.DeIDConfirmed, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.AIResponse = ai.String
	return &rec, nil
}
