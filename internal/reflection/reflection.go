// Package reflection defines the SADAR domain types: the transient draft
// captured by the wizard and the persisted reflection record.
package reflection

import (
	"errors"
	"strings"
	"time"
)

// Minimum trimmed lengths each draft field must reach before the wizard
// allows forward navigation past its stage.
const (
	MinSceneLen      = 20
	MinAffectLen     = 2
	MinHypothesisLen = 10
)

// Draft is the transient, client-held reflection data. It exists only inside
// one wizard session; nothing persists it except the failure fallback.
type Draft struct {
	Scene             string `json:"scene"`
	TherapistAffect   string `json:"therapistAffect"`
	InitialHypothesis string `json:"initialHypothesis"`
}

// SceneValid reports whether the scene passes its stage threshold.
func (d Draft) SceneValid() bool {
	return len(strings.TrimSpace(d.Scene)) >= MinSceneLen
}

// AffectValid reports whether the affect passes its stage threshold.
func (d Draft) AffectValid() bool {
	return len(strings.TrimSpace(d.TherapistAffect)) >= MinAffectLen
}

// HypothesisValid reports whether the hypothesis passes its stage threshold.
func (d Draft) HypothesisValid() bool {
	return len(strings.TrimSpace(d.InitialHypothesis)) >= MinHypothesisLen
}

// ErrIncompleteDraft is returned when a draft below threshold reaches an
// operation that requires a fully valid one.
var ErrIncompleteDraft = errors.New("draft fields below minimum length")

// Validate checks all three fields at once. The wizard gates per stage; this
// is the belt-and-braces check at the submission boundary.
func (d Draft) Validate() error {
	if !d.SceneValid() || !d.AffectValid() || !d.HypothesisValid() {
		return ErrIncompleteDraft
	}
	return nil
}

// Reflection is the persisted record, owned by the server once created.
// Created only through the generation endpoint; immutable afterwards.
type Reflection struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Scene             string    `json:"scene"`
	TherapistAffect   string    `json:"therapist_affect"`
	InitialHypothesis string    `json:"initial_hypothesis"`
	AIResponse        string    `json:"ai_response,omitempty"`
	DeIDConfirmed     bool      `json:"de_id_confirmed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
