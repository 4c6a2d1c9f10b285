package reflection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSceneValid(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		want  bool
	}{
		{"empty", "", false},
		{"19 chars", strings.Repeat("x", 19), false},
		{"20 chars", strings.Repeat("x", 20), true},
		{"whitespace padding ignored", "   " + strings.Repeat("x", 19) + "   ", false},
		{"trimmed exactly 20", "  " + strings.Repeat("x", 20) + "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Draft{Scene: tt.scene}
			assert.Equal(t, tt.want, d.SceneValid())
		})
	}
}

func TestAffectValid(t *testing.T) {
	assert.False(t, Draft{TherapistAffect: "a"}.AffectValid())
	assert.True(t, Draft{TherapistAffect: "ok"}.AffectValid())
	assert.False(t, Draft{TherapistAffect: " a "}.AffectValid())
}

func TestHypothesisValid(t *testing.T) {
	assert.False(t, Draft{InitialHypothesis: "too short"}.HypothesisValid())
	assert.True(t, Draft{InitialHypothesis: "maybe resistance"}.HypothesisValid())
}

func TestValidate(t *testing.T) {
	valid := Draft{
		Scene:             strings.Repeat("x", 20),
		TherapistAffect:   "calm",
		InitialHypothesis: "maybe resistance",
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.TherapistAffect = ""
	assert.ErrorIs(t, missing.Validate(), ErrIncompleteDraft)
}
