package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sabrisig-create/sadar/internal/reflection"
)

type stubLoader struct {
	text string
	err  error
}

func (s *stubLoader) ActivePrompt(context.Context, string) (string, error) {
	return s.text, s.err
}

func draft() reflection.Draft {
	return reflection.Draft{
		Scene:             "il paziente guarda fuori dalla finestra",
		TherapistAffect:   "distanza",
		InitialHypothesis: "forse sta evitando il tema",
	}
}

func TestUserMessageEmbedsAllFields(t *testing.T) {
	msg := UserMessage(draft())

	assert.Contains(t, msg, "il paziente guarda fuori dalla finestra")
	assert.Contains(t, msg, "distanza")
	assert.Contains(t, msg, "forse sta evitando il tema")
	assert.True(t, strings.HasPrefix(msg, "INPUT RIFLESSIVO POST-SESSIONE (SADAR)"))
}

func TestUserMessageDeterministic(t *testing.T) {
	assert.Equal(t, UserMessage(draft()), UserMessage(draft()))
}

func TestBuildUsesConfiguredPrompt(t *testing.T) {
	p := Build(context.Background(), &stubLoader{text: "prompt configurato"}, draft())
	assert.Equal(t, "prompt configurato", p.System)
}

func TestBuildFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name   string
		loader ActivePromptLoader
	}{
		{"nil loader", nil},
		{"loader error", &stubLoader{err: errors.New("no row")}},
		{"empty text", &stubLoader{text: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(context.Background(), tt.loader, draft())
			assert.Equal(t, DefaultSystem, p.System)
			assert.Contains(t, p.System, "METODOLOGIA 3-2-1")
		})
	}
}
