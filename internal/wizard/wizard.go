// Package wizard implements the three-stage reflection capture sequencer.
//
// The machine is deliberately pure: it holds the draft and the flow state,
// and the UI layer renders whatever it says. Forward navigation is gated on
// per-stage minimum lengths; a gated Next/Submit is a no-op, not an error.
package wizard

import (
	"context"

	"github.com/sabrisig-create/sadar/internal/reflection"
)

// Stage identifies one of the three capture stages.
type Stage int

const (
	StageScene Stage = iota
	StageAffect
	StageHypothesis
)

// TotalStages is the number of capture stages.
const TotalStages = 3

// Info describes a stage for presentation.
type Info struct {
	Title       string
	Subtitle    string
	Description string
	Placeholder string
}

var stageInfo = [TotalStages]Info{
	{
		Title:       "Scena Post-Sessione",
		Subtitle:    "Cosa è successo?",
		Description: "Descrivi un momento concreto della sessione in 3-6 righe. Concentrati sui fatti osservabili, non sulle interpretazioni.",
		Placeholder: "Descrivi un momento concreto dalla sessione. Cosa è stato detto, fatto o notato?",
	},
	{
		Title:       "Il Tuo Stato Emotivo",
		Subtitle:    "Cosa hai provato?",
		Description: "Nomina l'emozione predominante che hai provato durante o dopo questo momento. Usa 1-2 parole (es. irritazione, preoccupazione, confusione, distanza).",
		Placeholder: "es. preoccupazione, irritazione, confusione, distanza",
	},
	{
		Title:       "Ipotesi Iniziale",
		Subtitle:    "Cosa potrebbe significare?",
		Description: "Scrivi una frase provvisoria su cosa pensi stia accadendo. Mantienila provvisoria, non definitiva.",
		Placeholder: "Cosa potrebbe stare accadendo? (Una frase provvisoria)",
	},
}

// Info returns presentation metadata for a stage.
func (s Stage) Info() Info {
	if s < 0 || int(s) >= TotalStages {
		return Info{}
	}
	return stageInfo[s]
}

// Phase is the wizard lifecycle state around the capture stages.
type Phase int

const (
	// PhaseCollecting means a capture stage is active.
	PhaseCollecting Phase = iota
	// PhaseSubmitting means the remote round trip is in flight.
	PhaseSubmitting
	// PhaseDone is terminal success.
	PhaseDone
	// PhaseFailed is terminal failure, fallback already written.
	PhaseFailed
)

// Submitter performs the remote submission round trip.
type Submitter interface {
	Submit(ctx context.Context, draft reflection.Draft) (*reflection.Reflection, error)
}

// Wizard sequences the three capture stages.
type Wizard struct {
	stage Stage
	phase Phase
	draft reflection.Draft
}

// New returns a wizard at StageScene with an empty draft.
func New() *Wizard {
	return &Wizard{}
}

// NewFromDraft returns a wizard at StageScene prefilled with a recovered
// draft. Gating still applies stage by stage.
func NewFromDraft(d reflection.Draft) *Wizard {
	return &Wizard{draft: d}
}

// Stage returns the active capture stage.
func (w *Wizard) Stage() Stage { return w.stage }

// Phase returns the lifecycle phase.
func (w *Wizard) Phase() Phase { return w.phase }

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() reflection.Draft { return w.draft }

// Field returns the text of the active stage.
func (w *Wizard) Field() string {
	switch w.stage {
	case StageAffect:
		return w.draft.TherapistAffect
	case StageHypothesis:
		return w.draft.InitialHypothesis
	default:
		return w.draft.Scene
	}
}

// SetField replaces the text of the active stage. Ignored outside
// PhaseCollecting so an in-flight submission cannot be mutated under.
func (w *Wizard) SetField(text string) {
	if w.phase != PhaseCollecting {
		return
	}
	switch w.stage {
	case StageAffect:
		w.draft.TherapistAffect = text
	case StageHypothesis:
		w.draft.InitialHypothesis = text
	default:
		w.draft.Scene = text
	}
}

// CanProceed reports whether the active stage satisfies its threshold.
func (w *Wizard) CanProceed() bool {
	switch w.stage {
	case StageAffect:
		return w.draft.AffectValid()
	case StageHypothesis:
		return w.draft.HypothesisValid()
	default:
		return w.draft.SceneValid()
	}
}

// Next advances to the following stage. A no-op (returning false) when the
// threshold is unmet, the wizard is not collecting, or the last stage is
// active — submission is a separate transition.
func (w *Wizard) Next() bool {
	if w.phase != PhaseCollecting || w.stage >= StageHypothesis || !w.CanProceed() {
		return false
	}
	w.stage++
	return true
}

// Back moves to the previous stage, keeping all entered text. From the first
// stage it returns true, signalling cancellation; the caller discards the
// wizard and its draft.
func (w *Wizard) Back() (cancelled bool) {
	if w.phase != PhaseCollecting {
		return false
	}
	if w.stage == StageScene {
		return true
	}
	w.stage--
	return false
}

// BeginSubmit transitions to PhaseSubmitting. Legal only from the hypothesis
// stage with its threshold met; otherwise a no-op returning false. While
// Submitting no second submission can begin.
func (w *Wizard) BeginSubmit() bool {
	if w.phase != PhaseCollecting || w.stage != StageHypothesis || !w.CanProceed() {
		return false
	}
	w.phase = PhaseSubmitting
	return true
}

// FinishSubmit resolves an in-flight submission to Done or Failed.
func (w *Wizard) FinishSubmit(err error) {
	if w.phase != PhaseSubmitting {
		return
	}
	if err != nil {
		w.phase = PhaseFailed
		return
	}
	w.phase = PhaseDone
}

// Submit runs the full terminal transition: BeginSubmit, the remote round
// trip, FinishSubmit. Returns the created reflection on success. When the
// transition is not legal it is a no-op returning (nil, nil).
func (w *Wizard) Submit(ctx context.Context, s Submitter) (*reflection.Reflection, error) {
	if !w.BeginSubmit() {
		return nil, nil
	}
	rec, err := s.Submit(ctx, w.draft)
	w.FinishSubmit(err)
	return rec, err
}

// Progress returns (currentStageIndex + 1) / totalStages, derived.
func (w *Wizard) Progress() float64 {
	return float64(w.stage+1) / float64(TotalStages)
}
