// Package dictation provides optional speech capture for the wizard fields.
//
// The adapter is a small Idle/Recording machine, independent of the
// sequencer's validation. Completion is delivered as a single Result value so
// the caller has one authoritative signal instead of nested callbacks.
package dictation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMicrophoneUnavailable means capture capability is absent or permission
// was denied. Callers hide or disable the dictation control rather than
// surfacing this repeatedly.
var ErrMicrophoneUnavailable = errors.New("microphone unavailable")

// ErrTranscription wraps transcription round-trip failures. The field is left
// untouched; no partial text is ever inserted.
var ErrTranscription = errors.New("transcription failed")

// Recorder buffers audio between Start and Stop.
type Recorder interface {
	// Start requests capture access and begins buffering.
	Start(ctx context.Context) error
	// Stop ends buffering and returns the captured audio.
	Stop() ([]byte, error)
}

// Transcriber turns captured audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// State of the adapter.
type State int

const (
	Idle State = iota
	Recording
)

// Result is the single completion signal for one recording session.
type Result struct {
	// Transcript is the accumulated transcript after a successful round
	// trip, ready for the field owner.
	Transcript string
	// Err is set on permission or transcription failure; the field owner
	// leaves its text unchanged.
	Err error
	// Cancelled is set when Stop was called without an active recording.
	Cancelled bool
}

// Adapter drives one recorder/transcriber pair.
type Adapter struct {
	capability Capability
	recorder   Recorder
	transcribe Transcriber
	language   string

	state      State
	transcript string
}

// New builds an adapter. The capability descriptor is resolved once at
// startup and threaded in here rather than re-queried per render.
func New(capability Capability, rec Recorder, tr Transcriber, language string) *Adapter {
	return &Adapter{
		capability: capability,
		recorder:   rec,
		transcribe: tr,
		language:   language,
	}
}

// Supported reports whether the host environment can capture audio.
func (a *Adapter) Supported() bool { return a.capability.Supported }

// State returns the adapter state.
func (a *Adapter) State() State { return a.state }

// Transcript returns the accumulated transcript.
func (a *Adapter) Transcript() string { return a.transcript }

// Start begins a recording session. A no-op while already Recording. On
// permission or capability failure the adapter stays Idle and reports
// ErrMicrophoneUnavailable.
func (a *Adapter) Start(ctx context.Context) error {
	if a.state == Recording {
		return nil
	}
	if !a.capability.Supported || a.recorder == nil {
		return ErrMicrophoneUnavailable
	}
	if err := a.recorder.Start(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMicrophoneUnavailable, err)
	}
	a.state = Recording
	return nil
}

// Stop ends the session, transcribes the buffered audio, and appends the
// returned text to the previous transcript content. Every path returns to
// Idle; the adapter is never left stuck in Recording.
func (a *Adapter) Stop(ctx context.Context) Result {
	if a.state != Recording {
		return Result{Cancelled: true}
	}
	a.state = Idle

	audio, err := a.recorder.Stop()
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrTranscription, err)}
	}
	if len(audio) == 0 {
		return Result{Err: fmt.Errorf("%w: no audio recorded", ErrTranscription)}
	}

	text, err := a.transcribe.Transcribe(ctx, audio, a.language)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrTranscription, err)}
	}

	a.transcript = joinTranscript(a.transcript, text)
	return Result{Transcript: a.transcript}
}

// Reset clears only the internal transcript accumulator. It never mutates
// the externally visible field value.
func (a *Adapter) Reset() {
	a.transcript = ""
}

// Separator returns the text to append to a field before dictation resumes,
// so transcribed words do not concatenate onto existing ones.
func Separator(field string) string {
	if field == "" {
		return ""
	}
	return " "
}

func joinTranscript(prev, next string) string {
	next = strings.TrimSpace(next)
	if prev == "" {
		return next
	}
	if next == "" {
		return prev
	}
	return prev + " " + next
}
