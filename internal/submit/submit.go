// Package submit implements the submission controller: one remote generation
// call per attempt, with local fallback persistence on failure.
package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/sabrisig-create/sadar/internal/logging"
	"github.com/sabrisig-create/sadar/internal/reflection"
)

// Generator is the remote generation endpoint boundary.
type Generator interface {
	GenerateReflection(ctx context.Context, draft reflection.Draft) (*reflection.Reflection, error)
}

// FallbackWriter persists the local recovery draft.
type FallbackWriter interface {
	Save(d reflection.Draft, at time.Time) error
}

// UserNotice is the actionable text shown on a failed submission. It is
// deliberately distinct from validation messaging: the notes are safe, the
// remote call is what failed.
const UserNotice = "Le tue note sono state salvate localmente. Riprova più tardi."

// RemoteError reports a failed submission round trip. The fallback write has
// already been attempted by the time the caller sees this.
type RemoteError struct {
	Cause         error
	FallbackSaved bool
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote submission failed: %v", e.Cause)
}

func (e *RemoteError) Unwrap() error { return e.Cause }

// Controller performs the submission round trip. It never retries: retry is
// a manual user action, re-running the wizard.
type Controller struct {
	generator Generator
	fallback  FallbackWriter
	log       *logging.Logger
	now       func() time.Time
	onSuccess func(*reflection.Reflection)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the timestamp source (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOnSuccess registers the list-refresh hook fired after a successful
// round trip.
func WithOnSuccess(fn func(*reflection.Reflection)) Option {
	return func(c *Controller) { c.onSuccess = fn }
}

// WithLogger overrides the controller's logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New builds a Controller.
func New(g Generator, fb FallbackWriter, opts ...Option) *Controller {
	c := &Controller{
		generator: g,
		fallback:  fb,
		log:       logging.New("submit"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends the draft to the generation endpoint. Exactly one remote call
// per invocation. On any failure the fallback slot is overwritten with the
// three fields and the attempt timestamp, and a RemoteError is returned; on
// success the returned record is canonical and the fallback slot is left
// completely untouched.
func (c *Controller) Submit(ctx context.Context, draft reflection.Draft) (*reflection.Reflection, error) {
	// The sequencer already gated each stage; a draft that fails here is a
	// programming error, surfaced as a validation error with no fallback.
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	attemptedAt := c.now()
	start := time.Now()

	rec, err := c.generator.GenerateReflection(ctx, draft)
	if err != nil {
		saved := true
		if fbErr := c.fallback.Save(draft, attemptedAt); fbErr != nil {
			saved = false
			c.log.Error("fallback_write_failed", nil, fbErr)
		}
		c.log.Error("submit_failed", map[string]any{"fallback_saved": saved}, err)
		return nil, &RemoteError{Cause: err, FallbackSaved: saved}
	}

	c.log.TimedEvent("submit_ok", start, map[string]any{"reflection_id": rec.ID})
	if c.onSuccess != nil {
		c.onSuccess(rec)
	}
	return rec, nil
}
