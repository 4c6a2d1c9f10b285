package dictation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	startErr error
	stopErr  error
	audio    []byte
	starts   int
}

func (f *fakeRecorder) Start(context.Context) error { f.starts++; return f.startErr }
func (f *fakeRecorder) Stop() ([]byte, error)       { return f.audio, f.stopErr }

type fakeTranscriber struct {
	text string
	err  error
	got  []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte, _ string) (string, error) {
	f.got = audio
	return f.text, f.err
}

func supported() Capability { return Capability{Supported: true, Command: []string{"rec"}} }

func TestStartStopRoundTrip(t *testing.T) {
	rec := &fakeRecorder{audio: []byte("wav")}
	tr := &fakeTranscriber{text: "il paziente tace"}
	a := New(supported(), rec, tr, "it")

	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, Recording, a.State())

	res := a.Stop(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, "il paziente tace", res.Transcript)
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, []byte("wav"), tr.got)
}

func TestStartWhileRecordingIsNoOp(t *testing.T) {
	rec := &fakeRecorder{audio: []byte("wav")}
	a := New(supported(), rec, &fakeTranscriber{}, "it")

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, 1, rec.starts)
}

func TestUnsupportedCapability(t *testing.T) {
	a := New(Capability{}, nil, &fakeTranscriber{}, "it")

	err := a.Start(context.Background())
	assert.ErrorIs(t, err, ErrMicrophoneUnavailable)
	assert.Equal(t, Idle, a.State())
}

func TestPermissionDenied(t *testing.T) {
	rec := &fakeRecorder{startErr: errors.New("permission denied")}
	a := New(supported(), rec, &fakeTranscriber{}, "it")

	err := a.Start(context.Background())
	assert.ErrorIs(t, err, ErrMicrophoneUnavailable)
	assert.Equal(t, Idle, a.State())
}

func TestTranscriptionFailureReturnsToIdle(t *testing.T) {
	rec := &fakeRecorder{audio: []byte("wav")}
	tr := &fakeTranscriber{err: errors.New("http 502")}
	a := New(supported(), rec, tr, "it")

	require.NoError(t, a.Start(context.Background()))
	res := a.Stop(context.Background())

	assert.ErrorIs(t, res.Err, ErrTranscription)
	assert.Empty(t, res.Transcript)
	assert.Equal(t, Idle, a.State())
	assert.Empty(t, a.Transcript())
}

func TestEmptyAudioIsTranscriptionFailure(t *testing.T) {
	rec := &fakeRecorder{audio: nil}
	a := New(supported(), rec, &fakeTranscriber{}, "it")

	require.NoError(t, a.Start(context.Background()))
	res := a.Stop(context.Background())

	assert.ErrorIs(t, res.Err, ErrTranscription)
	assert.Equal(t, Idle, a.State())
}

func TestStopWhileIdleIsCancelled(t *testing.T) {
	a := New(supported(), &fakeRecorder{}, &fakeTranscriber{}, "it")

	res := a.Stop(context.Background())
	assert.True(t, res.Cancelled)
	assert.NoError(t, res.Err)
}

func TestTranscriptAccumulates(t *testing.T) {
	rec := &fakeRecorder{audio: []byte("wav")}
	tr := &fakeTranscriber{text: "prima parte"}
	a := New(supported(), rec, tr, "it")

	require.NoError(t, a.Start(context.Background()))
	res := a.Stop(context.Background())
	require.NoError(t, res.Err)

	tr.text = "seconda parte"
	require.NoError(t, a.Start(context.Background()))
	res = a.Stop(context.Background())
	require.NoError(t, res.Err)

	assert.Equal(t, "prima parte seconda parte", res.Transcript)
}

func TestResetClearsOnlyAccumulator(t *testing.T) {
	rec := &fakeRecorder{audio: []byte("wav")}
	tr := &fakeTranscriber{text: "qualcosa"}
	a := New(supported(), rec, tr, "it")

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.Stop(context.Background()).Err)
	require.NotEmpty(t, a.Transcript())

	a.Reset()
	assert.Empty(t, a.Transcript())
	assert.Equal(t, Idle, a.State())
}

func TestSeparator(t *testing.T) {
	assert.Equal(t, "", Separator(""))
	assert.Equal(t, " ", Separator("testo esistente"))
}

func TestDetectOverrideMissingBinary(t *testing.T) {
	cap := Detect("definitely-not-a-real-binary-xyz --flag")
	assert.False(t, cap.Supported)
}

func TestDetectOverridePresentBinary(t *testing.T) {
	// "sh" exists everywhere the tests run.
	cap := Detect("sh -c")
	assert.True(t, cap.Supported)
	assert.Equal(t, []string{"sh", "-c"}, cap.Command)
}
