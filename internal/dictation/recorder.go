package dictation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Capability describes whether audio capture is possible on this host.
// Resolved once at startup and passed into the adapter's construction.
type Capability struct {
	Supported bool
	// Command is the capture command line used when Supported.
	Command []string
}

// capture candidates, probed in order. Each must record until killed and
// write a wav file at the final argument.
var captureCandidates = [][]string{
	{"sox", "-d", "-q", "-t", "wav"},
	{"arecord", "-q", "-f", "cd", "-t", "wav"},
	{"ffmpeg", "-loglevel", "quiet", "-f", "pulse", "-i", "default"},
}

// Detect resolves the capture capability. An override command (from
// SADAR_RECORDER_CMD) wins; otherwise known capture tools are probed on PATH.
func Detect(override string) Capability {
	if override != "" {
		parts := strings.Fields(override)
		if len(parts) > 0 {
			if _, err := exec.LookPath(parts[0]); err == nil {
				return Capability{Supported: true, Command: parts}
			}
		}
		return Capability{}
	}

	for _, cand := range captureCandidates {
		if _, err := exec.LookPath(cand[0]); err == nil {
			return Capability{Supported: true, Command: cand}
		}
	}
	return Capability{}
}

// CommandRecorder shells out to an external capture tool, buffering audio in
// a temp wav file between Start and Stop.
type CommandRecorder struct {
	command []string

	cmd  *exec.Cmd
	path string
}

// NewCommandRecorder builds a recorder over the detected capture command.
func NewCommandRecorder(capability Capability) *CommandRecorder {
	return &CommandRecorder{command: capability.Command}
}

// Start spawns the capture process. Failure to spawn reads as a permission
// or device problem and leaves the recorder inert.
func (r *CommandRecorder) Start(ctx context.Context) error {
	if len(r.command) == 0 {
		return errors.New("no capture command")
	}
	if r.cmd != nil {
		return nil
	}

	f, err := os.CreateTemp("", "sadar-rec-*.wav")
	if err != nil {
		return fmt.Errorf("create capture file: %w", err)
	}
	r.path = f.Name()
	f.Close()

	args := append(append([]string{}, r.command[1:]...), r.path)
	cmd := exec.CommandContext(ctx, r.command[0], args...)
	if err := cmd.Start(); err != nil {
		os.Remove(r.path)
		r.path = ""
		return fmt.Errorf("start capture: %w", err)
	}
	r.cmd = cmd
	return nil
}

// Stop interrupts the capture process and returns the buffered audio.
func (r *CommandRecorder) Stop() ([]byte, error) {
	if r.cmd == nil {
		return nil, errors.New("not recording")
	}
	defer func() {
		if r.path != "" {
			os.Remove(r.path)
		}
		r.cmd = nil
		r.path = ""
	}()

	// Interrupt lets the tool finalize the wav header; fall back to Kill.
	if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = r.cmd.Process.Kill()
	}

	done := make(chan struct{})
	go func() {
		_ = r.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		_ = r.cmd.Process.Kill()
		<-done
	}

	audio, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read capture file: %w", err)
	}
	return audio, nil
}

var _ Recorder = (*CommandRecorder)(nil)
