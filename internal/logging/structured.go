// Package logging provides structured JSON logging for SADAR components.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp string         `json:"ts"`
	Level     Level          `json:"level"`
	Component string         `json:"component"`
	Event     string         `json:"event"`
	User      string         `json:"user,omitempty"`
	Duration  int64          `json:"duration_ms,omitempty"`
	Error     string         `json:"error,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Logger provides structured logging
type Logger struct {
	component string
	user      string
	out       io.Writer
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{
		component: component,
		out:       os.Stderr,
	}
}

// WithUser sets the user context
func (l *Logger) WithUser(user string) *Logger {
	return &Logger{
		component: l.component,
		user:      user,
		out:       l.out,
	}
}

// WithOutput redirects log output (for testing).
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return &Logger{
		component: l.component,
		user:      l.user,
		out:       w,
	}
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]any, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		User:      l.user,
		Extra:     extra,
	}

	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]any) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]any) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]any, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]any, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]any) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     event,
		User:      l.user,
		Duration:  time.Since(start).Milliseconds(),
		Extra:     extra,
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}
