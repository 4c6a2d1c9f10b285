// Package config provides centralized configuration management.
// All SADAR environment lookups go through here instead of scattered os.Getenv calls.
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// SadarEnv holds all SADAR environment variables.
type SadarEnv struct {
	// APIBaseURL is the SADAR API server base URL (SADAR_API_URL)
	APIBaseURL string

	// Port is the listen port for sadar-server (SADAR_PORT)
	Port string

	// JWTSecret signs session tokens on the server (SADAR_JWT_SECRET)
	JWTSecret string

	// OpenAIKey is the chat backend API key (OPENAI_API_KEY)
	OpenAIKey string

	// OpenAIBaseURL overrides the chat backend base URL (OPENAI_BASE_URL)
	OpenAIBaseURL string

	// Model is the chat backend model (SADAR_MODEL)
	Model string

	// DictationLang is the transcription language code (SADAR_DICTATION_LANG)
	DictationLang string

	// RecorderCmd overrides the audio capture command (SADAR_RECORDER_CMD)
	RecorderCmd string
}

var (
	env     *SadarEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *SadarEnv {
	envOnce.Do(func() {
		env = &SadarEnv{
			APIBaseURL:    getEnvDefault("SADAR_API_URL", "http://localhost:8787"),
			Port:          getEnvDefault("SADAR_PORT", "8787"),
			JWTSecret:     os.Getenv("SADAR_JWT_SECRET"),
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:         getEnvDefault("SADAR_MODEL", "gpt-4o-mini"),
			DictationLang: getEnvDefault("SADAR_DICTATION_LANG", "it"),
			RecorderCmd:   os.Getenv("SADAR_RECORDER_CMD"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Paths holds standard SADAR directory paths.
type Paths struct {
	// Home is the SADAR home directory (~/.sadar)
	Home string

	// Data is the server data directory (~/.sadar/data)
	Data string

	// Exports is the report export directory (~/.sadar/exports)
	Exports string

	// SessionFile holds the client session token (~/.sadar/session.json)
	SessionFile string

	// DraftFile is the single local fallback draft slot (~/.sadar/draft_reflection.json)
	DraftFile string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		sadarHome := filepath.Join(home, ".sadar")

		paths = &Paths{
			Home:        sadarHome,
			Data:        filepath.Join(sadarHome, "data"),
			Exports:     filepath.Join(sadarHome, "exports"),
			SessionFile: filepath.Join(sadarHome, "session.json"),
			DraftFile:   filepath.Join(sadarHome, "draft_reflection.json"),
		}
	})
	return paths
}

// ResetPaths resets the cached paths (for testing).
func ResetPaths() {
	pathsOnce = sync.Once{}
	paths = nil
}

// Path returns a path under the SADAR home directory.
func Path(parts ...string) string {
	p := GetPaths()
	allParts := append([]string{p.Home}, parts...)
	return filepath.Join(allParts...)
}

// EnsureDir creates a directory if it doesn't exist.
// Reflection notes are sensitive, so directories are owner-only.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}
