package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	ResetEnv()

	os.Setenv("SADAR_API_URL", "http://testhost:9999")
	os.Setenv("SADAR_JWT_SECRET", "s3cret")
	os.Setenv("SADAR_DICTATION_LANG", "en")
	defer func() {
		os.Unsetenv("SADAR_API_URL")
		os.Unsetenv("SADAR_JWT_SECRET")
		os.Unsetenv("SADAR_DICTATION_LANG")
		ResetEnv()
	}()

	env := Env()

	assert.Equal(t, "http://testhost:9999", env.APIBaseURL)
	assert.Equal(t, "s3cret", env.JWTSecret)
	assert.Equal(t, "en", env.DictationLang)
}

func TestEnvDefaults(t *testing.T) {
	ResetEnv()

	os.Unsetenv("SADAR_API_URL")
	os.Unsetenv("SADAR_PORT")
	os.Unsetenv("SADAR_MODEL")
	os.Unsetenv("SADAR_DICTATION_LANG")
	defer ResetEnv()

	env := Env()

	assert.Equal(t, "http://localhost:8787", env.APIBaseURL)
	assert.Equal(t, "8787", env.Port)
	assert.Equal(t, "gpt-4o-mini", env.Model)
	assert.Equal(t, "it", env.DictationLang)
}

func TestEnvSingleton(t *testing.T) {
	ResetEnv()
	defer ResetEnv()

	env1 := Env()
	env2 := Env()

	assert.Same(t, env1, env2)
}

func TestResetEnv(t *testing.T) {
	os.Setenv("SADAR_MODEL", "first")
	ResetEnv()
	assert.Equal(t, "first", Env().Model)

	os.Setenv("SADAR_MODEL", "second")
	ResetEnv()
	assert.Equal(t, "second", Env().Model)

	os.Unsetenv("SADAR_MODEL")
	ResetEnv()
}

func TestGetEnvDefault(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback string
		want     string
	}{
		{"env set", "value", "default", "value"},
		{"env empty", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv("SADAR_TEST_KEY", tt.envVal)
				defer os.Unsetenv("SADAR_TEST_KEY")
			} else {
				os.Unsetenv("SADAR_TEST_KEY")
			}
			assert.Equal(t, tt.want, getEnvDefault("SADAR_TEST_KEY", tt.fallback))
		})
	}
}

func TestPaths(t *testing.T) {
	ResetPaths()
	defer ResetPaths()

	p := GetPaths()

	assert.True(t, strings.HasSuffix(p.Home, ".sadar"))
	assert.Equal(t, filepath.Join(p.Home, "data"), p.Data)
	assert.Equal(t, filepath.Join(p.Home, "session.json"), p.SessionFile)
	assert.Equal(t, filepath.Join(p.Home, "draft_reflection.json"), p.DraftFile)
	assert.Equal(t, filepath.Join(p.Home, "exports", "x.md"), Path("exports", "x.md"))
}
