// Package server exposes the HTTP API: account management, AI-assisted
// reflection generation, audio transcription and reflection history.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sabrisig-create/sadar/internal/auth"
	"github.com/sabrisig-create/sadar/internal/llm"
	"github.com/sabrisig-create/sadar/internal/logging"
	"github.com/sabrisig-create/sadar/internal/store"
)

// Transcriber turns one recording into text. Nil means transcription is not
// configured and the endpoint answers 503.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// Server holds the handler dependencies.
type Server struct {
	store  *store.Store
	tokens *auth.TokenManager
	chat   llm.Generator
	stt    Transcriber
	log    *logging.Logger
}

// New wires the API routes. Every /v1/functions and /v1/reflections route
// sits behind the bearer-token middleware.
func New(st *store.Store, tokens *auth.TokenManager, chat llm.Generator, stt Transcriber, log *logging.Logger) http.Handler {
	if log == nil {
		log = logging.New("server")
	}
	s := &Server{store: st, tokens: tokens, chat: chat, stt: stt, log: log}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", s.handleHealth)

	mux.HandleFunc("POST /v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /v1/auth/signin", s.handleSignin)
	mux.HandleFunc("POST /v1/auth/reset-password", s.handleResetPassword)

	authed := func(h http.HandlerFunc) http.Handler {
		return tokens.Middleware(h)
	}
	mux.Handle("POST /v1/auth/signout", authed(s.handleSignout))
	mux.Handle("POST /v1/auth/update-password", authed(s.handleUpdatePassword))
	mux.Handle("POST /v1/functions/generate-reflection", authed(s.handleGenerateReflection))
	mux.Handle("POST /v1/functions/transcribe-audio", authed(s.handleTranscribeAudio))
	mux.Handle("GET /v1/reflections", authed(s.handleListReflections))
	mux.Handle("GET /v1/reflections/{id}", authed(s.handleGetReflection))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
