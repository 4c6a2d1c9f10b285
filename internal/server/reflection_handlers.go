package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sabrisig-create/sadar/internal/auth"
	"github.com/sabrisig-create/sadar/internal/prompt"
	"github.com/sabrisig-create/sadar/internal/reflection"
	"github.com/sabrisig-create/sadar/internal/store"
)

// maxAudioBytes bounds one uploaded recording.
const maxAudioBytes = 25 << 20

type generateRequest struct {
	Scene             string `json:"scene"`
	TherapistAffect   string `json:"therapistAffect"`
	InitialHypothesis string `json:"initialHypothesis"`
}

type reflectionEnvelope struct {
	Reflection *reflection.Reflection `json:"reflection"`
}

type reflectionListEnvelope struct {
	Reflections []*reflection.Reflection `json:"reflections"`
}

func (s *Server) handleGenerateReflection(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Scene == "" || req.TherapistAffect == "" || req.InitialHypothesis == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	draft := reflection.Draft{
		Scene:             req.Scene,
		TherapistAffect:   req.TherapistAffect,
		InitialHypothesis: req.InitialHypothesis,
	}

	userID := auth.UserIDFromContext(r.Context())
	log := s.log.WithUser(userID)
	start := time.Now()

	p := prompt.Build(r.Context(), s.store, draft)
	aiResponse, err := s.chat.Generate(r.Context(), p.System, p.User)
	if err != nil {
		log.Error("generate_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "AI service unavailable")
		return
	}

	// Persisting through this endpoint is the attestation that the input
	// was de-identified; the client gate enforces it before submitting.
	ref, err := s.store.InsertReflection(r.Context(), userID, draft, aiResponse, true)
	if err != nil {
		log.Error("reflection_save_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "Failed to save reflection")
		return
	}

	log.TimedEvent("reflection_generated", start, map[string]any{"reflection": ref.ID})
	writeJSON(w, http.StatusOK, reflectionEnvelope{Reflection: ref})
}

func (s *Server) handleTranscribeAudio(w http.ResponseWriter, r *http.Request) {
	if s.stt == nil {
		writeError(w, http.StatusServiceUnavailable, "Transcription not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil || len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "audio file is empty")
		return
	}
	language := r.FormValue("language")

	userID := auth.UserIDFromContext(r.Context())
	start := time.Now()

	transcript, err := s.stt.Transcribe(r.Context(), audio, language)
	if err != nil {
		s.log.WithUser(userID).Error("transcribe_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "Transcription failed")
		return
	}

	s.log.WithUser(userID).TimedEvent("audio_transcribed", start, map[string]any{
		"bytes": len(audio),
	})
	writeJSON(w, http.StatusOK, map[string]string{"transcript": transcript})
}

func (s *Server) handleListReflections(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	userID := auth.UserIDFromContext(r.Context())
	refs, err := s.store.ListReflections(r.Context(), userID, limit)
	if err != nil {
		s.log.WithUser(userID).Error("reflection_list_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if refs == nil {
		refs = []*reflection.Reflection{}
	}
	writeJSON(w, http.StatusOK, reflectionListEnvelope{Reflections: refs})
}

func (s *Server) handleGetReflection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	ref, err := s.store.GetReflection(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Reflection not found")
			return
		}
		s.log.WithUser(userID).Error("reflection_get_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, reflectionEnvelope{Reflection: ref})
}
