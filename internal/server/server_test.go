package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabrisig-create/sadar/internal/auth"
	"github.com/sabrisig-create/sadar/internal/logging"
	"github.com/sabrisig-create/sadar/internal/reflection"
	"github.com/sabrisig-create/sadar/internal/store"
)

type fakeChat struct {
	out    string
	err    error
	system string
	user   string
	calls  int
}

func (f *fakeChat) Generate(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system = system
	f.user = user
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeTranscriber struct {
	out string
	err error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func newTestServer(t *testing.T, chat *fakeChat, stt Transcriber) http.Handler {
	t.Helper()

	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	log := logging.New("server").WithOutput(io.Discard)
	return New(st, tokens, chat, stt, log)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signupToken(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	w := doJSON(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignupAndSignin(t *testing.T) {
	h := newTestServer(t, &fakeChat{}, nil)

	w := doJSON(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email": "Anna@Example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "anna@example.com", created.User.Email)

	// Duplicate email.
	w = doJSON(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email": "anna@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Short password.
	w = doJSON(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email": "b@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 8 characters")

	// Signin happy path.
	w = doJSON(t, h, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "anna@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password and unknown account answer identically.
	w = doJSON(t, h, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "anna@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongBody := w.Body.String()

	w = doJSON(t, h, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongBody, w.Body.String())
}

func TestUpdatePassword(t *testing.T) {
	h := newTestServer(t, &fakeChat{}, nil)
	token := signupToken(t, h, "c@example.com")

	w := doJSON(t, h, http.MethodPost, "/v1/auth/update-password", token, map[string]string{
		"password": "nuova-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "c@example.com", "password": "nuova-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "c@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetPasswordNeverRevealsAccounts(t *testing.T) {
	h := newTestServer(t, &fakeChat{}, nil)
	signupToken(t, h, "known@example.com")

	for _, email := range []string{"known@example.com", "unknown@example.com"} {
		w := doJSON(t, h, http.MethodPost, "/v1/auth/reset-password", "", map[string]string{
			"email": email,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGenerateReflection(t *testing.T) {
	chat := &fakeChat{out: "TRE CONTRO-IPOTESI\n1. prova"}
	h := newTestServer(t, chat, nil)
	token := signupToken(t, h, "d@example.com")

	draft := map[string]string{
		"scene":             "Il paziente ha interrotto la seduta con dieci minuti di anticipo",
		"therapistAffect":   "frustrazione",
		"initialHypothesis": "Sta evitando il tema emerso nella seduta",
	}

	w := doJSON(t, h, http.MethodPost, "/v1/functions/generate-reflection", token, draft)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reflection reflection.Reflection `json:"reflection"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Reflection.ID)
	assert.Equal(t, draft["scene"], resp.Reflection.Scene)
	assert.Equal(t, chat.out, resp.Reflection.AIResponse)
	assert.True(t, resp.Reflection.DeIDConfirmed)
	assert.False(t, resp.Reflection.CreatedAt.IsZero())

	assert.Equal(t, 1, chat.calls)
	assert.Contains(t, chat.system, "SADAR")
	assert.Contains(t, chat.user, draft["initialHypothesis"])
}

func TestGenerateReflectionValidation(t *testing.T) {
	chat := &fakeChat{out: "ok"}
	h := newTestServer(t, chat, nil)
	token := signupToken(t, h, "e@example.com")

	w := doJSON(t, h, http.MethodPost, "/v1/functions/generate-reflection", token, map[string]string{
		"scene": "solo la scena",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required fields")
	assert.Zero(t, chat.calls)
}

func TestGenerateReflectionBackendFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("connection refused")}
	h := newTestServer(t, chat, nil)
	token := signupToken(t, h, "f@example.com")

	w := doJSON(t, h, http.MethodPost, "/v1/functions/generate-reflection", token, map[string]string{
		"scene":             "scena",
		"therapistAffect":   "ansia",
		"initialHypothesis": "ipotesi",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "AI service unavailable")
}

func TestGenerateReflectionRequiresAuth(t *testing.T) {
	h := newTestServer(t, &fakeChat{}, nil)

	w := doJSON(t, h, http.MethodPost, "/v1/functions/generate-reflection", "", map[string]string{
		"scene": "s", "therapistAffect": "a", "initialHypothesis": "h",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing authorization header")

	req := httptest.NewRequest(http.MethodPost, "/v1/functions/generate-reflection", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")
}

func TestReflectionHistoryIsPerUser(t *testing.T) {
	chat := &fakeChat{out: "risposta"}
	h := newTestServer(t, chat, nil)
	tokenA := signupToken(t, h, "a@example.com")
	tokenB := signupToken(t, h, "b@example.com")

	draft := map[string]string{
		"scene": "scena", "therapistAffect": "colpa", "initialHypothesis": "ipotesi",
	}
	w := doJSON(t, h, http.MethodPost, "/v1/functions/generate-reflection", tokenA, draft)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Reflection reflection.Reflection `json:"reflection"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Owner sees it.
	w = doJSON(t, h, http.MethodGet, "/v1/reflections", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listA struct {
		Reflections []reflection.Reflection `json:"reflections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listA))
	require.Len(t, listA.Reflections, 1)

	w = doJSON(t, h, http.MethodGet, "/v1/reflections/"+created.Reflection.ID, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another account sees neither.
	w = doJSON(t, h, http.MethodGet, "/v1/reflections", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listB struct {
		Reflections []reflection.Reflection `json:"reflections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listB))
	assert.Empty(t, listB.Reflections)

	w = doJSON(t, h, http.MethodGet, "/v1/reflections/"+created.Reflection.ID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListReflectionsLimit(t *testing.T) {
	chat := &fakeChat{out: "risposta"}
	h := newTestServer(t, chat, nil)
	token := signupToken(t, h, "g@example.com")

	for i := 0; i < 3; i++ {
		w := doJSON(t, h, http.MethodPost, "/v1/functions/generate-reflection", token, map[string]string{
			"scene": "scena", "therapistAffect": "noia", "initialHypothesis": "ipotesi",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, h, http.MethodGet, "/v1/reflections?limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Reflections []reflection.Reflection `json:"reflections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Reflections, 2)

	w = doJSON(t, h, http.MethodGet, "/v1/reflections?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranscribeAudio(t *testing.T) {
	h := newTestServer(t, &fakeChat{}, &fakeTranscriber{out: "testo dettato"})
	token := signupToken(t, h, "h@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", "recording.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF...."))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("language", "it"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/functions/transcribe-audio", &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Transcript string `json:"transcript"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "testo dettato", resp.Transcript)
}

func TestTranscribeAudioNotConfigured(t *testing.T) {
	h := newTestServer(t, &fakeChat{}, nil)
	token := signupToken(t, h, "i@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_, err := mw.CreateFormFile("audio", "recording.wav")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/functions/transcribe-audio", &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
