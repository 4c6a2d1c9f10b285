package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const whisperAPIURL = "https://api.openai.com/v1/audio/transcriptions"

// Whisper calls an OpenAI-compatible audio transcription endpoint.
type Whisper struct {
	apiKey  string
	baseURL string
	model   string
	client  HTTPClient
}

// NewWhisper builds the transcription client. An empty baseURLOverride
// targets the public API.
func NewWhisper(apiKey, baseURLOverride string) *Whisper {
	return NewWhisperWithClient(apiKey, baseURLOverride, &http.Client{})
}

// NewWhisperWithClient injects the HTTP client (for testing).
func NewWhisperWithClient(apiKey, baseURLOverride string, client HTTPClient) *Whisper {
	baseURL := baseURLOverride
	if baseURL == "" {
		baseURL = whisperAPIURL
	} else {
		baseURL = strings.TrimRight(baseURL, "/")
		if !strings.HasSuffix(baseURL, "/audio/transcriptions") {
			if strings.HasSuffix(baseURL, "/v1") {
				baseURL += "/audio/transcriptions"
			} else {
				baseURL += "/v1/audio/transcriptions"
			}
		}
	}
	return &Whisper{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   "whisper-1",
		client:  client,
	}
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transcribe sends one recording and returns the recognized text.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "recording.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := mw.WriteField("model", w.model); err != nil {
		return "", err
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription backend: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transcription backend: read response: %w", err)
	}

	var parsed transcriptionResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != nil {
			return "", fmt.Errorf("transcription backend: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("transcription backend: unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("transcription backend: decode response: %w", err)
	}
	return parsed.Text, nil
}
