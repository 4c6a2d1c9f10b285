// Package api is the HTTP client for the SADAR backend. It carries the
// bearer token from the stored session and exposes one method per endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/sabrisig-create/sadar/internal/reflection"
)

// HTTPClient abstracts *http.Client for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// User mirrors the account payload returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a signup or signin.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Client talks to one backend. Token may be empty for the public auth
// endpoints; everything else requires it.
type Client struct {
	baseURL string
	token   string
	client  HTTPClient
}

// New builds a client for the given base URL (e.g. http://localhost:8787).
func New(baseURL, token string) *Client {
	return NewWithClient(baseURL, token, &http.Client{})
}

// NewWithClient injects the HTTP client (for testing).
func NewWithClient(baseURL, token string, client HTTPClient) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

// WithToken returns a copy bound to a session token.
func (c *Client) WithToken(token string) *Client {
	return &Client{baseURL: c.baseURL, token: token, client: c.client}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// StatusCode returns the HTTP status of an API error, or 0 if the error did
// not come from an HTTP response.
func StatusCode(err error) int {
	if ae, ok := err.(*apiError); ok {
		return ae.Status
	}
	return 0
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &parsed)
		return &apiError{Status: resp.StatusCode, Message: parsed.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// Signup registers a new account and returns its session.
func (c *Client) Signup(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	if err := c.postJSON(ctx, "/v1/auth/signup", map[string]string{
		"email": email, "password": password,
	}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Signin authenticates an existing account.
func (c *Client) Signin(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	if err := c.postJSON(ctx, "/v1/auth/signin", map[string]string{
		"email": email, "password": password,
	}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Signout invalidates the session server-side (best effort; tokens are
// stateless, the caller still clears the local session file).
func (c *Client) Signout(ctx context.Context) error {
	return c.postJSON(ctx, "/v1/auth/signout", map[string]string{}, nil)
}

// ResetPassword asks the backend to start a password reset for the email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/v1/auth/reset-password", map[string]string{"email": email}, nil)
}

// UpdatePassword replaces the authenticated account's password.
func (c *Client) UpdatePassword(ctx context.Context, password string) error {
	return c.postJSON(ctx, "/v1/auth/update-password", map[string]string{"password": password}, nil)
}

// GenerateReflection runs one remote generation round trip for a complete
// draft and returns the persisted reflection.
func (c *Client) GenerateReflection(ctx context.Context, draft reflection.Draft) (*reflection.Reflection, error) {
	var resp struct {
		Reflection *reflection.Reflection `json:"reflection"`
	}
	if err := c.postJSON(ctx, "/v1/functions/generate-reflection", draft, &resp); err != nil {
		return nil, err
	}
	if resp.Reflection == nil {
		return nil, fmt.Errorf("empty reflection in response")
	}
	return resp.Reflection, nil
}

// Transcribe uploads a recording and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("audio", "recording.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
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

	var resp struct {
		Transcript string `json:"transcript"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/functions/transcribe-audio", &body, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	return resp.Transcript, nil
}

// ListReflections returns the account's history, newest first. A zero limit
// returns everything.
func (c *Client) ListReflections(ctx context.Context, limit int) ([]*reflection.Reflection, error) {
	path := "/v1/reflections"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp struct {
		Reflections []*reflection.Reflection `json:"reflections"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Reflections, nil
}

// GetReflection fetches one reflection by id.
func (c *Client) GetReflection(ctx context.Context, id string) (*reflection.Reflection, error) {
	var resp struct {
		Reflection *reflection.Reflection `json:"reflection"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/reflections/"+id, nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Reflection == nil {
		return nil, fmt.Errorf("empty reflection in response")
	}
	return resp.Reflection, nil
}
