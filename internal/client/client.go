// Package client is a typed Go client for the training journal HTTP API.
//
// HOW A CALL WORKS:
//  1. The request body (if any) is encoded as JSON.
//  2. If the CredentialStore holds a token it is sent as
//     "Authorization: Bearer <token>".
//  3. A 2xx response is decoded into the result type; 204 has no body.
//  4. Anything else is decoded from the API's {"error":{...}} envelope into
//     an *APIError, so callers can switch on Code.
//
// Register and Login save the returned token in the store; Logout clears it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/validate"
)

// DefaultTimeout bounds every request made with the default http.Client.
const DefaultTimeout = 15 * time.Second

// ErrUnavailable is returned when the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an *APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// User is the public account view returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResult is the body of a successful register or login.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// SessionInput creates a session. Date accepts "2025-01-03" or RFC 3339.
type SessionInput struct {
	Date        string  `json:"date"`
	Feeling     int     `json:"feeling"`
	Performance int     `json:"performance"`
	Rating      int     `json:"rating"`
	Feedback    *string `json:"feedback,omitempty"`
}

// SessionPatch updates a session. Nil fields are left unchanged.
//
// Feedback is the one field that can be cleared, so it needs a third state:
// leave it zero to keep the current text, validate.Some("...") to replace it
// and ClearFeedback to send null.
type SessionPatch struct {
	Date        *string           `json:"date,omitempty"`
	Feeling     *int              `json:"feeling,omitempty"`
	Performance *int              `json:"performance,omitempty"`
	Rating      *int              `json:"rating,omitempty"`
	Feedback    validate.Optional `json:"feedback,omitzero"`
}

// ClearFeedback is the SessionPatch.Feedback value that removes the text.
var ClearFeedback = validate.Some(nil)

// ThemeInput creates a theme.
type ThemeInput struct {
	Name    string `json:"name"`
	StartAt string `json:"startAt"`
	EndAt   string `json:"endAt"`
}

// TaskPatch updates a task. Nil fields are left unchanged.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Client talks to one API server.
type Client struct {
	baseURL string
	http    *http.Client
	store   CredentialStore
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (for custom transports
// or timeouts).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for baseURL (e.g. "http://localhost:3000").
func New(baseURL string, store CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// === Auth ===

// Register creates an account and stores its token.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	if err := c.store.Set(out.AccessToken); err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}
	return &out, nil
}

// Logout forgets the stored token. Tokens are stateless, so the server is
// not contacted.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Me returns the user the stored token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// === Sessions ===

func (c *Client) ListSessions(ctx context.Context) ([]model.TrainingSession, error) {
	var out []model.TrainingSession
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPastSessions returns sessions dated up to now.
func (c *Client) ListPastSessions(ctx context.Context) ([]model.TrainingSession, error) {
	var out []model.TrainingSession
	if err := c.do(ctx, http.MethodGet, "/sessions/past", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*model.TrainingSession, error) {
	var out model.TrainingSession
	if err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSession(ctx context.Context, in SessionInput) (*model.TrainingSession, error) {
	var out model.TrainingSession
	if err := c.do(ctx, http.MethodPost, "/sessions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSession(ctx context.Context, id string, patch SessionPatch) (*model.TrainingSession, error) {
	var out model.TrainingSession
	if err := c.do(ctx, http.MethodPut, "/sessions/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil, nil)
}

// === Notes ===

func notesPath(sessionID string) string {
	return "/sessions/" + url.PathEscape(sessionID) + "/notes"
}

func (c *Client) ListNotes(ctx context.Context, sessionID string) ([]model.Note, error) {
	var out []model.Note
	if err := c.do(ctx, http.MethodGet, notesPath(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateNote(ctx context.Context, sessionID, text string) (*model.Note, error) {
	var out model.Note
	if err := c.do(ctx, http.MethodPost, notesPath(sessionID), map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNote(ctx context.Context, sessionID, noteID, text string) (*model.Note, error) {
	var out model.Note
	path := notesPath(sessionID) + "/" + url.PathEscape(noteID)
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteNote(ctx context.Context, sessionID, noteID string) error {
	return c.do(ctx, http.MethodDelete, notesPath(sessionID)+"/"+url.PathEscape(noteID), nil, nil)
}

// === Themes ===

func (c *Client) ListThemes(ctx context.Context) ([]model.Theme, error) {
	var out []model.Theme
	if err := c.do(ctx, http.MethodGet, "/themes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTheme(ctx context.Context, id string) (*model.Theme, error) {
	var out model.Theme
	if err := c.do(ctx, http.MethodGet, "/themes/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTheme(ctx context.Context, in ThemeInput) (*model.Theme, error) {
	var out model.Theme
	if err := c.do(ctx, http.MethodPost, "/themes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTheme(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/themes/"+url.PathEscape(id), nil, nil)
}

// === Tasks ===

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, title string) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", map[string]string{"title": title}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTaskCompleted is UpdateTask with only the completed flag.
func (c *Client) SetTaskCompleted(ctx context.Context, id string, completed bool) (*model.Task, error) {
	return c.UpdateTask(ctx, id, TaskPatch{Completed: &completed})
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// do performs one request. body is JSON-encoded when non-nil; out is
// decoded from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.store.Get()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeAPIError reads the {"error":{...}} envelope. A body that is not in
// that shape (a proxy's HTML page, say) still yields an APIError with the
// status text as its message.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error *APIError `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &envelope); err == nil && envelope.Error != nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Field = envelope.Error.Field
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
