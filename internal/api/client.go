// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultUserAgent = "rigchat"
)

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root (default: http://localhost:8000)
	BaseURL string

	// Timeout for a single request, including reading the body (default: 120s).
	// Chat replies are produced synchronously, so this must cover generation.
	Timeout time.Duration

	// MaxRetries for GET requests on connection errors and 5xx responses.
	// Zero disables retries.
	MaxRetries int

	// RetryDelay between retries (default: 500ms)
	RetryDelay time.Duration

	// RequestsPerSecond caps outbound requests. Zero means unlimited.
	RequestsPerSecond float64

	// UserAgent header value (default: "rigchat")
	UserAgent string

	// Logger receives request tracing at debug level.
	Logger zerolog.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           DefaultBaseURL,
		Timeout:           120 * time.Second,
		MaxRetries:        2,
		RetryDelay:        500 * time.Millisecond,
		RequestsPerSecond: 10,
		UserAgent:         DefaultUserAgent,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the chat backend.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	if _, err := client.CheckRunning(ctx); err != nil {
//	    log.Fatal("backend not available:", err)
//	}
//	sessions, err := client.ListSessions(ctx)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
// Zero values for BaseURL, Timeout, RetryDelay and UserAgent are filled with
// defaults.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	defaults := DefaultConfig()

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		config:     &cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		log:        cfg.Logger.With().Str("component", "api").Logger(),
	}
}

// GetConfig returns a copy of the effective client configuration.
func (c *Client) GetConfig() ClientConfig {
	return *c.config
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the backend is reachable and returns its status.
func (c *Client) CheckRunning(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.get(ctx, "/", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels returns the model names the backend can serve.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := c.get(ctx, "/api/models", &resp); err != nil {
		return nil, err
	}
	if resp.Models == nil {
		return []string{}, nil
	}
	return resp.Models, nil
}

// SelectModel makes modelName the backend's active model.
func (c *Client) SelectModel(ctx context.Context, modelName string) error {
	return c.post(ctx, "/api/models/select", selectModelRequest{ModelName: modelName}, nil)
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// ListSessions returns the backend's session summaries in the order sent.
// Rows that cannot be decoded are skipped and logged. A row with an
// unreadable created_at is kept with a zero CreatedAt.
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var resp sessionsResponse
	if err := c.get(ctx, "/api/sessions", &resp); err != nil {
		return nil, err
	}

	sessions := make([]model.Session, 0, len(resp.Sessions))
	for i, raw := range resp.Sessions {
		var s model.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			var tsErr *model.TimestampError
			if !errors.As(err, &tsErr) || s.SessionID == "" {
				c.log.Warn().Err(err).Int("index", i).Msg("skipping malformed session row")
				continue
			}
			c.log.Warn().Err(err).Str("session_id", s.SessionID).Msg("session row has unreadable created_at")
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// GetSession returns the transcript of one session in order.
// Rows with an unknown sender are skipped and logged.
func (c *Client) GetSession(ctx context.Context, sessionID string) ([]model.Message, error) {
	var resp sessionResponse
	if err := c.get(ctx, "/api/sessions/"+url.PathEscape(sessionID), &resp); err != nil {
		return nil, err
	}

	msgs := make([]model.Message, 0, len(resp.Messages))
	for i, raw := range resp.Messages {
		var m model.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			c.log.Warn().Err(err).Str("session_id", sessionID).Int("index", i).Msg("skipping malformed message row")
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// CreateSession registers a client-generated session id with the backend.
func (c *Client) CreateSession(ctx context.Context, sessionID, modelName string) error {
	return c.post(ctx, "/api/sessions/create", createSessionRequest{
		SessionID: sessionID,
		ModelName: modelName,
	}, nil)
}

// ClearSession asks the backend to clear its current session history.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.post(ctx, "/api/sessions/clear", struct{}{}, nil)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Chat sends a prompt and waits for the complete reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// MEMORY OPERATIONS
// =============================================================================

// CreateMemory stores a named memory for a session.
func (c *Client) CreateMemory(ctx context.Context, sessionID, name string) error {
	return c.post(ctx, "/api/memories", createMemoryRequest{SessionID: sessionID, Name: name}, nil)
}

// ListMemories returns all stored memories.
func (c *Client) ListMemories(ctx context.Context) ([]model.Memory, error) {
	var resp memoriesResponse
	if err := c.get(ctx, "/api/memories", &resp); err != nil {
		return nil, err
	}

	mems := make([]model.Memory, 0, len(resp.Memories))
	for i, raw := range resp.Memories {
		var m model.Memory
		if err := json.Unmarshal(raw, &m); err != nil {
			c.log.Warn().Err(err).Int("index", i).Msg("skipping malformed memory row")
			continue
		}
		mems = append(mems, m)
	}
	return mems, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do sends one request, retrying GETs on connection errors and 5xx.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts += c.config.MaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return transportError(ctx.Err())
			case <-time.After(c.config.RetryDelay):
			}
		}

		retry, err := c.roundTrip(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Err(err).
			Msg("request failed")

		if !retry || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

// roundTrip performs a single attempt. The bool reports whether the failure
// is worth retrying.
func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte, out any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, transportError(err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return false, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, transportError(err)
	}
	defer drainAndClose(resp.Body)

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode >= 500, statusError(resp)
	}

	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return false, nil
}

// statusError builds a ClientError from a non-2xx response, preferring the
// server's detail text.
func statusError(resp *http.Response) *ClientError {
	var e errorResponse
	msg := ""
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && len(data) > 0 {
		if json.Unmarshal(data, &e) == nil {
			msg = e.detailText()
		}
	}
	if msg == "" {
		msg = "request failed: " + resp.Status
	}

	typ := ErrTypeRejected
	if resp.StatusCode == http.StatusNotFound {
		typ = ErrTypeNotFound
	}
	return &ClientError{Type: typ, Message: msg, StatusCode: resp.StatusCode}
}

func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
