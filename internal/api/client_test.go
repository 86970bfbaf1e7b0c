// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test/"})
	cfg := c.GetConfig()

	assert.Equal(t, "http://example.test", cfg.BaseURL)
	assert.Equal(t, DefaultConfig().Timeout, cfg.Timeout)
	assert.Equal(t, DefaultConfig().RetryDelay, cfg.RetryDelay)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, 0, cfg.MaxRetries)

	c = NewClientWithConfig(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

// =============================================================================
// ENDPOINT TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		writeJSON(w, 200, map[string]string{"status": "online", "message": "AI Assistant API is running"})
	}))

	status, err := c.CheckRunning(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "online", status.Status)
}

func TestListModels(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/models", r.URL.Path)
		writeJSON(w, 200, map[string]any{"models": []string{"llama3", "mistral"}})
	}))

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral"}, models)
}

func TestListModels_MissingFieldIsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{})
	}))

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, models)
	assert.Empty(t, models)
}

func TestSelectModel(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/models/select", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{"model_name": "llama3"}, decodeBody(t, r))
		writeJSON(w, 200, map[string]string{"status": "success", "model": "llama3"})
	}))

	require.NoError(t, c.SelectModel(context.Background(), "llama3"))
}

func TestListSessions_TolerantDecode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"sessions":[
			{"session_id":"a","model":"llama3","created_at":"2025-04-08 10:00:00"},
			{"session_id":"b","model_name":"mistral","created_at":"2025-04-08T11:00:00Z"},
			{"session_id":"c","created_at":"not a time"},
			{"session_id":"","model":"x"},
			{"session_id":"d","created_at":"08-04-25"},
			{"session_id":"","created_at":"garbage"},
			{"session_id":7}
		]}`)
	}))

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 5)
	assert.Equal(t, "llama3", sessions[0].ModelName)
	assert.Equal(t, "mistral", sessions[1].ModelName)

	// An unreadable timestamp keeps the row with a zero time.
	assert.Equal(t, "c", sessions[2].SessionID)
	assert.True(t, sessions[2].CreatedAt.IsZero())

	// Empty ids are the registry's to drop.
	assert.Equal(t, "", sessions[3].SessionID)
	assert.Equal(t, "d", sessions[4].SessionID)
}

func TestListSessions_BadTimestampSessionStaysReachable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"sessions":[
			{"session_id":"A","created_at":"08-04-25"},
			{"session_id":"B","created_at":"2025-04-08 10:00:00"}
		]}`)
	}))

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "A", sessions[0].SessionID)
	assert.True(t, sessions[0].CreatedAt.IsZero())
	assert.Equal(t, "B", sessions[1].SessionID)
}

func TestGetSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/abc-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"session":{"session_id":"abc-123"},"messages":[
			{"id":1,"session_id":"abc-123","role":"user","content":"hi","created_at":"2025-04-08 10:00:00"},
			{"id":2,"session_id":"abc-123","role":"system","content":"hidden"},
			{"id":3,"session_id":"abc-123","role":"assistant","content":"hello"}
		]}`)
	}))

	msgs, err := c.GetSession(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, []model.Message{
		model.NewUserMessage("hi"),
		model.NewAssistantMessage("hello"),
	}, msgs)
}

func TestGetSession_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "Session not found"})
	}))

	_, err := c.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Session not found")
}

func TestCreateSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions/create", r.URL.Path)
		assert.Equal(t, map[string]any{"session_id": "id-1", "model_name": "llama3"}, decodeBody(t, r))
		writeJSON(w, 200, map[string]string{"status": "success"})
	}))

	require.NoError(t, c.CreateSession(context.Background(), "id-1", "llama3"))
}

func TestChat(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, map[string]any{
			"prompt":     "hello",
			"model_name": "llama3",
			"session_id": "id-1",
		}, decodeBody(t, r))
		writeJSON(w, 200, map[string]string{"response": "hi there", "session_id": "id-1"})
	}))

	resp, err := c.Chat(context.Background(), ChatRequest{Prompt: "hello", ModelName: "llama3", SessionID: "id-1"})
	require.NoError(t, err)
	reply, ok := resp.Reply()
	assert.True(t, ok)
	assert.Equal(t, "hi there", reply)
}

func TestChat_NoResponseField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"session_id": "id-1"})
	}))

	resp, err := c.Chat(context.Background(), ChatRequest{Prompt: "x"})
	require.NoError(t, err)
	_, ok := resp.Reply()
	assert.False(t, ok)
}

func TestChat_RejectedSurfacesDetail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, map[string]string{"detail": "No model selected. Please select a model before generating a response."})
	}))

	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "x"})
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeRejected, clientErr.Type)
	assert.Equal(t, 400, clientErr.StatusCode)
	assert.Contains(t, clientErr.Message, "No model selected")
}

func TestDetailText_ValidationList(t *testing.T) {
	e := errorResponse{Detail: json.RawMessage(`[{"loc":["body","prompt"],"msg":"field required"},{"msg":"bad"}]`)}
	assert.Equal(t, "field required; bad", e.detailText())
}

func TestMemories(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/memories", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, map[string]any{"session_id": "id-1", "name": "notes"}, decodeBody(t, r))
			writeJSON(w, 200, map[string]string{"status": "success", "message": "Memory created"})
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"memories":[{"id":1,"session_id":"id-1","memory":"notes","created_at":"2025-04-08 10:00:00"}]}`)
		}
	}))

	require.NoError(t, c.CreateMemory(context.Background(), "id-1", "notes"))
	mems, err := c.ListMemories(context.Background())
	require.NoError(t, err)
	require.Len(t, mems, 1)
	assert.Equal(t, "notes", mems[0].Memory)
}

func TestClearSession(t *testing.T) {
	var called atomic.Bool
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/clear", r.URL.Path)
		called.Store(true)
		writeJSON(w, 200, map[string]string{"status": "success"})
	}))

	require.NoError(t, c.ClearSession(context.Background()))
	assert.True(t, called.Load())
}

// =============================================================================
// RETRY AND ERROR TESTS
// =============================================================================

func TestGet_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, 503, map[string]string{"detail": "warming up"})
			return
		}
		writeJSON(w, 200, map[string]any{"models": []string{"llama3"}})
	}))

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3"}, models)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 500, map[string]string{"detail": "boom"})
	}))

	_, err := c.ListSessions(context.Background())
	require.Error(t, err)
	assert.True(t, IsRejected(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 404, map[string]string{"detail": "Session not found"})
	}))

	_, err := c.GetSession(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPost_NeverRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 500, map[string]string{"detail": "model crashed"})
	}))

	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "x", ModelName: "m", SessionID: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model crashed")
	assert.Equal(t, int32(1), calls.Load())
}

func TestInvalidJSONResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))

	_, err := c.ListModels(context.Background())
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url, RetryDelay: time.Millisecond, MaxRetries: 1})
	_, err := c.CheckRunning(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotRunning(err))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "slow"})
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestContextCanceledStopsRetries(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cancel()
		writeJSON(w, 503, map[string]string{"detail": "busy"})
	}))

	_, err := c.ListModels(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "timeout", ErrTypeTimeout.String())
	assert.Equal(t, "rejected", ErrTypeRejected.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
