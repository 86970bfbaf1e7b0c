// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "encoding/json"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for /api/chat.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	ModelName string `json:"model_name"`
	SessionID string `json:"session_id"`
}

type selectModelRequest struct {
	ModelName string `json:"model_name"`
}

type createSessionRequest struct {
	SessionID string `json:"session_id"`
	ModelName string `json:"model_name"`
}

type createMemoryRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Status is the body of the health route.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ChatResponse is the body returned by /api/chat.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id,omitempty"`
}

// Reply returns the assistant text and whether the backend produced any.
func (r *ChatResponse) Reply() (string, bool) {
	if r == nil || r.Response == "" {
		return "", false
	}
	return r.Response, true
}

type modelsResponse struct {
	Models []string `json:"models"`
}

type sessionsResponse struct {
	Sessions []json.RawMessage `json:"sessions"`
}

type sessionResponse struct {
	Messages []json.RawMessage `json:"messages"`
}

type memoriesResponse struct {
	Memories []json.RawMessage `json:"memories"`
}

// errorResponse is the FastAPI error body.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// detailText flattens a FastAPI detail value. Validation errors arrive as a
// list of objects with a "msg" field.
func (e errorResponse) detailText() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &items); err == nil {
		out := ""
		for i, it := range items {
			if i > 0 {
				out += "; "
			}
			out += it.Msg
		}
		return out
	}
	return string(e.Detail)
}
