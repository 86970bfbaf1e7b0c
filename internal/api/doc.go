// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend.
//
// The backend stores sessions and messages, lists the models it can serve,
// and produces assistant replies. This package only speaks its JSON
// contract; it holds no state besides connection settings.
//
// # Key Types
//
//   - Client: HTTP client for the backend
//   - ClientConfig: Base URL, timeouts, retry and rate limit settings
//   - ClientError: Typed error carrying the server's detail message
//
// # Endpoints
//
//	GET  /                     health
//	GET  /api/models           model names
//	POST /api/models/select    select the backend's active model
//	GET  /api/sessions         session summaries
//	GET  /api/sessions/{id}    session transcript
//	POST /api/sessions/create  register a new session
//	POST /api/sessions/clear   clear the backend's current session
//	POST /api/chat             send a prompt, receive a reply
//	GET  /api/memories         list memories
//	POST /api/memories         save a memory for a session
//
// # Usage
//
//	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://localhost:8000"})
//	models, err := client.ListModels(ctx)
//	resp, err := client.Chat(ctx, api.ChatRequest{
//	    Prompt:    "hello",
//	    ModelName: models[0],
//	    SessionID: id,
//	})
//
// GET requests are retried on connection errors and 5xx responses. POST
// requests are sent exactly once.
package api
