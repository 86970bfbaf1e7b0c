// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
//
// This package defines the core domain types exchanged with the inference
// backend and held by the conversation controller.
//
// # Key Types
//
//   - Session: Summary of a conversation thread bound to one model
//   - Message: Single message with a sender and content
//   - Sender: Message sender enumeration (user, assistant)
//   - Memory: Named snapshot of a session kept by the backend
//
// # Wire Format
//
// Decoding is tolerant of the field names the reference backend actually
// emits: history rows use "role" rather than "sender", and session rows use
// "model" rather than "model_name" with SQLite-style timestamps. Encoding
// always uses the canonical names.
//
//	var s model.Session
//	_ = json.Unmarshal([]byte(`{"session_id":"abc","model":"llama3",
//	    "created_at":"2025-04-08 10:00:00"}`), &s)
//	fmt.Println(s.DisplayName()) // Chat abc (...)
package model
