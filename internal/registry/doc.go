// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package registry keeps the client-side list of chat sessions.
//
// The registry is an ordered collection of model.Session keyed by
// SessionID. It never holds two entries with the same id.
//
// # Key Operations
//
//   - Ingest: Replace the contents with a fetched batch (first-seen wins)
//   - Add: Insert or overwrite a single entry after a local create
//   - List: Copy of the entries in order
//
// # Usage
//
//	reg := registry.New(log)
//	reg.Ingest(remote)
//	for _, s := range reg.List() {
//	    fmt.Println(s.DisplayName())
//	}
package registry
