// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes session transcripts to files.
//
// # Supported Formats
//
//   - Markdown: human-readable, with code fences tagged by language
//   - JSON: the session summary and messages as fetched
//
// # Usage
//
//	t := export.Transcript{Session: s, Messages: msgs}
//	path, err := export.ToFile(t, export.NewMarkdownExporter(nil), nil)
package export
