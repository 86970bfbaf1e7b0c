// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across rigchat.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: Display-width truncation for terminal columns
//   - PadRight: Pad to a display width
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - ExpandHome: Resolve a leading "~" in configured paths
//
// # Usage
//
//	label := util.TruncateWidth(session.DisplayName(), 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
