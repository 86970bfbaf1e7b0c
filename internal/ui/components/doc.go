// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering building blocks for the rigchat TUI.

Components are plain structs with a View or Render method; they hold no
network state and never mutate the conversation. The chat package owns
them and feeds them snapshots.

# Components

  - CodeBlock (codeblock.go) - Chroma-highlighted code with line numbers
  - RenderMessage, RenderTranscript (message.go) - Sender label plus bubble;
    text segments are word-wrapped, code segments become CodeBlocks
  - Sidebar (sidebar.go) - Session list with active and unsynced markers
  - ModelPicker (modelpicker.go) - "Select a model" placeholder plus models
  - StatusBar (statusbar.go) - Phase, errors and key hints

# Usage

	theme := styles.NewTheme("auto")
	seg := segment.New("text")
	view := components.RenderTranscript(theme, seg, msgs, 80)
*/
package components
