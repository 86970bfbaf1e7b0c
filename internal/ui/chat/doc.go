// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea program model for the rigchat TUI.

The Model is a thin shell around a conversation.Controller: key presses
call controller operations, the commands they return run on Bubble Tea's
goroutines, and every result message is folded back through
Controller.Update. After each update the view is rebuilt from a
Controller.Snapshot.

# Key Components

## Model (model.go)

Owns the widgets (text input, transcript viewport, spinner) and the
sidebar and model picker components. Focus cycles between the input, the
session list and the model picker with tab.

## Update Loop (update.go)

Routes window size, key, spinner, config reload and controller messages.

## View Rendering (view.go)

Header, sidebar column, transcript pane, input line and status bar.

# Keyboard Shortcuts

	Ctrl+N   New session
	Tab      Cycle focus
	Enter    Send prompt / load session / select model
	Ctrl+R   Refresh models and sessions
	Ctrl+Y   Copy the last code block
	Ctrl+S   Save the session as a named memory
	Ctrl+C   Quit

# Usage

	ctrl := conversation.New(client, nil, conversation.Options{})
	m := chat.New(ctrl, styles.NewTheme("auto"), chat.Options{})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
