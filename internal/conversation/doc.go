// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation orchestrates user actions against the session
// registry and the chat backend.
//
// The Controller owns the application state: selected model, active session,
// its message list, and the session registry. Each operation applies its
// local effect immediately and returns a tea.Cmd that performs the network
// call. The command's result message must be passed back to Update, which
// folds it into state and may return follow-up commands.
//
// # Key Types
//
//   - Controller: State owner and operation entry point
//   - State: Value snapshot read by views
//   - Backend: Remote collaborator, satisfied by *api.Client
//
// # States
//
//	StateNoActiveSession -> CreateSession/LoadSession -> StateActiveSessionLoaded
//	StateActiveSessionLoaded -> SendPrompt -> StateAwaitingResponse
//	StateAwaitingResponse -> reply or failure -> StateActiveSessionLoaded
//
// # Usage
//
// Inside a Bubble Tea program, return the commands from Update:
//
//	case tea.KeyMsg:
//	    return m, m.ctrl.SendPrompt(m.input.Value())
//	default:
//	    return m, m.ctrl.Update(msg)
//
// Without a program, drive commands synchronously:
//
//	err := ctrl.Run(ctx, ctrl.SendPrompt("hello"))
//	fmt.Println(ctrl.Snapshot().Messages)
//
// Results that arrive after the user has moved to another session are
// discarded.
package conversation
