// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import "github.com/jeranaias/rigchat/internal/model"

// Phase is the controller's state machine position.
type Phase int

const (
	StateNoActiveSession Phase = iota
	StateActiveSessionLoaded
	StateAwaitingResponse
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case StateNoActiveSession:
		return "no active session"
	case StateActiveSessionLoaded:
		return "ready"
	case StateAwaitingResponse:
		return "awaiting response"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the application state.
// Mutating a State has no effect on the controller.
type State struct {
	Phase         Phase
	SelectedModel string
	Models        []string

	ActiveSessionID string
	// ActiveUnsynced is true while the active session is missing from the
	// registry or present only as a local, unconfirmed entry.
	ActiveUnsynced bool
	Messages       []model.Message

	Sessions []model.Session

	// LoadingSessionID is the session a pending LoadSession is fetching.
	LoadingSessionID string

	// LastError is the most recent failure, cleared by ClearError.
	LastError error
}

// HasActiveSession reports whether a session is active.
func (s State) HasActiveSession() bool {
	return s.ActiveSessionID != ""
}

// Awaiting reports whether a chat reply is outstanding.
func (s State) Awaiting() bool {
	return s.Phase == StateAwaitingResponse
}
