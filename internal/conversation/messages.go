// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import "github.com/jeranaias/rigchat/internal/model"

// Result messages produced by the controller's commands. Pass them to
// Controller.Update. Each carries the identifiers it was issued for so that
// late arrivals can be recognized.

// ModelsLoadedMsg delivers the backend's model list.
type ModelsLoadedMsg struct {
	Models []string
	Err    error
}

// ModelSelectedMsg confirms a model selection.
type ModelSelectedMsg struct {
	Model string
	Err   error
}

// SessionCreatedMsg reports the outcome of registering a new session.
type SessionCreatedMsg struct {
	Session model.Session
	Err     error
}

// SessionLoadedMsg delivers a session transcript.
type SessionLoadedMsg struct {
	SessionID string
	Messages  []model.Message
	Err       error
}

// ChatReplyMsg delivers the outcome of a prompt.
type ChatReplyMsg struct {
	SessionID string
	Reply     string
	HasReply  bool
	Err       error

	seq uint64 // prompt sequence number
}

// SessionsRefreshedMsg delivers a fresh session list.
type SessionsRefreshedMsg struct {
	Sessions []model.Session
	Err      error
}

// MemorySavedMsg confirms a memory was stored.
type MemorySavedMsg struct {
	SessionID string
	Name      string
	Err       error
}

// failure is implemented by every result message.
type failure interface {
	failure() error
}

func (m ModelsLoadedMsg) failure() error      { return m.Err }
func (m ModelSelectedMsg) failure() error     { return m.Err }
func (m SessionCreatedMsg) failure() error    { return m.Err }
func (m SessionLoadedMsg) failure() error     { return m.Err }
func (m ChatReplyMsg) failure() error         { return m.Err }
func (m SessionsRefreshedMsg) failure() error { return m.Err }
func (m MemorySavedMsg) failure() error       { return m.Err }
