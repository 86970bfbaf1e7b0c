// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Assistant"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// ParseSender converts a wire value into a Sender.
func ParseSender(v string) (Sender, error) {
	s := Sender(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown message sender %q", v)
	}
	return s, nil
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a session transcript.
// Messages carry no identifier; their position in the transcript is their address.
type Message struct {
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
}

// NewMessage creates a message.
func NewMessage(sender Sender, content string) Message {
	return Message{Sender: sender, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return NewMessage(SenderUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(SenderAssistant, content)
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Preview returns a truncated preview of the message content.
func (m Message) Preview(maxLen int) string {
	return util.TruncateRunes(m.Content, maxLen)
}

// UnmarshalJSON decodes a message, accepting "role" as an alias for "sender".
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire struct {
		Sender  string `json:"sender"`
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	v := wire.Sender
	if v == "" {
		v = wire.Role
	}
	sender, err := ParseSender(v)
	if err != nil {
		return err
	}

	m.Sender = sender
	m.Content = wire.Content
	return nil
}

// CloneMessages returns a copy of msgs that shares no backing array.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
