// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ShortIDLength is how many characters of a session id appear in display names.
const ShortIDLength = 8

// timestampLayouts are the created_at formats accepted from the backend.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session summarizes a conversation thread bound to one model.
// Identity is SessionID; the client never mutates a session in place.
type Session struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ModelName string    `json:"model_name"`

	// Unsynced marks an entry added locally that no registry refresh has
	// returned yet. Never sent over the wire.
	Unsynced bool `json:"-"`
}

// NewSession creates a session summary stamped with the current time.
func NewSession(id, modelName string) Session {
	return Session{
		SessionID: id,
		CreatedAt: time.Now(),
		ModelName: modelName,
	}
}

// ShortID returns the first ShortIDLength characters of the session id.
func (s Session) ShortID() string {
	if len(s.SessionID) <= ShortIDLength {
		return s.SessionID
	}
	return s.SessionID[:ShortIDLength]
}

// DisplayName returns the sidebar label for the session.
func (s Session) DisplayName() string {
	if s.CreatedAt.IsZero() {
		return "Chat " + s.ShortID()
	}
	return fmt.Sprintf("Chat %s (%s)", s.ShortID(), s.CreatedAt.Local().Format("2006-01-02 15:04"))
}

// UnmarshalJSON decodes a session, accepting "model" as an alias for
// "model_name" and SQLite-style or numeric timestamps.
func (s *Session) UnmarshalJSON(data []byte) error {
	var wire struct {
		SessionID string          `json:"session_id"`
		ModelName string          `json:"model_name"`
		Model     string          `json:"model"`
		CreatedAt json.RawMessage `json:"created_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	s.SessionID = wire.SessionID
	s.ModelName = wire.ModelName
	if s.ModelName == "" {
		s.ModelName = wire.Model
	}
	s.Unsynced = false

	created, err := parseTimestamp(wire.CreatedAt)
	if err != nil {
		// The rest of the row is already decoded; callers may keep it.
		s.CreatedAt = time.Time{}
		return &TimestampError{SessionID: wire.SessionID, Raw: string(wire.CreatedAt), Err: err}
	}
	s.CreatedAt = created
	return nil
}

// TimestampError reports a session row whose created_at could not be
// parsed. The session it was decoded into holds every other field and a
// zero CreatedAt.
type TimestampError struct {
	SessionID string
	Raw       string
	Err       error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("session %q: %v", e.SessionID, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}

// CloneSessions returns a copy of sessions that shares no backing array.
func CloneSessions(sessions []Session) []Session {
	if sessions == nil {
		return nil
	}
	out := make([]Session, len(sessions))
	copy(out, sessions)
	return out
}

// =============================================================================
// MEMORY TYPE
// =============================================================================

// Memory is a named reference to a session stored by the backend.
type Memory struct {
	SessionID string    `json:"session_id"`
	Memory    string    `json:"memory"`
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalJSON decodes a memory row with tolerant timestamp parsing.
func (m *Memory) UnmarshalJSON(data []byte) error {
	var wire struct {
		SessionID string          `json:"session_id"`
		Memory    string          `json:"memory"`
		CreatedAt json.RawMessage `json:"created_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	created, err := parseTimestamp(wire.CreatedAt)
	if err != nil {
		return fmt.Errorf("memory %q: %w", wire.Memory, err)
	}
	m.SessionID = wire.SessionID
	m.Memory = wire.Memory
	m.CreatedAt = created
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseTimestamp accepts a JSON string in one of timestampLayouts, a JSON
// number of Unix seconds, null, or an absent field.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] != '"' {
		secs, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid created_at %s", raw)
		}
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC(), nil
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return time.Time{}, err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q", v)
}
