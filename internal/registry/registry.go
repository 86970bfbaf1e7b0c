// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/jeranaias/rigchat/internal/model"
)

// Registry is an ordered, deduplicated set of sessions.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions []model.Session
	index    map[string]int // session id -> position in sessions
	log      zerolog.Logger
}

// New creates an empty registry.
func New(log zerolog.Logger) *Registry {
	return &Registry{
		index: make(map[string]int),
		log:   log.With().Str("component", "registry").Logger(),
	}
}

// =============================================================================
// MUTATION
// =============================================================================

// Ingest replaces the registry contents with remote. Entries without a
// session id are dropped, and for duplicate ids only the first occurrence is
// kept. Ingesting the same batch twice yields the same contents.
// Returns a copy of the new contents.
func (r *Registry) Ingest(remote []model.Session) []model.Session {
	sessions := make([]model.Session, 0, len(remote))
	index := make(map[string]int, len(remote))
	dropped, dupes := 0, 0

	for i, s := range remote {
		if s.SessionID == "" {
			dropped++
			r.log.Warn().Int("index", i).Msg("dropping session without id")
			continue
		}
		if _, seen := index[s.SessionID]; seen {
			dupes++
			continue
		}
		s.Unsynced = false
		index[s.SessionID] = len(sessions)
		sessions = append(sessions, s)
	}

	r.mu.Lock()
	r.sessions = sessions
	r.index = index
	r.mu.Unlock()

	r.log.Debug().
		Int("received", len(remote)).
		Int("kept", len(sessions)).
		Int("duplicates", dupes).
		Int("dropped", dropped).
		Msg("ingested sessions")

	return model.CloneSessions(sessions)
}

// Add inserts s, overwriting any entry with the same id in place.
// It reports false, leaving the registry unchanged, when s has no id.
func (r *Registry) Add(s model.Session) bool {
	if s.SessionID == "" {
		r.log.Warn().Msg("refusing to add session without id")
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[s.SessionID]; ok {
		r.sessions[i] = s
		return true
	}
	r.index[s.SessionID] = len(r.sessions)
	r.sessions = append(r.sessions, s)
	return true
}

// =============================================================================
// QUERIES
// =============================================================================

// List returns a copy of the sessions in registry order.
func (r *Registry) List() []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return model.CloneSessions(r.sessions)
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return model.Session{}, false
	}
	return r.sessions[i], true
}

// Contains reports whether a session with the given id is present.
func (r *Registry) Contains(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
