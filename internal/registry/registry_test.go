// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/model"
)

func session(id, modelName string) model.Session {
	return model.Session{
		SessionID: id,
		ModelName: modelName,
		CreatedAt: time.Date(2025, 4, 8, 10, 0, 0, 0, time.UTC),
	}
}

func ids(sessions []model.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.SessionID
	}
	return out
}

func TestIngest_DedupeKeepsFirstOccurrence(t *testing.T) {
	r := New(zerolog.Nop())

	got := r.Ingest([]model.Session{
		session("a", "first-a"),
		session("b", "first-b"),
		session("a", "second-a"),
		session("c", "c"),
		session("b", "second-b"),
	})

	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	assert.Equal(t, "first-a", got[0].ModelName)
	assert.Equal(t, "first-b", got[1].ModelName)
	assert.Equal(t, got, r.List())
}

func TestIngest_Idempotent(t *testing.T) {
	batch := []model.Session{session("x", "m"), session("y", "m"), session("x", "n")}
	r := New(zerolog.Nop())

	first := r.Ingest(batch)
	second := r.Ingest(batch)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, r.Len())
}

func TestIngest_DropsEntriesWithoutID(t *testing.T) {
	r := New(zerolog.Nop())

	got := r.Ingest([]model.Session{session("", "m"), session("a", "m"), session("", "n")})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestIngest_ReplacesContents(t *testing.T) {
	r := New(zerolog.Nop())
	r.Ingest([]model.Session{session("old", "m")})
	require.True(t, r.Add(session("local", "m")))

	r.Ingest([]model.Session{session("new", "m")})
	assert.Equal(t, []string{"new"}, ids(r.List()))
	assert.False(t, r.Contains("old"))
	assert.False(t, r.Contains("local"))
}

func TestIngest_EmptyBatchClears(t *testing.T) {
	r := New(zerolog.Nop())
	r.Ingest([]model.Session{session("a", "m")})

	got := r.Ingest(nil)
	assert.Empty(t, got)
	assert.Equal(t, 0, r.Len())
}

func TestIngest_ClearsUnsynced(t *testing.T) {
	r := New(zerolog.Nop())
	local := session("a", "m")
	local.Unsynced = true
	r.Add(local)

	r.Ingest([]model.Session{session("a", "m")})
	s, ok := r.Get("a")
	require.True(t, ok)
	assert.False(t, s.Unsynced)
}

func TestAdd_OverwritesInPlace(t *testing.T) {
	r := New(zerolog.Nop())
	r.Ingest([]model.Session{session("a", "m1"), session("b", "m1"), session("c", "m1")})

	require.True(t, r.Add(session("b", "m2")))
	assert.Equal(t, []string{"a", "b", "c"}, ids(r.List()))

	s, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "m2", s.ModelName)
}

func TestAdd_AppendsNew(t *testing.T) {
	r := New(zerolog.Nop())
	r.Add(session("a", "m"))
	r.Add(session("b", "m"))
	assert.Equal(t, []string{"a", "b"}, ids(r.List()))
}

func TestAdd_RejectsEmptyID(t *testing.T) {
	r := New(zerolog.Nop())
	assert.False(t, r.Add(session("", "m")))
	assert.Equal(t, 0, r.Len())
}

func TestList_ReturnsCopy(t *testing.T) {
	r := New(zerolog.Nop())
	r.Add(session("a", "m"))

	list := r.List()
	list[0].ModelName = "mutated"

	s, _ := r.Get("a")
	assert.Equal(t, "m", s.ModelName)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := New(zerolog.Nop())
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Ingest([]model.Session{session("a", "m"), session("b", "m")})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.List()
				r.Add(session("c", "m"))
			}
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, s := range r.List() {
		assert.False(t, seen[s.SessionID], "duplicate id %s", s.SessionID)
		seen[s.SessionID] = true
	}
}
