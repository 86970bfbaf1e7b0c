// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "rigchat.log")

		l, err := New(Config{Level: "debug", File: logFile})
		require.NoError(t, err)

		cl := l.Component("registry")
		cl.Info().Str("session_id", "abc").Msg("ingested")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"component":"registry"`)
		assert.Contains(t, string(data), `"session_id":"abc"`)
	})

	t.Run("console output", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "info", Console: true, Stderr: &buf})
		require.NoError(t, err)

		l.Info().Msg("hello console")
		assert.Contains(t, buf.String(), "hello console")
		assert.NoError(t, l.Close())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		l, err := New(Config{Level: "loud"})
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "warn", Console: true, Stderr: &buf})
		require.NoError(t, err)

		l.Info().Msg("quiet")
		l.Warn().Msg("loud")
		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error().Msg("dropped")
	assert.NoError(t, l.Close())
}
