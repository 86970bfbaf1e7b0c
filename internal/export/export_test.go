// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/model"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func testTranscript() Transcript {
	return Transcript{
		Session: model.Session{
			SessionID: "0123456789abcdef",
			ModelName: "llama3",
			CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Messages: []model.Message{
			model.NewUserMessage("show me a loop"),
			model.NewAssistantMessage("Sure:\n```\nfor {}\n```\nDone."),
		},
	}
}

func testOptions(dir string) *Options {
	return &Options{
		OutputDir:       dir,
		CodeLanguage:    "go",
		IncludeMetadata: true,
		Now:             func() time.Time { return fixedNow },
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions("")).Export(testTranscript())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\nsession: 0123456789abcdef\nmodel: llama3\n"))
	assert.Contains(t, md, "exported: 2025-03-04T05:06:07Z")
	assert.Contains(t, md, "# Chat 01234567")
	assert.Contains(t, md, "### You\n\nshow me a loop\n")
	assert.Contains(t, md, "### Assistant\n\nSure:\n\n```go\nfor {}\n```\n\nDone.\n")
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	opts := testOptions("")
	opts.IncludeMetadata = false
	out, err := NewMarkdownExporter(opts).Export(testTranscript())
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(out), "---"))
	assert.NotContains(t, string(out), "**Model**")
}

func TestMarkdownExport_Empty(t *testing.T) {
	tr := testTranscript()
	tr.Messages = nil
	out, err := NewMarkdownExporter(nil).Export(tr)
	require.NoError(t, err)
	assert.Contains(t, string(out), "_No messages._")
}

func TestExport_RequiresSessionID(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(Transcript{})
	assert.Error(t, err)
	_, err = NewJSONExporter().Export(Transcript{})
	assert.Error(t, err)
}

func TestJSONExport(t *testing.T) {
	tr := testTranscript()
	out, err := NewJSONExporter().Export(tr)
	require.NoError(t, err)

	var decoded struct {
		Session struct {
			SessionID string `json:"session_id"`
			ModelName string `json:"model_name"`
		} `json:"session"`
		Messages []struct {
			Sender  string `json:"sender"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "0123456789abcdef", decoded.Session.SessionID)
	assert.Equal(t, "llama3", decoded.Session.ModelName)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, "assistant", decoded.Messages[1].Sender)
	assert.Equal(t, tr.Messages[1].Content, decoded.Messages[1].Content)

	tr.Messages = nil
	out, err = NewJSONExporter().Export(tr)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"messages": []`)
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := testOptions(dir)

	path, err := ToFile(testTranscript(), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat_01234567_20250304_050607.md"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "```go\nfor {}\n```")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	exp, err := NewExporter(FormatJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, ".json", exp.FileExtension())
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c_d", sanitizeFilename("a/b:c d"))
	assert.Equal(t, "session", sanitizeFilename(""))
}
