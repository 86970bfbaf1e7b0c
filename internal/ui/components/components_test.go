// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/segment"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ModeDark)
}

// =============================================================================
// CODE BLOCK TESTS
// =============================================================================

func TestCodeBlock_RenderShowsBadgeAndLineNumbers(t *testing.T) {
	cb := NewCodeBlock(testTheme(), "python", "x = 1\ny = 2\n")
	out := ansi.Strip(cb.Render())

	assert.Contains(t, out, "python")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "x = 1")
	assert.Contains(t, out, "y = 2")
	assert.NotContains(t, out, "3", "trailing newline must not add a line")
}

func TestCodeBlock_RespectsMaxWidth(t *testing.T) {
	cb := NewCodeBlock(testTheme(), "text", strings.Repeat("a", 200))
	cb.SetMaxWidth(40)
	for _, line := range strings.Split(cb.Render(), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}

func TestCodeBlock_UnknownLanguageStillRenders(t *testing.T) {
	cb := NewCodeBlock(testTheme(), "no-such-lang", "hello")
	out := ansi.Strip(cb.Render())
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "no-such-lang")
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestRenderMessage_LabelsSender(t *testing.T) {
	theme := testTheme()
	seg := segment.New("")

	user := ansi.Strip(RenderMessage(theme, seg, model.NewUserMessage("hi"), 60))
	assert.True(t, strings.HasPrefix(user, "You"))

	bot := ansi.Strip(RenderMessage(theme, seg, model.NewAssistantMessage("hello"), 60))
	assert.True(t, strings.HasPrefix(bot, "Assistant"))
}

func TestRenderMessage_SegmentsCode(t *testing.T) {
	msg := model.NewAssistantMessage("Here:\n```\nprint(1)\n```\nDone.")
	out := ansi.Strip(RenderMessage(testTheme(), segment.New("python"), msg, 60))

	assert.Contains(t, out, "Here:")
	assert.Contains(t, out, "python", "untagged fence uses the fallback language")
	assert.Contains(t, out, "print(1)")
	assert.Contains(t, out, "Done.")
	assert.NotContains(t, out, "```")
}

func TestRenderMessage_WrapsToWidth(t *testing.T) {
	msg := model.NewUserMessage(strings.Repeat("word ", 60))
	out := RenderMessage(testTheme(), segment.New(""), msg, 50)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 50)
	}
}

func TestRenderTranscript_EmptyPlaceholder(t *testing.T) {
	out := ansi.Strip(RenderTranscript(testTheme(), segment.New(""), nil, 60))
	assert.Equal(t, EmptyTranscriptText, out)
}

func TestRenderTranscript_KeepsOrder(t *testing.T) {
	msgs := []model.Message{
		model.NewUserMessage("first"),
		model.NewAssistantMessage("second"),
	}
	out := ansi.Strip(RenderTranscript(testTheme(), segment.New(""), msgs, 60))
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebar_EmptyPlaceholder(t *testing.T) {
	sb := NewSidebar(testTheme(), 30)
	assert.Contains(t, ansi.Strip(sb.View()), NoSessionsText)
	_, ok := sb.Selected()
	assert.False(t, ok)
}

func TestSidebar_MarksActiveAndUnsynced(t *testing.T) {
	sb := NewSidebar(testTheme(), 40)
	sb.Height = 10
	sb.SetSessions([]model.Session{
		{SessionID: "aaaaaaaa-1111", CreatedAt: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)},
		{SessionID: "bbbbbbbb-2222", Unsynced: true},
	})
	sb.SetActive("bbbbbbbb-2222")

	lines := strings.Split(ansi.Strip(sb.View()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Chat aaaaaaaa")
	assert.True(t, strings.HasPrefix(lines[2], "> Chat bbbbbbbb"))
	assert.True(t, strings.HasSuffix(lines[2], "(unsynced)"))
	assert.NotContains(t, lines[1], "(unsynced)")
}

func TestSidebar_CursorFollowsSessionAcrossRefresh(t *testing.T) {
	sb := NewSidebar(testTheme(), 40)
	a := model.Session{SessionID: "a"}
	b := model.Session{SessionID: "b"}
	c := model.Session{SessionID: "c"}

	sb.SetSessions([]model.Session{a, b})
	sb.MoveDown()
	sb.MoveDown()
	sel, ok := sb.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.SessionID, "cursor stops at the last row")

	sb.SetSessions([]model.Session{c, a, b})
	sel, _ = sb.Selected()
	assert.Equal(t, "b", sel.SessionID)

	sb.MoveUp()
	sb.MoveUp()
	sb.MoveUp()
	sel, _ = sb.Selected()
	assert.Equal(t, "c", sel.SessionID)
}

func TestSidebar_ScrollsWithCursor(t *testing.T) {
	sb := NewSidebar(testTheme(), 40)
	sb.Height = 3 // title + two rows
	sb.SetSessions([]model.Session{{SessionID: "s1"}, {SessionID: "s2"}, {SessionID: "s3"}})
	sb.MoveDown()
	sb.MoveDown()

	out := ansi.Strip(sb.View())
	assert.NotContains(t, out, "s1")
	assert.Contains(t, out, "s3")
}

// =============================================================================
// MODEL PICKER TESTS
// =============================================================================

func TestModelPicker_PlaceholderFirst(t *testing.T) {
	p := NewModelPicker(testTheme(), 30)
	p.SetModels([]string{"llama3", "mistral"})

	assert.Equal(t, "", p.Highlighted())
	assert.Contains(t, ansi.Strip(p.View()), SelectModelText)

	p.Focused = true
	lines := strings.Split(ansi.Strip(p.View()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], SelectModelText)
	assert.Contains(t, lines[2], "llama3")
	assert.Contains(t, lines[3], "mistral")
}

func TestModelPicker_Navigation(t *testing.T) {
	p := NewModelPicker(testTheme(), 30)
	p.SetModels([]string{"llama3", "mistral"})

	p.MoveDown()
	assert.Equal(t, "llama3", p.Highlighted())
	p.MoveDown()
	p.MoveDown()
	assert.Equal(t, "mistral", p.Highlighted())
	p.MoveUp()
	p.MoveUp()
	p.MoveUp()
	assert.Equal(t, "", p.Highlighted())
}

func TestModelPicker_CursorFollowsSelection(t *testing.T) {
	p := NewModelPicker(testTheme(), 30)
	p.SetSelected("mistral")
	p.SetModels([]string{"llama3", "mistral"})
	assert.Equal(t, "mistral", p.Highlighted())

	p.Focused = false
	assert.Contains(t, ansi.Strip(p.View()), "mistral")
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBar_ShowsErrorFirstLine(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.Status = "ready"
	sb.Err = errors.New("chat failed\nstack detail")
	out := ansi.Strip(sb.View())
	assert.Contains(t, out, "chat failed")
	assert.NotContains(t, out, "stack detail")
	assert.NotContains(t, out, "ready")
}

func TestStatusBar_FitsWidth(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.Width = 30
	sb.Status = strings.Repeat("long status ", 10)
	sb.Shortcuts = []Shortcut{{Key: "ctrl+n", Desc: "new"}, {Key: "ctrl+c", Desc: "quit"}}
	assert.Equal(t, 30, lipgloss.Width(sb.View()))
}

func TestStatusBar_ShowsHintsWhenRoomy(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.Width = 100
	sb.Status = "ready"
	sb.Shortcuts = []Shortcut{{Key: "ctrl+n", Desc: "new"}}
	out := ansi.Strip(sb.View())
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "ctrl+n new")
}
