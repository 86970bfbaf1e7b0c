// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// NoSessionsText is shown when the registry is empty.
const NoSessionsText = "No chat sessions found"

const unsyncedTag = " (unsynced)"

// =============================================================================
// SESSION SIDEBAR
// =============================================================================

// Sidebar lists sessions in registry order with a movable cursor.
type Sidebar struct {
	Width   int
	Height  int
	Focused bool

	sessions []model.Session
	activeID string
	cursor   int
	offset   int
	theme    *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme, width int) *Sidebar {
	return &Sidebar{Width: width, Height: 10, theme: theme}
}

// SetSessions replaces the listed sessions, keeping the cursor on the same
// session id when it is still present.
func (s *Sidebar) SetSessions(sessions []model.Session) {
	var current string
	if sel, ok := s.Selected(); ok {
		current = sel.SessionID
	}

	s.sessions = sessions
	s.cursor = 0
	for i, sess := range sessions {
		if sess.SessionID == current {
			s.cursor = i
			break
		}
	}
	s.clampOffset()
}

// SetActive marks the session shown in the transcript.
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
}

// Len returns the number of listed sessions.
func (s *Sidebar) Len() int {
	return len(s.sessions)
}

// MoveUp moves the cursor up one row.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
	s.clampOffset()
}

// MoveDown moves the cursor down one row.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.sessions)-1 {
		s.cursor++
	}
	s.clampOffset()
}

// Selected returns the session under the cursor.
func (s *Sidebar) Selected() (model.Session, bool) {
	if s.cursor < 0 || s.cursor >= len(s.sessions) {
		return model.Session{}, false
	}
	return s.sessions[s.cursor], true
}

// rows is how many list rows fit below the title.
func (s *Sidebar) rows() int {
	if r := s.Height - 1; r > 0 {
		return r
	}
	return 1
}

func (s *Sidebar) clampOffset() {
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+s.rows() {
		s.offset = s.cursor - s.rows() + 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// View renders the sidebar without its border.
func (s *Sidebar) View() string {
	lines := []string{s.theme.PaneTitle.Render("Sessions")}

	if len(s.sessions) == 0 {
		lines = append(lines, s.theme.ListPlaceholder.Render(util.TruncateWidth(NoSessionsText, s.Width)))
		return strings.Join(lines, "\n")
	}

	end := s.offset + s.rows()
	if end > len(s.sessions) {
		end = len(s.sessions)
	}
	for i := s.offset; i < end; i++ {
		lines = append(lines, s.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (s *Sidebar) renderRow(i int) string {
	sess := s.sessions[i]

	marker := "  "
	if sess.SessionID == s.activeID {
		marker = "> "
	}
	tag := ""
	if sess.Unsynced {
		tag = unsyncedTag
	}

	room := s.Width - util.StringWidth(marker) - util.StringWidth(tag)
	name := util.PadRight(sess.DisplayName(), room)

	style := s.theme.ListItem
	switch {
	case i == s.cursor && s.Focused:
		style = s.theme.ListItemSelected
	case sess.SessionID == s.activeID:
		style = s.theme.ListItemActive
	}

	row := style.Render(marker + name)
	if tag != "" {
		row += s.theme.UnsyncedTag.Render(tag)
	}
	return row
}
