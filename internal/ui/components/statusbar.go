// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint shown on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: state on the left, key hints on the right.
// An error replaces the state text until cleared.
type StatusBar struct {
	Width     int
	Status    string
	Busy      bool
	Spinner   string // rendered spinner frame
	Err       error
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	inner := s.Width - 2
	if inner < 1 {
		inner = 1
	}

	// Plain text is truncated before styling so escape codes are never cut.
	var left string
	switch {
	case s.Err != nil:
		text := styles.StatusIndicators.Error + " " + util.FirstLine(s.Err.Error())
		left = s.theme.ErrorStyle.Render(util.TruncateWidth(text, inner))
	case s.Busy:
		left = s.Spinner + " " + util.TruncateWidth(s.Status, inner-lipgloss.Width(s.Spinner)-1)
	default:
		prefix := styles.StatusIndicators.Success + " "
		left = s.theme.SuccessStyle.Render(styles.StatusIndicators.Success) + " " + util.TruncateWidth(s.Status, inner-util.StringWidth(prefix))
	}

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	if lipgloss.Width(left)+1+lipgloss.Width(right) > inner {
		right = ""
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
