// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/components"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// Fixed row counts of the frame around the panes.
const (
	headerRows = 1
	inputRows  = 3 // bordered single line
	statusRows = 1
	paneChrome = 2 // border on each side
)

// =============================================================================
// LAYOUT
// =============================================================================

// showSidebar reports whether the terminal is wide enough for the sidebar.
func (m *Model) showSidebar() bool {
	return m.theme.GetLayoutMode() != styles.LayoutNarrow
}

// layout sizes the components for the current window.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.theme.SetSize(m.width, m.height)

	bodyRows := m.height - headerRows - inputRows - statusRows
	if bodyRows < 3 {
		bodyRows = 3
	}

	transcriptWidth := m.width
	if m.showSidebar() {
		m.sidebar.Width = m.sidebarWidth
		m.picker.Width = m.sidebarWidth
		pickerRows := lipgloss.Height(m.picker.View()) + paneChrome
		m.sidebar.Height = bodyRows - pickerRows - paneChrome
		transcriptWidth -= m.sidebarWidth + paneChrome
	}

	m.viewport.Width = maxInt(transcriptWidth-paneChrome, 10)
	m.viewport.Height = maxInt(bodyRows-paneChrome, 1)
	m.input.Width = maxInt(m.width-paneChrome-lipgloss.Width(m.input.Prompt)-1, 1)
	m.statusBar.Width = m.width
}

// sync pulls a fresh snapshot from the controller into the components.
func (m *Model) sync() {
	snap := m.ctrl.Snapshot()

	m.sidebar.SetSessions(snap.Sessions)
	m.sidebar.SetActive(snap.ActiveSessionID)
	m.picker.SetModels(snap.Models)
	m.picker.SetSelected(snap.SelectedModel)

	m.statusBar.Status = m.statusText(snap.Phase.String(), snap.LoadingSessionID)
	m.statusBar.Busy = snap.Awaiting() || snap.LoadingSessionID != ""
	m.statusBar.Spinner = m.spinner.View()
	m.statusBar.Err = snap.LastError
	m.statusBar.Shortcuts = m.shortcuts()

	if !m.ready {
		return
	}
	m.layout()

	content := components.RenderTranscript(m.theme, m.seg, snap.Messages, m.viewport.Width)
	if snap.Awaiting() {
		content += "\n\n" + m.spinner.View() + " " + m.theme.EmptyTranscript.Render("waiting for reply...")
	}

	key := transcriptKey(snap.ActiveSessionID, snap.Messages, snap.Awaiting())
	m.viewport.SetContent(content)
	if key != m.transcriptKey {
		m.viewport.GotoBottom()
		m.transcriptKey = key
	}
}

func (m *Model) statusText(phase, loading string) string {
	if m.notice != "" {
		return m.notice
	}
	if loading != "" {
		return "loading " + model.Session{SessionID: loading}.ShortID() + "..."
	}
	return phase
}

func (m *Model) shortcuts() []components.Shortcut {
	help := m.keys.ShortHelp()
	out := make([]components.Shortcut, 0, len(help))
	for _, b := range help {
		out = append(out, components.Shortcut{Key: b.Help().Key, Desc: b.Help().Desc})
	}
	return out
}

// transcriptKey changes whenever the transcript grows or is replaced.
func transcriptKey(sessionID string, msgs []model.Message, awaiting bool) string {
	var b strings.Builder
	b.WriteString(sessionID)
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(len(msgs)))
	if awaiting {
		b.WriteString("/wait")
	}
	return b.String()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat interface.
func (m Model) View() string {
	if !m.ready {
		return "Starting rigchat..."
	}

	snap := m.ctrl.Snapshot()

	header := m.renderHeader(snap.SelectedModel, snap.ActiveSessionID, snap.ActiveUnsynced)

	transcriptPane := m.pane(m.focus == FocusInput).
		Width(m.viewport.Width).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	body := transcriptPane
	if m.showSidebar() {
		picker := m.pane(m.focus == FocusModels).
			Width(m.sidebarWidth).
			Render(m.picker.View())
		sessions := m.pane(m.focus == FocusSessions).
			Width(m.sidebarWidth).
			Height(maxInt(m.sidebar.Height, 1)).
			Render(m.sidebar.View())
		column := lipgloss.JoinVertical(lipgloss.Left, picker, sessions)
		body = lipgloss.JoinHorizontal(lipgloss.Top, column, transcriptPane)
	}

	input := m.pane(m.focus == FocusInput).
		Width(m.width - paneChrome).
		Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, m.statusBar.View())
}

func (m Model) pane(focused bool) lipgloss.Style {
	if focused {
		return m.theme.PaneFocused
	}
	return m.theme.Pane
}

func (m Model) renderHeader(selectedModel, sessionID string, unsynced bool) string {
	parts := []string{m.theme.HeaderBrand.Render("rigchat")}

	if selectedModel == "" {
		parts = append(parts, m.theme.ListPlaceholder.Render(components.SelectModelText))
	} else {
		parts = append(parts, m.theme.HeaderModel.Render(selectedModel))
	}

	if sessionID != "" {
		s := model.Session{SessionID: sessionID}
		label := "Chat " + s.ShortID()
		if unsynced {
			label += m.theme.UnsyncedTag.Render(" (unsynced)")
		}
		parts = append(parts, label)
	}

	return m.theme.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(parts, "  "))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
