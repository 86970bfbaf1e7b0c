// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/conversation"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/segment"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		snap := m.ctrl.Snapshot()
		if !snap.Awaiting() && snap.LoadingSessionID == "" {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.sync()
		return m, cmd

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case conversation.MemorySavedMsg:
		cmd := m.ctrl.Update(msg)
		if msg.Err == nil {
			m.notice = fmt.Sprintf("Saved memory %q", msg.Name)
		}
		m.sync()
		return m, cmd
	}

	cmd := m.ctrl.Update(msg)
	m.sync()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.memoryMode {
			m.leaveMemoryMode()
		} else {
			m.focus = FocusInput
		}
		m.ctrl.ClearError()
		m.notice = ""
		m.applyFocus()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.memoryMode {
			return m, nil
		}
		m.focus = m.focus.next()
		m.applyFocus()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		return m.run(m.ctrl.CreateSession)

	case key.Matches(msg, m.keys.Refresh):
		return m.run(func() tea.Cmd {
			return tea.Batch(m.ctrl.RefreshModels(), m.ctrl.RefreshSessions())
		})

	case key.Matches(msg, m.keys.CopyCode):
		m.copyLastCodeBlock()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.SaveMemory):
		m.enterMemoryMode()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	switch m.focus {
	case FocusSessions:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.sidebar.MoveUp()
		case key.Matches(msg, m.keys.Down):
			m.sidebar.MoveDown()
		}
		return m, nil

	case FocusModels:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.picker.MoveUp()
		case key.Matches(msg, m.keys.Down):
			m.picker.MoveDown()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit acts on Enter for the focused pane.
func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.focus {
	case FocusSessions:
		sel, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		m.focus = FocusInput
		m.applyFocus()
		return m.run(func() tea.Cmd { return m.ctrl.LoadSession(sel.SessionID) })

	case FocusModels:
		m.focus = FocusInput
		m.applyFocus()
		name := m.picker.Highlighted()
		return m.run(func() tea.Cmd { return m.ctrl.SelectModel(name) })
	}

	value := m.input.Value()
	if m.memoryMode {
		m.leaveMemoryMode()
		return m.run(func() tea.Cmd { return m.ctrl.SaveMemory(value) })
	}
	if strings.TrimSpace(value) != "" {
		m.input.Reset()
	}
	return m.run(func() tea.Cmd { return m.ctrl.SendPrompt(value) })
}

// run clears stale feedback, then invokes a controller operation. The
// spinner starts when a request is now outstanding.
func (m Model) run(op func() tea.Cmd) (tea.Model, tea.Cmd) {
	m.ctrl.ClearError()
	m.notice = ""

	cmds := []tea.Cmd{op()}
	snap := m.ctrl.Snapshot()
	if !m.spinning && (snap.Awaiting() || snap.LoadingSessionID != "") {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	m.sync()
	return m, tea.Batch(cmds...)
}

func (m *Model) enterMemoryMode() {
	m.memoryMode = true
	m.focus = FocusInput
	m.applyFocus()
	m.input.Reset()
	m.input.Prompt = memoryPrompt
	m.input.Placeholder = memoryHint
}

func (m *Model) leaveMemoryMode() {
	m.memoryMode = false
	m.input.Reset()
	m.input.Prompt = inputPrompt
	m.input.Placeholder = promptHint
}

func (m *Model) applyFocus() {
	m.sidebar.Focused = m.focus == FocusSessions
	m.picker.Focused = m.focus == FocusModels
	if m.focus == FocusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.layout()
}

// copyLastCodeBlock copies the last code segment of the transcript.
func (m *Model) copyLastCodeBlock() {
	m.ctrl.ClearError()

	code, ok := lastCodeBlock(m.seg, m.ctrl.Snapshot().Messages)
	if !ok {
		m.notice = "No code block to copy"
		return
	}
	if err := m.copyToClipboard(code.Content); err != nil {
		m.log.Warn().Err(err).Msg("clipboard write failed")
		m.notice = "Failed to copy: " + err.Error()
		return
	}
	m.notice = fmt.Sprintf("Copied %s code block (%d chars)", code.Language, len(code.Content))
}

// lastCodeBlock returns the last code segment across msgs.
func lastCodeBlock(seg *segment.Segmenter, msgs []model.Message) (segment.Segment, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		codes := segment.CodeSegments(seg.Segment(msgs[i].Content))
		if len(codes) > 0 {
			return codes[len(codes)-1], true
		}
	}
	return segment.Segment{}, false
}

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Msg("config reload failed")
		m.notice = "Config reload failed: " + msg.Err.Error()
		m.sync()
		return m, nil
	}

	lang := msg.Config.UI.DefaultCodeLanguage
	if lang != m.CodeLanguage() {
		m.seg = segment.New(lang)
		m.notice = "Code language set to " + m.CodeLanguage()
		m.log.Info().Str("language", m.CodeLanguage()).Msg("config reloaded")
	}
	m.transcriptKey = ""
	m.sync()
	return m, nil
}
