// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rigchat/internal/conversation"
	"github.com/jeranaias/rigchat/internal/segment"
	"github.com/jeranaias/rigchat/internal/ui/components"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies the pane that receives navigation keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusSessions
	FocusModels
)

// String returns the pane name.
func (f Focus) String() string {
	switch f {
	case FocusInput:
		return "input"
	case FocusSessions:
		return "sessions"
	case FocusModels:
		return "models"
	default:
		return "unknown"
	}
}

// next returns the focus after f in tab order.
func (f Focus) next() Focus {
	return (f + 1) % 3
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures a Model.
type Options struct {
	// CodeLanguage labels untagged code fences. Empty selects "text".
	CodeLanguage string

	// SidebarWidth is the session list width in columns (default 32).
	SidebarWidth int

	Logger zerolog.Logger
}

const (
	inputPrompt  = "> "
	memoryPrompt = "memory> "
	promptHint   = "Type a message..."
	memoryHint   = "Name this session, Enter to save, Esc to cancel"
)

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctrl  *conversation.Controller
	theme *styles.Theme
	seg   *segment.Segmenter
	keys  KeyMap
	log   zerolog.Logger

	// Dimensions
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// UI Components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	sidebar   *components.Sidebar
	picker    *components.ModelPicker
	statusBar *components.StatusBar

	focus      Focus
	memoryMode bool
	spinning   bool

	// notice is a one-off status line message, replaced by the next action.
	notice string

	// transcriptKey detects transcript changes that should scroll to bottom.
	transcriptKey string

	copyToClipboard func(string) error
}

// New creates a chat model around ctrl.
func New(ctrl *conversation.Controller, theme *styles.Theme, opts Options) Model {
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = 32
	}

	ti := textinput.New()
	ti.Prompt = inputPrompt
	ti.Placeholder = promptHint
	ti.CharLimit = 0
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	return Model{
		ctrl:            ctrl,
		theme:           theme,
		seg:             segment.New(opts.CodeLanguage),
		keys:            DefaultKeyMap(),
		log:             opts.Logger.With().Str("component", "tui").Logger(),
		sidebarWidth:    opts.SidebarWidth,
		viewport:        vp,
		input:           ti,
		spinner:         sp,
		sidebar:         components.NewSidebar(theme, opts.SidebarWidth),
		picker:          components.NewModelPicker(theme, opts.SidebarWidth),
		statusBar:       components.NewStatusBar(theme),
		focus:           FocusInput,
		copyToClipboard: clipboard.WriteAll,
	}
}

// Init starts the cursor blink and the controller's initial fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.ctrl.Init())
}

// Focus returns the focused pane.
func (m Model) Focus() Focus {
	return m.focus
}

// CodeLanguage returns the fallback language for untagged code fences.
func (m Model) CodeLanguage() string {
	if m.seg.DefaultLanguage == "" {
		return segment.DefaultLanguage
	}
	return m.seg.DefaultLanguage
}
