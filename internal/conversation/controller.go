// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rigchat/internal/api"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/registry"
)

// ErrEmptyPrompt is recorded when SendPrompt is given blank text.
var ErrEmptyPrompt = errors.New("prompt is empty")

// ErrNoActiveSession is recorded when an operation needs an active session.
var ErrNoActiveSession = errors.New("no active session")

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Controller.
type Options struct {
	// Context bounds every backend call. Defaults to context.Background().
	Context context.Context

	// RequestTimeout caps each backend call. Zero leaves it to the backend.
	RequestTimeout time.Duration

	// DefaultModel is selected by Init when non-empty.
	DefaultModel string

	// NewID generates session ids. Defaults to uuid.NewString.
	NewID func() string

	Logger zerolog.Logger
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the application state and exposes the user operations.
//
// Operations and Update are meant to be called from a single goroutine (the
// Bubble Tea update loop or Run). Snapshot may be called from anywhere.
type Controller struct {
	backend  Backend
	registry *registry.Registry
	log      zerolog.Logger

	ctx          context.Context
	timeout      time.Duration
	defaultModel string
	newID        func() string

	mu            sync.RWMutex
	phase         Phase
	selectedModel string
	models        []string
	activeID      string
	messages      []model.Message
	pendingLoad   string
	lastErr       error

	// promptSeq numbers prompts so only the latest one ends AwaitingResponse.
	promptSeq uint64
}

// New creates a controller with no active session.
func New(backend Backend, reg *registry.Registry, opts Options) *Controller {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if reg == nil {
		reg = registry.New(opts.Logger)
	}
	return &Controller{
		backend:      backend,
		registry:     reg,
		log:          opts.Logger.With().Str("component", "conversation").Logger(),
		ctx:          opts.Context,
		timeout:      opts.RequestTimeout,
		defaultModel: opts.DefaultModel,
		newID:        opts.NewID,
		phase:        StateNoActiveSession,
	}
}

// Registry returns the session registry.
func (c *Controller) Registry() *registry.Registry {
	return c.registry
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	s := State{
		Phase:            c.phase,
		SelectedModel:    c.selectedModel,
		Models:           append([]string(nil), c.models...),
		ActiveSessionID:  c.activeID,
		Messages:         model.CloneMessages(c.messages),
		LoadingSessionID: c.pendingLoad,
		LastError:        c.lastErr,
	}
	c.mu.RUnlock()

	s.Sessions = c.registry.List()
	if s.ActiveSessionID != "" {
		entry, ok := c.registry.Get(s.ActiveSessionID)
		s.ActiveUnsynced = !ok || entry.Unsynced
	}
	return s
}

// ClearError forgets the last recorded failure.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Init fetches the model and session lists, and selects the default model
// when one is configured.
func (c *Controller) Init() tea.Cmd {
	cmds := []tea.Cmd{c.RefreshModels(), c.RefreshSessions()}
	if c.defaultModel != "" {
		cmds = append(cmds, c.SelectModel(c.defaultModel))
	}
	return tea.Batch(cmds...)
}

// SelectModel makes modelID the selected model and notifies the backend.
// The local selection holds even if the backend call fails. Selecting the
// empty string clears the selection without a network call.
func (c *Controller) SelectModel(modelID string) tea.Cmd {
	c.mu.Lock()
	c.selectedModel = modelID
	c.mu.Unlock()

	if modelID == "" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		err := c.backend.SelectModel(ctx, modelID)
		return ModelSelectedMsg{Model: modelID, Err: err}
	}
}

// CreateSession starts a new empty session and makes it active immediately.
// If a model is selected, the returned command registers the session with
// the backend; otherwise it returns nil and the session stays local.
func (c *Controller) CreateSession() tea.Cmd {
	id := c.newID()

	c.mu.Lock()
	c.activeID = id
	c.messages = []model.Message{}
	c.pendingLoad = ""
	c.phase = StateActiveSessionLoaded
	modelName := c.selectedModel
	c.mu.Unlock()

	c.log.Debug().Str("session_id", id).Str("model", modelName).Msg("created session")

	if modelName == "" {
		return nil
	}
	session := model.NewSession(id, modelName)
	return func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		err := c.backend.CreateSession(ctx, session.SessionID, session.ModelName)
		return SessionCreatedMsg{Session: session, Err: err}
	}
}

// LoadSession fetches a session's transcript. The active session changes
// only when the fetch succeeds and no newer load or create has happened.
func (c *Controller) LoadSession(sessionID string) tea.Cmd {
	if sessionID == "" {
		return nil
	}

	c.mu.Lock()
	c.pendingLoad = sessionID
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		msgs, err := c.backend.GetSession(ctx, sessionID)
		return SessionLoadedMsg{SessionID: sessionID, Messages: msgs, Err: err}
	}
}

// SendPrompt appends text as a user message and requests a reply.
// Blank text is rejected with ErrEmptyPrompt and nothing else changes. With
// no active session, a new one is created first.
func (c *Controller) SendPrompt(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		c.recordError(ErrEmptyPrompt)
		return nil
	}

	var create tea.Cmd
	if c.Snapshot().ActiveSessionID == "" {
		create = c.CreateSession()
	}

	c.mu.Lock()
	c.messages = append(c.messages, model.NewUserMessage(text))
	c.phase = StateAwaitingResponse
	c.promptSeq++
	req := api.ChatRequest{
		Prompt:    text,
		ModelName: c.selectedModel,
		SessionID: c.activeID,
	}
	seq := c.promptSeq
	c.mu.Unlock()

	chat := func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		resp, err := c.backend.Chat(ctx, req)
		msg := ChatReplyMsg{SessionID: req.SessionID, Err: err, seq: seq}
		if err == nil {
			msg.Reply, msg.HasReply = resp.Reply()
		}
		return msg
	}

	if create == nil {
		return chat
	}
	return sequence(create, chat)
}

// RefreshSessions re-fetches the session list and replaces the registry.
func (c *Controller) RefreshSessions() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		sessions, err := c.backend.ListSessions(ctx)
		return SessionsRefreshedMsg{Sessions: sessions, Err: err}
	}
}

// RefreshModels re-fetches the model list.
func (c *Controller) RefreshModels() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		models, err := c.backend.ListModels(ctx)
		return ModelsLoadedMsg{Models: models, Err: err}
	}
}

// SaveMemory stores a named memory for the active session.
func (c *Controller) SaveMemory(name string) tea.Cmd {
	name = strings.TrimSpace(name)
	id := c.Snapshot().ActiveSessionID
	if id == "" {
		c.recordError(ErrNoActiveSession)
		return nil
	}
	if name == "" {
		c.recordError(errors.New("memory name is empty"))
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		err := c.backend.CreateMemory(ctx, id, name)
		return MemorySavedMsg{SessionID: id, Name: name, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update folds a result message into state. Messages the controller does not
// know are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ModelsLoadedMsg:
		if msg.Err != nil {
			c.fail(msg.Err, "list models")
			return nil
		}
		c.mu.Lock()
		c.models = append([]string(nil), msg.Models...)
		c.mu.Unlock()

	case ModelSelectedMsg:
		if msg.Err != nil {
			c.fail(msg.Err, "select model %s", msg.Model)
		}

	case SessionCreatedMsg:
		if msg.Err != nil {
			c.fail(msg.Err, "create session")
			return nil
		}
		local := msg.Session
		local.Unsynced = true
		c.registry.Add(local)
		return c.RefreshSessions()

	case SessionLoadedMsg:
		return c.applyLoad(msg)

	case ChatReplyMsg:
		return c.applyReply(msg)

	case SessionsRefreshedMsg:
		if msg.Err != nil {
			c.fail(msg.Err, "list sessions")
			return nil
		}
		c.registry.Ingest(msg.Sessions)

	case MemorySavedMsg:
		if msg.Err != nil {
			c.fail(msg.Err, "save memory %q", msg.Name)
		}
	}
	return nil
}

func (c *Controller) applyLoad(msg SessionLoadedMsg) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingLoad != msg.SessionID {
		c.log.Debug().Str("session_id", msg.SessionID).Msg("discarding stale session load")
		return nil
	}
	c.pendingLoad = ""

	if msg.Err != nil {
		c.failLocked(msg.Err, "load session %s", msg.SessionID)
		return nil
	}

	c.activeID = msg.SessionID
	c.messages = model.CloneMessages(msg.Messages)
	if c.messages == nil {
		c.messages = []model.Message{}
	}
	c.phase = StateActiveSessionLoaded
	return nil
}

func (c *Controller) applyReply(msg ChatReplyMsg) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	if msg.seq == c.promptSeq && c.phase == StateAwaitingResponse {
		c.phase = StateActiveSessionLoaded
	}

	if msg.Err != nil {
		c.failLocked(msg.Err, "chat")
		return nil
	}

	if msg.SessionID != c.activeID {
		c.log.Debug().Str("session_id", msg.SessionID).Msg("discarding reply for inactive session")
	} else if msg.HasReply {
		c.messages = append(c.messages, model.NewAssistantMessage(msg.Reply))
	}
	return c.RefreshSessions()
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Controller) callContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(c.ctx, c.timeout)
	}
	return context.WithCancel(c.ctx)
}

func (c *Controller) recordError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *Controller) fail(err error, format string, args ...interface{}) {
	c.mu.Lock()
	c.failLocked(err, format, args...)
	c.mu.Unlock()
}

func (c *Controller) failLocked(err error, format string, args ...interface{}) {
	op := fmt.Sprintf(format, args...)
	c.log.Warn().Err(err).Str("op", op).Msg("backend call failed")
	c.lastErr = errors.Wrap(err, op)
}

// sequence runs cmds one after another in a single goroutine and delivers
// all of their results. Unlike tea.Batch, the calls do not overlap.
func sequence(cmds ...tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		var out tea.BatchMsg
		for _, cmd := range cmds {
			if cmd == nil {
				continue
			}
			msg := cmd()
			out = append(out, func() tea.Msg { return msg })
		}
		return out
	}
}
