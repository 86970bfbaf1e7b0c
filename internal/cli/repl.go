// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/commands"
	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/conversation"
	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/segment"
)

// HistoryFileName is the REPL history file inside the config directory.
const HistoryFileName = "history"

func newREPLCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Chat in line mode with input history",
		Long: `Start a line-mode chat. Lines are sent as prompts; lines starting
with / are commands:

  /new            start a new session
  /model NAME     select a model ("/model" alone clears the selection)
  /models         list models
  /sessions       list sessions
  /load ID        load a session by id or unique id prefix
  /memory NAME    save the active session as a named memory
  /export [FMT]   write the active session to markdown or json
  /help           list commands
  /quit           leave

Tab completes command names, models and session ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, opts)
		},
	}
}

func runREPL(cmd *cobra.Command, opts *globalOptions) error {
	e, err := opts.setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	r := newREPL(ctx, e.controller(ctx), e.printer(cmd))
	if err := r.ctrl.Run(ctx, r.ctrl.Init()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errStyle.Render("[Error]"), describe(err))
	}
	r.greet()

	line := newLineEditor(r.completer.Lines)
	defer line.Close()

	for {
		input, err := line.ReadInput(r.prompt())
		if err != nil {
			// Ctrl+C, Ctrl+D and closed input all end the session.
			fmt.Fprintln(r.out)
			return nil
		}

		quit, err := r.execute(input)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), errStyle.Render("[Error]"), describe(err))
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

// =============================================================================
// LINE EDITOR
// =============================================================================

// lineEditor wraps liner with a persistent history file.
type lineEditor struct {
	line        *liner.State
	historyFile string
}

func newLineEditor(complete liner.Completer) *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	le := &lineEditor{line: line, historyFile: filepath.Join(dir, HistoryFileName)}

	if f, err := os.Open(le.historyFile); err == nil {
		le.line.ReadHistory(f)
		f.Close()
	}
	return le
}

// ReadInput reads one line and records non-blank input in the history.
func (le *lineEditor) ReadInput(prompt string) (string, error) {
	input, err := le.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		le.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history with owner-only permissions and restores the
// terminal.
func (le *lineEditor) Close() {
	defer le.line.Close()

	if err := os.MkdirAll(filepath.Dir(le.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(le.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	le.line.WriteHistory(f)
}

// =============================================================================
// REPL
// =============================================================================

// repl executes line-mode input against a controller.
type repl struct {
	ctx       context.Context
	ctrl      *conversation.Controller
	out       io.Writer
	p         *printer
	cmds      *commands.Registry
	completer *commands.Completer

	// exportDir receives /export files.
	exportDir string
}

func newREPL(ctx context.Context, ctrl *conversation.Controller, p *printer) *repl {
	r := &repl{ctx: ctx, ctrl: ctrl, out: p.out, p: p, exportDir: "."}
	r.cmds = r.registry()
	r.completer = commands.NewCompleter(r.cmds)
	r.completer.ModelsFn = func() []string { return r.ctrl.Snapshot().Models }
	r.completer.SessionsFn = func() []string {
		var ids []string
		for _, s := range r.ctrl.Snapshot().Sessions {
			ids = append(ids, s.SessionID)
		}
		return ids
	}
	return r
}

// registry builds the slash commands.
func (r *repl) registry() *commands.Registry {
	reg := commands.NewRegistry()
	for _, c := range []*commands.Command{
		{
			Name:        "/new",
			Description: "start a new session",
			Usage:       "/new",
			Handler:     r.cmdNew,
		},
		{
			Name:        "/model",
			Description: "select a model, or clear with no name",
			Usage:       "/model [name]",
			Args:        []commands.ArgDef{{Name: "name", Type: commands.ArgTypeModel}},
			Handler:     r.cmdModel,
		},
		{
			Name:        "/models",
			Description: "list models",
			Usage:       "/models",
			Handler:     r.cmdModels,
		},
		{
			Name:        "/sessions",
			Description: "list sessions",
			Usage:       "/sessions",
			Handler:     r.cmdSessions,
		},
		{
			Name:        "/load",
			Description: "load a session by id or prefix",
			Usage:       "/load <id>",
			Args:        []commands.ArgDef{{Name: "id", Required: true, Type: commands.ArgTypeSession}},
			Handler:     r.cmdLoad,
		},
		{
			Name:        "/memory",
			Description: "save the active session as a memory",
			Usage:       "/memory <name>",
			Args:        []commands.ArgDef{{Name: "name", Required: true}},
			Handler:     r.cmdMemory,
		},
		{
			Name:        "/export",
			Description: "write the active session to a file",
			Usage:       "/export [markdown|json]",
			Args: []commands.ArgDef{{
				Name:   "format",
				Type:   commands.ArgTypeEnum,
				Values: []string{string(export.FormatMarkdown), "md", string(export.FormatJSON)},
			}},
			Handler: r.cmdExport,
		},
		{
			Name:        "/help",
			Aliases:     []string{"/h", "/?"},
			Description: "list commands",
			Usage:       "/help",
			Handler:     r.cmdHelp,
		},
		{
			Name:        "/quit",
			Aliases:     []string{"/exit", "/q"},
			Description: "leave",
			Usage:       "/quit",
			Handler:     func(commands.Invocation) error { return commands.ErrQuit },
		},
	} {
		reg.Register(c)
	}
	return reg
}

func (r *repl) greet() {
	st := r.ctrl.Snapshot()
	selected := st.SelectedModel
	if selected == "" {
		selected = "none"
	}
	fmt.Fprintf(r.out, "%s  model: %s  sessions: %d\n",
		headerStyle.Render("rigchat"), selected, len(st.Sessions))
	fmt.Fprintln(r.out, infoStyle.Render("Type a message, or /help for commands."))
}

func (r *repl) prompt() string {
	st := r.ctrl.Snapshot()
	if st.SelectedModel == "" {
		return "rigchat> "
	}
	return st.SelectedModel + "> "
}

// do runs one controller operation to completion. Validation failures that
// produce no command are reported from the controller's last error.
func (r *repl) do(op func() tea.Cmd) error {
	r.ctrl.ClearError()
	if err := r.ctrl.Run(r.ctx, op()); err != nil {
		return err
	}
	return r.ctrl.Snapshot().LastError
}

// execute handles one input line. quit reports that the session should end.
func (r *repl) execute(input string) (quit bool, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}
	if !commands.IsCommand(input) {
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return true, nil
		}
		return false, r.send(input)
	}

	err = r.cmds.Run(input)
	if errors.Is(err, commands.ErrQuit) {
		return true, nil
	}
	return false, err
}

// send submits a prompt and prints the reply.
func (r *repl) send(text string) error {
	if err := r.do(func() tea.Cmd { return r.ctrl.SendPrompt(text) }); err != nil {
		return err
	}
	reply, ok := lastReply(r.ctrl.Snapshot().Messages)
	if !ok {
		fmt.Fprintln(r.out, warnStyle.Render("(no reply)"))
		return nil
	}
	r.p.message(reply)
	return nil
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

func (r *repl) cmdNew(commands.Invocation) error {
	if err := r.do(r.ctrl.CreateSession); err != nil {
		return err
	}
	st := r.ctrl.Snapshot()
	note := ""
	if st.SelectedModel == "" {
		note = " (local until a model is selected)"
	}
	fmt.Fprintf(r.out, "%s new session %s%s\n", okStyle.Render("[OK]"), st.ActiveSessionID, note)
	return nil
}

func (r *repl) cmdModel(inv commands.Invocation) error {
	name := inv.RawArgs
	if len(inv.Args) == 1 {
		name = inv.Args[0]
	}
	if err := r.do(func() tea.Cmd { return r.ctrl.SelectModel(name) }); err != nil {
		return err
	}
	if name == "" {
		fmt.Fprintln(r.out, okStyle.Render("[OK]"), "model selection cleared")
	} else {
		fmt.Fprintln(r.out, okStyle.Render("[OK]"), "model set to", name)
	}
	return nil
}

func (r *repl) cmdModels(commands.Invocation) error {
	if err := r.do(r.ctrl.RefreshModels); err != nil {
		return err
	}
	st := r.ctrl.Snapshot()
	r.p.models(st.Models, st.SelectedModel)
	return nil
}

func (r *repl) cmdSessions(commands.Invocation) error {
	if err := r.do(r.ctrl.RefreshSessions); err != nil {
		return err
	}
	st := r.ctrl.Snapshot()
	r.p.sessions(st.Sessions, st.ActiveSessionID)
	return nil
}

func (r *repl) cmdLoad(inv commands.Invocation) error {
	id, err := resolveSessionID(r.ctrl.Snapshot().Sessions, inv.Args[0])
	if err != nil {
		return err
	}
	if err := r.do(func() tea.Cmd { return r.ctrl.LoadSession(id) }); err != nil {
		return err
	}
	r.p.transcript(r.ctrl.Snapshot().Messages)
	return nil
}

func (r *repl) cmdMemory(inv commands.Invocation) error {
	name := inv.RawArgs
	if len(inv.Args) == 1 {
		name = inv.Args[0]
	}
	if err := r.do(func() tea.Cmd { return r.ctrl.SaveMemory(name) }); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s saved memory %q\n", okStyle.Render("[OK]"), name)
	return nil
}

func (r *repl) cmdExport(inv commands.Invocation) error {
	st := r.ctrl.Snapshot()
	if !st.HasActiveSession() {
		return conversation.ErrNoActiveSession
	}

	format := ""
	if len(inv.Args) > 0 {
		format = inv.Args[0]
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	session, ok := r.ctrl.Registry().Get(st.ActiveSessionID)
	if !ok {
		session = model.Session{SessionID: st.ActiveSessionID, ModelName: st.SelectedModel}
	}
	opts := export.DefaultOptions()
	opts.OutputDir = r.exportDir
	opts.CodeLanguage = r.p.seg.DefaultLanguage
	exporter, err := export.NewExporter(f, opts)
	if err != nil {
		return err
	}
	path, err := export.ToFile(export.Transcript{Session: session, Messages: st.Messages}, exporter, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, okStyle.Render("[OK]"), "exported to", path)
	return nil
}

func (r *repl) cmdHelp(commands.Invocation) error {
	for _, c := range r.cmds.All() {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(r.out, "  %-24s %s\n", c.Usage, infoStyle.Render(c.Description))
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveSessionID finds the session whose id equals arg, or the single
// session whose id starts with it. An unknown id is passed through so the
// backend can answer for sessions not in the list.
func resolveSessionID(sessions []model.Session, arg string) (string, error) {
	if arg == "" {
		return "", errors.New("usage: /load <id>")
	}
	var matches []string
	for _, s := range sessions {
		if s.SessionID == arg {
			return arg, nil
		}
		if strings.HasPrefix(s.SessionID, arg) {
			matches = append(matches, s.SessionID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", errors.Errorf("session prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// lastReply returns the final message if it came from the assistant.
func lastReply(msgs []model.Message) (model.Message, bool) {
	if len(msgs) == 0 {
		return model.Message{}, false
	}
	last := msgs[len(msgs)-1]
	if last.IsUser() {
		return model.Message{}, false
	}
	return last, true
}

// printer returns a printer for cmd's output; highlighting is used only on a
// terminal.
func (e *env) printer(cmd *cobra.Command) *printer {
	seg := segment.New(e.cfg.UI.DefaultCodeLanguage)
	if !isTerminal(cmd) {
		return newPrinter(cmd.OutOrStdout(), seg, nil, 0)
	}
	return newPrinter(cmd.OutOrStdout(), seg, themeFor(e.cfg), terminalWidth(cmd))
}
