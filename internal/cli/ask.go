// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type askOptions struct {
	model   string
	session string
}

func newAskCmd(opts *globalOptions) *cobra.Command {
	ao := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Send one prompt and print the reply",
		Long: `Send a single prompt and print the reply. With no arguments the
prompt is read from standard input. A new session is created unless
--session names an existing one.`,
		Example: `  rigchat ask --model llama3 "explain goroutines"
  git diff | rigchat ask --model llama3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, ao, args)
		},
	}
	cmd.Flags().StringVarP(&ao.model, "model", "m", "", "model to use (default from config)")
	cmd.Flags().StringVarP(&ao.session, "session", "s", "", "continue an existing session")
	return cmd
}

func runAsk(cmd *cobra.Command, opts *globalOptions, ao *askOptions, args []string) error {
	prompt := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, "failed to read prompt")
		}
		prompt = string(data)
	}
	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt is empty")
	}

	e, err := opts.setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	ctrl := e.controller(ctx)
	r := newREPL(ctx, ctrl, e.printer(cmd))

	modelName := ao.model
	if modelName == "" {
		modelName = e.cfg.UI.DefaultModel
	}
	if modelName != "" {
		if err := r.do(func() tea.Cmd { return ctrl.SelectModel(modelName) }); err != nil {
			return errors.New(describe(err))
		}
	}
	if ao.session != "" {
		if err := r.do(func() tea.Cmd { return ctrl.LoadSession(ao.session) }); err != nil {
			return errors.New(describe(err))
		}
	}

	if err := r.send(prompt); err != nil {
		return errors.New(describe(err))
	}
	if id := ctrl.Snapshot().ActiveSessionID; id != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), infoStyle.Render("session "+id))
	}
	return nil
}
