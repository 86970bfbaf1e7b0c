// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/ui/chat"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen chat interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

// runTUI runs the Bubble Tea program until the user quits. Config file
// changes are delivered to the running model.
func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	e, err := opts.setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	ctrl := e.controller(ctx)
	theme := styles.NewTheme(e.cfg.UI.Theme)
	m := chat.New(ctrl, theme, chat.Options{
		CodeLanguage: e.cfg.UI.DefaultCodeLanguage,
		SidebarWidth: e.cfg.UI.SidebarWidth,
		Logger:       e.log.Logger,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	watchLog := e.log.Component("config")
	err = config.Watch(ctx, opts.configPath, func(cfg *config.Config, err error) {
		if err != nil {
			watchLog.Warn().Err(err).Msg("config reload failed")
		} else {
			watchLog.Info().Msg("config reloaded")
		}
		p.Send(chat.ConfigReloadedMsg{Config: cfg, Err: err})
	})
	if err != nil {
		watchLog.Warn().Err(err).Msg("config watch disabled")
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "tui")
	}
	return nil
}
