// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/registry"
)

// withClient runs fn with a line-mode environment and a signal-aware context.
func withClient(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, e *env) error) error {
	e, err := opts.setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if err := fn(ctx, e); err != nil {
		return errors.New(describe(err))
	}
	return nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func newSessionsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"ls"},
		Short:   "List chat sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, e *env) error {
				remote, err := e.client.ListSessions(ctx)
				if err != nil {
					return err
				}
				reg := registry.New(e.log.Logger)
				e.printer(cmd).sessions(reg.Ingest(remote), "")
				return nil
			})
		},
	}

	cmd.AddCommand(
		newSessionsExportCmd(opts),
		&cobra.Command{
			Use:   "show ID",
			Short: "Print a session transcript",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, opts, func(ctx context.Context, e *env) error {
					msgs, err := e.client.GetSession(ctx, args[0])
					if err != nil {
						return err
					}
					e.printer(cmd).transcript(msgs)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the backend's current session history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, opts, func(ctx context.Context, e *env) error {
					if err := e.client.ClearSession(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("[OK]"), "session history cleared")
					return nil
				})
			},
		},
	)
	return cmd
}

func newSessionsExportCmd(opts *globalOptions) *cobra.Command {
	var format, outputDir string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a session transcript to a Markdown or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return withClient(cmd, opts, func(ctx context.Context, e *env) error {
				t, err := fetchTranscript(ctx, e, args[0])
				if err != nil {
					return err
				}

				eo := export.DefaultOptions()
				eo.OutputDir = outputDir
				eo.CodeLanguage = e.cfg.UI.DefaultCodeLanguage
				exporter, err := export.NewExporter(f, eo)
				if err != nil {
					return err
				}
				path, err := export.ToFile(t, exporter, eo)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("[OK]"), "exported to", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "export format (markdown, json)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	return cmd
}

// fetchTranscript loads a session's messages and its summary. A session
// missing from the list is exported with only its id.
func fetchTranscript(ctx context.Context, e *env, id string) (export.Transcript, error) {
	msgs, err := e.client.GetSession(ctx, id)
	if err != nil {
		return export.Transcript{}, err
	}
	t := export.Transcript{Session: model.Session{SessionID: id}, Messages: msgs}

	remote, err := e.client.ListSessions(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("exporting without session details")
		return t, nil
	}
	reg := registry.New(e.log.Logger)
	reg.Ingest(remote)
	if s, ok := reg.Get(id); ok {
		t.Session = s
	}
	return t, nil
}

// =============================================================================
// MODELS
// =============================================================================

func newModelsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, e *env) error {
				models, err := e.client.ListModels(ctx)
				if err != nil {
					return err
				}
				e.printer(cmd).models(models, e.cfg.UI.DefaultModel)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "select NAME",
		Short: "Make NAME the backend's active model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, e *env) error {
				if err := e.client.SelectModel(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("[OK]"), "model set to", args[0])
				return nil
			})
		},
	})
	return cmd
}

// =============================================================================
// MEMORIES
// =============================================================================

func newMemoriesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "List saved memories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, e *env) error {
				mems, err := e.client.ListMemories(ctx)
				if err != nil {
					return err
				}
				printMemories(e.printer(cmd), mems)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save SESSION NAME",
		Short: "Save a session as a named memory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, e *env) error {
				if err := e.client.CreateMemory(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s saved memory %q\n", okStyle.Render("[OK]"), args[1])
				return nil
			})
		},
	})
	return cmd
}

func printMemories(p *printer, mems []model.Memory) {
	if len(mems) == 0 {
		fmt.Fprintln(p.out, infoStyle.Render("No memories saved"))
		return
	}
	rows := make([][]string, 0, len(mems))
	for _, m := range mems {
		created := ""
		if !m.CreatedAt.IsZero() {
			created = m.CreatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{m.Memory, m.SessionID, created})
	}
	p.table([]string{"NAME", "SESSION", "CREATED"}, rows)
}
