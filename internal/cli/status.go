// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/rigchat/internal/api"
	"github.com/jeranaias/rigchat/internal/model"
)

// statusReport collects the results of the status probes.
type statusReport struct {
	status   *api.Status
	models   []string
	sessions []model.Session
	elapsed  time.Duration
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, e *env) error {
				report, err := probe(ctx, e.client)
				if err != nil {
					return err
				}
				printStatus(cmd, e, report)
				return nil
			})
		},
	}
}

// probe queries health, models and sessions concurrently. The first failure
// cancels the others.
func probe(ctx context.Context, client *api.Client) (*statusReport, error) {
	start := time.Now()
	report := &statusReport{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := client.CheckRunning(ctx)
		report.status = st
		return err
	})
	g.Go(func() error {
		models, err := client.ListModels(ctx)
		report.models = models
		return err
	})
	g.Go(func() error {
		sessions, err := client.ListSessions(ctx)
		report.sessions = sessions
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.elapsed = time.Since(start)
	return report, nil
}

func printStatus(cmd *cobra.Command, e *env, r *statusReport) {
	out := cmd.OutOrStdout()
	state := r.status.Status
	if state == "" {
		state = "ok"
	}
	fmt.Fprintf(out, "%s %s (%s)\n", okStyle.Render("[OK]"), e.client.BaseURL(), state)
	if r.status.Message != "" {
		fmt.Fprintln(out, "  "+r.status.Message)
	}
	fmt.Fprintf(out, "  models:   %d\n", len(r.models))
	fmt.Fprintf(out, "  sessions: %d\n", len(r.sessions))
	fmt.Fprintf(out, "  latency:  %s\n", r.elapsed.Round(time.Millisecond))
}
