// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	baseURL    string
	logLevel   string
}

// NewRootCmd builds the rigchat command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "rigchat",
		Short: "rigchat - terminal client for a local chat backend",
		Long: `rigchat talks to a chat backend over HTTP. It lists models and past
sessions, starts new sessions, and renders replies with highlighted code
blocks, either in a full-screen TUI or as a line-mode REPL.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd) {
				return cmd.Help()
			}
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.rigchat/config.toml)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "backend URL (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)

	root.AddCommand(
		newTUICmd(opts),
		newREPLCmd(opts),
		newAskCmd(opts),
		newSessionsCmd(opts),
		newModelsCmd(opts),
		newMemoriesCmd(opts),
		newStatusCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// versionString returns the version with build metadata when it is known.
func versionString() string {
	if GitCommit == "unknown" && BuildDate == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
