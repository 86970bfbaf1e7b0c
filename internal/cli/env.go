// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/api"
	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/conversation"
	"github.com/jeranaias/rigchat/internal/logger"
	"github.com/jeranaias/rigchat/internal/registry"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// COMMAND ENVIRONMENT
// =============================================================================

// env is the configured runtime shared by the subcommands.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	client *api.Client
}

// loadConfig loads the config file and applies the persistent flags.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.baseURL != "" {
		cfg.Backend.BaseURL = o.baseURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = strings.ToLower(o.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid flags")
	}
	return cfg, nil
}

// setup builds the config, logger and backend client. Console logging is
// only allowed for line-mode commands; the TUI owns the terminal.
func (o *globalOptions) setup(cmd *cobra.Command, lineMode bool) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logFile, err := util.ExpandHome(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		File:    logFile,
		Console: lineMode && cfg.Log.Console,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log")
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           cfg.Backend.Timeout(),
		MaxRetries:        cfg.Backend.MaxRetries,
		RetryDelay:        cfg.Backend.RetryDelay(),
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		UserAgent:         "rigchat/" + Version,
		Logger:            log.Logger,
	})

	log.Debug().
		Str("command", cmd.Name()).
		Str("base_url", client.BaseURL()).
		Msg("starting")

	return &env{cfg: cfg, log: log, client: client}, nil
}

// controller creates a conversation controller bound to ctx.
func (e *env) controller(ctx context.Context) *conversation.Controller {
	return conversation.New(e.client, registry.New(e.log.Logger), conversation.Options{
		Context:      ctx,
		DefaultModel: e.cfg.UI.DefaultModel,
		Logger:       e.log.Logger,
	})
}

// Close flushes and closes the log file.
func (e *env) Close() error {
	return e.log.Close()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// describe turns backend errors into a message suitable for the terminal.
func describe(err error) string {
	switch {
	case api.IsNotRunning(err):
		return "backend is not reachable: " + err.Error()
	case api.IsTimeout(err):
		return "backend timed out: " + err.Error()
	default:
		return err.Error()
	}
}
