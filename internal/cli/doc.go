// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the rigchat command line.

# Commands

	rigchat                  Start the TUI when stdout is a terminal
	rigchat tui              Start the TUI
	rigchat repl             Line-mode chat with history
	rigchat ask PROMPT       Send one prompt (stdin when no args)
	rigchat sessions         List sessions
	rigchat sessions show ID Print a transcript
	rigchat sessions export ID  Write a transcript (--format markdown|json)
	rigchat sessions clear   Clear the backend's current session
	rigchat models           List models
	rigchat models select M  Make M the backend's active model
	rigchat memories         List saved memories
	rigchat memories save S N  Save session S as memory N
	rigchat status           Backend health with model and session counts
	rigchat config show      Print the effective configuration
	rigchat config path      Print the config file path
	rigchat config init      Write a default config file
	rigchat config get KEY   Print one value
	rigchat config set K V   Update one value in the config file
	rigchat config keys      List config keys

# Global Flags

	--config PATH      Config file (default ~/.rigchat/config.toml)
	--base-url URL     Backend URL (overrides config and RIGCHAT_BASE_URL)
	--log-level LEVEL  trace, debug, info, warn or error

# REPL Commands

	/new          Start a new session
	/model NAME   Select a model (no name clears it)
	/models       List models
	/sessions     List sessions
	/load ID      Load a session by id or id prefix
	/memory NAME  Save the session as a named memory
	/export [FMT] Write the session to a markdown or json file
	/help         List commands
	/quit         Exit
*/
package cli
