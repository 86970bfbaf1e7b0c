// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the line-mode chat.
//
// A Registry holds Commands by name and alias. Parser splits input into a
// command name and arguments, honoring single and double quotes. Completer
// offers tab completion for command names and for model or session
// arguments supplied by the application.
//
// # Usage
//
//	reg := commands.NewRegistry()
//	reg.Register(&commands.Command{
//	    Name:    "/load",
//	    Args:    []commands.ArgDef{{Name: "id", Required: true, Type: commands.ArgTypeSession}},
//	    Handler: func(inv commands.Invocation) error { return load(inv.Args[0]) },
//	})
//	err := reg.Run("/load abc123")
package commands
