// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"sort"
	"strings"
)

// ErrQuit is returned by a handler to end the session.
var ErrQuit = errors.New("quit")

// ErrNotCommand is returned by Run for input without a leading slash.
var ErrNotCommand = errors.New("not a command")

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/model [name]")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler executes the command.
	Handler func(inv Invocation) error

	// Hidden commands don't appear in help or completion
	Hidden bool
}

// Invocation is a parsed call of a command.
type Invocation struct {
	Command *Command

	// Args are the quote-aware arguments.
	Args []string

	// RawArgs is everything after the command name, trimmed.
	RawArgs string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString  ArgType = iota // Free-form string
	ArgTypeModel                  // Model name from the backend
	ArgTypeSession                // Session id
	ArgTypeEnum                   // One of Values
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds commands by lowercased name and alias.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
}

// Register adds a command to the registry, replacing one with the same name.
func (r *Registry) Register(cmd *Command) {
	r.commands[strings.ToLower(cmd.Name)] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[strings.ToLower(alias)] = cmd
	}
}

// Get retrieves a command by name or alias, ignoring case.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Run parses input and calls the matching handler after validating its
// arguments.
func (r *Registry) Run(input string) error {
	res := NewParser(r).Parse(input)
	if !res.IsCommand {
		return ErrNotCommand
	}
	if res.Command == nil {
		return &UnknownCommandError{Name: res.CommandName}
	}
	if err := ValidateArgs(res.Command, res.Args); err != nil {
		return err
	}
	if res.Command.Handler == nil {
		return nil
	}
	return res.Command.Handler(Invocation{
		Command: res.Command,
		Args:    res.Args,
		RawArgs: res.RawArgs,
	})
}

// UnknownCommandError reports a command name with no registration.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command " + e.Name + " (try /help)"
}
