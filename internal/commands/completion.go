// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"cmp"
	"slices"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completion is a single completion candidate.
type Completion struct {
	Value       string
	Description string
	Score       int
}

// Completer handles tab completion for commands and arguments.
type Completer struct {
	registry *Registry

	// Callbacks for dynamic completion, set by the application.
	ModelsFn   func() []string // available models
	SessionsFn func() []string // known session ids
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns candidates for the last word of input.
func (c *Completer) Complete(input string) []Completion {
	input = strings.TrimLeft(input, " ")
	if !IsCommand(input) {
		return nil
	}

	parts := splitCommandLine(input)
	trailingSpace := strings.HasSuffix(input, " ")

	if len(parts) <= 1 && !trailingSpace {
		partial := ""
		if len(parts) == 1 {
			partial = parts[0]
		}
		return c.completeCommands(partial)
	}

	cmd := c.registry.Get(parts[0])
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := parts[len(parts)-1]
	if trailingSpace {
		argIndex++
		partial = ""
	}
	return c.completeArg(cmd, argIndex, partial)
}

// Lines returns whole-line completions for input, as line editors expect.
func (c *Completer) Lines(input string) []string {
	var lines []string
	head := input[:strings.LastIndexByte(input, ' ')+1]
	for _, comp := range c.Complete(input) {
		lines = append(lines, head+comp.Value)
	}
	return lines
}

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

// completeCommands matches command names, and aliases once more than the
// slash has been typed. An alias ranks just below a name with equal score.
func (c *Completer) completeCommands(partial string) []Completion {
	var out []Completion
	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if comp, ok := match(cmd.Name, partial); ok {
			comp.Description = cmd.Description
			out = append(out, comp)
		}
		if len(partial) < 2 {
			continue
		}
		for _, alias := range cmd.Aliases {
			if comp, ok := match(alias, partial); ok {
				comp.Description = cmd.Description
				comp.Score--
				out = append(out, comp)
			}
		}
	}
	sortCompletions(out)
	return out
}

// =============================================================================
// ARGUMENT COMPLETION
// =============================================================================

func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []Completion {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	var values []string
	switch arg := cmd.Args[argIndex]; arg.Type {
	case ArgTypeModel:
		values = call(c.ModelsFn)
	case ArgTypeSession:
		values = call(c.SessionsFn)
	case ArgTypeEnum:
		values = arg.Values
	}
	return completeFromList(values, partial)
}

func completeFromList(values []string, partial string) []Completion {
	var out []Completion
	for _, v := range values {
		if comp, ok := match(v, partial); ok {
			out = append(out, comp)
		}
	}
	sortCompletions(out)
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func call(fn func() []string) []string {
	if fn == nil {
		return nil
	}
	return fn()
}

// match reports whether value starts with partial, ignoring case.
func match(value, partial string) (Completion, bool) {
	if !strings.HasPrefix(strings.ToLower(value), strings.ToLower(partial)) {
		return Completion{}, false
	}
	return Completion{Value: value, Score: calculateScore(value, partial)}, true
}

// calculateScore ranks a candidate: an exact match first, then shorter
// prefix matches.
func calculateScore(value, partial string) int {
	if strings.EqualFold(value, partial) {
		return 1000
	}
	return 500 - len(value)
}

// sortCompletions orders by score, highest first, then by value.
func sortCompletions(comps []Completion) {
	slices.SortFunc(comps, func(a, b Completion) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.Value, b.Value)
	})
}
