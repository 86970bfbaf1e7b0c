// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing user input.
type ParseResult struct {
	// IsCommand is true if the input starts with /
	IsCommand bool

	// Command is the matched command (nil if not found)
	Command *Command

	// CommandName is the raw command name (e.g., "/help")
	CommandName string

	// Args are the parsed arguments
	Args []string

	// RawArgs is the unparsed arguments portion
	RawArgs string
}

// =============================================================================
// PARSER
// =============================================================================

// Parser handles parsing of slash commands and their arguments.
type Parser struct {
	registry *Registry
}

// NewParser creates a new parser with the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse parses user input. IsCommand is false if the input doesn't start
// with /.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)

	var result ParseResult
	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	result.CommandName = ExtractCommandName(input)
	result.RawArgs = strings.TrimSpace(input[len(result.CommandName):])
	result.Args = splitCommandLine(result.RawArgs)
	if p.registry != nil {
		result.Command = p.registry.Get(result.CommandName)
	}
	return result
}

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

// splitCommandLine breaks a command line into words. Single or double quotes
// group words, and within quotes a backslash escapes a quote or backslash.
// An empty quoted word is kept as "".
func splitCommandLine(line string) []string {
	var (
		words []string
		word  strings.Builder
		quote byte // active quote character, 0 outside quotes
		open  bool // a word has started, even if still empty
	)
	flush := func() {
		if open {
			words = append(words, word.String())
			word.Reset()
			open = false
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch {
			case c == quote:
				quote = 0
			case c == '\\' && i+1 < len(line) && strings.IndexByte(`"'\\`, line[i+1]) >= 0:
				i++
				word.WriteByte(line[i])
			default:
				word.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			quote, open = c, true
		case unicode.IsSpace(rune(c)):
			flush()
		default:
			word.WriteByte(c)
			open = true
		}
	}
	flush()
	return words
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCommand reports whether input starts with a slash.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName returns the leading "/name" word of input, or "" when
// input is not a command.
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !IsCommand(input) {
		return ""
	}
	if i := strings.IndexFunc(input, unicode.IsSpace); i >= 0 {
		return input[:i]
	}
	return input
}

// ValidateArgs checks args against the command's declared arguments.
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}
	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{Command: cmd.Name, Arg: def.Name, Message: "required argument missing", Expected: cmd.Usage}
			}
			continue
		}
		if def.Type != ArgTypeEnum || len(def.Values) == 0 {
			continue
		}
		ok := slices.ContainsFunc(def.Values, func(v string) bool { return strings.EqualFold(v, args[i]) })
		if !ok {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid value",
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError reports a bad or missing command argument.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Command, e.Message)
	if e.Arg != "" {
		fmt.Fprintf(&b, " for argument '%s'", e.Arg)
	}
	if e.Got != "" {
		fmt.Fprintf(&b, " (got: %s)", e.Got)
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, " - expected: %s", e.Expected)
	}
	return b.String()
}
