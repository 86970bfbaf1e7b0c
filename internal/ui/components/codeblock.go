// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// minCodeWidth is the narrowest a code block is ever rendered.
const minCodeWidth = 20

// CodeBlock renders one code segment.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	theme    *styles.Theme
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(theme *styles.Theme, language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
		theme:    theme,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with a language badge, line numbers and
// syntax highlighting. Lines wider than the block are cut, not wrapped.
func (c CodeBlock) Render() string {
	code := strings.TrimSuffix(strings.TrimSuffix(c.Code, "\n"), "\r")

	lines := strings.Split(highlight(code, c.Language, c.theme.CodeStyle), "\n")
	numWidth := len(strconv.Itoa(len(lines)))
	lineNum := c.theme.CodeLineNum.Width(numWidth)

	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = lineNum.Render(strconv.Itoa(i+1)) + line
	}

	maxWidth := c.MaxWidth
	if maxWidth < minCodeWidth {
		maxWidth = minCodeWidth
	}

	header := c.theme.CodeLangBadge.Render(c.Language)
	return c.theme.CodeBlock.
		MaxWidth(maxWidth).
		Render(header + "\n" + strings.Join(rendered, "\n"))
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

var terminal = formatters.Get("terminal256")

// highlight colors code for a 256-color terminal. Unknown languages are
// guessed from the content; on any failure code comes back unchanged.
func highlight(code, language, styleName string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		if lexer = lexers.Analyse(code); lexer == nil {
			lexer = lexers.Fallback
		}
	}
	style := chromaStyles.Get(styleName)

	tokens, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil || terminal == nil {
		return code
	}
	var out strings.Builder
	if terminal.Format(&out, style, tokens) != nil {
		return code
	}
	return strings.TrimRight(out.String(), "\n")
}
