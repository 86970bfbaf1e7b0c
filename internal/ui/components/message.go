// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/segment"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// EmptyTranscriptText is shown when the active transcript has no messages.
const EmptyTranscriptText = "no messages yet..."

// bubbleChrome is the horizontal space taken by bubble border and padding.
const bubbleChrome = 4

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// RenderMessage renders one message as a sender label above a bordered
// bubble, at most width cells wide. Content is segmented with seg: text
// segments are word-wrapped and code segments are rendered as CodeBlocks.
func RenderMessage(theme *styles.Theme, seg *segment.Segmenter, msg model.Message, width int) string {
	label := theme.AssistantLabel
	bubble := theme.AssistantBubble
	if msg.IsUser() {
		label = theme.UserLabel
		bubble = theme.UserBubble
	}

	inner := width - bubbleChrome
	if inner < minCodeWidth {
		inner = minCodeWidth
	}

	var parts []string
	for _, s := range seg.Segment(msg.Content) {
		if s.IsCode() {
			cb := NewCodeBlock(theme, s.Language, s.Content)
			cb.SetMaxWidth(inner)
			parts = append(parts, cb.Render())
			continue
		}
		text := strings.Trim(s.Content, "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, wrapText(text, inner))
	}
	if len(parts) == 0 {
		parts = append(parts, " ")
	}

	body := bubble.Width(inner + 2).Render(strings.Join(parts, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, label.Render(msg.Sender.DisplayName()), body)
}

// RenderTranscript renders msgs in order separated by blank lines, or the
// empty-transcript placeholder.
func RenderTranscript(theme *styles.Theme, seg *segment.Segmenter, msgs []model.Message, width int) string {
	if len(msgs) == 0 {
		return theme.EmptyTranscript.Render(EmptyTranscriptText)
	}

	rendered := make([]string, len(msgs))
	for i, m := range msgs {
		rendered[i] = RenderMessage(theme, seg, m, width)
	}
	return strings.Join(rendered, "\n\n")
}

// wrapText word-wraps text to width, hard-breaking words longer than a line.
func wrapText(text string, width int) string {
	return wrap.String(wordwrap.String(text, width), width)
}
