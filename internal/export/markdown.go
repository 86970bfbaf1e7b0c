// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/segment"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown. Code blocks are
// re-fenced so every block carries a language tag.
type MarkdownExporter struct {
	options *Options
	seg     *segment.Segmenter
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts, seg: segment.New(opts.CodeLanguage)}
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t Transcript) ([]byte, error) {
	if t.Session.SessionID == "" {
		return nil, fmt.Errorf("session has no id")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "session: %s\n", t.Session.SessionID)
		if t.Session.ModelName != "" {
			fmt.Fprintf(&sb, "model: %s\n", escapeYAML(t.Session.ModelName))
		}
		if !t.Session.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "date: %s\n", t.Session.CreatedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(&sb, "messages: %d\n", len(t.Messages))
		fmt.Fprintf(&sb, "exported: %s\n", e.options.now().Format(time.RFC3339))
		sb.WriteString("generator: rigchat\n")
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(t.Session.DisplayName()))

	if e.options.IncludeMetadata {
		modelName := t.Session.ModelName
		if modelName == "" {
			modelName = "unknown"
		}
		fmt.Fprintf(&sb, "- **Model**: %s\n", modelName)
		fmt.Fprintf(&sb, "- **Created**: %s\n", formatTimestamp(t.Session.CreatedAt))
		fmt.Fprintf(&sb, "- **Messages**: %d\n\n", len(t.Messages))
	}

	if len(t.Messages) == 0 {
		sb.WriteString("_No messages._\n")
		return []byte(sb.String()), nil
	}

	for i, msg := range t.Messages {
		fmt.Fprintf(&sb, "### %s\n\n", msg.Sender.DisplayName())
		sb.WriteString(e.formatContent(msg))
		sb.WriteString("\n")
		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatContent writes text segments as-is and code segments as tagged
// fences on their own lines.
func (e *MarkdownExporter) formatContent(msg model.Message) string {
	var parts []string
	for _, s := range e.seg.Segment(msg.Content) {
		if s.IsCode() {
			parts = append(parts, segment.Fence+s.Language+"\n"+s.Content+"\n"+segment.Fence)
			continue
		}
		if text := strings.TrimSpace(s.Content); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("#", `\#`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}

// escapeYAML quotes values containing YAML special characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
		return `"` + r.Replace(s) + `"`
	}
	return s
}
