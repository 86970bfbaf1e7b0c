// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/segment"
	"github.com/jeranaias/rigchat/internal/ui/components"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	okStyle = lipgloss.NewStyle().
		Foreground(styles.Emerald)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
)

// =============================================================================
// PRINTER
// =============================================================================

// printer writes line-mode output. On a terminal, code blocks are rendered
// with highlighting; otherwise messages are written back as fenced text so
// the output can be piped.
type printer struct {
	out   io.Writer
	seg   *segment.Segmenter
	theme *styles.Theme
	width int
}

func newPrinter(out io.Writer, seg *segment.Segmenter, theme *styles.Theme, width int) *printer {
	if width <= 0 {
		width = 100
	}
	return &printer{out: out, seg: seg, theme: theme, width: width}
}

// message prints one message under its sender label.
func (p *printer) message(msg model.Message) {
	fmt.Fprintln(p.out, labelStyle.Render(msg.Sender.DisplayName()+":"))
	for _, s := range p.seg.Segment(msg.Content) {
		if !s.IsCode() {
			if text := strings.Trim(s.Content, "\r\n"); strings.TrimSpace(text) != "" {
				fmt.Fprintln(p.out, text)
			}
			continue
		}
		if p.theme != nil {
			cb := components.NewCodeBlock(p.theme, s.Language, s.Content)
			cb.SetMaxWidth(p.width)
			fmt.Fprintln(p.out, cb.Render())
			continue
		}
		fmt.Fprintf(p.out, "%s%s\n%s", segment.Fence, s.Language, s.Content)
		if !strings.HasSuffix(s.Content, "\n") {
			fmt.Fprintln(p.out)
		}
		fmt.Fprintln(p.out, segment.Fence)
	}
}

// transcript prints msgs separated by blank lines.
func (p *printer) transcript(msgs []model.Message) {
	if len(msgs) == 0 {
		fmt.Fprintln(p.out, infoStyle.Render(components.EmptyTranscriptText))
		return
	}
	for i, m := range msgs {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		p.message(m)
	}
}

// sessions prints a session table, marking the active session.
func (p *printer) sessions(sessions []model.Session, activeID string) {
	if len(sessions) == 0 {
		fmt.Fprintln(p.out, infoStyle.Render(components.NoSessionsText))
		return
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		marker := ""
		if s.SessionID == activeID {
			marker = "*"
		}
		created := ""
		if !s.CreatedAt.IsZero() {
			created = s.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{marker, s.SessionID, s.ModelName, created})
	}
	p.table([]string{"", "SESSION", "MODEL", "CREATED"}, rows)
}

// models prints the model list, marking the selected model.
func (p *printer) models(models []string, selected string) {
	if len(models) == 0 {
		fmt.Fprintln(p.out, infoStyle.Render("No models available"))
		return
	}
	for _, m := range models {
		marker := "  "
		if m == selected {
			marker = "* "
		}
		fmt.Fprintln(p.out, marker+m)
	}
}

// table renders rows with a header and no outer border.
func (p *printer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				return s.Inherit(headerStyle)
			}
			return s
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(p.out, t.Render())
}

// themeFor builds the line-mode theme from the UI config.
func themeFor(cfg *config.Config) *styles.Theme {
	return styles.NewTheme(cfg.UI.Theme)
}

// terminalWidth returns the width of cmd's output terminal, or zero.
func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
