// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// SelectModelText is the picker entry meaning "no model".
const SelectModelText = "Select a model"

// =============================================================================
// MODEL PICKER
// =============================================================================

// ModelPicker shows the placeholder entry followed by the available models.
// Row 0 is the placeholder; choosing it clears the selection.
type ModelPicker struct {
	Width   int
	Focused bool

	models   []string
	selected string
	cursor   int
	theme    *styles.Theme
}

// NewModelPicker creates an empty picker.
func NewModelPicker(theme *styles.Theme, width int) *ModelPicker {
	return &ModelPicker{Width: width, theme: theme}
}

// SetModels replaces the model list. The cursor follows the selected model,
// or rests on the placeholder.
func (p *ModelPicker) SetModels(models []string) {
	p.models = models
	p.syncCursor()
}

// SetSelected records the currently selected model ("" for none).
func (p *ModelPicker) SetSelected(name string) {
	if name == p.selected {
		return
	}
	p.selected = name
	p.syncCursor()
}

func (p *ModelPicker) syncCursor() {
	p.cursor = 0
	for i, m := range p.models {
		if m == p.selected {
			p.cursor = i + 1
			return
		}
	}
}

// MoveUp moves the cursor up one entry.
func (p *ModelPicker) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the cursor down one entry.
func (p *ModelPicker) MoveDown() {
	if p.cursor < len(p.models) {
		p.cursor++
	}
}

// Highlighted returns the model under the cursor, or "" on the placeholder.
func (p *ModelPicker) Highlighted() string {
	if p.cursor == 0 || p.cursor > len(p.models) {
		return ""
	}
	return p.models[p.cursor-1]
}

// View renders the picker without its border. When unfocused only the
// current choice is shown.
func (p *ModelPicker) View() string {
	title := p.theme.PaneTitle.Render("Model")

	if !p.Focused {
		current := p.selected
		style := p.theme.ListItem
		if current == "" {
			current = SelectModelText
			style = p.theme.ListPlaceholder
		}
		return title + "\n" + style.Render(util.TruncateWidth(current, p.Width))
	}

	lines := []string{title}
	entries := append([]string{SelectModelText}, p.models...)
	for i, e := range entries {
		marker := "  "
		if (i == 0 && p.selected == "") || (i > 0 && e == p.selected) {
			marker = "* "
		}
		text := util.PadRight(marker+e, p.Width)

		style := p.theme.ListItem
		switch {
		case i == p.cursor:
			style = p.theme.ListItemSelected
		case i == 0:
			style = p.theme.ListPlaceholder
		}
		lines = append(lines, style.Render(text))
	}
	return strings.Join(lines, "\n")
}
