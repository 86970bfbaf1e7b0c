// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the rigchat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The Theme struct groups the styles for each screen region.

# Color System (colors.go)

  - Purple - Assistant messages and selections
  - Cyan - Brand color, user highlights, focus ring
  - Emerald - Success and connected states
  - Amber - Warnings and unsynced markers
  - Rose - Errors

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	header := theme.Header.Render("rigchat")

The mode may be "dark", "light" or "auto" (detect from the terminal).

# Layout

LayoutMode classifies the terminal width so views can hide the sidebar on
narrow terminals:

	if theme.GetLayoutMode() == styles.LayoutNarrow {
		// transcript only
	}
*/
package styles
