// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// hex builds an adaptive color from light and dark hex values.
func hex(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// =============================================================================
// PALETTE
// =============================================================================

// Accents.
var (
	Purple  = hex("#7C3AED", "#A78BFA") // assistant, selections
	Cyan    = hex("#0891B2", "#22D3EE") // brand, user highlights
	Emerald = hex("#059669", "#34D399") // backend reachable
	Rose    = hex("#E11D48", "#FB7185") // errors
	Amber   = hex("#D97706", "#FBBF24") // warnings, unsynced sessions
)

// Surfaces.
var (
	Surface    = hex("#FFFFFF", "#1E1E2E")
	SurfaceDim = hex("#F5F5F5", "#181825") // header, status bar, code
	Overlay    = hex("#E5E5E5", "#313244") // borders
	OverlayDim = hex("#D4D4D4", "#45475A") // badges
)

// Text.
var (
	TextPrimary   = hex("#1F2937", "#CDD6F4")
	TextSecondary = hex("#6B7280", "#A6ADC8")
	TextMuted     = hex("#9CA3AF", "#6C7086") // hints, line numbers
	TextInverse   = hex("#FFFFFF", "#1E1E2E")
)

// Transcript bubbles.
var (
	UserBubbleBg     = hex("#DBEAFE", "#1D4ED8")
	UserBubbleFg     = hex("#1E40AF", "#E0F2FE")
	UserBubbleBorder = hex("#3B82F6", "#3B82F6")

	AssistantBubbleBg     = hex("#F5F3FF", "#3B3655")
	AssistantBubbleFg     = hex("#5B4B8A", "#E9E4F5")
	AssistantBubbleBorder = hex("#C4B5FD", "#A78BFA")
)

// Focus and selection.
var (
	FocusRing   = Cyan
	SelectionBg = hex("#BFDBFE", "#1E3A5F")
)

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds plain-text status markers so state reads the same
// without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Pending string
	Active  string
}

// StatusIndicators are the ASCII markers in use.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Pending: "[ ]",
	Active:  "[*]",
}
