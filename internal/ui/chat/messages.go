// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/rigchat/internal/config"

// ConfigReloadedMsg delivers a configuration reloaded from disk.
// Err is set when the file could not be loaded; the old settings stay.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
