// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run executes cmd and every command it leads to, feeding each result through
// Update, until nothing is left to do. Batched commands run in order. It is
// the driver for callers without a Bubble Tea program.
//
// Run returns the first failure carried by a result message, or ctx.Err() if
// ctx ends first. State changes are applied either way.
func (c *Controller) Run(ctx context.Context, cmd tea.Cmd) error {
	var first error
	queue := []tea.Cmd{cmd}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg, err := await(ctx, next)
		if err != nil {
			return err
		}

		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(append([]tea.Cmd{}, batch...), queue...)
			continue
		}

		if f, ok := msg.(failure); ok && first == nil {
			first = f.failure()
		}
		if follow := c.Update(msg); follow != nil {
			queue = append(queue, follow)
		}
	}
	return first
}

// await runs cmd on its own goroutine so a cancelled ctx is noticed even
// while a backend call is outstanding.
func await(ctx context.Context, cmd tea.Cmd) (tea.Msg, error) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
