// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// FILE WATCHER
// =============================================================================

// WatchDebounce is how long Watch waits for writes to settle before reloading.
const WatchDebounce = 200 * time.Millisecond

// ReloadFunc receives the reloaded configuration, or the error that
// prevented loading it.
type ReloadFunc func(cfg *Config, err error)

// Watch reloads the config file at path (the default location when empty)
// whenever it changes and passes the result to fn. The parent directory is
// watched so editors that replace the file atomically are seen.
//
// Watch returns once the watcher is installed; events are handled in a
// background goroutine until ctx is cancelled. fn is called from that
// goroutine.
func Watch(ctx context.Context, path string, fn ReloadFunc) error {
	path, err := ResolvePath(path)
	if err != nil {
		return err
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go processEvents(ctx, watcher, path, fn)
	return nil
}

// processEvents debounces events for path and calls fn after each burst.
func processEvents(ctx context.Context, watcher *fsnotify.Watcher, path string, fn ReloadFunc) {
	defer watcher.Close()

	timer := time.NewTimer(WatchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(WatchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fn(nil, fmt.Errorf("config watcher: %w", err))

		case <-timer.C:
			fn(Load(path))
		}
	}
}
