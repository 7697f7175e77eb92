package main

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchConfig watches the config file and delivers freshly resolved
// rules on the returned channel. The remap loop applies them between
// events. A config that fails to load or resolve keeps the previous
// rules and prints a warning.
//
// The parent directory is watched rather than the file itself: editors
// typically replace the file on save, which would silently detach a
// file-level watch. Bursts of filesystem events are debounced.
func watchConfig(path string) (<-chan *Rules, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan *Rules, 1)
	base := filepath.Base(path)

	go func() {
		defer watcher.Close()

		const debounce = 500 * time.Millisecond
		timer := time.NewTimer(debounce)
		timer.Stop()
		pending := false

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if !pending {
					pending = true
					timer.Reset(debounce)
				}

			case <-timer.C:
				if !pending {
					continue
				}
				pending = false
				cfg, err := LoadConfig(path)
				if err != nil {
					warn("config reload failed, keeping previous: %v", err)
					continue
				}
				rules, err := cfg.Rules()
				if err != nil {
					warn("config reload failed, keeping previous: %v", err)
					continue
				}
				// Drop a stale pending update; only the newest matters.
				select {
				case <-out:
				default:
				}
				out <- rules

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				warn("config watch: %v", err)
			}
		}
	}()

	return out, nil
}
