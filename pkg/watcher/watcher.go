/*
 * Copyright 2026 VictoryForPhil.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package watcher nudges the poller when device nodes appear or disappear,
// so plug events surface on the next cycle instead of after the idle
// timeout. It is an optional accelerant: when filesystem notifications are
// unavailable the polling cadence alone bounds staleness.
package watcher

import (
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
)

// Watcher reports device-node churn by calling a refresh function on every
// create or remove event under its configured paths.
type Watcher struct {
	disabled bool
	paths    []string
	refresh  func()
	logger   logger.Logger

	fs     *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a watcher that invokes refresh on device-node churn. The
// refresh function must be safe to call from another goroutine.
func New(cfg *Config, refresh func(), log logger.Logger) *Watcher {
	return &Watcher{
		disabled: cfg.Disabled,
		paths:    cfg.Paths,
		refresh:  refresh,
		logger:   log,
		stopCh:   make(chan struct{}),
	}
}

// Start begins watching. Every failure mode degrades to running without
// notifications rather than surfacing an error.
func (w *Watcher) Start() error {
	if w.disabled {
		w.logger.Debug().Msg("device watcher disabled")
		return nil
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Debug().Err(err).Msg("filesystem notifications unavailable")
		return nil
	}

	watched := 0

	for _, path := range w.paths {
		if err := fs.Add(path); err != nil {
			w.logger.Debug().Err(err).Str("path", path).Msg("cannot watch path")
			continue
		}

		watched++
	}

	if watched == 0 {
		w.logger.Debug().Msg("no watchable paths, relying on polling cadence alone")
		_ = fs.Close()

		return nil
	}

	w.fs = fs

	w.logger.Info().Int("paths", watched).Msg("Watching device nodes")

	w.wg.Add(1)
	go w.run()

	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) {
				w.logger.Debug().
					Str("path", event.Name).
					Str("op", event.Op.String()).
					Msg("device node changed")
				w.refresh()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}

			w.logger.Debug().Err(err).Msg("watch error")
		case <-w.stopCh:
			return
		}
	}
}

// Stop halts the watcher and waits for its goroutine to exit. Safe to call
// when Start could not watch anything; must be called at most once.
func (w *Watcher) Stop() error {
	close(w.stopCh)

	if w.fs != nil {
		_ = w.fs.Close()
	}

	w.wg.Wait()

	return nil
}
