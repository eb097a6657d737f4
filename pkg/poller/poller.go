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

// Package poller runs the background producer that turns the scanner into a
// stream of device snapshots. Snapshots flow to the consumer over a
// single-slot channel holding only the freshest view; refresh requests flow
// back and preempt the idle wait.
package poller

import (
	"context"
	"time"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
)

// Poller produces snapshots on a fixed cadence with explicit refresh
// requests served ahead of it. One instance supports one Start call.
type Poller struct {
	source   SnapshotSource
	clock    Clock
	logger   logger.Logger
	interval time.Duration

	snapshots chan models.Snapshot
	refresh   chan struct{}
}

// New creates a poller reading from source. A nil clock selects the real one.
func New(cfg *Config, source SnapshotSource, clock Clock, log logger.Logger) *Poller {
	if clock == nil {
		clock = realClock{}
	}

	interval := time.Duration(cfg.Interval)
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Poller{
		source:    source,
		clock:     clock,
		logger:    log,
		interval:  interval,
		snapshots: make(chan models.Snapshot, 1),
		refresh:   make(chan struct{}, 1),
	}
}

// Snapshots is the delivery channel. It closes when the poller stops, which
// is the consumer's end-of-stream signal.
func (p *Poller) Snapshots() <-chan models.Snapshot {
	return p.snapshots
}

// Refresh asks for a snapshot ahead of the idle cadence. It never blocks;
// requests arriving while one is already pending coalesce with it.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Start runs the polling loop until ctx is cancelled, then closes the
// snapshot channel. The first snapshot is built immediately so the consumer
// never starts empty-handed; after that each cycle waits for a refresh
// request or the idle interval, whichever comes first. A refresh restarts
// the full idle wait for the following cycle.
func (p *Poller) Start(ctx context.Context) error {
	started := p.clock.Now()

	p.logger.Info().Dur("interval", p.interval).Msg("Starting USB poller")

	defer func() {
		close(p.snapshots)
		p.logger.Info().Dur("uptime", p.clock.Now().Sub(started)).Msg("USB poller stopped")
	}()

	p.publish(ctx, p.source.Snapshot(ctx))

	for {
		timer := p.clock.NewTimer(p.interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-p.refresh:
			timer.Stop()
		case <-timer.Chan():
		}

		p.publish(ctx, p.source.Snapshot(ctx))
	}
}

// publish delivers snap, displacing an undelivered older snapshot when the
// consumer has fallen behind. Staleness is preferred over blocking here.
func (p *Poller) publish(ctx context.Context, snap models.Snapshot) {
	for {
		select {
		case p.snapshots <- snap:
			return
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-p.snapshots:
		default:
		}
	}
}
