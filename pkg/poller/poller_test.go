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

package poller

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
)

type sourceFunc func(ctx context.Context) models.Snapshot

func (f sourceFunc) Snapshot(ctx context.Context) models.Snapshot { return f(ctx) }

// countingSource labels each snapshot through the device name so tests can
// tell them apart.
func countingSource() sourceFunc {
	var n atomic.Int64

	return func(context.Context) models.Snapshot {
		return models.Snapshot{
			Devices: []models.Device{
				{Bus: "001", Address: "002", Name: fmt.Sprintf("snapshot-%d", n.Add(1))},
			},
			Taken: time.Now(),
		}
	}
}

type fakeClock struct {
	created chan *fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{created: make(chan *fakeTimer, 16)}
}

func (c *fakeClock) Now() time.Time { return time.Now() }

func (c *fakeClock) NewTimer(time.Duration) Timer {
	t := &fakeTimer{c: make(chan time.Time, 1)}
	c.created <- t

	return t
}

// waitTimer returns the next timer the poller armed. Arming happens after
// the preceding publish completed, so this doubles as a cycle barrier.
func (c *fakeClock) waitTimer(t *testing.T) *fakeTimer {
	t.Helper()

	select {
	case timer := <-c.created:
		return timer
	case <-time.After(2 * time.Second):
		t.Fatal("poller never armed its cycle timer")
		return nil
	}
}

type fakeTimer struct {
	c chan time.Time
}

func (ft *fakeTimer) Chan() <-chan time.Time { return ft.c }
func (ft *fakeTimer) Stop()                  {}
func (ft *fakeTimer) fire()                  { ft.c <- time.Now() }

func startTestPoller(t *testing.T, clock Clock, source SnapshotSource) (*Poller, context.CancelFunc, chan error) {
	t.Helper()

	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	p := New(cfg, source, clock, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() { errCh <- p.Start(ctx) }()

	return p, cancel, errCh
}

func receiveSnapshot(t *testing.T, ch <-chan models.Snapshot) models.Snapshot {
	t.Helper()

	select {
	case snap, ok := <-ch:
		require.True(t, ok, "snapshot channel closed early")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return models.Snapshot{}
	}
}

func TestPollerDeliversInitialSnapshot(t *testing.T) {
	clock := newFakeClock()
	p, cancel, errCh := startTestPoller(t, clock, countingSource())

	snap := receiveSnapshot(t, p.Snapshots())
	require.Len(t, snap.Devices, 1)
	assert.Equal(t, "snapshot-1", snap.Devices[0].Name)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestPollerRefreshTriggersCycle(t *testing.T) {
	clock := newFakeClock()
	p, cancel, _ := startTestPoller(t, clock, countingSource())
	defer cancel()

	receiveSnapshot(t, p.Snapshots())
	clock.waitTimer(t)

	p.Refresh()

	snap := receiveSnapshot(t, p.Snapshots())
	assert.Equal(t, "snapshot-2", snap.Devices[0].Name)
}

func TestPollerIdleTimeoutTriggersCycle(t *testing.T) {
	clock := newFakeClock()
	p, cancel, _ := startTestPoller(t, clock, countingSource())
	defer cancel()

	receiveSnapshot(t, p.Snapshots())
	timer := clock.waitTimer(t)

	timer.fire()

	snap := receiveSnapshot(t, p.Snapshots())
	assert.Equal(t, "snapshot-2", snap.Devices[0].Name)

	// The next cycle waits on a fresh timer, not the spent one.
	clock.waitTimer(t)
}

func TestPollerKeepsLatestWhenConsumerLags(t *testing.T) {
	clock := newFakeClock()
	p, cancel, _ := startTestPoller(t, clock, countingSource())
	defer cancel()

	// Nothing consumes. Each timer arming means the previous publish has
	// completed, so after three extra cycles the slot must hold the
	// newest snapshot only.
	clock.waitTimer(t)
	p.Refresh()
	clock.waitTimer(t)
	p.Refresh()
	clock.waitTimer(t)
	p.Refresh()
	clock.waitTimer(t)

	snap := receiveSnapshot(t, p.Snapshots())
	assert.Equal(t, "snapshot-4", snap.Devices[0].Name)
}

func TestPollerRefreshNeverBlocks(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	p := New(cfg, countingSource(), newFakeClock(), logger.NewTestLogger())

	// Not started; repeated requests coalesce instead of blocking.
	for i := 0; i < 10; i++ {
		p.Refresh()
	}
}

func TestPollerClosesChannelOnCancel(t *testing.T) {
	clock := newFakeClock()
	p, cancel, errCh := startTestPoller(t, clock, countingSource())

	receiveSnapshot(t, p.Snapshots())
	cancel()

	require.ErrorIs(t, <-errCh, context.Canceled)

	_, ok := <-p.Snapshots()
	assert.False(t, ok, "channel should close when the poller stops")
}

func TestPollerRealClockCadence(t *testing.T) {
	cfg := &Config{Interval: models.Duration(10 * time.Millisecond)}
	require.NoError(t, cfg.Validate())

	p := New(cfg, countingSource(), nil, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() { errCh <- p.Start(ctx) }()

	deadline := time.After(2 * time.Second)

	for seen := 0; seen < 3; {
		select {
		case _, ok := <-p.Snapshots():
			require.True(t, ok)
			seen++
		case <-deadline:
			t.Fatalf("saw %d snapshots before the deadline", seen)
		}
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestPollerConfigDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 200*time.Millisecond, time.Duration(cfg.Interval))

	cfg = &Config{Interval: models.Duration(time.Second)}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, time.Duration(cfg.Interval))
}
