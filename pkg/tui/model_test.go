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

package tui

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
	"github.com/victoryforphil/cursed-usb/pkg/registry"
)

func newTestModel(t *testing.T) (*Model, chan models.Snapshot, *atomic.Int64) {
	t.Helper()

	ch := make(chan models.Snapshot, 4)
	refreshes := &atomic.Int64{}
	session := registry.NewSession(time.Now(), logger.NewTestLogger())

	m := New(session, ch, func() { refreshes.Add(1) }, logger.NewTestLogger())

	return m, ch, refreshes
}

func testDevice(name, bus, addr string) models.Device {
	return models.Device{
		Bus:       bus,
		Address:   addr,
		VendorID:  "1a86",
		ProductID: "7523",
		Name:      name,
		RawPath:   "/dev/bus/usb/" + bus + "/" + addr,
	}
}

func applySnapshot(m *Model, elapsed time.Duration, devices ...models.Device) {
	m.Update(snapshotMsg{snap: models.Snapshot{
		Devices: devices,
		Elapsed: elapsed,
		Taken:   time.Now(),
	}})
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestUpdateWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestWaitForSnapshotDeliversValue(t *testing.T) {
	ch := make(chan models.Snapshot, 1)
	ch <- models.Snapshot{Devices: []models.Device{testDevice("hub", "001", "001")}}

	msg := waitForSnapshot(ch)()

	snap, ok := msg.(snapshotMsg)
	require.True(t, ok, "expected snapshotMsg, got %T", msg)
	require.Len(t, snap.snap.Devices, 1)
	assert.Equal(t, "hub", snap.snap.Devices[0].Name)
}

func TestWaitForSnapshotStreamClosed(t *testing.T) {
	ch := make(chan models.Snapshot)
	close(ch)

	msg := waitForSnapshot(ch)()

	assert.IsType(t, streamClosedMsg{}, msg)
}

func TestSnapshotFeedsSession(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(snapshotMsg{snap: models.Snapshot{
		Devices: []models.Device{testDevice("hub", "001", "001")},
	}})

	assert.True(t, m.ready)
	require.Len(t, m.session.Devices(), 1)
	assert.NotNil(t, cmd, "the model must keep listening on the stream")
}

func TestStreamClosedShutsDown(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(streamClosedMsg{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNavigationKeysMoveSelection(t *testing.T) {
	m, _, _ := newTestModel(t)
	applySnapshot(m, 0,
		testDevice("a", "001", "002"),
		testDevice("b", "001", "003"),
		testDevice("c", "001", "004"),
	)

	m.Update(keyPress('j'))

	idx, ok := m.session.SelectedIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	m.Update(keyPress('k'))

	idx, _ = m.session.SelectedIndex()
	assert.Equal(t, 0, idx)

	m.Update(keyPress('k'))

	idx, _ = m.session.SelectedIndex()
	assert.Equal(t, 2, idx, "moving up from the top wraps to the bottom")
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(keyPress('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRefreshKeyTriggersPoll(t *testing.T) {
	m, _, refreshes := newTestModel(t)

	m.Update(keyPress('r'))
	m.Update(keyPress('r'))

	assert.Equal(t, int64(2), refreshes.Load())
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(keyPress('?'))
	assert.True(t, m.help.ShowAll)

	m.Update(keyPress('?'))
	assert.False(t, m.help.ShowAll)
}

func TestCopyWithoutClipboardIsNoOp(t *testing.T) {
	m, _, _ := newTestModel(t)
	applySnapshot(m, 0, testDevice("a", "001", "002"))

	m.canCopy = false
	m.copySelection()

	assert.Empty(t, m.copyNote)
}

func TestKeyPressClearsCopyNote(t *testing.T) {
	m, _, _ := newTestModel(t)
	applySnapshot(m, 0, testDevice("a", "001", "002"))

	m.copyNote = "copied /dev/ttyUSB0"
	m.Update(keyPress('j'))

	assert.Empty(t, m.copyNote)
}

func TestSpinnerRunsOnlyUntilFirstSnapshot(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(spinner.TickMsg{ID: m.spinner.ID()})
	assert.NotNil(t, cmd, "spinner keeps ticking before the first snapshot")

	applySnapshot(m, 0, testDevice("a", "001", "002"))

	_, cmd = m.Update(spinner.TickMsg{ID: m.spinner.ID()})
	assert.Nil(t, cmd, "spinner stops once data is on screen")
}
