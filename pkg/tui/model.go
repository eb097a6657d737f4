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

// Package tui renders the live device dashboard. The model consumes the
// poller's snapshot stream, feeds each snapshot to the session, and draws
// the device list, details, and statistics panes.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
	"github.com/victoryforphil/cursed-usb/pkg/registry"
)

// snapshotMsg carries one delivery from the poller's stream.
type snapshotMsg struct {
	snap models.Snapshot
}

// streamClosedMsg signals that the poller shut down and no further
// snapshots will arrive.
type streamClosedMsg struct{}

// Model is the bubbletea model behind the dashboard.
type Model struct {
	session   *registry.Session
	snapshots <-chan models.Snapshot
	refresh   func()
	logger    logger.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  styles

	width    int
	height   int
	ready    bool
	canCopy  bool
	copyNote string
	hostLine string
}

// New builds the dashboard model around an already-created session. The
// refresh function must be safe to call from the UI goroutine.
func New(session *registry.Session, snapshots <-chan models.Snapshot, refresh func(), log logger.Logger) *Model {
	st := newStyles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPink))),
	)

	hl := help.New()
	hl.Styles.ShortKey = st.title
	hl.Styles.ShortDesc = st.dim
	hl.Styles.ShortSeparator = st.dim
	hl.Styles.FullKey = st.title
	hl.Styles.FullDesc = st.dim
	hl.Styles.FullSeparator = st.dim

	keys := defaultKeyMap()

	canCopy := true
	if err := clipboard.WriteAll(""); err != nil {
		canCopy = false

		keys.Copy.SetEnabled(false)
	}

	hostLine := ""
	if info, err := host.Info(); err == nil {
		hostLine = info.Hostname + " · " + info.OS
	}

	return &Model{
		session:   session,
		snapshots: snapshots,
		refresh:   refresh,
		logger:    log,
		keys:      keys,
		help:      hl,
		spinner:   sp,
		styles:    st,
		canCopy:   canCopy,
		hostLine:  hostLine,
	}
}

// waitForSnapshot blocks on the stream and redelivers itself after every
// message, which is how external events enter the update loop.
func waitForSnapshot(ch <-chan models.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}

		return snapshotMsg{snap: snap}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.snapshots))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		delta := m.session.Apply(msg.snap)
		m.ready = true

		if delta.Connects > 0 || delta.Disconnects > 0 {
			m.logger.Info().
				Int("connects", delta.Connects).
				Int("disconnects", delta.Disconnects).
				Int("devices", len(m.session.Devices())).
				Msg("Device set changed")
		}

		return m, waitForSnapshot(m.snapshots)

	case streamClosedMsg:
		m.logger.Info().Msg("Snapshot stream closed, shutting down")
		return m, tea.Quit

	case spinner.TickMsg:
		// The spinner only runs until the first snapshot lands.
		if m.ready {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.copyNote = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.logger.Info().Msg("Quit requested")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()

	case key.Matches(msg, m.keys.Down):
		m.session.SelectNext()

	case key.Matches(msg, m.keys.Up):
		m.session.SelectPrev()

	case key.Matches(msg, m.keys.Copy):
		m.copySelection()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) copySelection() {
	if !m.canCopy {
		return
	}

	dev, ok := m.session.Selected()
	if !ok {
		return
	}

	if err := clipboard.WriteAll(dev.DisplayPath()); err != nil {
		m.copyNote = "copy failed"

		m.logger.Debug().Err(err).Msg("clipboard write failed")

		return
	}

	m.copyNote = "copied " + dev.DisplayPath()
}
