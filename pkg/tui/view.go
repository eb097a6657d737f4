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
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/victoryforphil/cursed-usb/pkg/models"
	"github.com/victoryforphil/cursed-usb/pkg/version"
)

const (
	headerHeight = 3
	footerHeight = 3

	// listPercent is the list pane's share of the content row; the
	// details pane takes the rest.
	listPercent = 55

	detailLabelWidth = 9
	statsLabelWidth  = 13

	minContentHeight = 5
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing"
	}

	now := time.Now()

	footerH := footerHeight
	if m.help.ShowAll {
		footerH = footerHeight + 2
	}

	contentHeight := m.height - headerHeight - footerH
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	listWidth := m.width * listPercent / 100
	detailsWidth := m.width - listWidth

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderList(listWidth, contentHeight),
		m.renderDetails(detailsWidth, contentHeight, now),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(m.width, now),
		content,
		m.renderFooter(m.width, footerH),
	)
}

// boxed draws a bordered box of the given outer dimensions, truncating
// overlong lines instead of letting them wrap and break the layout.
func (m *Model) boxed(style lipgloss.Style, width, height int, content string) string {
	clipped := lipgloss.NewStyle().MaxWidth(width - 2).Render(content)

	return style.Width(width - 2).Height(height - 2).Render(clipped)
}

func (m *Model) renderHeader(width int, now time.Time) string {
	devices := m.session.Devices()
	stats := m.session.Stats()

	var b strings.Builder

	b.WriteString(m.styles.title.Render("USB Devices "))
	b.WriteString(m.styles.dim.Render(fmt.Sprintf("(%d)", len(devices))))

	if dfu := bootloaderCount(devices); dfu > 0 {
		b.WriteString("  ")
		b.WriteString(m.styles.badge.Render(fmt.Sprintf(" %d DFU ", dfu)))
	}

	if m.hostLine != "" {
		b.WriteString("  ")
		b.WriteString(m.styles.dim.Render(m.hostLine))
	}

	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render("uptime " + formatUptime(stats.Uptime(now))))

	return m.boxed(m.styles.pane, width, headerHeight, b.String())
}

func (m *Model) renderList(width, height int) string {
	devices := m.session.Devices()
	selIdx, hasSel := m.session.SelectedIndex()

	lines := []string{m.styles.paneName.Render(" Devices ")}

	rows := height - 3
	if rows < 1 {
		rows = 1
	}

	if len(devices) == 0 {
		if m.ready {
			lines = append(lines, m.styles.dim.Render("no USB devices found"))
		} else {
			lines = append(lines, m.spinner.View()+" "+m.styles.dim.Render("scanning"))
		}
	}

	start := listWindow(selIdx, hasSel, rows)
	for i := start; i < len(devices) && i-start < rows; i++ {
		lines = append(lines, m.renderRow(devices[i], hasSel && i == selIdx))
	}

	return m.boxed(m.styles.pane, width, height, strings.Join(lines, "\n"))
}

// listWindow picks the first visible row so the selection never scrolls
// out of the pane.
func listWindow(selIdx int, hasSel bool, rows int) int {
	if !hasSel || selIdx < rows {
		return 0
	}

	return selIdx - rows + 1
}

func (m *Model) renderRow(dev models.Device, selected bool) string {
	if selected {
		// The highlight background replaces the per-span colors.
		return m.styles.selectedRow.Render("▶ " + dev.Name + " " + dev.DisplayPath())
	}

	nameStyle := m.styles.value
	if dev.Bootloader {
		nameStyle = m.styles.dfuName
	}

	pathStyle := m.styles.rawPath
	if dev.TerminalPath != "" {
		pathStyle = m.styles.ttyPath
	}

	return "  " + nameStyle.Render(dev.Name) + " " + pathStyle.Render(dev.DisplayPath())
}

func (m *Model) renderDetails(width, height int, now time.Time) string {
	var info string

	switch dev, ok := m.session.Selected(); {
	case ok:
		info = m.renderDeviceInfo(dev)
	case m.ready:
		info = m.styles.dim.Render("No device selected")
	default:
		info = m.spinner.View() + " " + m.styles.dim.Render("waiting for first snapshot")
	}

	stats := m.renderStats(now)

	gap := height - 3 - lipgloss.Height(info) - lipgloss.Height(stats)
	if gap < 1 {
		gap = 1
	}

	content := m.styles.paneName.Render(" Details ") + "\n" +
		info + strings.Repeat("\n", gap) + stats

	return m.boxed(m.styles.pane, width, height, content)
}

func (m *Model) renderDeviceInfo(dev models.Device) string {
	label := func(s string) string {
		return m.styles.dim.Render(fmt.Sprintf("%-*s", detailLabelWidth, s))
	}

	lines := []string{
		label("Name") + m.styles.value.Bold(true).Render(dev.Name),
		"",
		label("ID") + m.styles.id.Render(dev.Model().String()),
		label("Bus") + m.styles.value.Render(dev.Bus),
		label("Device") + m.styles.value.Render(dev.Address),
		label("Vendor") + m.styles.value.Render(dev.VendorID),
		label("Product") + m.styles.value.Render(dev.ProductID),
		"",
		label("Path") + m.styles.ttyPath.Render(dev.RawPath),
	}

	if dev.TerminalPath != "" {
		lines = append(lines, label("TTY")+m.styles.ttyPath.Bold(true).Render(dev.TerminalPath))
	}

	if dev.Bootloader {
		lines = append(lines, "", m.styles.dfuName.Render("⚡ DFU Mode"))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderStats(now time.Time) string {
	stats := m.session.Stats()

	label := func(s string) string {
		return m.styles.dim.Render(fmt.Sprintf("%-*s", statsLabelWidth, s))
	}

	latency := float64(stats.LastLatency.Microseconds()) / 1000.0

	dfuSeen := m.styles.dim.Render("none")
	if n := len(stats.EverSeenBootloader); n > 0 {
		dfuSeen = m.styles.activity.Render(fmt.Sprintf("%d", n))
	}

	lines := []string{
		m.styles.dim.Render("─── Stats ───"),
		label("Refreshes") +
			m.styles.good.Render(fmt.Sprintf("%d", stats.Refreshes)) +
			m.styles.dim.Render(fmt.Sprintf(" (%.1f/s)", stats.RefreshRate(now))),
		label("Latency") + m.latencyStyle(latency).Render(fmt.Sprintf("%.2fms", latency)),
		label("Peak") + m.styles.value.Render(fmt.Sprintf("%d devices", stats.PeakDevices)),
		label("Ever seen") + m.styles.value.Render(fmt.Sprintf("%d unique", len(stats.EverSeen))),
		label("DFU seen") + dfuSeen,
		label("Connects") +
			m.styles.good.Render(fmt.Sprintf("+%d", stats.Connects)) +
			m.styles.value.Render(" / ") +
			m.styles.bad.Render(fmt.Sprintf("-%d", stats.Disconnects)),
	}

	return strings.Join(lines, "\n")
}

// latencyStyle grades a snapshot build time in milliseconds.
func (m *Model) latencyStyle(ms float64) lipgloss.Style {
	switch {
	case ms < 10.0:
		return m.styles.good
	case ms < 50.0:
		return m.styles.warn
	default:
		return m.styles.bad
	}
}

func (m *Model) renderFooter(width, height int) string {
	stats := m.session.Stats()

	pulse := "●"
	if stats.Refreshes%2 == 1 {
		pulse = "○"
	}

	meta := "  " + m.styles.dim.Render("v"+version.GetVersion())
	if m.copyNote != "" {
		meta = "  " + m.styles.copied.Render(m.copyNote) + meta
	}

	var content string
	if m.help.ShowAll {
		content = m.styles.good.Render(pulse) + meta + "\n" + m.help.View(m.keys)
	} else {
		content = m.styles.good.Render(pulse) + " " + m.help.View(m.keys) + meta
	}

	return m.boxed(m.styles.footer, width, height, content)
}

// formatUptime renders a session age as MM:SS, growing to HH:MM:SS after
// the first hour.
func formatUptime(d time.Duration) string {
	secs := int64(d.Seconds())
	hours := secs / 3600
	mins := (secs % 3600) / 60
	secs %= 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
	}

	return fmt.Sprintf("%02d:%02d", mins, secs)
}

func bootloaderCount(devices []models.Device) int {
	n := 0

	for _, dev := range devices {
		if dev.Bootloader {
			n++
		}
	}

	return n
}
