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

import "github.com/charmbracelet/lipgloss"

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
	draculaSelection  = "#44475A"
)

type styles struct {
	title    lipgloss.Style
	dim      lipgloss.Style
	badge    lipgloss.Style
	pane     lipgloss.Style
	footer   lipgloss.Style
	paneName lipgloss.Style

	selectedRow lipgloss.Style
	dfuName     lipgloss.Style
	ttyPath     lipgloss.Style
	rawPath     lipgloss.Style

	value    lipgloss.Style
	id       lipgloss.Style
	good     lipgloss.Style
	warn     lipgloss.Style
	bad      lipgloss.Style
	activity lipgloss.Style
	copied   lipgloss.Style
}

// Styling with lipgloss.
func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)).
			Bold(true),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Background(lipgloss.Color(draculaPink)).
			Bold(true),
		pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(draculaPurple)),
		footer: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(draculaComment)),
		paneName: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true),
		selectedRow: lipgloss.NewStyle().
			Background(lipgloss.Color(draculaSelection)).
			Bold(true),
		dfuName: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)).
			Bold(true),
		ttyPath: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		rawPath: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)),
		id: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		good: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		bad: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)),
		activity: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		copied: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
	}
}
