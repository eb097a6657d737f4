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

package registry

import "github.com/victoryforphil/cursed-usb/pkg/models"

// Selected returns the device the selection rests on. It reports false
// before the first non-empty snapshot and while the device list is empty.
func (s *Session) Selected() (models.Device, bool) {
	if !s.anchored || s.selectedIdx >= len(s.devices) {
		return models.Device{}, false
	}

	return s.devices[s.selectedIdx], true
}

// SelectedIndex returns the selection's position in Devices.
func (s *Session) SelectedIndex() (int, bool) {
	if _, ok := s.Selected(); !ok {
		return 0, false
	}

	return s.selectedIdx, true
}

// SelectNext moves the selection down one row, wrapping at the bottom.
func (s *Session) SelectNext() {
	if len(s.devices) == 0 {
		return
	}

	i := 0
	if s.anchored {
		i = s.selectedIdx + 1
		if i >= len(s.devices) {
			i = 0
		}
	}

	s.anchor(i)
}

// SelectPrev moves the selection up one row, wrapping at the top.
func (s *Session) SelectPrev() {
	if len(s.devices) == 0 {
		return
	}

	i := 0
	if s.anchored {
		i = s.selectedIdx - 1
		if i < 0 {
			i = len(s.devices) - 1
		}
	}

	s.anchor(i)
}

// reanchorSelection applies the continuity policy after the device list
// changed. The selected key is followed to its new position when it
// survived. A vanished key falls back to the old index clamped into the new
// list, adopting whichever device sits there now. An empty list leaves the
// key in place so a returning device can reclaim the selection.
func (s *Session) reanchorSelection() {
	if s.anchored {
		for i, dev := range s.devices {
			if dev.Key() == s.selectedKey {
				s.selectedIdx = i
				return
			}
		}

		if len(s.devices) > 0 {
			idx := s.selectedIdx
			if idx >= len(s.devices) {
				idx = len(s.devices) - 1
			}

			s.anchor(idx)
		}

		return
	}

	if len(s.devices) > 0 {
		s.anchor(0)
	}
}

// anchor points the selection at index i and remembers the key that lives
// there. i must be a valid index.
func (s *Session) anchor(i int) {
	s.selectedIdx = i
	s.selectedKey = s.devices[i].Key()
	s.anchored = true
}
