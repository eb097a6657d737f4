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

package models

import "time"

// Snapshot is one complete point-in-time enumeration result. It is immutable
// once built; ownership transfers wholly to the receiver on channel delivery.
type Snapshot struct {
	Devices []Device      `json:"devices"`
	Elapsed time.Duration `json:"elapsed"`
	Taken   time.Time     `json:"taken"`
}

// Keys returns the set of transient keys present in the snapshot.
func (s Snapshot) Keys() map[TransientKey]struct{} {
	keys := make(map[TransientKey]struct{}, len(s.Devices))
	for _, d := range s.Devices {
		keys[d.Key()] = struct{}{}
	}

	return keys
}
