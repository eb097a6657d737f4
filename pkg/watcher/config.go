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

package watcher

// defaultPaths are the device directories where USB plug events surface as
// node creation and removal.
var defaultPaths = []string{"/dev", "/dev/bus/usb"}

// Config controls the device-node watcher.
type Config struct {
	Disabled bool     `json:"disabled"`
	Paths    []string `json:"paths"`
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		c.Paths = append([]string(nil), defaultPaths...)
	}

	return nil
}
