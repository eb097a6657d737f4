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

package scan

const (
	defaultLsusbPath     = "lsusb"
	defaultSerialByIDDir = "/dev/serial/by-id"
	defaultSysfsRoot     = "/sys"
	defaultDevRoot       = "/dev"
)

// Config holds the discovery paths. The defaults suit a normal Linux host;
// tests point the directories at fixtures.
type Config struct {
	LsusbPath     string `json:"lsusb_path"`
	SerialByIDDir string `json:"serial_by_id_dir"`
	SysfsRoot     string `json:"sysfs_root"`
	DevRoot       string `json:"dev_root"`
}

// Validate implements config.Validator. Empty fields take their defaults, so
// the zero value is a working configuration.
func (c *Config) Validate() error {
	if c.LsusbPath == "" {
		c.LsusbPath = defaultLsusbPath
	}

	if c.SerialByIDDir == "" {
		c.SerialByIDDir = defaultSerialByIDDir
	}

	if c.SysfsRoot == "" {
		c.SysfsRoot = defaultSysfsRoot
	}

	if c.DevRoot == "" {
		c.DevRoot = defaultDevRoot
	}

	return nil
}
