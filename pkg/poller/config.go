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
	"time"

	"github.com/victoryforphil/cursed-usb/pkg/models"
)

// defaultInterval is the idle wait between snapshots when no refresh is
// requested, roughly five per second.
const defaultInterval = 200 * time.Millisecond

// Config controls the polling cadence.
type Config struct {
	Interval models.Duration `json:"interval"`
}

// Validate implements config.Validator. The zero value polls at the default
// cadence.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		c.Interval = models.Duration(defaultInterval)
	}

	return nil
}
