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

import (
	"context"
	"strconv"
	"time"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
)

// Scanner combines enumeration and terminal resolution into point-in-time
// snapshots. It performs no caching: every call reflects fresh subprocess
// output and filesystem state.
type Scanner struct {
	enumerate func(ctx context.Context) []models.Device
	resolve   func() map[portKey]string
	logger    logger.Logger
}

func NewScanner(cfg *Config, log logger.Logger) *Scanner {
	enum := NewEnumerator(cfg, log)
	resolver := NewResolver(cfg, log)

	return &Scanner{
		enumerate: enum.Enumerate,
		resolve:   resolver.ResolveTerminalPaths,
		logger:    log,
	}
}

// Snapshot builds one complete view of the attached devices, attaching a
// terminal path to every device whose numeric bus/device pair the resolver
// knows. Elapsed covers the full enumerate-resolve-combine sequence.
func (s *Scanner) Snapshot(ctx context.Context) models.Snapshot {
	start := time.Now()

	devices := s.enumerate(ctx)
	ports := s.resolve()

	for i := range devices {
		key := portKey{
			bus: numericOrZero(devices[i].Bus),
			dev: numericOrZero(devices[i].Address),
		}

		if tty, ok := ports[key]; ok {
			devices[i].TerminalPath = tty
		}
	}

	elapsed := time.Since(start)

	s.logger.Debug().
		Int("devices", len(devices)).
		Dur("elapsed", elapsed).
		Msg("snapshot built")

	return models.Snapshot{Devices: devices, Elapsed: elapsed, Taken: start}
}

// numericOrZero parses an enumerated bus or address string the way the
// resolver keys its map. Unparsable values become 0 and match nothing.
func numericOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
