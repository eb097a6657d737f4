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

// Package scan discovers attached USB devices by running the host's
// enumeration tool and correlates each device with its serial terminal node
// through sysfs. Every failure path degrades to fewer results; nothing in
// this package returns an error to its callers.
package scan

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
)

const unknownDeviceName = "Unknown"

// bootloaderMarkers flag devices enumerating in a firmware-update mode.
// Matched case-insensitively against the reported name; best-effort only.
var bootloaderMarkers = []string{"dfu", "download", "boot"}

// Enumerator lists attached USB devices by invoking the enumeration tool as
// a subprocess and parsing its stdout.
type Enumerator struct {
	path   string
	logger logger.Logger

	// runTool is swapped out in tests to feed canned output.
	runTool func(ctx context.Context, path string) ([]byte, error)
}

func NewEnumerator(cfg *Config, log logger.Logger) *Enumerator {
	return &Enumerator{
		path:    cfg.LsusbPath,
		logger:  log,
		runTool: runTool,
	}
}

func runTool(ctx context.Context, path string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, path).Output()
	if err != nil {
		// A nonzero exit still produced output worth parsing; only a
		// failed spawn means there is nothing to work with.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, nil
		}

		return nil, err
	}

	return out, nil
}

// Enumerate runs the enumeration tool and parses its output into device
// records. It fails soft: a missing or broken tool yields an empty list, and
// malformed output lines are dropped without aborting the pass.
func (e *Enumerator) Enumerate(ctx context.Context) []models.Device {
	out, err := e.runTool(ctx, e.path)
	if err != nil {
		e.logger.Debug().Err(err).Str("tool", e.path).Msg("usb enumeration unavailable")
		return nil
	}

	var devices []models.Device

	sc := bufio.NewScanner(strings.NewReader(strings.ToValidUTF8(string(out), string(utf8.RuneError))))
	for sc.Scan() {
		if dev, ok := parseLine(sc.Text()); ok {
			devices = append(devices, dev)
		}
	}

	return devices
}

// parseLine converts one enumeration output line of the shape
//
//	Bus 001 Device 004: ID 0483:df11 STM Device in DFU Mode
//
// into a device record. Lines that do not match the shape report ok=false
// and are skipped by the caller.
func parseLine(line string) (models.Device, bool) {
	halves := strings.SplitN(line, ": ID ", 2)
	if len(halves) != 2 {
		return models.Device{}, false
	}

	prefix := strings.Fields(halves[0])
	if len(prefix) < 4 {
		return models.Device{}, false
	}

	bus := prefix[1]
	address := prefix[3]

	idAndName := strings.SplitN(halves[1], " ", 2)

	name := unknownDeviceName
	if len(idAndName) > 1 {
		name = idAndName[1]
	}

	idParts := strings.Split(idAndName[0], ":")
	if len(idParts) != 2 {
		return models.Device{}, false
	}

	return models.Device{
		Bus:        bus,
		Address:    address,
		VendorID:   idParts[0],
		ProductID:  idParts[1],
		Name:       name,
		Bootloader: isBootloaderName(name),
		RawPath:    "/dev/bus/usb/" + bus + "/" + address,
	}, true
}

func isBootloaderName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range bootloaderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}
