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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
)

const (
	// conventionalPortCount bounds the direct probe of ttyUSB/ttyACM names.
	conventionalPortCount = 16

	// maxParentDepth bounds the sysfs walk from a tty's device directory up
	// to the USB device directory carrying busnum/devnum.
	maxParentDepth = 5
)

var terminalPrefixes = []string{"ttyUSB", "ttyACM"}

// portKey addresses a resolved terminal by numeric bus and device number,
// matching how sysfs reports busnum and devnum.
type portKey struct {
	bus int
	dev int
}

// Resolver maps USB bus/device numbers to serial terminal device nodes using
// kernel filesystem metadata.
type Resolver struct {
	byIDDir   string
	sysfsRoot string
	devRoot   string
	logger    logger.Logger
}

func NewResolver(cfg *Config, log logger.Logger) *Resolver {
	return &Resolver{
		byIDDir:   cfg.SerialByIDDir,
		sysfsRoot: cfg.SysfsRoot,
		devRoot:   cfg.DevRoot,
		logger:    log,
	}
}

// ResolveTerminalPaths combines two discovery strategies into one mapping:
// the stable by-id symlink directory first, then a direct probe of the
// conventional terminal names. The probe never displaces a by-id result for
// the same key. Candidates that cannot be resolved are omitted; a host with
// no serial devices yields an empty map.
func (r *Resolver) ResolveTerminalPaths() map[portKey]string {
	ports := make(map[portKey]string)

	r.scanByID(ports)
	r.probeConventional(ports)

	if len(ports) > 0 {
		r.logger.Debug().Int("terminals", len(ports)).Msg("resolved serial terminals")
	}

	return ports
}

// scanByID reads the by-id directory, where each entry is a symlink of the
// form ../../ttyUSB0 pointing at the terminal it names.
func (r *Resolver) scanByID(ports map[portKey]string) {
	entries, err := os.ReadDir(r.byIDDir)
	if err != nil {
		// No serial devices present; not an error.
		return
	}

	for _, entry := range entries {
		target, err := os.Readlink(filepath.Join(r.byIDDir, entry.Name()))
		if err != nil {
			continue
		}

		name, ok := strings.CutPrefix(target, "../../")
		if !ok || !hasTerminalPrefix(name) {
			continue
		}

		if key, ok := r.portFor(name); ok {
			ports[key] = filepath.Join(r.devRoot, name)
		}
	}
}

// probeConventional checks the fixed range of conventional terminal names,
// filling only keys the by-id scan did not claim.
func (r *Resolver) probeConventional(ports map[portKey]string) {
	for _, prefix := range terminalPrefixes {
		for i := 0; i < conventionalPortCount; i++ {
			name := fmt.Sprintf("%s%d", prefix, i)

			key, ok := r.portFor(name)
			if !ok {
				continue
			}

			if _, taken := ports[key]; !taken {
				ports[key] = filepath.Join(r.devRoot, name)
			}
		}
	}
}

// portFor resolves a terminal name to its owning (busnum, devnum) pair:
// canonicalize the tty's sysfs device link, then walk parent directories
// looking for one that carries both number files. Any failure along the way
// disqualifies the candidate rather than surfacing an error.
func (r *Resolver) portFor(name string) (portKey, bool) {
	real, err := filepath.EvalSymlinks(filepath.Join(r.sysfsRoot, "class", "tty", name, "device"))
	if err != nil {
		return portKey{}, false
	}

	current := real
	for i := 0; i < maxParentDepth; i++ {
		current = filepath.Dir(current)

		busnumPath := filepath.Join(current, "busnum")
		devnumPath := filepath.Join(current, "devnum")

		if !fileExists(busnumPath) || !fileExists(devnumPath) {
			continue
		}

		bus, ok := readPortNumber(busnumPath)
		if !ok {
			return portKey{}, false
		}

		dev, ok := readPortNumber(devnumPath)
		if !ok {
			return portKey{}, false
		}

		return portKey{bus: bus, dev: dev}, true
	}

	return portKey{}, false
}

func hasTerminalPrefix(name string) bool {
	for _, prefix := range terminalPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readPortNumber reads a sysfs file holding a single integer, possibly with
// surrounding whitespace.
func readPortNumber(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return n, true
}
