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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/victoryforphil/cursed-usb/pkg/config"
	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/poller"
	"github.com/victoryforphil/cursed-usb/pkg/registry"
	"github.com/victoryforphil/cursed-usb/pkg/scan"
	"github.com/victoryforphil/cursed-usb/pkg/tui"
	"github.com/victoryforphil/cursed-usb/pkg/version"
	"github.com/victoryforphil/cursed-usb/pkg/watcher"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

const defaultDebugLogPath = "/tmp/cursed-usb.log"

// appConfig aggregates the per-package configurations into the single
// document loaded from a file or the environment. The zero value validates
// into a working configuration, so the binary runs with no config at all.
type appConfig struct {
	Scan    scan.Config    `json:"scan"`
	Poller  poller.Config  `json:"poller"`
	Watcher watcher.Config `json:"watcher"`
	Logging *logger.Config `json:"logging,omitempty"`
}

func (c *appConfig) Validate() error {
	if err := c.Scan.Validate(); err != nil {
		return err
	}

	if err := c.Poller.Validate(); err != nil {
		return err
	}

	return c.Watcher.Validate()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (optional, defaults apply when empty)")
	once := flag.Bool("once", false, "Enumerate once, print a device table, and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("cursed-usb " + version.GetFullVersion())
		return nil
	}

	ctx := context.Background()

	// Step 1: Load configuration
	var cfg appConfig

	if *configPath != "" || os.Getenv("CONFIG_SOURCE") != "" {
		cfgLoader := config.NewConfig(nil)

		if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
			return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
		}
	} else if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 2: Create logger for the run mode
	appLogger, err := newAppLogger(&cfg, *once, *debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	scanner := scan.NewScanner(&cfg.Scan, appLogger.WithComponent("scan"))

	if *once {
		return runOnce(ctx, scanner)
	}

	return runDashboard(ctx, &cfg, scanner, appLogger)
}

// newAppLogger picks the log destination for the run mode. The dashboard
// owns the terminal, so its default sink is discard and -debug routes to a
// file instead; -once runs headless and logs to stderr like any CLI.
func newAppLogger(cfg *appConfig, once, debug bool) (logger.Logger, error) {
	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = logger.DefaultConfig()
		if !once {
			logConfig.Output = logger.OutputDiscard
		}
	}

	if debug {
		logConfig.Debug = true

		if !once && logConfig.Output == logger.OutputDiscard {
			logConfig.Output = defaultDebugLogPath
		}
	}

	return logger.New(logConfig)
}

// runOnce builds a single snapshot and prints it as a plain table, which
// keeps the discovery pipeline usable from scripts and hosts without a tty.
func runOnce(ctx context.Context, scanner *scan.Scanner) error {
	snap := scanner.Snapshot(ctx)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "BUS\tDEV\tID\tNAME\tPATH")

	for _, dev := range snap.Devices {
		name := dev.Name
		if dev.Bootloader {
			name += " [DFU]"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			dev.Bus, dev.Address, dev.Model().String(), name, dev.DisplayPath())
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("%d devices in %s\n", len(snap.Devices), snap.Elapsed)

	return nil
}

func runDashboard(ctx context.Context, cfg *appConfig, scanner *scan.Scanner, appLogger logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := poller.New(&cfg.Poller, scanner, nil, appLogger.WithComponent("poller"))

	pollDone := make(chan error, 1)

	go func() {
		pollDone <- p.Start(ctx)
	}()

	w := watcher.New(&cfg.Watcher, p.Refresh, appLogger.WithComponent("watcher"))
	if err := w.Start(); err != nil {
		appLogger.Debug().Err(err).Msg("device watcher unavailable")
	}

	defer func() {
		if err := w.Stop(); err != nil {
			appLogger.Debug().Err(err).Msg("device watcher stop failed")
		}
	}()

	session := registry.NewSession(time.Now(), appLogger.WithComponent("session"))

	appLogger.Info().
		Str("session_id", session.ID()).
		Str("version", version.GetVersion()).
		Msg("Starting dashboard")

	model := tui.New(session, p.Snapshots(), p.Refresh, appLogger.WithComponent("tui"))

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	// Stop the poller and wait for it to close the snapshot stream.
	cancel()

	if err := <-pollDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
