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

// Package registry reconciles incoming device snapshots into session state:
// the current device list, cumulative statistics, and the selection. The
// Session is confined to the consuming side; Apply is its single mutation
// point for snapshot deliveries.
package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
)

// Delta reports the plug activity one snapshot introduced relative to the
// previous one.
type Delta struct {
	Connects    int
	Disconnects int
}

// Session is the state of one dashboard run. It is not safe for concurrent
// use; ownership of every applied snapshot transfers to the session.
type Session struct {
	id     string
	logger logger.Logger

	devices []models.Device
	keys    map[models.TransientKey]struct{}
	stats   models.Stats

	selectedIdx int
	selectedKey models.TransientKey
	anchored    bool
}

// NewSession creates an empty session. The start time anchors uptime and
// refresh-rate calculations.
func NewSession(start time.Time, log logger.Logger) *Session {
	return &Session{
		id:     uuid.New().String(),
		logger: log,
		keys:   map[models.TransientKey]struct{}{},
		stats:  models.NewStats(start),
	}
}

// ID is the unique identifier of this session, for log correlation.
func (s *Session) ID() string {
	return s.id
}

// Apply reconciles one snapshot into the session and reports the connect
// and disconnect counts it derived. Callers must apply snapshots exactly
// once each, in delivery order.
//
// The very first snapshot populates the session without counting plug
// events. Afterwards a transient key present now but not before is a
// connect, and one present before but not now is a disconnect.
func (s *Session) Apply(snap models.Snapshot) Delta {
	newKeys := snap.Keys()

	var delta Delta

	if s.stats.Refreshes > 0 {
		for key := range newKeys {
			if _, ok := s.keys[key]; !ok {
				delta.Connects++
			}
		}

		for key := range s.keys {
			if _, ok := newKeys[key]; !ok {
				delta.Disconnects++
			}
		}
	}

	s.stats.Refreshes++
	s.stats.LastLatency = snap.Elapsed
	s.stats.Connects += uint64(delta.Connects)
	s.stats.Disconnects += uint64(delta.Disconnects)

	if len(snap.Devices) > s.stats.PeakDevices {
		s.stats.PeakDevices = len(snap.Devices)
	}

	for _, dev := range snap.Devices {
		model := dev.Model()
		s.stats.EverSeen[model] = struct{}{}

		if dev.Bootloader {
			s.stats.EverSeenBootloader[model] = struct{}{}
		}
	}

	s.devices = snap.Devices
	s.keys = newKeys

	s.reanchorSelection()

	if delta.Connects > 0 || delta.Disconnects > 0 {
		s.logger.Debug().
			Int("connects", delta.Connects).
			Int("disconnects", delta.Disconnects).
			Int("devices", len(s.devices)).
			Msg("device set changed")
	}

	return delta
}

// Devices returns the device list from the latest applied snapshot. Callers
// must treat it as read-only.
func (s *Session) Devices() []models.Device {
	return s.devices
}

// Stats returns the cumulative session statistics. The contained sets are
// shared; callers must treat them as read-only.
func (s *Session) Stats() models.Stats {
	return s.stats
}
