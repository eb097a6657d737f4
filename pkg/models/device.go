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

// Package models defines the core data types shared across the discovery,
// polling, and session-tracking packages.
package models

// TransientKey identifies a device by its bus/address assignment. The kernel
// hands out a fresh address on every replug, so the key is only stable while
// the device stays continuously connected.
type TransientKey struct {
	Bus     string `json:"bus"`
	Address string `json:"address"`
}

func (k TransientKey) String() string {
	return k.Bus + ":" + k.Address
}

// ModelID identifies a device model by its vendor/product pair. It survives
// replugs, which makes it the identity used for ever-seen tracking. All units
// of the same model share one ModelID.
type ModelID struct {
	Vendor  string `json:"vendor_id"`
	Product string `json:"product_id"`
}

func (m ModelID) String() string {
	return m.Vendor + ":" + m.Product
}

// Device is one USB endpoint as reported by a single enumeration pass.
// Bus, Address, VendorID, and ProductID carry the exact strings the
// enumeration tool printed, zero-padding included.
type Device struct {
	Bus          string `json:"bus"`
	Address      string `json:"address"`
	VendorID     string `json:"vendor_id"`
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Bootloader   bool   `json:"bootloader"`
	RawPath      string `json:"raw_path"`
	TerminalPath string `json:"terminal_path,omitempty"`
}

// Key returns the device's transient identity.
func (d Device) Key() TransientKey {
	return TransientKey{Bus: d.Bus, Address: d.Address}
}

// Model returns the device's model identity.
func (d Device) Model() ModelID {
	return ModelID{Vendor: d.VendorID, Product: d.ProductID}
}

// DisplayPath returns the terminal node when the device exposes one,
// otherwise the raw bus path. This is the path shown to the user.
func (d Device) DisplayPath() string {
	if d.TerminalPath != "" {
		return d.TerminalPath
	}

	return d.RawPath
}
