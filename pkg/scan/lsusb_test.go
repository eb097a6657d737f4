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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victoryforphil/cursed-usb/pkg/logger"
	"github.com/victoryforphil/cursed-usb/pkg/models"
)

func testEnumerator(output string, err error) *Enumerator {
	return &Enumerator{
		path:   "lsusb",
		logger: logger.NewTestLogger(),
		runTool: func(context.Context, string) ([]byte, error) {
			return []byte(output), err
		},
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.Device
		ok   bool
	}{
		{
			name: "bootloader device",
			line: "Bus 001 Device 004: ID 0483:df11 STM Device in DFU Mode",
			want: models.Device{
				Bus:        "001",
				Address:    "004",
				VendorID:   "0483",
				ProductID:  "df11",
				Name:       "STM Device in DFU Mode",
				Bootloader: true,
				RawPath:    "/dev/bus/usb/001/004",
			},
			ok: true,
		},
		{
			name: "root hub",
			line: "Bus 003 Device 001: ID 1d6b:0002 Linux Foundation 2.0 root hub",
			want: models.Device{
				Bus:       "003",
				Address:   "001",
				VendorID:  "1d6b",
				ProductID: "0002",
				Name:      "Linux Foundation 2.0 root hub",
				RawPath:   "/dev/bus/usb/003/001",
			},
			ok: true,
		},
		{
			name: "missing name",
			line: "Bus 002 Device 003: ID 16c0:05dc",
			want: models.Device{
				Bus:       "002",
				Address:   "003",
				VendorID:  "16c0",
				ProductID: "05dc",
				Name:      "Unknown",
				RawPath:   "/dev/bus/usb/002/003",
			},
			ok: true,
		},
		{
			name: "name kept verbatim",
			line: "Bus 001 Device 002: ID 1234:5678  padded  name",
			want: models.Device{
				Bus:       "001",
				Address:   "002",
				VendorID:  "1234",
				ProductID: "5678",
				Name:      " padded  name",
				RawPath:   "/dev/bus/usb/001/002",
			},
			ok: true,
		},
		{name: "no id separator", line: "Bus 001 Device 004 garbage"},
		{name: "short prefix", line: "Bus 001: ID 1234:5678 Foo"},
		{name: "id missing colon", line: "Bus 001 Device 004: ID 0483df11 Foo"},
		{name: "id with extra colon", line: "Bus 001 Device 004: ID 04:83:df11 Foo"},
		{name: "empty line", line: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLine(tt.line)
			require.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBootloaderNameMarkers(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"STM Device in DFU Mode", true},
		{"STM32 BOOTLOADER", true},
		{"USB download gadget", true},
		{"CP2102 USB to UART Bridge Controller", false},
		{"Unknown", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isBootloaderName(tt.name), tt.name)
	}
}

func TestEnumerateParsesToolOutput(t *testing.T) {
	out := "Bus 001 Device 001: ID 1d6b:0002 Linux Foundation 2.0 root hub\n" +
		"Bus 001 Device 004: ID 0483:df11 STM Device in DFU Mode\n" +
		"Bus 002 Device 001: ID 1d6b:0003 Linux Foundation 3.0 root hub\n"

	devices := testEnumerator(out, nil).Enumerate(context.Background())

	require.Len(t, devices, 3)
	assert.Equal(t, "STM Device in DFU Mode", devices[1].Name)
	assert.True(t, devices[1].Bootloader)
	assert.Equal(t, "/dev/bus/usb/001/004", devices[1].RawPath)
}

func TestEnumerateSkipsMalformedLines(t *testing.T) {
	out := "Bus 001 Device 001: ID 1d6b:0002 Linux Foundation 2.0 root hub\n" +
		"couldn't open device, some error\n" +
		"\n" +
		"Bus 001 Device 005: ID 2341:0043 Arduino Uno R3\n"

	devices := testEnumerator(out, nil).Enumerate(context.Background())

	require.Len(t, devices, 2)
	assert.Equal(t, "001", devices[0].Address)
	assert.Equal(t, "005", devices[1].Address)
}

func TestEnumerateToolFailure(t *testing.T) {
	enum := testEnumerator("", errors.New("executable file not found in $PATH"))

	assert.Empty(t, enum.Enumerate(context.Background()))
}

func TestEnumerateMissingTool(t *testing.T) {
	cfg := &Config{LsusbPath: "/nonexistent/usb-enumerator"}
	enum := NewEnumerator(cfg, logger.NewTestLogger())

	assert.Empty(t, enum.Enumerate(context.Background()))
}

func TestEnumerateSanitizesOutput(t *testing.T) {
	devices := testEnumerator("Bus 001 Device 002: ID 1234:5678 Bad\xffName\n", nil).
		Enumerate(context.Background())

	require.Len(t, devices, 1)
	assert.Equal(t, "Bad�Name", devices[0].Name)
}

func TestEnumerateIsRepeatable(t *testing.T) {
	enum := testEnumerator("Bus 001 Device 004: ID 0483:df11 STM Device in DFU Mode\n", nil)

	first := enum.Enumerate(context.Background())
	second := enum.Enumerate(context.Background())

	assert.Equal(t, first, second)
}
