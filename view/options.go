// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// OptionsEnv names the environment variable pointing at an optional
// TOML options file for the view process.
const OptionsEnv = "ZENITH_VIEW_OPTIONS"

// Options tunes the view process.
type Options struct {
	// FrameCacheCapacity is the number of expanded frames kept per
	// pipeline beyond the pinned set.
	FrameCacheCapacity int `toml:"frame-cache-capacity"`

	// ScaleFactor is the monitor scale the headless backend reports.
	ScaleFactor float32 `toml:"scale-factor"`

	// MonitorWidth and MonitorHeight size the headless monitor in
	// device-independent pixels.
	MonitorWidth  float32 `toml:"monitor-width"`
	MonitorHeight float32 `toml:"monitor-height"`
}

// DefaultOptions returns the options used when no file is configured.
func DefaultOptions() Options {
	return Options{
		FrameCacheCapacity: 4,
		ScaleFactor:        1,
		MonitorWidth:       1920,
		MonitorHeight:      1080,
	}
}

// LoadOptions reads the file named by [OptionsEnv], if any, over the
// defaults.
func LoadOptions() (Options, error) {
	o := DefaultOptions()
	path := os.Getenv(OptionsEnv)
	if path == "" {
		return o, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("view: read options: %w", err)
	}
	if err := toml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("view: parse options: %w", err)
	}
	return o, nil
}
