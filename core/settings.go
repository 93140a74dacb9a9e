// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"zenithui.org/zenith/base/logx"
)

// Settings are the app-level options persisted in a TOML file next to
// the app's data.
type Settings struct {
	// LogLevel is the minimum level logged: debug, info, warn, error.
	LogLevel string `toml:"log-level"`

	// ViewMode selects how the view runs: "headed", "headless", or
	// "same-process".
	ViewMode string `toml:"view-mode"`

	// GeometryStore is the path of the window-placement database;
	// empty disables persistence.
	GeometryStore string `toml:"geometry-store"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: "warn",
		ViewMode: "headed",
	}
}

// LoadSettings reads the settings file over the defaults. A missing
// file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("core: read settings: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("core: parse settings: %w", err)
	}
	return s, nil
}

// SaveSettings writes the settings file, creating parent directories.
func SaveSettings(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Apply puts the settings into effect on the process.
func (s Settings) Apply() {
	switch s.LogLevel {
	case "debug":
		logx.SetUserLevel(slog.LevelDebug)
	case "info":
		logx.SetUserLevel(slog.LevelInfo)
	case "warn", "":
		logx.SetUserLevel(slog.LevelWarn)
	case "error":
		logx.SetUserLevel(slog.LevelError)
	default:
		slog.Warn("unknown log level in settings", "level", s.LogLevel)
	}
}
