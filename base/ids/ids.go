// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ids provides the opaque 64-bit identifiers used throughout
// Zenith for widgets, windows, input devices, and monitors. Identifiers
// are unique within the app process and are never reused.
package ids

import (
	"fmt"
	"sync/atomic"
)

// WidgetID identifies a widget within the app process.
// The zero value is [WidgetInvalid].
type WidgetID uint64

// WindowID identifies a window within the app process.
// The zero value is [WindowInvalid].
type WindowID uint64

// DeviceID identifies an input device reported by the view process.
// The zero value is [DeviceInvalid].
type DeviceID uint64

// MonitorID identifies a monitor reported by the view process.
// The zero value is [MonitorInvalid].
type MonitorID uint64

// Invalid sentinels. The zero value of every identifier type is reserved
// and never returned by the generators.
const (
	WidgetInvalid  WidgetID  = 0
	WindowInvalid  WindowID  = 0
	DeviceInvalid  DeviceID  = 0
	MonitorInvalid MonitorID = 0
)

var (
	widgetCounter  atomic.Uint64
	windowCounter  atomic.Uint64
	deviceCounter  atomic.Uint64
	monitorCounter atomic.Uint64
)

// NewWidgetID returns the next unique widget identifier.
func NewWidgetID() WidgetID { return WidgetID(widgetCounter.Add(1)) }

// NewWindowID returns the next unique window identifier.
func NewWindowID() WindowID { return WindowID(windowCounter.Add(1)) }

// NewDeviceID returns the next unique device identifier.
func NewDeviceID() DeviceID { return DeviceID(deviceCounter.Add(1)) }

// NewMonitorID returns the next unique monitor identifier.
func NewMonitorID() MonitorID { return MonitorID(monitorCounter.Add(1)) }

func (id WidgetID) String() string {
	if id == WidgetInvalid {
		return "WgtId(INVALID)"
	}
	return fmt.Sprintf("WgtId(%d)", uint64(id))
}

func (id WindowID) String() string {
	if id == WindowInvalid {
		return "WinId(INVALID)"
	}
	return fmt.Sprintf("WinId(%d)", uint64(id))
}

func (id DeviceID) String() string {
	if id == DeviceInvalid {
		return "DevId(INVALID)"
	}
	return fmt.Sprintf("DevId(%d)", uint64(id))
}

func (id MonitorID) String() string {
	if id == MonitorInvalid {
		return "MonId(INVALID)"
	}
	return fmt.Sprintf("MonId(%d)", uint64(id))
}
