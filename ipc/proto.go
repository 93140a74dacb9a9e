// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ipc implements the app↔view process protocol: typed request,
// response, and event messages, the gob wire codec with its frame
// budget, the websocket channel plumbing, and the app-side controller
// that owns request FIFO ordering, timeouts, and view-process recovery.
package ipc

import (
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/render"
)

// Version is exchanged on handshake. The first request on a fresh
// channel pair must be [ReqVersion]; both processes must report the
// same string or startup aborts.
const Version = "0.1.0"

// VersionMismatchPanic is the fatal message raised when the two
// processes disagree on [Version].
const VersionMismatchPanic = "app-process and view-process must be built using the same exact version"

// WindowState is the top-level window mode.
type WindowState uint8

const (
	WindowNormal WindowState = iota
	WindowMinimized
	WindowMaximized
	WindowFullscreen
)

// WindowConfig is the full configuration of a view-process window. The
// controller keeps a copy per open window so windows can be reopened
// after a view-process respawn.
type WindowConfig struct {
	Title          string
	Position       geom.Vector2
	Size           geom.Vector2
	State          WindowState
	Visible        bool
	AlwaysOnTop    bool
	Movable        bool
	Resizable      bool
	TaskbarVisible bool
	Transparent    bool
	ChromeVisible  bool
	TextAA         bool
}

// DefaultWindowConfig returns the config of a plain decorated window.
func DefaultWindowConfig(title string, size geom.Vector2) WindowConfig {
	return WindowConfig{
		Title:          title,
		Size:           size,
		Visible:        true,
		Movable:        true,
		Resizable:      true,
		TaskbarVisible: true,
		ChromeVisible:  true,
		TextAA:         true,
	}
}

// MonitorInfo describes one monitor.
type MonitorInfo struct {
	ID          ids.MonitorID
	Name        string
	Position    geom.Vector2
	Size        geom.Vector2
	ScaleFactor float32
	Primary     bool
}

// FrameRequest is one full frame submission for a window.
type FrameRequest struct {
	Window     ids.WindowID
	ClearColor render.Color
	List       render.DisplayList
}

// ResourceKind tags a [ResourceUpdate].
type ResourceKind uint8

const (
	ResourceAddImage ResourceKind = iota
	ResourceDeleteImage
	ResourceAddFont
	ResourceDeleteFont
	ResourceAddFontInstance
	ResourceDeleteFontInstance
)

// ResourceUpdate adds or removes one renderer resource.
type ResourceUpdate struct {
	Kind ResourceKind
	Key  uint64
	Data []byte
}

// Pixels is a raw RGBA8 capture of a window's content.
type Pixels struct {
	Size geom.Vector2
	Data []byte
}

// RequestKind tags a [Request].
type RequestKind uint8

const (
	ReqVersion RequestKind = iota
	ReqStartup
	ReqPrimaryMonitor
	ReqMonitorInfo
	ReqAvailableMonitors
	ReqOpenWindow
	ReqCloseWindow
	ReqSetTitle
	ReqSetVisible
	ReqSetAlwaysOnTop
	ReqSetMovable
	ReqSetResizable
	ReqSetTaskbarVisible
	ReqSetParent
	ReqSetTransparent
	ReqSetChromeVisible
	ReqSetPosition
	ReqSetSize
	ReqSetState
	ReqSetIcon
	ReqPipelineID
	ReqNamespaceID
	ReqGenerateImageKey
	ReqGenerateFontKey
	ReqGenerateFontInstanceKey
	ReqSize
	ReqScaleFactor
	ReqReadPixels
	ReqReadPixelsRect
	ReqHitTest
	ReqSetTextAA
	ReqRender
	ReqRenderUpdate
	ReqUpdateResources
)

// Request is one app→view message. It is a flat tagged union: Kind
// selects the meaningful fields, the rest stay zero so gob keeps the
// frames small.
type Request struct {
	Kind RequestKind

	Window  ids.WindowID
	Monitor ids.MonitorID

	// Flag carries the boolean of set_visible, set_always_on_top,
	// set_movable, set_resizable, set_taskbar_visible, set_transparent,
	// set_chrome_visible, and set_text_aa.
	Flag bool

	Title string
	Point geom.Vector2
	Size  geom.Vector2
	State WindowState
	Icon  []byte

	// Parent and Modal describe set_parent.
	Parent ids.WindowID
	Modal  bool

	// DeviceEvents and Headless describe startup.
	DeviceEvents bool
	Headless     bool

	Config    *WindowConfig
	Frame     *FrameRequest
	Dynamic   *render.DynamicProperties
	Resources []ResourceUpdate
}

// Response is one view→app reply. Exactly one response answers each
// request, in request order. Err is set instead of the payload fields
// when the operation failed.
type Response struct {
	Kind RequestKind
	Err  string

	Version   string
	Window    ids.WindowID
	Monitor   MonitorInfo
	Monitors  []MonitorInfo
	Pipeline  render.PipelineID
	Namespace uint32
	Key       uint64
	Size      geom.Vector2
	Scale     float32
	Pixels    *Pixels
	Hits      []ids.WidgetID
	Frame     render.FrameID
}

// Ok reports whether the response carries no error.
func (r *Response) Ok() bool { return r.Err == "" }

// EventKind tags an [Event].
type EventKind uint8

const (
	EvWindowResized EventKind = iota
	EvWindowMoved
	EvWindowCloseRequested
	EvWindowClosed
	EvWindowStateChanged
	EvFocused
	EvKeyboardInput
	EvModifiersChanged
	EvCursorMoved
	EvCursorEntered
	EvCursorLeft
	EvMouseWheel
	EvMouseInput
	EvTouch
	EvScaleFactorChanged
	EvThemeChanged
	EvFontsChanged
	EvTextAAChanged
	EvDeviceAdded
	EvDeviceRemoved
	EvEventsCleared
	EvFrameRendered
	EvRespawned
)

// KeyState is the press state of a key or button.
type KeyState uint8

const (
	KeyPressed KeyState = iota
	KeyReleased
)

// TouchPhase is the stage of one touch contact.
type TouchPhase uint8

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

// Event is one view→app notification. Flat tagged union like [Request].
type Event struct {
	Kind   EventKind
	Window ids.WindowID
	Device ids.DeviceID

	Size      geom.Vector2
	Point     geom.Vector2
	Scale     float32
	Focused   bool
	Dark      bool
	TextAA    bool
	State     WindowState
	Frame     render.FrameID
	KeyCode   uint32
	KeyState  KeyState
	Modifiers uint8
	Button    uint8
	Delta     geom.Vector2
	TouchID   uint64
	Phase     TouchPhase

	// Generation identifies the view process that raised the event;
	// it increments on every respawn so stale events are discarded.
	Generation uint32
}
