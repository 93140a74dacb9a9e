// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core ties the runtime together on the app-process side:
// widget contexts, the pass scheduler, windows with layered overlays,
// and the frame loop that drives events, variables, layout, and render
// against the view process.
package core

import (
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/statemap"
	"zenithui.org/zenith/events"
	"zenithui.org/zenith/vars"
)

// WidgetContextPath locates the widget a pass is visiting: its window
// and the ancestor chain from the root, the visited widget last.
type WidgetContextPath struct {
	Window  ids.WindowID
	Widgets []ids.WidgetID
}

// Contains reports whether id is on the path.
func (p WidgetContextPath) Contains(id ids.WidgetID) bool {
	for _, w := range p.Widgets {
		if w == id {
			return true
		}
	}
	return false
}

// WidgetID returns the visited widget's id, or the invalid sentinel
// outside any widget scope.
func (p WidgetContextPath) WidgetID() ids.WidgetID {
	if len(p.Widgets) == 0 {
		return ids.WidgetInvalid
	}
	return p.Widgets[len(p.Widgets)-1]
}

// Context carries the three nested scopes of one pass: app, window, and
// widget. It is an explicit value handed down the tree; scoped entry is
// through [Context.WithWindow] and [Context.WithWidget], which pop on
// every exit path including panics.
type Context struct {
	app    *App
	window *Window
	path   WidgetContextPath
	widget *WidgetBase
}

// App returns the app the pass runs in.
func (cx *Context) App() *App { return cx.app }

// Window returns the window scope, or nil at app level.
func (cx *Context) Window() *Window { return cx.window }

// Path returns the current widget context path. The slice is shared;
// callers that keep it must copy.
func (cx *Context) Path() WidgetContextPath { return cx.path }

// Vars returns the app's variable registry.
func (cx *Context) Vars() *vars.Registry { return cx.app.Vars }

// Events returns the app's event dispatcher.
func (cx *Context) Events() *events.Dispatcher { return cx.app.Events }

// Updates returns the pass scheduler.
func (cx *Context) Updates() *Updates { return cx.app.Updates }

// AppState returns the process-lifetime state map.
func (cx *Context) AppState() *statemap.Map { return &cx.app.State }

// WindowState returns the window-lifetime state map. It panics outside
// a window scope.
func (cx *Context) WindowState() *statemap.Map {
	if cx.window == nil {
		panic("core: WindowState outside a window scope")
	}
	return &cx.window.State
}

// WidgetState returns the visited widget's state map, allocated lazily
// on first use. It panics outside a widget scope.
func (cx *Context) WidgetState() *statemap.Map {
	if cx.widget == nil {
		panic("core: WidgetState outside a widget scope")
	}
	return &cx.widget.State
}

// WithWindow runs f inside the window scope.
func (cx *Context) WithWindow(w *Window, f func()) {
	prevWin, prevPath := cx.window, cx.path
	cx.window = w
	cx.path = WidgetContextPath{Window: w.ID}
	defer func() {
		cx.window, cx.path = prevWin, prevPath
	}()
	f()
}

// WithWidget runs f inside the widget's scope, extending the context
// path. The scope pops even when f panics.
func (cx *Context) WithWidget(w *WidgetBase, f func()) {
	prev := cx.widget
	cx.widget = w
	cx.path.Widgets = append(cx.path.Widgets, w.ID)
	defer func() {
		cx.widget = prev
		cx.path.Widgets = cx.path.Widgets[:len(cx.path.Widgets)-1]
	}()
	f()
}

// RequestUpdate schedules an update pass for the current window.
func (cx *Context) RequestUpdate() {
	if cx.window != nil {
		cx.app.Updates.PushUpdate(cx.window.ID)
	}
}

// RequestLayout schedules measure+layout (and render) for the current
// window.
func (cx *Context) RequestLayout() {
	if cx.window != nil {
		cx.app.Updates.PushLayout(cx.window.ID)
	}
}

// RequestRender schedules a render pass for the current window.
func (cx *Context) RequestRender() {
	if cx.window != nil {
		cx.app.Updates.PushRender(cx.window.ID)
	}
}

// RequestRenderUpdate schedules a frame-value-only submission for the
// current window.
func (cx *Context) RequestRenderUpdate() {
	if cx.window != nil {
		cx.app.Updates.PushRenderUpdate(cx.window.ID)
	}
}
