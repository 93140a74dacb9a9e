// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"context"
	"time"

	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/logx"
	"zenithui.org/zenith/base/statemap"
	"zenithui.org/zenith/events"
	"zenithui.org/zenith/ipc"
	"zenithui.org/zenith/layout"
	"zenithui.org/zenith/render"
	"zenithui.org/zenith/vars"
)

// App owns the single-threaded app loop and everything that lives on
// it: the variable registry, the event dispatcher, the pass scheduler,
// and the windows. One thread calls [App.Frame] (or [App.Run]); the
// only values crossing in from other goroutines go through the view
// event queue.
type App struct {
	State   statemap.Map
	Vars    *vars.Registry
	Events  *events.Dispatcher
	Updates *Updates

	// ViewEvents broadcasts every view-process event to subscribers on
	// the app loop, after the built-in window bookkeeping ran.
	ViewEvents *events.Event[ipc.Event]

	windows map[ids.WindowID]*Window
	order   []ids.WindowID

	view      *ipc.Controller
	viewQueue events.Queue[ipc.Event]

	geometry *GeometryStore
	names    map[ids.WindowID]string

	wake chan struct{}
	cx   Context
}

// NewApp returns an app with no view process attached; windows then
// render to their LastList only, which is what headless tests use.
func NewApp() *App {
	a := &App{
		Vars:    vars.NewRegistry(),
		Events:  events.NewDispatcher(),
		windows: map[ids.WindowID]*Window{},
		names:   map[ids.WindowID]string{},
		wake:    make(chan struct{}, 1),
	}
	a.Updates = NewUpdates(a.Wake)
	a.ViewEvents = events.New[ipc.Event](a.Events, "view")
	a.viewQueue.Init()
	a.cx = Context{app: a}

	// a committed var write schedules the update pass of every window;
	// subscriber widgets re-read during update
	a.Vars.OnWake(func(ids.WidgetID) { a.pushAll(FlagUpdate) })
	a.Events.OnNotify(func(hp bool) {
		if hp {
			a.pushAll(FlagUpdateHP)
		} else {
			a.pushAll(FlagUpdate)
		}
	})
	return a
}

func (a *App) pushAll(f UpdateFlags) {
	for _, id := range a.order {
		a.Updates.push(id, f)
	}
}

// Wake nudges a blocked [App.Run] loop; safe from any goroutine.
func (a *App) Wake() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Context returns the app-scope pass context.
func (a *App) Context() *Context { return &a.cx }

// SetGeometryStore enables window-placement persistence. Windows are
// keyed by the name given to [App.NewWindow].
func (a *App) SetGeometryStore(s *GeometryStore) { a.geometry = s }

// ConnectView starts the view process through starter and replays any
// windows opened before the connection.
func (a *App) ConnectView(starter ipc.Starter, headless bool) error {
	c := ipc.NewController(starter)
	c.OnEvent = func(ev ipc.Event) {
		a.viewQueue.Send(ev)
		a.Wake()
	}
	if err := c.Start(); err != nil {
		return err
	}
	a.view = c
	if _, err := c.Request(&ipc.Request{Kind: ipc.ReqStartup, Headless: headless}); err != nil {
		return err
	}
	for _, id := range a.order {
		a.viewOpen(a.windows[id])
	}
	return nil
}

// View returns the view controller, or nil when headless-in-process.
func (a *App) View() *ipc.Controller { return a.view }

// NewWindow creates a window with the given persistence name and
// content root and schedules its first full frame.
func (a *App) NewWindow(name string, size geom.Vector2, root Widget) *Window {
	g, restored := a.loadGeometry(name)
	if restored {
		size = g.Size
	}
	w := newAppWindow(a, name, size, root)
	if restored {
		w.normalPos = g.Position
		w.state = g.State
	}
	a.windows[w.ID] = w
	a.order = append(a.order, w.ID)
	a.names[w.ID] = name

	a.cx.WithWindow(w, func() {
		w.Root.Init(&a.cx)
		for _, lw := range w.Layers.Widgets() {
			lw.Init(&a.cx)
		}
	})
	a.viewOpen(w)
	a.Updates.PushUpdate(w.ID)
	a.Updates.PushLayout(w.ID)
	return w
}

func (a *App) loadGeometry(name string) (WindowGeometry, bool) {
	if a.geometry == nil {
		return WindowGeometry{}, false
	}
	return a.geometry.Load(name)
}

// CloseWindow deinitializes and removes the window.
func (a *App) CloseWindow(id ids.WindowID) {
	w, ok := a.windows[id]
	if !ok {
		return
	}
	a.cx.WithWindow(w, func() {
		w.Root.Deinit(&a.cx)
		for _, lw := range w.Layers.Widgets() {
			lw.Deinit(&a.cx)
		}
	})
	delete(a.windows, id)
	delete(a.names, id)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	if a.view != nil {
		a.view.Request(&ipc.Request{Kind: ipc.ReqCloseWindow, Window: id})
	}
}

// Window returns the window by id, or nil.
func (a *App) Window(id ids.WindowID) *Window { return a.windows[id] }

func (a *App) viewOpen(w *Window) {
	if a.view == nil {
		return
	}
	cfg := a.openConfig(w)
	if _, err := a.view.Request(&ipc.Request{Kind: ipc.ReqOpenWindow, Window: w.ID, Config: &cfg}); err != nil {
		logx.Error(err, "window", w.ID)
		return
	}
	if resp, err := a.view.Request(&ipc.Request{Kind: ipc.ReqPipelineID, Window: w.ID}); err == nil && resp.Ok() {
		w.pipeline = resp.Pipeline
	}
}

// openConfig builds the open_window config, replaying the window's
// restored or tracked placement.
func (a *App) openConfig(w *Window) ipc.WindowConfig {
	cfg := ipc.DefaultWindowConfig(w.Title.Get(), w.size)
	cfg.Position = w.normalPos
	cfg.State = w.state
	return cfg
}

func (a *App) viewSetTitle(id ids.WindowID, title string) {
	if a.view == nil {
		return
	}
	if _, err := a.view.Request(&ipc.Request{Kind: ipc.ReqSetTitle, Window: id, Title: title}); err != nil {
		logx.Error(err, "window", id)
	}
}

func (a *App) viewRender(w *Window, dl *render.DisplayList) {
	if a.view == nil {
		return
	}
	fr := &ipc.FrameRequest{Window: w.ID, List: *dl}
	if _, err := a.view.Request(&ipc.Request{Kind: ipc.ReqRender, Window: w.ID, Frame: fr}); err != nil {
		logx.Error(err, "window", w.ID)
	}
}

func (a *App) viewRenderUpdate(w *Window, d *render.DynamicProperties) {
	if a.view == nil {
		return
	}
	if _, err := a.view.Request(&ipc.Request{Kind: ipc.ReqRenderUpdate, Window: w.ID, Dynamic: d}); err != nil {
		logx.Error(err, "window", w.ID)
	}
}

// handleViewEvent does the built-in bookkeeping for one view event and
// forwards it to subscribers and the target window's widget tree.
func (a *App) handleViewEvent(ev ipc.Event) {
	if a.view != nil && ev.Kind != ipc.EvRespawned && ev.Generation != a.view.Generation() {
		return // stale, from a view process that has been respawned
	}
	switch ev.Kind {
	case ipc.EvWindowResized:
		if w := a.windows[ev.Window]; w != nil {
			w.setSize(ev.Size)
			if w.state == ipc.WindowNormal {
				w.normalSize = ev.Size
			}
			a.saveGeometry(w)
		}
	case ipc.EvWindowMoved:
		if w := a.windows[ev.Window]; w != nil {
			if w.state == ipc.WindowNormal {
				w.normalPos = ev.Point
			}
			a.saveGeometry(w)
		}
	case ipc.EvWindowStateChanged:
		if w := a.windows[ev.Window]; w != nil {
			// minimized is transient and never restored across runs
			if ev.State != ipc.WindowMinimized {
				w.state = ev.State
			}
			a.saveGeometry(w)
		}
	case ipc.EvScaleFactorChanged:
		if w := a.windows[ev.Window]; w != nil {
			w.setScale(ev.Scale)
		}
	case ipc.EvRespawned:
		// the new view process has no caches; every window re-renders
		// from scratch
		for _, id := range a.order {
			w := a.windows[id]
			w.changed = ^layout.Metric(0)
			w.frame = 0
			a.Updates.PushLayout(id)
		}
	}
	a.ViewEvents.Notify(ev)
	if w := a.windows[ev.Window]; w != nil {
		w.eventPass(&a.cx, ev)
	}
}

func (a *App) saveGeometry(w *Window) {
	if a.geometry == nil {
		return
	}
	g := WindowGeometry{Position: w.normalPos, Size: w.normalSize, State: w.state}
	if err := a.geometry.Save(a.names[w.ID], g); err != nil {
		logx.Error(err, "window", w.ID)
	}
}

// compressViewEvents drops all but the last of a run of same-kind
// same-window non-unique events (cursor moves, resizes); only the final
// position or size matters.
func compressViewEvents(evs []ipc.Event) []ipc.Event {
	out := evs[:0]
	for _, ev := range evs {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			switch ev.Kind {
			case ipc.EvCursorMoved, ipc.EvWindowResized, ipc.EvWindowMoved:
				if prev.Kind == ev.Kind && prev.Window == ev.Window {
					*prev = ev
					continue
				}
			}
		}
		out = append(out, ev)
	}
	return out
}

// Frame runs one app frame: drain view events, dispatch staged events,
// run animations, commit staged variable writes, then run the pending
// passes of every window.
func (a *App) Frame() {
	var evs []ipc.Event
	for {
		ev, ok := a.viewQueue.Next()
		if !ok {
			break
		}
		evs = append(evs, ev)
	}
	for _, ev := range compressViewEvents(evs) {
		a.handleViewEvent(ev)
	}

	a.Events.DispatchAll()
	a.Vars.UpdateAnimations()
	a.Vars.Apply()

	for _, id := range a.order {
		w := a.windows[id]
		flags := a.Updates.Take(id)
		if flags != 0 {
			w.runPasses(&a.cx, flags)
		}
	}
}

// FrameUntilIdle runs frames until no work is pending, with a cap so a
// feedback loop cannot hang a test.
func (a *App) FrameUntilIdle() {
	for i := 0; i < 64; i++ {
		a.Frame()
		if !a.Updates.HasPending() && !a.Vars.HasPending() && !a.Events.HasPending() && a.viewQueue.Len() == 0 {
			return
		}
	}
}

// Run drives frames until ctx is done, blocking between frames on the
// wake channel or the animation tick.
func (a *App) Run(ctx context.Context) {
	const animTick = 16 * time.Millisecond
	for {
		a.Frame()
		if a.Updates.HasPending() || a.Vars.HasPending() || a.Events.HasPending() {
			continue
		}
		if a.Vars.HasAnimations() {
			select {
			case <-ctx.Done():
				return
			case <-a.wake:
			case <-time.After(animTick):
			}
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-a.wake:
		}
	}
}

// Close shuts the app down, closing the view process if attached.
func (a *App) Close() {
	for len(a.order) > 0 {
		a.CloseWindow(a.order[0])
	}
	if a.view != nil {
		a.view.Close()
		a.view = nil
	}
}
