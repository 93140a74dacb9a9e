// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"log/slog"

	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/logx"
	"zenithui.org/zenith/base/statemap"
	"zenithui.org/zenith/info"
	"zenithui.org/zenith/ipc"
	"zenithui.org/zenith/layout"
	"zenithui.org/zenith/render"
	"zenithui.org/zenith/vars"
)

// Window is the app-process side of one window: the content root, the
// layers panel, window state, and the per-window pass pipeline.
type Window struct {
	ID    ids.WindowID
	State statemap.Map

	// Title is reflected to the view process when it changes.
	Title *vars.Shared[string]

	// Root is the content widget tree.
	Root Widget

	// Layers is the z-stack rendered above the content.
	Layers Layers

	app      *App
	pipeline render.PipelineID
	frame    render.FrameID

	size    geom.Vector2
	scale   float32
	metrics *layout.Metrics

	// normalPos and normalSize are the placement last reported while the
	// window was in the normal state; geometry persistence restores them.
	// Maximized and fullscreen placements are the monitor's, not ours to
	// save.
	normalPos  geom.Vector2
	normalSize geom.Vector2
	state      ipc.WindowState

	// changed accumulates the metrics that changed since the last
	// measure pass.
	changed layout.Metric

	tree       *info.Tree
	rootBounds info.Bounds

	// LastList and LastDynamic hold the most recent submissions; tests
	// and the render-update fallback read them.
	LastList    *render.DisplayList
	LastDynamic *render.DynamicProperties
}

func newAppWindow(app *App, title string, size geom.Vector2, root Widget) *Window {
	w := &Window{
		ID:         ids.NewWindowID(),
		Title:      vars.NewShared(app.Vars, title),
		Root:       root,
		app:        app,
		pipeline:   1,
		size:       size,
		normalSize: size,
		scale:      1,
		metrics:    layout.NewMetrics(size, 1),
		changed:    ^layout.Metric(0),
	}
	w.Layers.win = w
	return w
}

// Size returns the window's current content size.
func (w *Window) Size() geom.Vector2 { return w.size }

// Info returns the last published info tree, or nil before the first
// info pass.
func (w *Window) Info() *info.Tree { return w.tree }

func (w *Window) noteLayersChanged() {
	w.app.Updates.PushLayout(w.ID)
}

// setSize applies a size reported by the view process.
func (w *Window) setSize(size geom.Vector2) {
	if size == w.size || size.IsZero() {
		return
	}
	w.size = size
	w.metrics = layout.NewMetrics(size, w.scale)
	w.changed |= layout.MetricViewport | layout.MetricConstraints
	w.app.Updates.PushLayout(w.ID)
}

func (w *Window) setScale(scale float32) {
	if scale == w.scale || scale <= 0 {
		return
	}
	w.scale = scale
	w.metrics = layout.NewMetrics(w.size, scale)
	w.changed |= layout.MetricScaleFactor
	w.app.Updates.PushLayout(w.ID)
}

// pass runs f as one isolated pass: a panic is logged and the frame
// continues with the next pass.
func (w *Window) pass(name string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			logx.Recover(r, "pass", name, "window", w.ID)
		}
	}()
	f()
}

// runPasses executes the requested passes in order for one frame.
func (w *Window) runPasses(cx *Context, flags UpdateFlags) {
	cx.WithWindow(w, func() {
		if flags.Has(FlagUpdate) || flags.Has(FlagUpdateHP) {
			w.pass("update", func() { w.updatePass(cx) })
		}
		if flags.Has(FlagLayout) {
			w.pass("measure", func() { w.measurePass(cx) })
			w.pass("layout", func() { w.layoutPass(cx) })
			w.pass("info", func() { w.infoPass(cx) })
		}
		switch {
		case flags.Has(FlagRender):
			w.pass("render", func() { w.renderPass(cx) })
		case flags.Has(FlagRenderUpdate):
			w.pass("render-update", func() { w.renderUpdatePass(cx) })
		}
	})
}

func (w *Window) updatePass(cx *Context) {
	if w.Title.IsNew() {
		w.app.viewSetTitle(w.ID, w.Title.Get())
	}
	w.Root.Update(cx)
	for _, lw := range w.Layers.Widgets() {
		lw.Update(cx)
	}
}

func (w *Window) eventPass(cx *Context, args any) {
	cx.WithWindow(w, func() {
		w.pass("event", func() {
			w.Root.Event(cx, args)
			for _, lw := range w.Layers.Widgets() {
				lw.Event(cx, args)
			}
		})
	})
}

func (w *Window) measurePass(cx *Context) {
	ms := layout.NewMeasure(w.metrics, w.changed)
	w.metrics.WithConstraints(layout.Exact(w.size), func() {
		w.Root.Measure(cx, ms)
	})
	w.changed = 0
}

func (w *Window) layoutPass(cx *Context) {
	l := layout.NewLayout(w.metrics)
	w.metrics.WithConstraints(layout.Exact(w.size), func() {
		w.Root.Layout(cx, l)
	})
	for _, e := range w.Layers.entries {
		w.layoutLayer(cx, l, e)
	}
}

// layoutLayer lays out one layered widget, applying its anchor binding.
// Anchors resolve against the published info tree; the bounds records
// are shared by identity, so a collapse in this frame's content layout
// is seen here in the same frame.
func (w *Window) layoutLayer(cx *Context, l *layout.Layout, e *layerEntry) {
	base := e.widget.AsBase()
	if !e.anchored {
		w.metrics.WithConstraints(layout.UpTo(w.size), func() {
			e.widget.Layout(cx, l)
		})
		return
	}

	var anchor *info.Node
	if w.tree != nil {
		anchor = w.tree.Get(e.anchor)
	}
	if anchor == nil {
		layout.CollapseChild(&base.Bounds)
		return
	}
	ab := anchor.Bounds()
	if e.mode.Visibility && ab.Collapsed {
		layout.CollapseChild(&base.Bounds)
		return
	}

	c := layout.UpTo(w.size)
	if e.mode.Size {
		c = layout.Exact(ab.InnerSize)
	}
	w.metrics.WithConstraints(c, func() {
		e.widget.Layout(cx, l)
	})
	if e.mode.Transform {
		base.Bounds.OuterOffset = anchor.OuterBounds().Min
	}
	if e.mode.CornerRadius {
		base.Border.CornerRadius = anchor.Border().CornerRadius
	}
}

func (w *Window) infoPass(cx *Context) {
	w.rootBounds.OuterSize = w.size
	w.rootBounds.InnerSize = w.size
	ib := info.NewBuilder(w.ID, w.tree)
	ib.PushWidget(rootInfoID(w), &w.rootBounds, nil, func(ib *info.Builder) {
		w.Root.Info(cx, ib)
		for _, e := range w.Layers.entries {
			e.widget.Info(cx, ib)
			if e.anchored && e.mode.Interactivity {
				w.pushAnchorFilter(ib, e)
			}
		}
	})
	w.tree = ib.Finish()
}

// pushAnchorFilter joins the anchor's interactivity into the layered
// widget's subtree.
func (w *Window) pushAnchorFilter(ib *info.Builder, e *layerEntry) {
	anchorID := e.anchor
	widgetID := e.widget.AsBase().ID
	ib.PushInteractivityFilter(func(n *info.Node) info.Interactivity {
		if n.ID() != widgetID {
			return info.Enabled
		}
		a := n.Tree().Get(anchorID)
		if a == nil {
			return info.Blocked
		}
		return a.Interactivity()
	})
}

// rootInfoID is the synthetic widget id of the window's info root. It
// is allocated once per window and stored in window state.
var rootInfoKey = statemap.NewKey[ids.WidgetID]("window-info-root")

func rootInfoID(w *Window) ids.WidgetID {
	if id, ok := statemap.Get(&w.State, rootInfoKey); ok {
		return id
	}
	id := ids.NewWidgetID()
	statemap.Set(&w.State, rootInfoKey, id)
	return id
}

func (w *Window) renderPass(cx *Context) {
	w.frame++
	b := render.NewDisplayListBuilder(w.pipeline, w.frame)
	w.Root.Render(cx, b)
	for _, e := range w.Layers.entries {
		e.widget.Render(cx, b)
	}
	dl := b.Finalize()
	w.LastList = &dl
	w.LastDynamic = nil
	w.app.viewRender(w, &dl)
}

func (w *Window) renderUpdatePass(cx *Context) {
	var d render.DynamicProperties
	w.Root.RenderUpdate(cx, &d)
	for _, e := range w.Layers.entries {
		e.widget.RenderUpdate(cx, &d)
	}
	if d.IsEmpty() {
		slog.Debug("render-update with no changed frame values", "window", w.ID)
		return
	}
	w.LastDynamic = &d
	w.app.viewRenderUpdate(w, &d)
}
