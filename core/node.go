// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/statemap"
	"zenithui.org/zenith/info"
	"zenithui.org/zenith/layout"
	"zenithui.org/zenith/render"
)

// UiNode is the polymorphic widget interface, the single erasure layer
// of the framework. Properties and widgets compose by wrapping a child
// node and forwarding the methods they do not override.
type UiNode interface {
	// Init runs once when the node enters the tree.
	Init(cx *Context)

	// Deinit runs when the node leaves the tree; widget state is
	// dropped afterwards.
	Deinit(cx *Context)

	// Update runs during the update pass after staged variable writes
	// committed.
	Update(cx *Context)

	// Event delivers one event args value during the event pass.
	Event(cx *Context, args any)

	// Measure returns the desired size under the current constraints.
	// It must not mutate bounds.
	Measure(cx *Context, m *layout.Measure) geom.Vector2

	// Layout computes the final size and records offsets.
	Layout(cx *Context, l *layout.Layout) geom.Vector2

	// Render writes the node's display items.
	Render(cx *Context, b *render.DisplayListBuilder)

	// RenderUpdate contributes changed frame values only.
	RenderUpdate(cx *Context, d *render.DynamicProperties)

	// Info records the node in the info tree being built.
	Info(cx *Context, ib *info.Builder)
}

// WidgetBase is the canonical [UiNode]: it owns an id, the shared
// bounds and border records, lazily-allocated widget state, and an
// optional child. Concrete widgets embed it and override the passes
// they participate in.
type WidgetBase struct {
	ID     ids.WidgetID
	Bounds info.Bounds
	Border info.Border
	State  statemap.Map

	// Child is the wrapped node, if any.
	Child UiNode

	inited bool
}

// NewWidgetBase returns a base with a fresh widget id.
func NewWidgetBase() *WidgetBase {
	return &WidgetBase{ID: ids.NewWidgetID()}
}

// AsBase returns the embedded base; it lets generic code reach the
// base through the [Widget] interface.
func (w *WidgetBase) AsBase() *WidgetBase { return w }

// Widget is a [UiNode] that exposes its [WidgetBase].
type Widget interface {
	UiNode
	AsBase() *WidgetBase
}

func (w *WidgetBase) Init(cx *Context) {
	if w.inited {
		return
	}
	w.inited = true
	if w.Child != nil {
		w.Child.Init(cx)
	}
}

func (w *WidgetBase) Deinit(cx *Context) {
	if !w.inited {
		return
	}
	w.inited = false
	if w.Child != nil {
		w.Child.Deinit(cx)
	}
	w.State.Clear()
}

func (w *WidgetBase) Update(cx *Context) {
	if w.Child != nil {
		w.Child.Update(cx)
	}
}

func (w *WidgetBase) Event(cx *Context, args any) {
	if w.Child != nil {
		w.Child.Event(cx, args)
	}
}

func (w *WidgetBase) Measure(cx *Context, m *layout.Measure) geom.Vector2 {
	return m.WithWidget(&w.Bounds, func() geom.Vector2 {
		if w.Child != nil {
			return w.Child.Measure(cx, m)
		}
		return m.Metrics().Constraints().FillSize()
	})
}

func (w *WidgetBase) Layout(cx *Context, l *layout.Layout) geom.Vector2 {
	var size geom.Vector2
	cx.WithWidget(w, func() {
		size = l.WithWidget(&w.Bounds, func() geom.Vector2 {
			return l.WithInner(&w.Bounds, 0, func() geom.Vector2 {
				return l.WithChild(&w.Bounds, func() geom.Vector2 {
					if w.Child != nil {
						return w.Child.Layout(cx, l)
					}
					return l.Metrics().Constraints().FillSize()
				})
			})
		})
	})
	return size
}

func (w *WidgetBase) Render(cx *Context, b *render.DisplayListBuilder) {
	if w.Bounds.Collapsed {
		return
	}
	prev := b.SetTag(uint64(w.ID))
	defer b.SetTag(prev)
	cx.WithWidget(w, func() {
		if w.Child != nil {
			w.Child.Render(cx, b)
		}
	})
}

func (w *WidgetBase) RenderUpdate(cx *Context, d *render.DynamicProperties) {
	cx.WithWidget(w, func() {
		if w.Child != nil {
			w.Child.RenderUpdate(cx, d)
		}
	})
}

func (w *WidgetBase) Info(cx *Context, ib *info.Builder) {
	cx.WithWidget(w, func() {
		ib.PushWidget(w.ID, &w.Bounds, &w.Border, func(ib *info.Builder) {
			if w.Child != nil {
				w.Child.Info(cx, ib)
			}
		})
	})
}
