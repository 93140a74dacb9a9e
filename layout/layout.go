// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/info"
)

// Layout drives the arrange pass: it computes final sizes and records
// offsets on the shared bounds records through four nested scopes.
//
//   - [Layout.WithWidget] begins a widget's outer scope: it applies the
//     pending outer translation, runs the widget, and records the outer
//     size.
//   - [Layout.WithInner] begins the inner scope inside a widget: it
//     applies the pending translation as the inner offset, records the
//     baseline, runs children, and records the inner size.
//   - [Layout.WithChild] wraps the child content of a widget: when no
//     child widget consumed the pending translations, they are promoted
//     to render as the widget's child offset.
//   - [Layout.WithChildren] is for panel widgets: it intercepts the
//     outer translations applied to each direct child so the panel can
//     place children without a second pass.
type Layout struct {
	metrics *Metrics

	pending    geom.Vector2
	sawWidget  bool
	intercepts []geom.Vector2
	intercept  bool
}

// NewLayout returns a layout pass context over the metrics.
func NewLayout(metrics *Metrics) *Layout {
	return &Layout{metrics: metrics}
}

// Metrics returns the pass metrics.
func (l *Layout) Metrics() *Metrics { return l.metrics }

// Translate adds to the pending translation; the next scope boundary
// (outer, inner, or child) absorbs it.
func (l *Layout) Translate(off geom.Vector2) {
	l.pending = l.pending.Add(off)
}

func (l *Layout) takePending() geom.Vector2 {
	p := l.pending
	l.pending = geom.Vector2{}
	return p
}

// WithWidget begins a widget's outer scope. The pending translation
// becomes the widget's outer offset; f computes and returns the final
// size, which is recorded as the outer size.
func (l *Layout) WithWidget(b *info.Bounds, f func() geom.Vector2) geom.Vector2 {
	off := l.takePending()
	b.OuterOffset = off
	b.Collapsed = false
	if l.intercept {
		l.intercepts = append(l.intercepts, off)
	}
	l.sawWidget = true

	savedIntercept := l.intercept
	l.intercept = false
	size := f()
	l.intercept = savedIntercept

	b.OuterSize = size
	return size
}

// WithInner begins the inner scope of the current widget: the pending
// translation becomes the inner offset and the baseline is recorded; f
// returns the inner size.
func (l *Layout) WithInner(b *info.Bounds, baseline float32, f func() geom.Vector2) geom.Vector2 {
	b.InnerOffset = l.takePending()
	b.Baseline = baseline
	size := f()
	b.InnerSize = size
	return size
}

// WithChild wraps the child content of the current widget. If no child
// widget scope ran inside f, the translations accumulated during f are
// promoted to the widget's child offset for render.
func (l *Layout) WithChild(b *info.Bounds, f func() geom.Vector2) geom.Vector2 {
	savedSaw := l.sawWidget
	l.sawWidget = false
	size := f()
	if !l.sawWidget {
		b.ChildOffset = l.takePending()
	} else {
		b.ChildOffset = geom.Vector2{}
	}
	l.sawWidget = savedSaw
	return size
}

// WithChildren intercepts the outer translations applied to the direct
// child widgets laid out inside f and returns them in layout order, so
// a panel can place children without a second pass.
func (l *Layout) WithChildren(f func()) []geom.Vector2 {
	savedIntercept := l.intercept
	savedOffsets := l.intercepts
	l.intercept = true
	l.intercepts = nil
	defer func() {
		l.intercept = savedIntercept
		l.intercepts = savedOffsets
	}()
	f()
	return l.intercepts
}

// Collapse collapses the widget subtree rooted at the given info node:
// the widget and all descendants get zero sizes and offsets and are
// excluded from render.
func Collapse(n *info.Node) {
	if n != nil {
		n.Collapse()
	}
}

// CollapseChild collapses a bounds record that has no info node yet.
func CollapseChild(b *info.Bounds) { b.SetCollapsed(true) }
