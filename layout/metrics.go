// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout implements the two-pass measure/arrange protocol: a
// read-only measure pass that returns desired sizes under constraints,
// and a layout pass that records final sizes and offsets on the shared
// bounds records. Measures are cached together with the mask of metrics
// they actually read, so a measure is only repeated when a metric it
// depends on changed.
package layout

import (
	"github.com/chewxy/math32"

	"zenithui.org/zenith/base/geom"
)

// Metric identifies one layout metric; a set of them forms a mask.
// Each metric accessor on [Metrics] records the metric it served, so
// the measure cache knows what the measure depended on.
type Metric uint32

const (
	// MetricConstraints is the size constraints of the widget.
	MetricConstraints Metric = 1 << iota

	// MetricInlineConstraints is the inline-flow constraints.
	MetricInlineConstraints

	// MetricFontSize is the contextual font size.
	MetricFontSize

	// MetricRootFontSize is the root (window) font size.
	MetricRootFontSize

	// MetricScaleFactor is the monitor scale factor.
	MetricScaleFactor

	// MetricViewport is the window content size.
	MetricViewport

	// MetricScreenPPI is the monitor pixel density.
	MetricScreenPPI

	// MetricDirection is the text flow direction.
	MetricDirection

	// MetricLeftover is the leftover space granted by a parent panel.
	MetricLeftover
)

// Intersects reports whether the two masks share any metric.
func (m Metric) Intersects(o Metric) bool { return m&o != 0 }

// Direction is the inline flow direction.
type Direction uint8

const (
	// LTR is left-to-right flow.
	LTR Direction = iota

	// RTL is right-to-left flow.
	RTL
)

// Inf is the unbounded constraint maximum.
var Inf = float32(math32.Inf(1))

// Constraints bound a measure: the result must be within [Min, Max]
// componentwise; a Max component of [Inf] is unbounded.
type Constraints struct {
	Min geom.Vector2
	Max geom.Vector2
}

// Unbounded returns constraints with no maximum.
func Unbounded() Constraints { return Constraints{Max: geom.Vec2(Inf, Inf)} }

// Exact returns constraints that force the given size.
func Exact(size geom.Vector2) Constraints { return Constraints{Min: size, Max: size} }

// UpTo returns constraints from zero to the given maximum.
func UpTo(max geom.Vector2) Constraints { return Constraints{Max: max} }

// Clamp returns the size clamped into the constraints.
func (c Constraints) Clamp(size geom.Vector2) geom.Vector2 {
	return size.Max(c.Min).Min(c.Max)
}

// IsBounded reports whether both axes have a finite maximum.
func (c Constraints) IsBounded() bool { return c.Max.X < Inf && c.Max.Y < Inf }

// FillSize returns the size a fill widget takes: the maximum where
// bounded, the minimum otherwise.
func (c Constraints) FillSize() geom.Vector2 {
	s := c.Max
	if s.X >= Inf {
		s.X = c.Min.X
	}
	if s.Y >= Inf {
		s.Y = c.Min.Y
	}
	return s
}

// Metrics is the layout context shared by a measure or layout pass.
// Every accessor records the served metric in the read mask, which
// scopes snapshot per widget.
type Metrics struct {
	constraints  Constraints
	inline       *InlineConstraints
	fontSize     float32
	rootFontSize float32
	scaleFactor  float32
	viewport     geom.Vector2
	screenPPI    float32
	direction    Direction
	leftover     geom.Vector2

	mask Metric
}

// NewMetrics returns metrics for a window viewport at the given scale
// factor, with framework default font metrics.
func NewMetrics(viewport geom.Vector2, scaleFactor float32) *Metrics {
	return &Metrics{
		constraints:  Exact(viewport),
		fontSize:     14,
		rootFontSize: 14,
		scaleFactor:  scaleFactor,
		viewport:     viewport,
		screenPPI:    96,
	}
}

// Constraints returns the current size constraints.
func (m *Metrics) Constraints() Constraints {
	m.mask |= MetricConstraints
	return m.constraints
}

// InlineConstraints returns the current inline-flow constraints, or nil
// when the widget is measured as a block.
func (m *Metrics) InlineConstraints() *InlineConstraints {
	m.mask |= MetricInlineConstraints
	return m.inline
}

// FontSize returns the contextual font size.
func (m *Metrics) FontSize() float32 {
	m.mask |= MetricFontSize
	return m.fontSize
}

// RootFontSize returns the root font size.
func (m *Metrics) RootFontSize() float32 {
	m.mask |= MetricRootFontSize
	return m.rootFontSize
}

// ScaleFactor returns the monitor scale factor.
func (m *Metrics) ScaleFactor() float32 {
	m.mask |= MetricScaleFactor
	return m.scaleFactor
}

// Viewport returns the window content size.
func (m *Metrics) Viewport() geom.Vector2 {
	m.mask |= MetricViewport
	return m.viewport
}

// ScreenPPI returns the monitor pixel density.
func (m *Metrics) ScreenPPI() float32 {
	m.mask |= MetricScreenPPI
	return m.screenPPI
}

// Direction returns the inline flow direction.
func (m *Metrics) Direction() Direction {
	m.mask |= MetricDirection
	return m.direction
}

// Leftover returns the leftover space granted by the parent panel.
func (m *Metrics) Leftover() geom.Vector2 {
	m.mask |= MetricLeftover
	return m.leftover
}

// Setters do not touch the read mask; they are used by parents to
// contextualize children.

// SetConstraints sets the constraints for the next scope.
func (m *Metrics) SetConstraints(c Constraints) { m.constraints = c }

// SetInlineConstraints sets or clears the inline constraints.
func (m *Metrics) SetInlineConstraints(ic *InlineConstraints) { m.inline = ic }

// SetFontSize sets the contextual font size.
func (m *Metrics) SetFontSize(s float32) { m.fontSize = s }

// SetDirection sets the flow direction.
func (m *Metrics) SetDirection(d Direction) { m.direction = d }

// SetLeftover sets the leftover space.
func (m *Metrics) SetLeftover(l geom.Vector2) { m.leftover = l }

// WithConstraints runs f with the given constraints and restores the
// previous ones after, even on panic.
func (m *Metrics) WithConstraints(c Constraints, f func()) {
	prev := m.constraints
	m.constraints = c
	defer func() { m.constraints = prev }()
	f()
}

// snapshotMask runs f with a cleared read mask and returns the metrics
// f read; the caller's accumulated mask absorbs it.
func (m *Metrics) snapshotMask(f func()) Metric {
	saved := m.mask
	m.mask = 0
	defer func() {
		read := m.mask
		m.mask = saved | read
	}()
	f()
	return m.mask
}
