// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import "zenithui.org/zenith/base/geom"

// Bounds is the spatial record of one widget. It is shared by identity
// between the widget (whose layout pass writes it) and the info tree
// nodes that snapshot the widget, so a published tree sees layout
// results without being rebuilt.
type Bounds struct {
	// OuterOffset is the offset of the widget's outer bounds in the
	// parent widget's inner space.
	OuterOffset geom.Vector2

	// InnerOffset is the offset of the inner bounds in the outer space,
	// e.g. past margins and borders.
	InnerOffset geom.Vector2

	// ChildOffset is the offset applied to a non-widget child content,
	// promoted to render when no child widget absorbed the translations.
	ChildOffset geom.Vector2

	// OuterSize and InnerSize are the layout sizes of the two boxes.
	OuterSize geom.Vector2
	InnerSize geom.Vector2

	// Baseline is the distance from the inner bounds bottom to the
	// text baseline, when the widget has one.
	Baseline float32

	// Measure is the cached result of the last measure pass.
	Measure MeasureCache

	// Collapsed marks the widget and its descendants as size zero and
	// excluded from render.
	Collapsed bool

	// Inline is set when the widget participated in a parent's inline
	// flow during the last layout.
	Inline *InlineInfo
}

// MeasureCache stores the last measured size together with the mask of
// layout metrics the measure actually read; the measure pass is skipped
// while the changed-metrics set stays disjoint from the mask.
type MeasureCache struct {
	Size  geom.Vector2
	Mask  uint32
	Valid bool
}

// Invalidate drops the cached measure.
func (mc *MeasureCache) Invalidate() { mc.Valid = false }

// SetCollapsed collapses or expands the widget record. Collapsing zeroes
// sizes and offsets and drops the measure cache.
func (b *Bounds) SetCollapsed(collapsed bool) {
	b.Collapsed = collapsed
	if collapsed {
		b.OuterOffset = geom.Vector2{}
		b.InnerOffset = geom.Vector2{}
		b.ChildOffset = geom.Vector2{}
		b.OuterSize = geom.Vector2{}
		b.InnerSize = geom.Vector2{}
		b.Baseline = 0
		b.Measure.Invalidate()
		b.Inline = nil
	}
}

// Border is the border record of one widget, shared by identity like
// [Bounds].
type Border struct {
	// Offsets are the border widths.
	Offsets geom.SideOffsets

	// CornerRadius is the outer corner curve of the border.
	CornerRadius geom.CornerRadius
}

// InnerRadius returns the corner radius of the inner curve of the
// border, deflated by the border widths.
func (b *Border) InnerRadius() geom.CornerRadius {
	return b.CornerRadius.Deflate(b.Offsets)
}
