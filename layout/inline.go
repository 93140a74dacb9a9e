// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "zenithui.org/zenith/base/geom"

// InlineConstraints are set by an inline-flow parent before measuring
// or laying out a child that may participate in its line breaking.
type InlineConstraints struct {
	// FirstMaxFill is the space available on the row the child's first
	// line joins.
	FirstMaxFill geom.Vector2

	// LastMaxFill is the space available for the child's last line, when
	// the child wraps.
	LastMaxFill geom.Vector2

	// MidClear is the vertical offset already consumed by mid rows.
	MidClear float32

	// Direction is the row flow direction.
	Direction Direction
}

// InlineMeasure is the inline result a child reports from its measure:
// how its first and last lines join the parent's rows.
type InlineMeasure struct {
	// FirstSize is the size of the child's first line segment.
	FirstSize geom.Vector2

	// FirstWrapped reports whether the first line wrapped before any
	// content, starting a new row in the parent.
	FirstWrapped bool

	// LastSize is the size of the child's last line segment; equal to
	// FirstSize when the child occupies a single row.
	LastSize geom.Vector2

	// FirstMaxFill and LastMaxFill are how much of the offered row
	// space the child can absorb when stretched.
	FirstMaxFill float32
	LastMaxFill  float32

	// FirstBaseline and LastBaseline are the text baselines of the two
	// segments, from each segment's bottom.
	FirstBaseline float32
	LastBaseline  float32
}

// IsSingleRow reports whether the child occupies one row.
func (im *InlineMeasure) IsSingleRow() bool {
	return !im.FirstWrapped && im.FirstSize == im.LastSize
}
