// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import "zenithui.org/zenith/base/geom"

// InlineInfo records the rows an inlined widget filled during layout,
// in the widget's inner space. The negative space (gaps not covered by
// any row) is computed lazily and cached for hit-testing.
type InlineInfo struct {
	// Rows are the row rectangles the widget content occupies, in
	// visual order top to bottom.
	Rows []geom.Box2

	// InnerBounds is the box enclosing all rows.
	InnerBounds geom.Box2

	negative []geom.Box2
	negValid bool
}

// SetRows replaces the rows and invalidates the negative-space cache.
func (ii *InlineInfo) SetRows(rows []geom.Box2) {
	ii.Rows = rows
	ii.InnerBounds = geom.Box2{}
	for _, r := range rows {
		ii.InnerBounds = ii.InnerBounds.Union(r)
	}
	ii.negValid = false
}

// FirstRow returns the first row, or an empty box.
func (ii *InlineInfo) FirstRow() geom.Box2 {
	if len(ii.Rows) == 0 {
		return geom.Box2{}
	}
	return ii.Rows[0]
}

// LastRow returns the last row, or an empty box.
func (ii *InlineInfo) LastRow() geom.Box2 {
	if len(ii.Rows) == 0 {
		return geom.Box2{}
	}
	return ii.Rows[len(ii.Rows)-1]
}

// NegativeSpace returns the parts of InnerBounds not covered by any
// row: the left/right gaps beside each row's vertical band and the
// bands between consecutive rows. The result is cached until the rows
// change; callers must not mutate it.
func (ii *InlineInfo) NegativeSpace() []geom.Box2 {
	if ii.negValid {
		return ii.negative
	}
	ii.negative = ii.negative[:0]
	ib := ii.InnerBounds
	prevBottom := ib.Min.Y
	for _, r := range ii.Rows {
		if r.Min.Y > prevBottom {
			ii.negative = append(ii.negative, geom.Box2{
				Min: geom.Vec2(ib.Min.X, prevBottom),
				Max: geom.Vec2(ib.Max.X, r.Min.Y),
			})
		}
		if r.Min.X > ib.Min.X {
			ii.negative = append(ii.negative, geom.Box2{
				Min: geom.Vec2(ib.Min.X, r.Min.Y),
				Max: geom.Vec2(r.Min.X, r.Max.Y),
			})
		}
		if r.Max.X < ib.Max.X {
			ii.negative = append(ii.negative, geom.Box2{
				Min: geom.Vec2(r.Max.X, r.Min.Y),
				Max: geom.Vec2(ib.Max.X, r.Max.Y),
			})
		}
		if r.Max.Y > prevBottom {
			prevBottom = r.Max.Y
		}
	}
	if prevBottom < ib.Max.Y {
		ii.negative = append(ii.negative, geom.Box2{
			Min: geom.Vec2(ib.Min.X, prevBottom),
			Max: geom.Vec2(ib.Max.X, ib.Max.Y),
		})
	}
	ii.negValid = true
	return ii.negative
}

// HitTest reports whether the point, in inner space, is inside a row
// (i.e. not in negative space).
func (ii *InlineInfo) HitTest(p geom.Vector2) bool {
	if !ii.InnerBounds.Contains(p) {
		return false
	}
	for _, neg := range ii.NegativeSpace() {
		if neg.Contains(p) {
			return false
		}
	}
	return true
}
