// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"

	"zenithui.org/zenith/base/geom"
)

// DisplayListBuilder writes the display list of one frame. Push/pop
// items must nest strictly; the builder tracks depth counters per kind
// and panics on a mismatch, since that is always an implementation bug
// in a widget's render code.
type DisplayListBuilder struct {
	pipeline PipelineID
	frame    FrameID
	items    []DisplayItem

	refDepth   int
	stackDepth int
	clipDepth  int

	reuseStack []int
	curTag     uint64
	finished   bool
}

// NewDisplayListBuilder returns a builder for the given pipeline and
// frame.
func NewDisplayListBuilder(pipeline PipelineID, frame FrameID) *DisplayListBuilder {
	return &DisplayListBuilder{pipeline: pipeline, frame: frame}
}

// Frame returns the frame id being built.
func (b *DisplayListBuilder) Frame() FrameID { return b.frame }

// Len returns the number of items written so far.
func (b *DisplayListBuilder) Len() int { return len(b.items) }

func (b *DisplayListBuilder) push(it DisplayItem) {
	if b.finished {
		panic("render: builder used after Finalize")
	}
	it.Tag = b.curTag
	b.items = append(b.items, it)
}

// SetTag sets the hit-test tag stamped on every item pushed until the
// next call. Widgets set their id entering render and restore the
// previous tag on exit; zero clears.
func (b *DisplayListBuilder) SetTag(tag uint64) uint64 {
	prev := b.curTag
	b.curTag = tag
	return prev
}

// PushReferenceFrame begins a transformed coordinate space.
func (b *DisplayListBuilder) PushReferenceFrame(transform FrameValue[geom.Affine2]) {
	b.refDepth++
	b.push(DisplayItem{Kind: ItemPushReferenceFrame, Transform: transform})
}

// PopReferenceFrame ends the innermost reference frame.
func (b *DisplayListBuilder) PopReferenceFrame() {
	if b.refDepth == 0 {
		panic("render: PopReferenceFrame without push")
	}
	b.refDepth--
	b.push(DisplayItem{Kind: ItemPopReferenceFrame})
}

// PushStackingContext begins a composited group.
func (b *DisplayListBuilder) PushStackingContext(opacity FrameValue[float32], filters []Filter) {
	b.stackDepth++
	b.push(DisplayItem{Kind: ItemPushStackingContext, Opacity: opacity, Filters: filters})
}

// PopStackingContext ends the innermost stacking context.
func (b *DisplayListBuilder) PopStackingContext() {
	if b.stackDepth == 0 {
		panic("render: PopStackingContext without push")
	}
	b.stackDepth--
	b.push(DisplayItem{Kind: ItemPopStackingContext})
}

// PushClipRect begins a rectangular clip.
func (b *DisplayListBuilder) PushClipRect(rect geom.Box2) {
	b.clipDepth++
	b.push(DisplayItem{Kind: ItemPushClipRect, Rect: rect})
}

// PushClipRoundedRect begins a rounded-rectangle clip.
func (b *DisplayListBuilder) PushClipRoundedRect(rect geom.Box2, radius geom.CornerRadius) {
	b.clipDepth++
	b.push(DisplayItem{Kind: ItemPushClipRoundedRect, Rect: rect, Radius: radius})
}

// PopClip ends the innermost clip.
func (b *DisplayListBuilder) PopClip() {
	if b.clipDepth == 0 {
		panic("render: PopClip without push")
	}
	b.clipDepth--
	b.push(DisplayItem{Kind: ItemPopClip})
}

// PushBorder draws a border.
func (b *DisplayListBuilder) PushBorder(rect geom.Box2, widths geom.SideOffsets, sides BorderSides, radius geom.CornerRadius) {
	b.push(DisplayItem{Kind: ItemBorder, Rect: rect, Widths: widths, Sides: sides, Radius: radius})
}

// PushText draws a glyph run.
func (b *DisplayListBuilder) PushText(rect geom.Box2, fontKey uint64, fontSize float32, color FrameValue[Color], glyphs []Glyph) {
	b.push(DisplayItem{Kind: ItemText, Rect: rect, FontKey: fontKey, FontSize: fontSize, Color: color, Glyphs: glyphs})
}

// PushImage draws an image resource.
func (b *DisplayListBuilder) PushImage(rect geom.Box2, imageKey uint64) {
	b.push(DisplayItem{Kind: ItemImage, Rect: rect, ImageKey: imageKey})
}

// PushColor fills a rectangle.
func (b *DisplayListBuilder) PushColor(rect geom.Box2, color FrameValue[Color]) {
	b.push(DisplayItem{Kind: ItemColor, Rect: rect, Color: color})
}

// PushLinearGradient fills a rectangle with a linear gradient from
// start to end.
func (b *DisplayListBuilder) PushLinearGradient(rect geom.Box2, start, end geom.Vector2, stops []GradientStop) {
	b.push(DisplayItem{Kind: ItemLinearGradient, Rect: rect, GradStart: start, GradEnd: end, Stops: stops})
}

// PushRadialGradient fills a rectangle with a radial gradient centered
// at center with the given radii.
func (b *DisplayListBuilder) PushRadialGradient(rect geom.Box2, center, radius geom.Vector2, stops []GradientStop) {
	b.push(DisplayItem{Kind: ItemRadialGradient, Rect: rect, GradStart: center, GradEnd: radius, Stops: stops})
}

// PushConicGradient fills a rectangle with a conic gradient centered at
// center starting at angle radians.
func (b *DisplayListBuilder) PushConicGradient(rect geom.Box2, center geom.Vector2, angle float32, stops []GradientStop) {
	b.push(DisplayItem{Kind: ItemConicGradient, Rect: rect, GradStart: center, GradAngle: angle, Stops: stops})
}

// PushLine draws a line decoration filling the rect.
func (b *DisplayListBuilder) PushLine(rect geom.Box2, color Color, style LineStyle) {
	b.push(DisplayItem{Kind: ItemLine, Rect: rect, Color: Value(color), LineStyle: style})
}

// StartReuseRange marks the start of a reusable range. Ranges may nest,
// but each start must be finished by a matching [FinishReuseRange] in
// reverse order.
func (b *DisplayListBuilder) StartReuseRange() int {
	start := len(b.items)
	b.reuseStack = append(b.reuseStack, start)
	return start
}

// FinishReuseRange closes the innermost open range started at start and
// returns a range valid against this builder's frame.
func (b *DisplayListBuilder) FinishReuseRange(start int) ReuseRange {
	n := len(b.reuseStack)
	if n == 0 {
		panic("render: FinishReuseRange without StartReuseRange")
	}
	if b.reuseStack[n-1] != start {
		panic(fmt.Sprintf("render: FinishReuseRange start %d does not match open range %d", start, b.reuseStack[n-1]))
	}
	b.reuseStack = b.reuseStack[:n-1]
	return ReuseRange{Frame: b.frame, Start: uint32(start), End: uint32(len(b.items))}
}

// PushReuseRange reuses the items of a previous frame's range instead
// of rebuilding them; the view-side cache expands it.
func (b *DisplayListBuilder) PushReuseRange(r ReuseRange) {
	if r.IsEmpty() {
		return
	}
	b.push(DisplayItem{Kind: ItemReuse, ReuseFrame: r.Frame, ReuseStart: r.Start, ReuseEnd: r.End})
}

// Finalize returns the display list. It panics when a push is missing
// its pop or a reuse range is still open.
func (b *DisplayListBuilder) Finalize() DisplayList {
	if b.refDepth != 0 || b.stackDepth != 0 || b.clipDepth != 0 {
		panic(fmt.Sprintf("render: unbalanced display list: ref=%d stack=%d clip=%d",
			b.refDepth, b.stackDepth, b.clipDepth))
	}
	if len(b.reuseStack) != 0 {
		panic("render: Finalize with an open reuse range")
	}
	b.finished = true
	return DisplayList{Pipeline: b.pipeline, Frame: b.frame, Items: b.items}
}
