// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render implements the display-list layer: the ordered drawing
// items produced by a render pass for one pipeline on one frame, the
// builder that enforces their nesting, and the frame-value bindings
// that let a later frame update transforms, opacities, and colors in
// place without reissuing the whole list.
package render

import (
	"zenithui.org/zenith/base/geom"
)

// Color is a straight-alpha linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// RGBA returns a fully specified color.
func RGBA(r, g, b, a float32) Color { return Color{R: r, G: g, B: b, A: a} }

// ItemKind is the tag of a [DisplayItem]. The set is closed: the view
// process switches over it exhaustively.
type ItemKind uint8

const (
	// ItemPushReferenceFrame begins a transformed coordinate space.
	ItemPushReferenceFrame ItemKind = iota

	// ItemPopReferenceFrame ends the innermost reference frame.
	ItemPopReferenceFrame

	// ItemPushStackingContext begins a composited group with filters
	// and an opacity.
	ItemPushStackingContext

	// ItemPopStackingContext ends the innermost stacking context.
	ItemPopStackingContext

	// ItemPushClipRect begins a rectangular clip.
	ItemPushClipRect

	// ItemPushClipRoundedRect begins a rounded-rectangle clip.
	ItemPushClipRoundedRect

	// ItemPopClip ends the innermost clip.
	ItemPopClip

	// ItemBorder draws a border.
	ItemBorder

	// ItemText draws a glyph run.
	ItemText

	// ItemImage draws an image resource.
	ItemImage

	// ItemColor fills a rectangle with a color.
	ItemColor

	// ItemLinearGradient fills a rectangle with a linear gradient.
	ItemLinearGradient

	// ItemRadialGradient fills a rectangle with a radial gradient.
	ItemRadialGradient

	// ItemConicGradient fills a rectangle with a conic gradient.
	ItemConicGradient

	// ItemLine draws a line decoration.
	ItemLine

	// ItemReuse expands to a range of a previous frame's items from the
	// view-side cache.
	ItemReuse
)

// FilterKind tags a stacking-context filter.
type FilterKind uint8

const (
	// FilterOpacity multiplies the group's alpha.
	FilterOpacity FilterKind = iota

	// FilterBlur applies a gaussian blur of Amount pixels.
	FilterBlur

	// FilterGrayscale desaturates by Amount in [0, 1].
	FilterGrayscale
)

// Filter is one stacking-context filter.
type Filter struct {
	Kind   FilterKind
	Amount float32
}

// GradientStop is one color stop at a normalized offset.
type GradientStop struct {
	Offset float32
	Color  Color
}

// LineStyle is the stroke style of a line item.
type LineStyle uint8

const (
	LineSolid LineStyle = iota
	LineDotted
	LineDashed
	LineWavy
)

// BorderStyle is the stroke style of one border side.
type BorderStyle uint8

const (
	BorderSolid BorderStyle = iota
	BorderDotted
	BorderDashed
	BorderDouble
)

// BorderSide is the color and style of one border side.
type BorderSide struct {
	Color Color
	Style BorderStyle
}

// BorderSides are the four sides of a border item.
type BorderSides struct {
	Top    BorderSide
	Right  BorderSide
	Bottom BorderSide
	Left   BorderSide
}

// Glyph is one positioned glyph of a text run.
type Glyph struct {
	Index uint32
	Point geom.Vector2
}

// DisplayItem is one drawing item. It is a tagged union: Kind selects
// which fields are meaningful; the rest stay at their zero value so
// items stay flat and cheap to encode for IPC.
type DisplayItem struct {
	Kind ItemKind

	// Tag identifies the widget that emitted the item, for view-side
	// hit testing. Zero means untagged.
	Tag uint64

	// Rect is the item's area, in the current reference frame.
	Rect geom.Box2

	// Transform is the reference-frame transform.
	Transform FrameValue[geom.Affine2]

	// Filters and Opacity apply to a stacking context.
	Filters []Filter
	Opacity FrameValue[float32]

	// Radius is the corner radius of rounded clips and borders.
	Radius geom.CornerRadius

	// Color is the fill of color rects, text runs, and lines.
	Color FrameValue[Color]

	// Widths and Sides describe a border item.
	Widths geom.SideOffsets
	Sides  BorderSides

	// FontKey, FontSize, and Glyphs describe a text run.
	FontKey  uint64
	FontSize float32
	Glyphs   []Glyph

	// ImageKey references an image resource in the view process.
	ImageKey uint64

	// Stops, GradStart, GradEnd, and GradAngle describe gradients:
	// start/end points for linear, center and radii for radial, center
	// and start angle for conic.
	Stops     []GradientStop
	GradStart geom.Vector2
	GradEnd   geom.Vector2
	GradAngle float32

	// LineStyle styles a line item.
	LineStyle LineStyle

	// ReuseFrame, ReuseStart, and ReuseEnd reference a previous frame's
	// item range in the view-side cache.
	ReuseFrame FrameID
	ReuseStart uint32
	ReuseEnd   uint32
}

// DisplayList is the ordered drawing items of one frame of one
// pipeline.
type DisplayList struct {
	Pipeline PipelineID
	Frame    FrameID
	Items    []DisplayItem
}

// Len returns the number of items.
func (dl *DisplayList) Len() int { return len(dl.Items) }

// ReuseRange points into a previous frame's display list; the items in
// [Start, End) are reused verbatim.
type ReuseRange struct {
	Frame FrameID
	Start uint32
	End   uint32
}

// IsEmpty reports whether the range covers no items.
func (r ReuseRange) IsEmpty() bool { return r.End <= r.Start }

// DynamicProperties is a render-update submission: only bound values
// change, the display list is untouched.
type DynamicProperties struct {
	Transforms []FrameValueUpdate[geom.Affine2]
	Floats     []FrameValueUpdate[float32]
	Colors     []FrameValueUpdate[Color]
}

// IsEmpty reports whether the submission carries no updates.
func (d *DynamicProperties) IsEmpty() bool {
	return len(d.Transforms) == 0 && len(d.Floats) == 0 && len(d.Colors) == 0
}
