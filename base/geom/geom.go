// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom provides the float32 geometry types exchanged between the
// layout, render, and view subsystems: vectors, boxes, affine transforms,
// side offsets, and corner radii. All units are device-independent pixels
// unless a name says otherwise.
package geom

import "github.com/chewxy/math32"

// Vector2 is a 2D point or size in device-independent pixels.
type Vector2 struct {
	X float32
	Y float32
}

// Vec2 returns a new [Vector2].
func Vec2(x, y float32) Vector2 { return Vector2{X: x, Y: y} }

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }

// MulScalar returns v scaled by s.
func (v Vector2) MulScalar(s float32) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Negate returns -v.
func (v Vector2) Negate() Vector2 { return Vector2{-v.X, -v.Y} }

// Max returns the componentwise maximum of v and o.
func (v Vector2) Max(o Vector2) Vector2 {
	return Vector2{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y)}
}

// Min returns the componentwise minimum of v and o.
func (v Vector2) Min(o Vector2) Vector2 {
	return Vector2{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y)}
}

// Ceil returns v with both components rounded up to whole pixels.
func (v Vector2) Ceil() Vector2 {
	return Vector2{math32.Ceil(v.X), math32.Ceil(v.Y)}
}

// IsZero reports whether both components are exactly zero.
func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Box2 is an axis-aligned rectangle given by its Min (top-left) and
// Max (bottom-right) corners. A box with Max componentwise <= Min is empty.
type Box2 struct {
	Min Vector2
	Max Vector2
}

// B2 returns a new [Box2] from the two corner coordinates.
func B2(x0, y0, x1, y1 float32) Box2 {
	return Box2{Min: Vec2(x0, y0), Max: Vec2(x1, y1)}
}

// FromOriginSize returns a box at the given origin with the given size.
func FromOriginSize(origin, size Vector2) Box2 {
	return Box2{Min: origin, Max: origin.Add(size)}
}

// Size returns the width and height of the box.
func (b Box2) Size() Vector2 { return b.Max.Sub(b.Min) }

// IsEmpty reports whether the box has no area.
func (b Box2) IsEmpty() bool { return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y }

// Translate returns the box moved by off.
func (b Box2) Translate(off Vector2) Box2 {
	return Box2{Min: b.Min.Add(off), Max: b.Max.Add(off)}
}

// Union returns the smallest box containing both b and o.
// An empty box is the identity.
func (b Box2) Union(o Box2) Box2 {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Box2{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Intersect returns the overlapping region of b and o,
// which may be empty.
func (b Box2) Intersect(o Box2) Box2 {
	r := Box2{Min: b.Min.Max(o.Min), Max: b.Max.Min(o.Max)}
	if r.IsEmpty() {
		return Box2{}
	}
	return r
}

// Contains reports whether the point is inside the box
// (Min inclusive, Max exclusive).
func (b Box2) Contains(p Vector2) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// ContainsBox reports whether o is entirely inside b.
func (b Box2) ContainsBox(o Box2) bool {
	if o.IsEmpty() {
		return true
	}
	return o.Min.X >= b.Min.X && o.Min.Y >= b.Min.Y && o.Max.X <= b.Max.X && o.Max.Y <= b.Max.Y
}

// SideOffsets are distances from the four edges of a box,
// e.g. border widths or margins.
type SideOffsets struct {
	Top    float32
	Right  float32
	Bottom float32
	Left   float32
}

// UniformSides returns side offsets with the same value on all sides.
func UniformSides(v float32) SideOffsets {
	return SideOffsets{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns Left + Right.
func (s SideOffsets) Horizontal() float32 { return s.Left + s.Right }

// Vertical returns Top + Bottom.
func (s SideOffsets) Vertical() float32 { return s.Top + s.Bottom }

// IsZero reports whether all sides are zero.
func (s SideOffsets) IsZero() bool {
	return s.Top == 0 && s.Right == 0 && s.Bottom == 0 && s.Left == 0
}

// Deflate returns the box shrunk inward by the offsets.
func (b Box2) Deflate(s SideOffsets) Box2 {
	r := Box2{
		Min: Vec2(b.Min.X+s.Left, b.Min.Y+s.Top),
		Max: Vec2(b.Max.X-s.Right, b.Max.Y-s.Bottom),
	}
	if r.IsEmpty() {
		return Box2{Min: r.Min, Max: r.Min}
	}
	return r
}

// CornerRadius gives the x/y radii of the four corners of a
// rounded rectangle.
type CornerRadius struct {
	TopLeft     Vector2
	TopRight    Vector2
	BottomRight Vector2
	BottomLeft  Vector2
}

// UniformCorners returns a corner radius with the same circular
// radius on all corners.
func UniformCorners(r float32) CornerRadius {
	v := Vec2(r, r)
	return CornerRadius{TopLeft: v, TopRight: v, BottomRight: v, BottomLeft: v}
}

// IsZero reports whether all corners are square.
func (c CornerRadius) IsZero() bool {
	return c.TopLeft.IsZero() && c.TopRight.IsZero() && c.BottomRight.IsZero() && c.BottomLeft.IsZero()
}

// Deflate shrinks the radii to fit inside the given border widths,
// giving the radius of the inner curve of the border.
func (c CornerRadius) Deflate(s SideOffsets) CornerRadius {
	dc := func(r Vector2, dx, dy float32) Vector2 {
		return Vec2(math32.Max(0, r.X-dx), math32.Max(0, r.Y-dy))
	}
	return CornerRadius{
		TopLeft:     dc(c.TopLeft, s.Left, s.Top),
		TopRight:    dc(c.TopRight, s.Right, s.Top),
		BottomRight: dc(c.BottomRight, s.Right, s.Bottom),
		BottomLeft:  dc(c.BottomLeft, s.Left, s.Bottom),
	}
}
