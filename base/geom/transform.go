// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "github.com/chewxy/math32"

// Affine2 is a 2D affine transform:
//
//	| XX XY X0 |
//	| YX YY Y0 |
//
// The zero value is not valid; use [Identity2] or a constructor.
type Affine2 struct {
	XX, YX float32
	XY, YY float32
	X0, Y0 float32
}

// Identity2 returns the identity transform.
func Identity2() Affine2 {
	return Affine2{XX: 1, YY: 1}
}

// Translate2 returns a pure translation transform.
func Translate2(x, y float32) Affine2 {
	return Affine2{XX: 1, YY: 1, X0: x, Y0: y}
}

// Scale2 returns a pure scale transform.
func Scale2(sx, sy float32) Affine2 {
	return Affine2{XX: sx, YY: sy}
}

// Rotate2 returns a rotation transform of the given angle in radians.
func Rotate2(angle float32) Affine2 {
	s, c := math32.Sincos(angle)
	return Affine2{XX: c, YX: s, XY: -s, YY: c}
}

// Mul returns the transform that applies o first, then a.
func (a Affine2) Mul(o Affine2) Affine2 {
	return Affine2{
		XX: a.XX*o.XX + a.XY*o.YX,
		YX: a.YX*o.XX + a.YY*o.YX,
		XY: a.XX*o.XY + a.XY*o.YY,
		YY: a.YX*o.XY + a.YY*o.YY,
		X0: a.XX*o.X0 + a.XY*o.Y0 + a.X0,
		Y0: a.YX*o.X0 + a.YY*o.Y0 + a.Y0,
	}
}

// Apply transforms the given point.
func (a Affine2) Apply(p Vector2) Vector2 {
	return Vector2{
		X: a.XX*p.X + a.XY*p.Y + a.X0,
		Y: a.YX*p.X + a.YY*p.Y + a.Y0,
	}
}

// Offset returns the translation component of the transform.
func (a Affine2) Offset() Vector2 { return Vector2{a.X0, a.Y0} }

// IsIdentity reports whether the transform is exactly the identity.
func (a Affine2) IsIdentity() bool {
	return a == Identity2()
}

// IsTranslation reports whether the transform is a pure translation
// (including the identity).
func (a Affine2) IsTranslation() bool {
	return a.XX == 1 && a.YY == 1 && a.XY == 0 && a.YX == 0
}
