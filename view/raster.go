// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"image"

	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/render"
)

// Rasterize renders an expanded display list into an RGBA image of the
// given pixel size. The headless backend only fills color rects; it
// honors translation reference frames, rect clips, and stacking-context
// opacity, which is enough for pixel readback in tests and servers
// without a GPU.
func Rasterize(items []render.DisplayItem, size geom.Vector2, scale float32, clear render.Color) *image.RGBA {
	w, h := int(size.X*scale), int(size.Y*scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	full := geom.B2(0, 0, float32(w), float32(h))
	fillRect(img, full, clear, 1)

	type frame struct {
		off  geom.Vector2
		clip geom.Box2
		op   float32
	}
	cur := frame{clip: full, op: 1}
	var refStack, clipStack, opStack []frame

	for _, it := range items {
		switch it.Kind {
		case render.ItemPushReferenceFrame:
			refStack = append(refStack, cur)
			if t := it.Transform.Value; t.IsTranslation() {
				cur.off = cur.off.Add(geom.Vec2(t.X0*scale, t.Y0*scale))
			}
		case render.ItemPopReferenceFrame:
			if n := len(refStack); n > 0 {
				cur.off = refStack[n-1].off
				refStack = refStack[:n-1]
			}
		case render.ItemPushClipRect, render.ItemPushClipRoundedRect:
			clipStack = append(clipStack, cur)
			r := scaleBox(it.Rect, scale).Translate(cur.off)
			cur.clip = cur.clip.Intersect(r)
		case render.ItemPopClip:
			if n := len(clipStack); n > 0 {
				cur.clip = clipStack[n-1].clip
				clipStack = clipStack[:n-1]
			}
		case render.ItemPushStackingContext:
			opStack = append(opStack, cur)
			cur.op *= it.Opacity.Value
		case render.ItemPopStackingContext:
			if n := len(opStack); n > 0 {
				cur.op = opStack[n-1].op
				opStack = opStack[:n-1]
			}
		case render.ItemColor:
			r := scaleBox(it.Rect, scale).Translate(cur.off).Intersect(cur.clip)
			fillRect(img, r, it.Color.Value, cur.op)
		}
	}
	return img
}

func scaleBox(b geom.Box2, s float32) geom.Box2 {
	return geom.Box2{Min: b.Min.MulScalar(s), Max: b.Max.MulScalar(s)}
}

// fillRect alpha-composites a straight-alpha color over the pixels in r.
func fillRect(img *image.RGBA, r geom.Box2, c render.Color, opacity float32) {
	if r.IsEmpty() {
		return
	}
	a := c.A * opacity
	if a <= 0 {
		return
	}
	x0, y0 := int(r.Min.X), int(r.Min.Y)
	x1, y1 := int(r.Max.X), int(r.Max.Y)
	bounds := img.Bounds()
	x0, y0 = max(x0, bounds.Min.X), max(y0, bounds.Min.Y)
	x1, y1 = min(x1, bounds.Max.X), min(y1, bounds.Max.Y)

	sr, sg, sb := c.R*255, c.G*255, c.B*255
	for y := y0; y < y1; y++ {
		row := img.Pix[img.PixOffset(x0, y):img.PixOffset(x1, y)]
		for i := 0; i+3 < len(row); i += 4 {
			row[i+0] = blend(row[i+0], sr, a)
			row[i+1] = blend(row[i+1], sg, a)
			row[i+2] = blend(row[i+2], sb, a)
			row[i+3] = blend(row[i+3], 255, a)
		}
	}
}

func blend(dst uint8, src, alpha float32) uint8 {
	v := src*alpha + float32(dst)*(1-alpha)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
