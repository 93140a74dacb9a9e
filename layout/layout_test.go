// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/info"
)

func TestConstraints(t *testing.T) {
	c := UpTo(geom.Vec2(100, 50))
	assert.Equal(t, geom.Vec2(100, 50), c.Clamp(geom.Vec2(200, 200)))
	assert.Equal(t, geom.Vec2(10, 10), c.Clamp(geom.Vec2(10, 10)))
	assert.True(t, c.IsBounded())

	u := Unbounded()
	assert.False(t, u.IsBounded())
	assert.Equal(t, geom.Vector2{}, u.FillSize())
	assert.Equal(t, geom.Vec2(100, 50), c.FillSize())

	e := Exact(geom.Vec2(30, 30))
	assert.Equal(t, geom.Vec2(30, 30), e.Clamp(geom.Vector2{}))
}

func TestMetricsMaskRecordsReads(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	mask := m.snapshotMask(func() {
		m.FontSize()
		m.Constraints()
	})
	assert.True(t, mask.Intersects(MetricFontSize))
	assert.True(t, mask.Intersects(MetricConstraints))
	assert.False(t, mask.Intersects(MetricViewport))
}

func TestMeasureCacheSkipsDisjointChanges(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	b := &info.Bounds{}

	evals := 0
	measureFn := func() geom.Vector2 {
		evals++
		return geom.Vec2(m.FontSize()*2, m.FontSize())
	}

	ms := NewMeasure(m, 0)
	size := ms.WithWidget(b, measureFn)
	assert.Equal(t, geom.Vec2(28, 14), size)
	assert.Equal(t, 1, evals)
	assert.True(t, b.Measure.Valid)
	assert.True(t, Metric(b.Measure.Mask).Intersects(MetricFontSize))

	// viewport changed: disjoint from the mask, cached size reused
	ms = NewMeasure(m, MetricViewport)
	size = ms.WithWidget(b, measureFn)
	assert.Equal(t, geom.Vec2(28, 14), size)
	assert.Equal(t, 1, evals, "measure skipped for disjoint metric change")

	// font size changed: intersects, remeasured
	m.SetFontSize(20)
	ms = NewMeasure(m, MetricFontSize)
	size = ms.WithWidget(b, measureFn)
	assert.Equal(t, geom.Vec2(40, 20), size)
	assert.Equal(t, 2, evals)
}

func TestMeasureCacheInvalidate(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	b := &info.Bounds{}
	evals := 0
	ms := NewMeasure(m, 0)
	ms.WithWidget(b, func() geom.Vector2 { evals++; return geom.Vec2(1, 1) })
	b.Measure.Invalidate()
	ms.WithWidget(b, func() geom.Vector2 { evals++; return geom.Vec2(1, 1) })
	assert.Equal(t, 2, evals)
}

func TestLayoutScopes(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	l := NewLayout(m)

	parent := &info.Bounds{}
	child := &info.Bounds{}

	l.Translate(geom.Vec2(10, 5))
	size := l.WithWidget(parent, func() geom.Vector2 {
		return l.WithInner(parent, 3, func() geom.Vector2 {
			l.Translate(geom.Vec2(2, 2)) // absorbed by the child widget below
			l.WithChild(parent, func() geom.Vector2 {
				return l.WithWidget(child, func() geom.Vector2 {
					return geom.Vec2(20, 20)
				})
			})
			return geom.Vec2(50, 40)
		})
	})

	assert.Equal(t, geom.Vec2(50, 40), size)
	assert.Equal(t, geom.Vec2(10, 5), parent.OuterOffset)
	assert.Equal(t, geom.Vec2(50, 40), parent.OuterSize)
	assert.Equal(t, geom.Vec2(50, 40), parent.InnerSize)
	assert.Equal(t, float32(3), parent.Baseline)
	assert.Equal(t, geom.Vec2(2, 2), child.OuterOffset, "child widget absorbs the translation")
	assert.True(t, parent.ChildOffset.IsZero())
}

func TestWithChildPromotesTranslation(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	l := NewLayout(m)
	b := &info.Bounds{}

	l.WithWidget(b, func() geom.Vector2 {
		return l.WithInner(b, 0, func() geom.Vector2 {
			return l.WithChild(b, func() geom.Vector2 {
				// content is not a widget; the translation must reach
				// render as the child offset
				l.Translate(geom.Vec2(7, 9))
				return geom.Vec2(30, 30)
			})
		})
	})
	assert.Equal(t, geom.Vec2(7, 9), b.ChildOffset)
}

func TestWithChildrenInterceptsPlacement(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	l := NewLayout(m)
	panel := &info.Bounds{}
	kids := []*info.Bounds{{}, {}, {}}

	var placed []geom.Vector2
	l.WithWidget(panel, func() geom.Vector2 {
		return l.WithInner(panel, 0, func() geom.Vector2 {
			placed = l.WithChildren(func() {
				y := float32(0)
				for _, kb := range kids {
					l.Translate(geom.Vec2(0, y))
					s := l.WithWidget(kb, func() geom.Vector2 { return geom.Vec2(10, 10) })
					y += s.Y
				}
			})
			return geom.Vec2(10, 30)
		})
	})

	assert.Equal(t, []geom.Vector2{geom.Vec2(0, 0), geom.Vec2(0, 10), geom.Vec2(0, 20)}, placed)
	assert.Equal(t, geom.Vec2(0, 20), kids[2].OuterOffset)
}

func TestInlineMeasureContract(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	ms := NewMeasure(m, 0)

	ic := &InlineConstraints{FirstMaxFill: geom.Vec2(100, 20), LastMaxFill: geom.Vec2(100, 20)}
	var childSaw *InlineConstraints
	ms.WithInlineConstraints(ic, func() {
		childSaw = ms.Metrics().InlineConstraints()
		ms.SetInlineMeasure(&InlineMeasure{
			FirstSize: geom.Vec2(60, 20),
			LastSize:  geom.Vec2(30, 20),
		})
	})
	assert.Same(t, ic, childSaw)
	im := ms.TakeInlineMeasure()
	if assert.NotNil(t, im) {
		assert.False(t, im.IsSingleRow())
	}
	assert.Nil(t, ms.Metrics().InlineConstraints(), "constraints restored outside the scope")
	assert.Nil(t, ms.TakeInlineMeasure(), "measure is taken once")
}

func TestInlineOptOut(t *testing.T) {
	m := NewMetrics(geom.Vec2(800, 600), 1)
	ms := NewMeasure(m, 0)
	ms.WithInlineConstraints(&InlineConstraints{}, func() {
		ms.DisableInline()
	})
	assert.Nil(t, ms.TakeInlineMeasure(), "opted-out child measures as a block")
}

func TestCollapse(t *testing.T) {
	b := &info.Bounds{OuterSize: geom.Vec2(10, 10), InnerSize: geom.Vec2(8, 8)}
	CollapseChild(b)
	assert.True(t, b.Collapsed)
	assert.True(t, b.OuterSize.IsZero())
	assert.True(t, b.InnerSize.IsZero())
	assert.False(t, b.Measure.Valid)
}
