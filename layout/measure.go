// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/info"
)

// Measure drives the read-only measure pass. Each widget's measure runs
// inside [Measure.WithWidget], which serves the cached size while the
// metrics the previous measure read are unchanged.
type Measure struct {
	metrics *Metrics

	// changed is the set of metrics that changed since the last measure
	// pass of this window.
	changed Metric

	inlineMeasure *InlineMeasure
	inlineOptOut  bool
}

// NewMeasure returns a measure pass context over the metrics, with the
// given set of metrics changed since the previous pass.
func NewMeasure(metrics *Metrics, changed Metric) *Measure {
	return &Measure{metrics: metrics, changed: changed}
}

// Metrics returns the pass metrics.
func (ms *Measure) Metrics() *Metrics { return ms.metrics }

// WithWidget measures one widget: if the cached measure's metrics mask
// is disjoint from the changed set, the cached size is returned and f
// is skipped; otherwise f runs with a fresh mask snapshot and its
// result is cached together with the metrics it read.
func (ms *Measure) WithWidget(b *info.Bounds, f func() geom.Vector2) geom.Vector2 {
	if b.Measure.Valid && !ms.changed.Intersects(Metric(b.Measure.Mask)) {
		return b.Measure.Size
	}
	var size geom.Vector2
	mask := ms.metrics.snapshotMask(func() {
		size = f()
	})
	b.Measure = info.MeasureCache{Size: size, Mask: uint32(mask), Valid: true}
	return size
}

// WithInlineConstraints measures children with the given inline
// constraints, restoring the previous ones after f.
func (ms *Measure) WithInlineConstraints(ic *InlineConstraints, f func()) {
	prev := ms.metrics.inline
	ms.metrics.inline = ic
	defer func() { ms.metrics.inline = prev }()
	f()
}

// SetInlineMeasure is called by an inlining child to report how its
// first and last lines join the parent's rows.
func (ms *Measure) SetInlineMeasure(im *InlineMeasure) { ms.inlineMeasure = im }

// DisableInline is called by a child that cannot inline; the parent
// must treat it as a block.
func (ms *Measure) DisableInline() {
	ms.inlineMeasure = nil
	ms.inlineOptOut = true
}

// TakeInlineMeasure returns and clears the child's reported inline
// measure; nil means the child measures as a block.
func (ms *Measure) TakeInlineMeasure() *InlineMeasure {
	im := ms.inlineMeasure
	ms.inlineMeasure = nil
	ms.inlineOptOut = false
	return im
}
