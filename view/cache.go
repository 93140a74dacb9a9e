// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"log/slog"

	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/render"
)

// FrameCache keeps the expanded display lists of recent frames of one
// pipeline so reuse ranges can resolve. The latest frame and any frame
// referenced by it are pinned; older frames are evicted LRU when the
// cache is over capacity.
type FrameCache struct {
	capacity int
	frames   map[render.FrameID]*cachedFrame
	latest   render.FrameID
	tick     uint64
}

type cachedFrame struct {
	items  []render.DisplayItem
	used   uint64
	pinned bool
}

// NewFrameCache returns a cache holding up to capacity expanded frames
// beyond the pinned set.
func NewFrameCache(capacity int) *FrameCache {
	if capacity < 1 {
		capacity = 1
	}
	return &FrameCache{capacity: capacity, frames: map[render.FrameID]*cachedFrame{}}
}

// Latest returns the newest expanded frame, or nil before the first
// submission.
func (c *FrameCache) Latest() []render.DisplayItem {
	if f, ok := c.frames[c.latest]; ok {
		return f.items
	}
	return nil
}

// LatestID returns the newest frame id.
func (c *FrameCache) LatestID() render.FrameID { return c.latest }

// Len returns the number of cached frames.
func (c *FrameCache) Len() int { return len(c.frames) }

// Submit expands dl against the cache and stores the result as the
// latest frame. Reuse items referencing evicted frames log a warning
// and expand to nothing.
func (c *FrameCache) Submit(dl *render.DisplayList) []render.DisplayItem {
	expanded := make([]render.DisplayItem, 0, len(dl.Items))
	for _, it := range dl.Items {
		if it.Kind != render.ItemReuse {
			expanded = append(expanded, it)
			continue
		}
		src, ok := c.frames[it.ReuseFrame]
		if !ok || it.ReuseEnd > uint32(len(src.items)) || it.ReuseStart > it.ReuseEnd {
			slog.Warn("stale display list reuse range",
				"pipeline", dl.Pipeline, "frame", dl.Frame,
				"reuseFrame", it.ReuseFrame, "start", it.ReuseStart, "end", it.ReuseEnd)
			continue
		}
		expanded = append(expanded, src.items[it.ReuseStart:it.ReuseEnd]...)
	}

	c.tick++
	c.frames[dl.Frame] = &cachedFrame{items: expanded, used: c.tick}
	c.latest = dl.Frame
	c.evict(dl)
	return expanded
}

// evict repins around the new latest frame and drops LRU frames over
// capacity.
func (c *FrameCache) evict(dl *render.DisplayList) {
	for _, f := range c.frames {
		f.pinned = false
	}
	latest := c.frames[c.latest]
	latest.pinned = true
	for _, it := range dl.Items {
		if it.Kind == render.ItemReuse {
			if f, ok := c.frames[it.ReuseFrame]; ok {
				f.pinned = true
				c.tick++
				f.used = c.tick
			}
		}
	}

	for len(c.frames) > c.capacity {
		var victim render.FrameID
		var oldest uint64
		found := false
		for id, f := range c.frames {
			if f.pinned {
				continue
			}
			if !found || f.used < oldest {
				victim, oldest, found = id, f.used, true
			}
		}
		if !found {
			return
		}
		delete(c.frames, victim)
	}
}

// bindingSlot locates one bound frame value inside the latest frame.
type bindingSlot struct {
	frame render.FrameID
	index int
}

// BindingTable maps binding keys to item slots of the latest frame so
// render-update submissions can patch values in place.
type BindingTable struct {
	transforms map[render.BindingKey]bindingSlot
	floats     map[render.BindingKey]bindingSlot
	colors     map[render.BindingKey]bindingSlot
	frame      render.FrameID
}

// Rebuild scans the expanded items of frame and records every bound
// transform, opacity, and color.
func (t *BindingTable) Rebuild(frame render.FrameID, items []render.DisplayItem) {
	t.frame = frame
	t.transforms = map[render.BindingKey]bindingSlot{}
	t.floats = map[render.BindingKey]bindingSlot{}
	t.colors = map[render.BindingKey]bindingSlot{}
	for i, it := range items {
		if it.Transform.IsBound() {
			t.transforms[it.Transform.Key] = bindingSlot{frame, i}
		}
		if it.Opacity.IsBound() {
			t.floats[it.Opacity.Key] = bindingSlot{frame, i}
		}
		if it.Color.IsBound() {
			t.colors[it.Color.Key] = bindingSlot{frame, i}
		}
	}
}

// Apply patches the bound values of items in place. It reports false
// when any key is unknown or an animating flag changed semantics, in
// which case the caller must fall back to rebuilding from the cached
// display list as a new frame. The whole batch is validated before any
// item is touched, so a false return leaves items unchanged.
func (t *BindingTable) Apply(items []render.DisplayItem, d *render.DynamicProperties) bool {
	for _, u := range d.Transforms {
		slot, ok := t.transforms[u.Key]
		if !ok || items[slot.index].Transform.Animating != u.Animating {
			return false
		}
	}
	for _, u := range d.Floats {
		slot, ok := t.floats[u.Key]
		if !ok || items[slot.index].Opacity.Animating != u.Animating {
			return false
		}
	}
	for _, u := range d.Colors {
		slot, ok := t.colors[u.Key]
		if !ok || items[slot.index].Color.Animating != u.Animating {
			return false
		}
	}

	for _, u := range d.Transforms {
		items[t.transforms[u.Key].index].Transform.Value = u.Value
	}
	for _, u := range d.Floats {
		items[t.floats[u.Key].index].Opacity.Value = u.Value
	}
	for _, u := range d.Colors {
		items[t.colors[u.Key].index].Color.Value = u.Value
	}
	return true
}

// HitTest returns the frontmost color items containing pt in the
// expanded list, walking translation-only reference frames.
func HitTest(items []render.DisplayItem, pt geom.Vector2) []int {
	var hits []int
	var offsets []geom.Vector2
	off := geom.Vector2{}
	for i, it := range items {
		switch it.Kind {
		case render.ItemPushReferenceFrame:
			offsets = append(offsets, off)
			if t := it.Transform.Value; t.IsTranslation() {
				off = off.Add(geom.Vec2(t.X0, t.Y0))
			}
		case render.ItemPopReferenceFrame:
			if n := len(offsets); n > 0 {
				off = offsets[n-1]
				offsets = offsets[:n-1]
			}
		case render.ItemColor, render.ItemImage, render.ItemText,
			render.ItemLinearGradient, render.ItemRadialGradient, render.ItemConicGradient:
			r := it.Rect.Translate(off)
			if r.Contains(pt) {
				hits = append(hits, i)
			}
		}
	}
	// frontmost first
	for l, r := 0, len(hits)-1; l < r; l, r = l+1, r-1 {
		hits[l], hits[r] = hits[r], hits[l]
	}
	return hits
}
