// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"image"

	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/ipc"
	"zenithui.org/zenith/render"
)

// window is one view-process window: its configuration, the frame cache
// of its pipeline, and the last rasterized content.
type window struct {
	id       ids.WindowID
	cfg      ipc.WindowConfig
	pipeline render.PipelineID
	scale    float32

	cache    *FrameCache
	bindings BindingTable
	expanded []render.DisplayItem
	clear    render.Color
	img      *image.RGBA

	// restoreSize and restorePos hold the normal-state geometry while
	// the window is fullscreen or maximized.
	restoreSize geom.Vector2
	restorePos  geom.Vector2
}

func newWindow(id ids.WindowID, cfg ipc.WindowConfig, pipeline render.PipelineID, opts Options) *window {
	if cfg.Size.IsZero() {
		cfg.Size = geom.Vec2(800, 600)
	}
	w := &window{
		id:       id,
		cfg:      cfg,
		pipeline: pipeline,
		scale:    opts.ScaleFactor,
		cache:    NewFrameCache(opts.FrameCacheCapacity),
	}
	if cfg.State != ipc.WindowNormal {
		w.restoreSize = cfg.Size
		w.restorePos = cfg.Position
		w.applyState(cfg.State, opts)
	}
	return w
}

// setState runs the window state machine and returns the events the
// transition raises, in order.
func (w *window) setState(s ipc.WindowState, opts Options) []ipc.Event {
	if s == w.cfg.State {
		return nil
	}
	if w.cfg.State == ipc.WindowNormal {
		w.restoreSize = w.cfg.Size
		w.restorePos = w.cfg.Position
	}
	w.applyState(s, opts)

	evs := []ipc.Event{{Kind: ipc.EvWindowStateChanged, Window: w.id, State: s}}
	if s != ipc.WindowMinimized {
		evs = append(evs,
			ipc.Event{Kind: ipc.EvWindowResized, Window: w.id, Size: w.cfg.Size},
			ipc.Event{Kind: ipc.EvWindowMoved, Window: w.id, Point: w.cfg.Position},
		)
	}
	return evs
}

func (w *window) applyState(s ipc.WindowState, opts Options) {
	switch s {
	case ipc.WindowFullscreen, ipc.WindowMaximized:
		w.cfg.Position = geom.Vector2{}
		w.cfg.Size = geom.Vec2(opts.MonitorWidth, opts.MonitorHeight)
	case ipc.WindowNormal:
		w.cfg.Size = w.restoreSize
		w.cfg.Position = w.restorePos
	case ipc.WindowMinimized:
		// geometry is kept; the window just stops presenting
	}
	w.cfg.State = s
}

func (w *window) setSize(size geom.Vector2) []ipc.Event {
	if size == w.cfg.Size || w.cfg.State != ipc.WindowNormal {
		return nil
	}
	w.cfg.Size = size
	return []ipc.Event{{Kind: ipc.EvWindowResized, Window: w.id, Size: size}}
}

func (w *window) setPosition(pos geom.Vector2) []ipc.Event {
	if pos == w.cfg.Position || w.cfg.State != ipc.WindowNormal {
		return nil
	}
	w.cfg.Position = pos
	return []ipc.Event{{Kind: ipc.EvWindowMoved, Window: w.id, Point: pos}}
}

func (w *window) setScale(scale float32) []ipc.Event {
	if scale == w.scale {
		return nil
	}
	w.scale = scale
	w.rasterize()
	return []ipc.Event{{Kind: ipc.EvScaleFactorChanged, Window: w.id, Scale: scale}}
}

// renderFrame expands and caches a full frame submission and
// rasterizes it.
func (w *window) renderFrame(fr *ipc.FrameRequest) []ipc.Event {
	w.clear = fr.ClearColor
	w.expanded = w.cache.Submit(&fr.List)
	w.bindings.Rebuild(fr.List.Frame, w.expanded)
	w.rasterize()
	return []ipc.Event{{Kind: ipc.EvFrameRendered, Window: w.id, Frame: fr.List.Frame}}
}

// renderUpdate patches bound frame values in place. When a key is
// unknown or an animating flag changed, it falls back to presenting the
// cached display list as a new frame.
func (w *window) renderUpdate(d *render.DynamicProperties) []ipc.Event {
	if w.expanded == nil {
		return nil
	}
	if !w.bindings.Apply(w.expanded, d) {
		w.bindings.Rebuild(w.cache.LatestID(), w.expanded)
		w.bindings.Apply(w.expanded, d)
	}
	w.rasterize()
	return []ipc.Event{{Kind: ipc.EvFrameRendered, Window: w.id, Frame: w.cache.LatestID()}}
}

func (w *window) rasterize() {
	if w.cfg.State == ipc.WindowMinimized {
		return
	}
	w.img = Rasterize(w.expanded, w.cfg.Size, w.scale, w.clear)
}

// readPixels captures the window content, optionally cropped to rect
// (in device-independent pixels).
func (w *window) readPixels(rect *geom.Box2) ipc.Pixels {
	if w.img == nil {
		w.rasterize()
	}
	img := w.img
	if img == nil {
		return ipc.Pixels{}
	}
	if rect != nil {
		sr := image.Rect(
			int(rect.Min.X*w.scale), int(rect.Min.Y*w.scale),
			int(rect.Max.X*w.scale), int(rect.Max.Y*w.scale),
		).Intersect(img.Bounds())
		img = img.SubImage(sr).(*image.RGBA)
	}
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		out = append(out, row...)
	}
	return ipc.Pixels{Size: geom.Vec2(float32(b.Dx()), float32(b.Dy())), Data: out}
}

// hitTest returns the widget tags of the frontmost items under pt,
// deduplicated front to back. Untagged items are skipped.
func (w *window) hitTest(pt geom.Vector2) []ids.WidgetID {
	hits := HitTest(w.expanded, pt)
	var out []ids.WidgetID
	seen := map[uint64]bool{}
	for _, i := range hits {
		tag := w.expanded[i].Tag
		if tag == 0 || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, ids.WidgetID(tag))
	}
	return out
}
