// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"math"

	"zenithui.org/zenith/base/ids"
)

// Layer indices order the widgets of a window's layers panel. Within
// one index, insertion order decides.
const (
	// LayerDefault renders immediately above the window content.
	LayerDefault uint32 = 0

	// LayerAdorner is the band for anchored adorners; it leaves the
	// full u16 range above it for top-most overlays.
	LayerAdorner uint32 = math.MaxUint32 - math.MaxUint16

	// LayerTopMost renders above everything.
	LayerTopMost uint32 = math.MaxUint32
)

// AnchorMode selects which aspects a layered widget copies from its
// anchor widget every layout.
type AnchorMode struct {
	// Transform places the widget at the anchor's outer origin.
	Transform bool

	// Size constrains the widget to the anchor's inner size.
	Size bool

	// Visibility collapses the widget while the anchor is collapsed.
	Visibility bool

	// Interactivity joins the anchor's interactivity into the widget.
	Interactivity bool

	// CornerRadius copies the anchor's border corner radius.
	CornerRadius bool
}

// AnchorFull is the common adorner mode: follow everything.
var AnchorFull = AnchorMode{Transform: true, Size: true, Visibility: true, Interactivity: true, CornerRadius: true}

type layerEntry struct {
	widget Widget
	layer  uint32

	anchored bool
	anchor   ids.WidgetID
	mode     AnchorMode
}

// Layers is the ordered z-stack of widgets a window hosts above its
// content root.
type Layers struct {
	entries []*layerEntry
	win     *Window
}

// Insert appends the widget into the panel at the given layer index,
// after any widgets already at that index.
func (ls *Layers) Insert(layer uint32, w Widget) {
	ls.insert(&layerEntry{widget: w, layer: layer})
}

// InsertAnchored inserts like [Layers.Insert] and binds the widget to
// the anchor widget per mode. A missing or collapsed-per-mode anchor
// collapses the widget.
func (ls *Layers) InsertAnchored(layer uint32, anchor ids.WidgetID, mode AnchorMode, w Widget) {
	ls.insert(&layerEntry{widget: w, layer: layer, anchored: true, anchor: anchor, mode: mode})
}

func (ls *Layers) insert(e *layerEntry) {
	pos := len(ls.entries)
	for pos > 0 && ls.entries[pos-1].layer > e.layer {
		pos--
	}
	ls.entries = append(ls.entries, nil)
	copy(ls.entries[pos+1:], ls.entries[pos:])
	ls.entries[pos] = e
	if ls.win != nil {
		ls.win.noteLayersChanged()
	}
}

// Remove takes the widget out of the panel. It reports whether the
// widget was present.
func (ls *Layers) Remove(id ids.WidgetID) bool {
	for i, e := range ls.entries {
		if e.widget.AsBase().ID == id {
			ls.entries = append(ls.entries[:i], ls.entries[i+1:]...)
			if ls.win != nil {
				ls.win.noteLayersChanged()
			}
			return true
		}
	}
	return false
}

// Len returns the number of layered widgets.
func (ls *Layers) Len() int { return len(ls.entries) }

// Widgets returns the layered widgets in z order, bottom first.
func (ls *Layers) Widgets() []Widget {
	out := make([]Widget, len(ls.entries))
	for i, e := range ls.entries {
		out[i] = e.widget
	}
	return out
}
