// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"strings"

	"zenithui.org/zenith/base/ids"
)

// UpdateFlags are the pass requests pending for one window.
type UpdateFlags uint8

const (
	// FlagUpdate re-runs the update pass.
	FlagUpdate UpdateFlags = 1 << iota

	// FlagUpdateHP re-runs the high-pressure update band.
	FlagUpdateHP

	// FlagLayout re-runs measure and layout. Layout implies render.
	FlagLayout

	// FlagRender re-runs the render pass.
	FlagRender

	// FlagRenderUpdate submits only changed frame values. Subsumed by
	// FlagRender.
	FlagRenderUpdate
)

// Has reports whether all bits of q are set.
func (f UpdateFlags) Has(q UpdateFlags) bool { return f&q == q }

func (f UpdateFlags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	for _, p := range []struct {
		bit  UpdateFlags
		name string
	}{
		{FlagUpdate, "Update"}, {FlagUpdateHP, "UpdateHP"},
		{FlagLayout, "Layout"}, {FlagRender, "Render"}, {FlagRenderUpdate, "RenderUpdate"},
	} {
		if f.Has(p.bit) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// Updates is the per-window pass scheduler. Requests combine
// monotonically until the frame loop takes them; taking resets the
// window's flags to none.
type Updates struct {
	pending map[ids.WindowID]UpdateFlags
	wake    func()
}

// NewUpdates returns a scheduler. wake, if non-nil, is called whenever
// a request arrives on an idle scheduler so the frame loop can run.
func NewUpdates(wake func()) *Updates {
	return &Updates{pending: map[ids.WindowID]UpdateFlags{}, wake: wake}
}

func (u *Updates) push(w ids.WindowID, f UpdateFlags) {
	prev := u.pending[w]
	u.pending[w] = prev | f
	if prev == 0 && u.wake != nil {
		u.wake()
	}
}

// PushUpdate requests an update pass.
func (u *Updates) PushUpdate(w ids.WindowID) { u.push(w, FlagUpdate) }

// PushUpdateHP requests a high-pressure update pass.
func (u *Updates) PushUpdateHP(w ids.WindowID) { u.push(w, FlagUpdateHP) }

// PushLayout requests measure and layout; render follows.
func (u *Updates) PushLayout(w ids.WindowID) { u.push(w, FlagLayout|FlagRender) }

// PushRender requests a render pass.
func (u *Updates) PushRender(w ids.WindowID) { u.push(w, FlagRender) }

// PushRenderUpdate requests a frame-value-only submission.
func (u *Updates) PushRenderUpdate(w ids.WindowID) { u.push(w, FlagRenderUpdate) }

// Take returns the pending flags of the window and resets them.
func (u *Updates) Take(w ids.WindowID) UpdateFlags {
	f := u.pending[w]
	delete(u.pending, w)
	return f
}

// HasPending reports whether any window has pending requests.
func (u *Updates) HasPending() bool { return len(u.pending) > 0 }

// Windows returns the windows with pending requests.
func (u *Updates) Windows() []ids.WindowID {
	out := make([]ids.WindowID, 0, len(u.pending))
	for w := range u.pending {
		out = append(out, w)
	}
	return out
}
