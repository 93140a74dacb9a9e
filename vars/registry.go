// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vars

import (
	"log/slog"
	"time"

	"zenithui.org/zenith/base/ids"
)

// Registry owns the staged writes, the update-pass frame stamp, and the
// animations of one app process. All methods must be called from the app
// loop thread; the registry is the single per-process mutable static of
// the variable system.
type Registry struct {
	// frame is the stamp of the current update pass; a variable whose
	// last commit carries this stamp reports IsNew.
	frame uint64

	// staged are the pending commit closures in request order (FIFO).
	staged []func()

	// onWake is called once per subscribed widget of each variable that
	// commits a change; the app loop uses it to schedule update passes.
	onWake func(w ids.WidgetID)

	animations  []*animation
	currentAnim *animation
	now         func() time.Time
}

// NewRegistry returns a new registry using the real monotonic clock.
func NewRegistry() *Registry {
	return &Registry{now: time.Now}
}

// OnWake sets the callback invoked for each subscriber of a variable
// that commits a change during [Registry.Apply].
func (r *Registry) OnWake(f func(w ids.WidgetID)) { r.onWake = f }

// SetClock replaces the animation clock; for tests.
func (r *Registry) SetClock(now func() time.Time) { r.now = now }

func (r *Registry) stage(commit func()) {
	r.staged = append(r.staged, commit)
}

func (r *Registry) wake(w ids.WidgetID) {
	if r.onWake != nil {
		r.wakeSafe(w)
	}
}

func (r *Registry) wakeSafe(w ids.WidgetID) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("vars: panic in wake callback", "widget", w, "panic", rec)
		}
	}()
	r.onWake(w)
}

// HasPending reports whether any writes are staged.
func (r *Registry) HasPending() bool { return len(r.staged) > 0 }

// Apply commits all staged writes in request order and advances the
// update-pass stamp, so the commits become the values seen by the next
// update pass. A panic in a staged modify closure is trapped and logged;
// the remaining writes in the batch still commit.
func (r *Registry) Apply() {
	r.frame++
	staged := r.staged
	r.staged = nil
	for _, commit := range staged {
		r.applyOne(commit)
	}
	// writes staged by wake callbacks or nested commits land in the
	// next frame's batch
}

func (r *Registry) applyOne(commit func()) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("vars: panic in staged modify", "panic", rec)
		}
	}()
	commit()
}

// Frame returns the current update-pass stamp.
func (r *Registry) Frame() uint64 { return r.frame }
