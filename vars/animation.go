// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vars

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"
)

// AnimationArgs is passed to an animation function on every tick.
type AnimationArgs struct {
	// Start is when the animation was registered.
	Start time.Time

	// Now is the clock reading for this tick; all animations of one
	// frame see the same reading.
	Now time.Time

	stopped bool
}

// Elapsed returns the time since the animation started.
func (a *AnimationArgs) Elapsed() time.Duration { return a.Now.Sub(a.Start) }

// ElapsedFactor returns Elapsed divided by dur, clamped to [0, 1].
func (a *AnimationArgs) ElapsedFactor(dur time.Duration) float32 {
	if dur <= 0 {
		return 1
	}
	return math32.Min(1, float32(a.Elapsed())/float32(dur))
}

// Stop removes the animation after this tick completes.
func (a *AnimationArgs) Stop() { a.stopped = true }

type animation struct {
	fn      func(*AnimationArgs)
	start   time.Time
	dropped bool
}

// AnimationHandle owns one registered animation. Dropping it stops the
// animation; driven variables keep their last committed value.
type AnimationHandle struct {
	a *animation
}

// Drop stops the animation. Idempotent and safe on nil.
func (h *AnimationHandle) Drop() {
	if h == nil || h.a == nil {
		return
	}
	h.a.dropped = true
	h.a = nil
}

// Animate registers an animation function that runs once per frame,
// before the variable apply step. Writes made by the function mark the
// target variables as animating.
func (r *Registry) Animate(fn func(*AnimationArgs)) *AnimationHandle {
	a := &animation{fn: fn, start: r.now()}
	r.animations = append(r.animations, a)
	return &AnimationHandle{a: a}
}

// HasAnimations reports whether any animation is live, so the app loop
// can keep scheduling frames.
func (r *Registry) HasAnimations() bool { return len(r.animations) > 0 }

// UpdateAnimations runs every live animation once. It is called by the
// app loop at a fixed point before [Registry.Apply]. Panics in animation
// functions are trapped and the animation is removed.
func (r *Registry) UpdateAnimations() {
	if len(r.animations) == 0 {
		return
	}
	now := r.now()
	live := r.animations[:0]
	for _, a := range r.animations {
		if a.dropped {
			continue
		}
		args := &AnimationArgs{Start: a.start, Now: now}
		r.runAnimation(a, args)
		if !a.dropped && !args.stopped {
			live = append(live, a)
		}
	}
	// clear the tail so dropped animations are collectable
	for i := len(live); i < len(r.animations); i++ {
		r.animations[i] = nil
	}
	r.animations = live
}

func (r *Registry) runAnimation(a *animation, args *AnimationArgs) {
	r.currentAnim = a
	defer func() {
		r.currentAnim = nil
		if rec := recover(); rec != nil {
			a.dropped = true
			slog.Error("vars: panic in animation", "panic", rec)
		}
	}()
	a.fn(args)
}
