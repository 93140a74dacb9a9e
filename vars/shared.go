// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vars

import (
	"reflect"

	"zenithui.org/zenith/base/ids"
)

// Shared is the read-write reference-counted variable variant. Writes
// are staged on the owning [Registry] and committed at the apply step.
type Shared[T any] struct {
	reg       *Registry
	value     T
	ver       uint64
	lastNew   uint64
	animating bool
	eq        func(a, b T) bool
	subs      map[*Handle]ids.WidgetID
}

// NewShared returns a new read-write variable with the given initial
// value, owned by the registry.
func NewShared[T any](reg *Registry, initial T) *Shared[T] {
	return &Shared[T]{
		reg:   reg,
		value: initial,
		eq:    func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}
}

// SetEqual replaces the equality used by [Shared.SetNE]; the default is
// [reflect.DeepEqual]. Returns the variable for chaining.
func (v *Shared[T]) SetEqual(eq func(a, b T) bool) *Shared[T] {
	v.eq = eq
	return v
}

// Get returns a copy of the current committed value.
func (v *Shared[T]) Get() T { return v.value }

// With calls f with the committed value without copying.
func (v *Shared[T]) With(f func(v *T)) { f(&v.value) }

// Set stages a write of the given value.
func (v *Shared[T]) Set(nv T) error {
	fromAnim := v.reg.currentAnim != nil
	v.reg.stage(func() {
		v.value = nv
		v.commit(fromAnim)
	})
	return nil
}

// SetNE stages a write unless the value equals the current committed
// value. The comparison ignores pending staged writes, so two SetNE
// calls with an equal value in one batch are both no-ops.
func (v *Shared[T]) SetNE(nv T) error {
	if v.eq(v.value, nv) {
		return nil
	}
	return v.Set(nv)
}

// Modify stages a closure that mutates the value in place.
func (v *Shared[T]) Modify(f func(v *T)) error {
	fromAnim := v.reg.currentAnim != nil
	v.reg.stage(func() {
		f(&v.value)
		v.commit(fromAnim)
	})
	return nil
}

// Touch stages a no-op write: the value is unchanged but subscribers are
// woken and IsNew is true in the next update pass. Mapping variables do
// not recompute for a touch.
func (v *Shared[T]) Touch() {
	v.reg.stage(func() {
		v.lastNew = v.reg.frame
		v.wakeSubs()
	})
}

func (v *Shared[T]) commit(fromAnim bool) {
	v.ver++
	v.lastNew = v.reg.frame
	v.animating = fromAnim
	v.wakeSubs()
}

func (v *Shared[T]) wakeSubs() {
	for _, w := range v.subs {
		v.reg.wake(w)
	}
}

// Subscribe registers the widget for wake-ups on commits.
func (v *Shared[T]) Subscribe(w ids.WidgetID) *Handle {
	if v.subs == nil {
		v.subs = make(map[*Handle]ids.WidgetID)
	}
	h := &Handle{}
	h.drop = func() { delete(v.subs, h) }
	v.subs[h] = w
	return h
}

// IsNew reports whether the variable committed for the current update pass.
func (v *Shared[T]) IsNew() bool {
	return v.lastNew != 0 && v.lastNew == v.reg.frame
}

// IsAnimating reports whether the last commit was made by an animation.
func (v *Shared[T]) IsAnimating() bool { return v.animating }

// Caps returns Read|New|Modify.
func (v *Shared[T]) Caps() Caps { return CapRead | CapNew | CapModify }

func (v *Shared[T]) version() uint64 { return v.ver }

// ReadOnly returns a read-only view of the same cell: reads and
// subscriptions pass through, writes fail with [ErrReadOnly].
func (v *Shared[T]) ReadOnly() Var[T] { return roView[T]{v} }

type roView[T any] struct {
	src *Shared[T]
}

func (v roView[T]) Get() T                           { return v.src.Get() }
func (v roView[T]) With(f func(v *T))                { v.src.With(f) }
func (v roView[T]) Set(nv T) error                   { return ErrReadOnly }
func (v roView[T]) SetNE(nv T) error                 { return ErrReadOnly }
func (v roView[T]) Modify(f func(v *T)) error        { return ErrReadOnly }
func (v roView[T]) Subscribe(w ids.WidgetID) *Handle { return v.src.Subscribe(w) }
func (v roView[T]) IsNew() bool                      { return v.src.IsNew() }
func (v roView[T]) Caps() Caps                       { return CapRead | CapNew }
func (v roView[T]) version() uint64                  { return v.src.version() }
