// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vars

import "zenithui.org/zenith/base/ids"

// mapVar is a read-only derivation of one source variable. The mapping
// function must be pure: the output is memoized and only recomputed when
// the source has committed a change since the cached read.
type mapVar[S, T any] struct {
	src    Var[S]
	f      func(S) T
	cached T
	seen   uint64
	valid  bool
}

// Map returns a read-only variable whose value is f applied to the
// source. The result is recomputed lazily on read after the source
// commits a change; otherwise the memoized output is returned.
func Map[S, T any](src Var[S], f func(S) T) Var[T] {
	return &mapVar[S, T]{src: src, f: f}
}

func (m *mapVar[S, T]) refresh() {
	sv := versionOf(m.src)
	if m.valid && sv == m.seen {
		return
	}
	m.cached = m.f(m.src.Get())
	m.seen = sv
	m.valid = true
}

func (m *mapVar[S, T]) Get() T {
	m.refresh()
	return m.cached
}

func (m *mapVar[S, T]) With(f func(v *T)) {
	m.refresh()
	f(&m.cached)
}

func (m *mapVar[S, T]) Set(v T) error                    { return ErrReadOnly }
func (m *mapVar[S, T]) SetNE(v T) error                  { return ErrReadOnly }
func (m *mapVar[S, T]) Modify(f func(v *T)) error        { return ErrReadOnly }
func (m *mapVar[S, T]) Subscribe(w ids.WidgetID) *Handle { return m.src.Subscribe(w) }
func (m *mapVar[S, T]) IsNew() bool                      { return m.src.IsNew() }
func (m *mapVar[S, T]) Caps() Caps                       { return CapRead | CapNew }
func (m *mapVar[S, T]) version() uint64                  { return versionOf(m.src) }

// mapVar2 derives from two sources.
type mapVar2[A, B, T any] struct {
	a      Var[A]
	b      Var[B]
	f      func(A, B) T
	cached T
	seenA  uint64
	seenB  uint64
	valid  bool
}

// Map2 returns a read-only variable derived from two sources; it
// recomputes when either source has committed a change.
func Map2[A, B, T any](a Var[A], b Var[B], f func(A, B) T) Var[T] {
	return &mapVar2[A, B, T]{a: a, b: b, f: f}
}

func (m *mapVar2[A, B, T]) refresh() {
	va, vb := versionOf(m.a), versionOf(m.b)
	if m.valid && va == m.seenA && vb == m.seenB {
		return
	}
	m.cached = m.f(m.a.Get(), m.b.Get())
	m.seenA, m.seenB = va, vb
	m.valid = true
}

func (m *mapVar2[A, B, T]) Get() T {
	m.refresh()
	return m.cached
}

func (m *mapVar2[A, B, T]) With(f func(v *T)) {
	m.refresh()
	f(&m.cached)
}

func (m *mapVar2[A, B, T]) Set(v T) error             { return ErrReadOnly }
func (m *mapVar2[A, B, T]) SetNE(v T) error           { return ErrReadOnly }
func (m *mapVar2[A, B, T]) Modify(f func(v *T)) error { return ErrReadOnly }

func (m *mapVar2[A, B, T]) Subscribe(w ids.WidgetID) *Handle {
	ha := m.a.Subscribe(w)
	hb := m.b.Subscribe(w)
	return &Handle{drop: func() {
		ha.Drop()
		hb.Drop()
	}}
}

func (m *mapVar2[A, B, T]) IsNew() bool { return m.a.IsNew() || m.b.IsNew() }
func (m *mapVar2[A, B, T]) Caps() Caps  { return CapRead | CapNew }

func (m *mapVar2[A, B, T]) version() uint64 {
	return versionOf(m.a) + versionOf(m.b)
}
