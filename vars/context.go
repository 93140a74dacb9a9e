// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vars

import "zenithui.org/zenith/base/ids"

// ContextVar is a variable resolved against a scoped stack: property
// nodes push a source variable around their descendants with
// [ContextVar.WithValue], and reads inside that scope see the pushed
// source. Outside any scope the default is seen.
//
// Mapping or binding on a context var must snapshot the resolution with
// [ContextVar.Current]; the variable returned is the identity for that
// scope, and re-entering a different scope resolves a different one.
//
// Context vars are declared once per process, like the registry; the
// stack is only touched from the app loop thread.
type ContextVar[T any] struct {
	name  string
	def   Var[T]
	stack []Var[T]
}

// NewContextVar returns a context variable with the given default value.
func NewContextVar[T any](name string, def T) *ContextVar[T] {
	return &ContextVar[T]{name: name, def: Owned(def)}
}

// Name returns the diagnostic name of the context variable.
func (cv *ContextVar[T]) Name() string { return cv.name }

// WithValue pushes src as the resolution for the duration of f.
// The pop is guaranteed even if f panics.
func (cv *ContextVar[T]) WithValue(src Var[T], f func()) {
	cv.stack = append(cv.stack, src)
	defer func() {
		cv.stack = cv.stack[:len(cv.stack)-1]
	}()
	f()
}

// Current returns the variable the context resolves to right now: the
// innermost pushed source, or the default.
func (cv *ContextVar[T]) Current() Var[T] {
	if n := len(cv.stack); n > 0 {
		return cv.stack[n-1]
	}
	return cv.def
}

// Var methods delegate to the current resolution.

func (cv *ContextVar[T]) Get() T                    { return cv.Current().Get() }
func (cv *ContextVar[T]) With(f func(v *T))         { cv.Current().With(f) }
func (cv *ContextVar[T]) Set(v T) error             { return cv.Current().Set(v) }
func (cv *ContextVar[T]) SetNE(v T) error           { return cv.Current().SetNE(v) }
func (cv *ContextVar[T]) Modify(f func(v *T)) error { return cv.Current().Modify(f) }

func (cv *ContextVar[T]) Subscribe(w ids.WidgetID) *Handle {
	return cv.Current().Subscribe(w)
}

func (cv *ContextVar[T]) IsNew() bool { return cv.Current().IsNew() }

// Caps returns the current resolution's capabilities plus
// [CapCapsChange], since the resolution changes with the scope.
func (cv *ContextVar[T]) Caps() Caps { return cv.Current().Caps() | CapCapsChange }

func (cv *ContextVar[T]) version() uint64 { return versionOf(cv.Current()) }
