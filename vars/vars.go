// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vars implements the reactive variable system of the Zenith app
// process: observable values whose writes are staged and committed in a
// single apply step before each update pass, so that every observer sees
// one consistent snapshot per frame.
//
// The variants are:
//   - [Owned]: a constant wrapper with no change notification.
//   - [Shared]: a reference-counted read-write cell; [Shared.ReadOnly]
//     derives a read-only view of the same cell.
//   - [Map], [Map2]: lazy memoized derivations of source variables.
//   - [ContextVar]: resolved against a scoped stack of variables pushed
//     by property nodes, with a default outside any scope.
//   - animating: a [Shared] driven by a [Registry.Animate] function.
package vars

import (
	"errors"

	"zenithui.org/zenith/base/ids"
)

// ErrReadOnly is returned by writes to read-only variables and views.
var ErrReadOnly = errors.New("vars: variable is read-only")

// Caps is the capability bitmask of a variable.
type Caps uint8

const (
	// CapRead is set on all variables; the value can be read.
	CapRead Caps = 1 << iota

	// CapNew marks variables that can notify a new value.
	CapNew

	// CapModify marks variables that accept writes.
	CapModify

	// CapCapsChange marks variables whose capabilities can change,
	// such as context variables that resolve to different sources.
	CapCapsChange
)

// Has reports whether all bits in o are set in c.
func (c Caps) Has(o Caps) bool { return c&o == o }

// AnyVar is the type-erased surface shared by all variables.
type AnyVar interface {
	// IsNew reports whether the variable committed a new value for the
	// current update pass. It is true only during the update pass
	// immediately following the commit.
	IsNew() bool

	// Caps returns the capability bitmask.
	Caps() Caps
}

// Var is a reactive variable holding a value of type T.
type Var[T any] interface {
	AnyVar

	// Get returns a copy of the current committed value.
	Get() T

	// With calls f with the current committed value without copying it.
	// f must not retain or mutate the value.
	With(f func(v *T))

	// Set stages a write of the given value. The write is visible after
	// the next apply step, not immediately. Returns [ErrReadOnly] on
	// read-only variables.
	Set(v T) error

	// SetNE is Set, except it is a no-op when the new value equals the
	// current committed value. Pending staged writes are not considered.
	SetNE(v T) error

	// Modify stages a closure that mutates the value in place at the
	// apply step. Returns [ErrReadOnly] on read-only variables.
	Modify(f func(v *T)) error

	// Subscribe registers the widget to be woken when the variable
	// commits a new value. Dropping the handle unsubscribes.
	Subscribe(w ids.WidgetID) *Handle
}

// versioned is implemented by variables that track committed changes
// with a monotonic counter; mapping variables use it for staleness.
type versioned interface {
	version() uint64
}

// versionOf returns the change counter of a variable, or 0 for
// variables that can never change.
func versionOf(v any) uint64 {
	if vv, ok := v.(versioned); ok {
		return vv.version()
	}
	return 0
}

// Handle represents one live subscription. Dropping it unsubscribes;
// Drop is idempotent and safe on a nil handle.
type Handle struct {
	drop func()
}

// Drop cancels the subscription.
func (h *Handle) Drop() {
	if h == nil || h.drop == nil {
		return
	}
	h.drop()
	h.drop = nil
}

// owned is the constant variant.
type owned[T any] struct {
	value T
}

// Owned returns a constant variable wrapping the given value.
// It has no change notification and rejects writes.
func Owned[T any](v T) Var[T] { return owned[T]{value: v} }

func (o owned[T]) Get() T                           { return o.value }
func (o owned[T]) With(f func(v *T))                { f(&o.value) }
func (o owned[T]) Set(v T) error                    { return ErrReadOnly }
func (o owned[T]) SetNE(v T) error                  { return ErrReadOnly }
func (o owned[T]) Modify(f func(v *T)) error        { return ErrReadOnly }
func (o owned[T]) Subscribe(w ids.WidgetID) *Handle { return &Handle{} }
func (o owned[T]) IsNew() bool                      { return false }
func (o owned[T]) Caps() Caps                       { return CapRead }
