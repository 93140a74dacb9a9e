// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statemap provides a heterogeneous map from type-tagged keys to
// values of the key's associated type. The same map type serves four
// lifetimes in Zenith without confusion: app state, window state, widget
// state, and per-event-dispatch state; the lifetime is a property of who
// owns the map, not of the map itself.
//
// Keys are created once with [NewKey] and shared; the association between
// a key and its value type is carried by the key's type parameter, so a
// lookup through the typed API can never produce a value of the wrong
// type.
package statemap

import "maps"

// keyID is the identity of a key. Keys compare by pointer, so two keys
// created with the same name are still distinct.
type keyID struct {
	name string
}

// Key is a type-tagged key with associated value type T.
// Create with [NewKey]; the zero Key is invalid.
type Key[T any] struct {
	id *keyID
}

// NewKey returns a new unique key with associated value type T.
// The name is only used for diagnostics.
func NewKey[T any](name string) Key[T] {
	return Key[T]{id: &keyID{name: name}}
}

// Name returns the diagnostic name the key was created with.
func (k Key[T]) Name() string { return k.id.name }

// Map is a heterogeneous mapping from type-tagged keys to values.
// The zero value is an empty map ready to use; storage is allocated
// lazily so an empty map costs one pointer.
type Map struct {
	m map[*keyID]any
}

func (sm *Map) init() {
	if sm.m == nil {
		sm.m = make(map[*keyID]any)
	}
}

// Len returns the number of entries in the map.
func (sm *Map) Len() int { return len(sm.m) }

// IsEmpty reports whether the map has no entries.
func (sm *Map) IsEmpty() bool { return len(sm.m) == 0 }

// Clear removes all entries.
func (sm *Map) Clear() { clear(sm.m) }

// CopyFrom does a shallow copy of all entries from src into sm,
// overwriting any shared keys.
func (sm *Map) CopyFrom(src *Map) {
	if src == nil || src.m == nil {
		return
	}
	sm.init()
	maps.Copy(sm.m, src.m)
}

// Clone returns a shallow copy of the map.
func (sm *Map) Clone() *Map {
	c := &Map{}
	c.CopyFrom(sm)
	return c
}

// Set sets the value for the given key.
func Set[T any](sm *Map, key Key[T], value T) {
	sm.init()
	sm.m[key.id] = value
}

// Get returns the value for the given key and whether it is present.
func Get[T any](sm *Map, key Key[T]) (T, bool) {
	v, ok := sm.m[key.id]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// GetOr returns the value for the given key, or def if not present.
func GetOr[T any](sm *Map, key Key[T], def T) T {
	if v, ok := Get(sm, key); ok {
		return v
	}
	return def
}

// MustGet returns the value for the given key and panics if not present.
func MustGet[T any](sm *Map, key Key[T]) T {
	v, ok := Get(sm, key)
	if !ok {
		panic("statemap: key " + key.id.name + " not set")
	}
	return v
}

// Contains reports whether the key is present.
func Contains[T any](sm *Map, key Key[T]) bool {
	_, ok := sm.m[key.id]
	return ok
}

// Delete removes the entry for the given key if present.
func Delete[T any](sm *Map, key Key[T]) {
	delete(sm.m, key.id)
}

// Flag is a convenience for presence-only keys (set membership).
type Flag = Key[struct{}]

// NewFlag returns a new presence-only key.
func NewFlag(name string) Flag { return NewKey[struct{}](name) }

// SetFlag sets or clears a presence-only key.
func (sm *Map) SetFlag(key Flag, on bool) {
	if on {
		Set(sm, key, struct{}{})
	} else {
		Delete(sm, key)
	}
}

// HasFlag reports whether a presence-only key is set.
func (sm *Map) HasFlag(key Flag) bool { return Contains(sm, key) }
