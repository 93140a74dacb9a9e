// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import "sync/atomic"

// FrameID identifies one rendered frame of one pipeline.
type FrameID uint64

// PipelineID identifies one render pipeline in the view process.
type PipelineID uint32

// BindingKey connects a display-list slot to later frame-value updates.
// Keys are unique within the app process; create with [NewBindingKey].
type BindingKey uint64

var bindingCounter atomic.Uint64

// NewBindingKey returns the next unique binding key.
func NewBindingKey() BindingKey { return BindingKey(bindingCounter.Add(1)) }

// FrameValue is a value embedded in a display item: either a plain
// value, or a value bound by key so a later render-update can change it
// in place without rebuilding the display list.
type FrameValue[T any] struct {
	// Key is the binding key; zero when the value is not bound.
	Key BindingKey

	// Value is the current value.
	Value T

	// Animating marks bound values that are being driven by an
	// animation, so the renderer keeps them on the dynamic path.
	Animating bool
}

// Value returns an unbound frame value.
func Value[T any](v T) FrameValue[T] { return FrameValue[T]{Value: v} }

// Bind returns a frame value bound by key.
func Bind[T any](key BindingKey, v T, animating bool) FrameValue[T] {
	return FrameValue[T]{Key: key, Value: v, Animating: animating}
}

// IsBound reports whether the value carries a binding key.
func (fv FrameValue[T]) IsBound() bool { return fv.Key != 0 }

// FrameValueUpdate changes one bound display-list slot in place during
// a render-update submission.
type FrameValueUpdate[T any] struct {
	Key       BindingKey
	Value     T
	Animating bool
}

// Update returns a frame-value update record.
func Update[T any](key BindingKey, v T, animating bool) FrameValueUpdate[T] {
	return FrameValueUpdate[T]{Key: key, Value: v, Animating: animating}
}
