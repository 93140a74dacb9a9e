// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedAccess(t *testing.T) {
	count := NewKey[int]("Count")
	label := NewKey[string]("Label")

	var sm Map
	assert.True(t, sm.IsEmpty())

	Set(&sm, count, 3)
	Set(&sm, label, "hello")

	v, ok := Get(&sm, count)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, "hello", MustGet(&sm, label))
	assert.Equal(t, 2, sm.Len())
}

func TestKeysAreDistinctByIdentity(t *testing.T) {
	a := NewKey[int]("Same")
	b := NewKey[int]("Same")

	var sm Map
	Set(&sm, a, 1)
	Set(&sm, b, 2)

	assert.Equal(t, 1, MustGet(&sm, a))
	assert.Equal(t, 2, MustGet(&sm, b))
}

func TestGetOrAndDelete(t *testing.T) {
	k := NewKey[float32]("Scale")
	var sm Map
	assert.Equal(t, float32(1), GetOr(&sm, k, 1))
	Set(&sm, k, 2)
	assert.Equal(t, float32(2), GetOr(&sm, k, 1))
	Delete(&sm, k)
	assert.False(t, Contains(&sm, k))
}

func TestMustGetPanics(t *testing.T) {
	k := NewKey[int]("Missing")
	var sm Map
	assert.Panics(t, func() { MustGet(&sm, k) })
}

func TestFlags(t *testing.T) {
	f := NewFlag("IsChecked")
	var sm Map
	assert.False(t, sm.HasFlag(f))
	sm.SetFlag(f, true)
	assert.True(t, sm.HasFlag(f))
	sm.SetFlag(f, false)
	assert.False(t, sm.HasFlag(f))
}

func TestCopyFrom(t *testing.T) {
	k := NewKey[int]("N")
	var a, b Map
	Set(&a, k, 7)
	b.CopyFrom(&a)
	Set(&a, k, 8)
	assert.Equal(t, 7, MustGet(&b, k))
	assert.Equal(t, 8, MustGet(&a, k))
}
