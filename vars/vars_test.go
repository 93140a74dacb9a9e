// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vars

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"zenithui.org/zenith/base/ids"
)

func TestSetStagedUntilApply(t *testing.T) {
	reg := NewRegistry()
	v := NewShared(reg, 1)

	assert.NoError(t, v.Set(2))
	assert.Equal(t, 1, v.Get(), "writes are staged, not immediate")
	assert.False(t, v.IsNew())

	reg.Apply()
	assert.Equal(t, 2, v.Get())
	assert.True(t, v.IsNew())

	reg.Apply()
	assert.False(t, v.IsNew(), "IsNew holds for exactly one update pass")
}

func TestSetOrderFIFO(t *testing.T) {
	reg := NewRegistry()
	v := NewShared(reg, 0)

	v.Set(1)
	v.Set(2)
	reg.Apply()
	assert.Equal(t, 2, v.Get(), "last write in the batch wins")
	assert.True(t, v.IsNew())
}

func TestSetNEComparesCommittedValue(t *testing.T) {
	reg := NewRegistry()
	v := NewShared(reg, 5)

	assert.NoError(t, v.SetNE(5))
	assert.NoError(t, v.SetNE(5))
	reg.Apply()
	assert.False(t, v.IsNew(), "SetNE with the committed value never marks new")

	// equal to a staged write but not to the committed value: stages
	v.Set(7)
	assert.NoError(t, v.SetNE(7))
	reg.Apply()
	assert.Equal(t, 7, v.Get())
	assert.True(t, v.IsNew())
}

func TestModifyAndTouch(t *testing.T) {
	reg := NewRegistry()
	v := NewShared(reg, []int{1})

	v.Modify(func(s *[]int) { *s = append(*s, 2) })
	reg.Apply()
	assert.Equal(t, []int{1, 2}, v.Get())
	assert.True(t, v.IsNew())

	v.Touch()
	reg.Apply()
	assert.Equal(t, []int{1, 2}, v.Get())
	assert.True(t, v.IsNew(), "touch marks new without changing the value")
}

func TestModifyPanicIsolatedFromBatch(t *testing.T) {
	reg := NewRegistry()
	a := NewShared(reg, 0)
	b := NewShared(reg, 0)

	a.Modify(func(v *int) { panic("boom") })
	b.Set(3)
	assert.NotPanics(t, reg.Apply)
	assert.Equal(t, 3, b.Get(), "other vars in the batch still commit")
}

func TestReadOnlyView(t *testing.T) {
	reg := NewRegistry()
	v := NewShared(reg, "a")
	ro := v.ReadOnly()

	assert.ErrorIs(t, ro.Set("b"), ErrReadOnly)
	assert.ErrorIs(t, ro.Modify(func(s *string) {}), ErrReadOnly)
	assert.Equal(t, "a", ro.Get())
	assert.False(t, ro.Caps().Has(CapModify))

	v.Set("b")
	reg.Apply()
	assert.Equal(t, "b", ro.Get())
	assert.True(t, ro.IsNew())
}

func TestOwnedIsConstant(t *testing.T) {
	v := Owned(42)
	assert.Equal(t, 42, v.Get())
	assert.ErrorIs(t, v.Set(1), ErrReadOnly)
	assert.False(t, v.IsNew())
	assert.Equal(t, CapRead, v.Caps())
}

func TestMapIsLazyAndMemoized(t *testing.T) {
	reg := NewRegistry()
	v := NewShared(reg, 2)
	evals := 0
	m := Map(Var[int](v), func(x int) int {
		evals++
		return x * 10
	})

	assert.Equal(t, 20, m.Get())
	assert.Equal(t, 20, m.Get())
	assert.Equal(t, 1, evals, "memoized while the source is unchanged")

	v.Set(3)
	assert.Equal(t, 20, m.Get(), "stale until the write commits")
	reg.Apply()
	assert.Equal(t, 30, m.Get())
	assert.Equal(t, 30, m.Get())
	assert.Equal(t, 2, evals)
	assert.True(t, m.IsNew())
	assert.ErrorIs(t, m.Set(0), ErrReadOnly)
}

func TestMapTracksEverySourceWrite(t *testing.T) {
	reg := NewRegistry()
	v := NewShared(reg, 0)
	m := Map(Var[int](v), func(x int) int { return x + 1 })

	for i := 1; i <= 5; i++ {
		v.Set(i)
		reg.Apply()
		assert.Equal(t, i+1, m.Get())
	}
}

func TestMap2(t *testing.T) {
	reg := NewRegistry()
	a := NewShared(reg, 1)
	b := NewShared(reg, 2)
	m := Map2(Var[int](a), Var[int](b), func(x, y int) int { return x + y })

	assert.Equal(t, 3, m.Get())
	b.Set(10)
	reg.Apply()
	assert.Equal(t, 11, m.Get())
	assert.True(t, m.IsNew())
}

func TestSubscribeWakesOnCommit(t *testing.T) {
	reg := NewRegistry()
	var woken []ids.WidgetID
	reg.OnWake(func(w ids.WidgetID) { woken = append(woken, w) })

	v := NewShared(reg, 0)
	w1 := ids.NewWidgetID()
	h := v.Subscribe(w1)

	v.Set(1)
	reg.Apply()
	assert.Equal(t, []ids.WidgetID{w1}, woken)

	h.Drop()
	woken = nil
	v.Set(2)
	reg.Apply()
	assert.Empty(t, woken, "dropped handle no longer wakes")
	h.Drop() // idempotent
}

func TestContextVarResolution(t *testing.T) {
	reg := NewRegistry()
	cv := NewContextVar("FontSize", float32(14))

	assert.Equal(t, float32(14), cv.Get(), "default outside any scope")

	local := NewShared(reg, float32(18))
	cv.WithValue(local, func() {
		assert.Equal(t, float32(18), cv.Get())
		assert.True(t, cv.Caps().Has(CapModify))

		inner := NewShared(reg, float32(22))
		cv.WithValue(inner, func() {
			assert.Equal(t, float32(22), cv.Get())
			assert.Same(t, Var[float32](inner), cv.Current())
		})
		assert.Equal(t, float32(18), cv.Get())
	})
	assert.Equal(t, float32(14), cv.Get())
	assert.True(t, cv.Caps().Has(CapCapsChange))
}

func TestContextVarPopsOnPanic(t *testing.T) {
	reg := NewRegistry()
	cv := NewContextVar("N", 0)
	v := NewShared(reg, 1)

	assert.Panics(t, func() {
		cv.WithValue(v, func() { panic("x") })
	})
	assert.Equal(t, 0, cv.Get(), "scope popped on panic")
}

func TestAnimationDrivesVar(t *testing.T) {
	reg := NewRegistry()
	now := time.Unix(0, 0)
	reg.SetClock(func() time.Time { return now })

	v := NewShared(reg, float32(0))
	h := reg.Animate(func(a *AnimationArgs) {
		f := a.ElapsedFactor(100 * time.Millisecond)
		v.Set(f * 10)
		if f >= 1 {
			a.Stop()
		}
	})

	now = now.Add(50 * time.Millisecond)
	reg.UpdateAnimations()
	reg.Apply()
	assert.InDelta(t, 5, v.Get(), 0.001)
	assert.True(t, v.IsAnimating())

	now = now.Add(60 * time.Millisecond)
	reg.UpdateAnimations()
	reg.Apply()
	assert.InDelta(t, 10, v.Get(), 0.001)
	assert.False(t, reg.HasAnimations(), "animation stopped itself at the end")

	// direct writes clear the animating flag
	v.Set(3)
	reg.Apply()
	assert.False(t, v.IsAnimating())
	h.Drop()
}

func TestAnimationDropCancels(t *testing.T) {
	reg := NewRegistry()
	now := time.Unix(0, 0)
	reg.SetClock(func() time.Time { return now })

	v := NewShared(reg, 0)
	h := reg.Animate(func(a *AnimationArgs) {
		v.Modify(func(x *int) { *x++ })
	})

	reg.UpdateAnimations()
	reg.Apply()
	assert.Equal(t, 1, v.Get())

	h.Drop()
	reg.UpdateAnimations()
	reg.Apply()
	assert.Equal(t, 1, v.Get(), "var keeps its last value after cancellation")
	assert.False(t, reg.HasAnimations())
}
