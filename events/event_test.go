// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"zenithui.org/zenith/base/ids"
)

type clickArgs struct {
	Base
	Pos int
}

func TestNotifyThenDispatchInOrder(t *testing.T) {
	d := NewDispatcher()
	ev := New[clickArgs](d, "click")

	var got []string
	w := ids.NewWidgetID()
	ev.Subscribe(w, func(a *clickArgs) { got = append(got, "h1") })
	ev.Subscribe(w, func(a *clickArgs) { got = append(got, "h2") })

	ev.Notify(clickArgs{Pos: 1})
	assert.Empty(t, got, "deliveries are staged until dispatch")

	d.DispatchAll()
	assert.Equal(t, []string{"h1", "h2"}, got, "subscription order")
}

func TestNotifyOrderAcrossEvents(t *testing.T) {
	d := NewDispatcher()
	a := New[clickArgs](d, "a")
	b := New[clickArgs](d, "b")

	var got []string
	w := ids.NewWidgetID()
	a.Subscribe(w, func(*clickArgs) { got = append(got, "a") })
	b.Subscribe(w, func(*clickArgs) { got = append(got, "b") })

	b.Notify(clickArgs{})
	a.Notify(clickArgs{})
	d.DispatchAll()
	assert.Equal(t, []string{"b", "a"}, got, "notify order, not creation order")
}

func TestStopPropagationVisibleDownstream(t *testing.T) {
	d := NewDispatcher()
	ev := New[clickArgs](d, "click")
	w := ids.NewWidgetID()

	sawStopped := false
	ev.Subscribe(w, func(a *clickArgs) { a.StopPropagation() })
	ev.Subscribe(w, func(a *clickArgs) { sawStopped = a.PropagationStopped() })

	ev.Notify(clickArgs{})
	d.DispatchAll()
	assert.True(t, sawStopped, "downstream handlers still run and see the flag")
}

func TestHandleDropUnsubscribes(t *testing.T) {
	d := NewDispatcher()
	ev := New[clickArgs](d, "click")
	w := ids.NewWidgetID()

	n := 0
	h := ev.Subscribe(w, func(*clickArgs) { n++ })
	ev.Notify(clickArgs{})
	d.DispatchAll()
	h.Drop()
	ev.Notify(clickArgs{})
	d.DispatchAll()
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, ev.SubscriberCount())
}

func TestHighPressureCoalescing(t *testing.T) {
	d := NewDispatcher()
	move := NewHighPressure[clickArgs](d, "mouse-move", nil)
	w := ids.NewWidgetID()

	n := 0
	move.Subscribe(w, func(*clickArgs) { n++ })

	move.Notify(clickArgs{Pos: 5})
	move.Notify(clickArgs{Pos: 5}) // identical: merged
	move.Notify(clickArgs{Pos: 6}) // different: kept
	d.DispatchAll()
	assert.Equal(t, 2, n)

	// a new cycle never merges into a delivered entry
	move.Notify(clickArgs{Pos: 6})
	d.DispatchAll()
	assert.Equal(t, 3, n)
}

func TestHighPressureCustomMerge(t *testing.T) {
	d := NewDispatcher()
	// scroll deltas accumulate instead of comparing equal
	scroll := NewHighPressure(d, "scroll", func(prev, next clickArgs) (clickArgs, bool) {
		next.Pos += prev.Pos
		return next, true
	})
	w := ids.NewWidgetID()

	var got []int
	scroll.Subscribe(w, func(a *clickArgs) { got = append(got, a.Pos) })

	scroll.Notify(clickArgs{Pos: 1})
	scroll.Notify(clickArgs{Pos: 2})
	scroll.Notify(clickArgs{Pos: 3})
	d.DispatchAll()
	assert.Equal(t, []int{6}, got)
}

func TestOnNotifyHook(t *testing.T) {
	d := NewDispatcher()
	var hp []bool
	d.OnNotify(func(highPressure bool) { hp = append(hp, highPressure) })

	New[clickArgs](d, "a").Notify(clickArgs{})
	NewHighPressure[clickArgs](d, "b", nil).Notify(clickArgs{})
	assert.Equal(t, []bool{false, true}, hp)
	assert.True(t, d.HasPending())
	d.DispatchAll()
	assert.False(t, d.HasPending())
}

func TestQueueCrossThread(t *testing.T) {
	var q Queue[int]
	q.Init()

	const n = 1000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Send(i)
		}
	}()
	wg.Wait()

	prev := -1
	count := 0
	for {
		v, ok := q.Next()
		if !ok {
			break
		}
		assert.Equal(t, prev+1, v, "FIFO order")
		prev = v
		count++
	}
	assert.Equal(t, n, count)
	assert.Equal(t, uint64(0), q.Len())
}
