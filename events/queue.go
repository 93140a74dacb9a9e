// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"sync"
	"sync/atomic"
)

// Queue is a lock-free FIFO freelist-based queue used to post work from
// background goroutines (IPC readers, worker pool results) into the app
// loop thread. It must be initialized with [Queue.Init] before use.
type Queue[T any] struct {
	head atomic.Pointer[queueNode[T]]
	tail atomic.Pointer[queueNode[T]]
	len  atomic.Uint64
	pool sync.Pool
}

type queueNode[T any] struct {
	next atomic.Pointer[queueNode[T]]
	v    T
}

// Init initializes the queue.
func (q *Queue[T]) Init() {
	head := &queueNode[T]{}
	q.head.Store(head)
	q.tail.Store(head)
	q.pool.New = func() any { return &queueNode[T]{} }
}

// Send adds a value to the end of the queue.
func (q *Queue[T]) Send(v T) {
	i := q.pool.Get().(*queueNode[T])
	i.next.Store(nil)
	i.v = v

	for {
		last := q.tail.Load()
		lastnext := last.next.Load()
		if q.tail.Load() != last {
			continue
		}
		if lastnext == nil {
			if last.next.CompareAndSwap(lastnext, i) {
				q.tail.CompareAndSwap(last, i)
				q.len.Add(1)
				return
			}
		} else {
			q.tail.CompareAndSwap(last, lastnext)
		}
	}
}

// Next removes and returns the next value in the queue.
// It reports false if the queue is empty.
func (q *Queue[T]) Next() (T, bool) {
	var zero T
	for {
		first := q.head.Load()
		last := q.tail.Load()
		firstnext := first.next.Load()
		if first != q.head.Load() {
			continue
		}
		if first == last {
			if firstnext == nil {
				return zero, false
			}
			q.tail.CompareAndSwap(last, firstnext)
		} else {
			v := firstnext.v
			if q.head.CompareAndSwap(first, firstnext) {
				q.len.Add(^uint64(0))
				first.v = zero
				q.pool.Put(first)
				return v, true
			}
		}
	}
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() uint64 { return q.len.Load() }
