// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package undo implements the reversible-edit stack: each edit is an
// [Op] that knows how to redo and undo itself, and consecutive
// compatible ops recorded within the merge window coalesce into one
// undo step.
package undo

import "time"

// DefaultMergeWindow is the interval within which compatible
// consecutive ops merge into one step.
const DefaultMergeWindow = 300 * time.Millisecond

// Op is one reversible edit.
type Op interface {
	// Redo applies the edit. It is called once when the op is pushed
	// and again on every redo.
	Redo()

	// Undo reverts the edit.
	Undo()

	// Info returns a short user-visible description, e.g. "backspace".
	Info() string

	// Merge folds next into the receiver when the two are compatible
	// and reports whether it did. next has already been applied.
	Merge(next Op) bool
}

type record struct {
	op Op
	at time.Time
}

// Stack is an undo/redo history. The zero value is ready to use with
// the default merge window.
type Stack struct {
	recs []record
	idx  int // number of applied records; recs[idx:] are redoable

	// MergeWindow overrides [DefaultMergeWindow]; zero means default,
	// negative disables merging.
	MergeWindow time.Duration

	now func() time.Time
}

// NewStack returns a stack with the given merge window.
func NewStack(mergeWindow time.Duration) *Stack {
	return &Stack{MergeWindow: mergeWindow}
}

// SetClock replaces the merge clock; for tests.
func (s *Stack) SetClock(now func() time.Time) { s.now = now }

func (s *Stack) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Stack) window() time.Duration {
	if s.MergeWindow == 0 {
		return DefaultMergeWindow
	}
	return s.MergeWindow
}

// Push applies the op and records it, truncating any redoable tail.
// When the previous step is within the merge window and accepts the
// op, the two become one step.
func (s *Stack) Push(op Op) {
	op.Redo()
	now := s.clock()
	s.recs = s.recs[:s.idx]
	if s.idx > 0 && s.window() > 0 {
		last := &s.recs[s.idx-1]
		if now.Sub(last.at) <= s.window() && last.op.Merge(op) {
			last.at = now
			return
		}
	}
	s.recs = append(s.recs, record{op: op, at: now})
	s.idx++
}

// Undo reverts one step and returns its description; ok is false when
// there is nothing to undo.
func (s *Stack) Undo() (info string, ok bool) {
	if s.idx == 0 {
		return "", false
	}
	s.idx--
	op := s.recs[s.idx].op
	op.Undo()
	return op.Info(), true
}

// Redo reapplies one undone step.
func (s *Stack) Redo() (info string, ok bool) {
	if s.idx >= len(s.recs) {
		return "", false
	}
	op := s.recs[s.idx].op
	s.idx++
	op.Redo()
	return op.Info(), true
}

// CanUndo reports whether a step is available to undo.
func (s *Stack) CanUndo() bool { return s.idx > 0 }

// CanRedo reports whether a step is available to redo.
func (s *Stack) CanRedo() bool { return s.idx < len(s.recs) }

// Len returns the number of recorded steps.
func (s *Stack) Len() int { return len(s.recs) }

// Clear drops the whole history.
func (s *Stack) Clear() {
	s.recs = nil
	s.idx = 0
}
