// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package undo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackspaceMerge(t *testing.T) {
	text := "abcd"
	s := NewStack(DefaultMergeWindow)

	// two backspaces within the merge window coalesce to one step
	s.Push(NewBackspace(&text, 4, 1))
	s.Push(NewBackspace(&text, 3, 1))
	assert.Equal(t, "ab", text)
	assert.Equal(t, 1, s.Len())

	info, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "backspace", info)
	assert.Equal(t, "abcd", text, "one undo restores both deletions")

	_, ok = s.Undo()
	assert.False(t, ok)
}

func TestMergeWindowExpiry(t *testing.T) {
	text := "abcd"
	s := NewStack(DefaultMergeWindow)
	now := time.Now()
	s.SetClock(func() time.Time { return now })

	s.Push(NewBackspace(&text, 4, 1))
	now = now.Add(DefaultMergeWindow + time.Millisecond)
	s.Push(NewBackspace(&text, 3, 1))

	assert.Equal(t, 2, s.Len(), "outside the window, separate steps")
	s.Undo()
	assert.Equal(t, "abc", text)
	s.Undo()
	assert.Equal(t, "abcd", text)
}

func TestInsertMergeAndRedo(t *testing.T) {
	text := ""
	s := NewStack(DefaultMergeWindow)
	s.Push(NewInsert(&text, 0, "he"))
	s.Push(NewInsert(&text, 2, "llo"))
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, s.Len())

	s.Undo()
	assert.Equal(t, "", text)
	info, ok := s.Redo()
	require.True(t, ok)
	assert.Equal(t, "insert", info)
	assert.Equal(t, "hello", text)
}

func TestPushTruncatesRedoTail(t *testing.T) {
	text := ""
	s := NewStack(-1) // merging off
	s.Push(NewInsert(&text, 0, "a"))
	s.Push(NewInsert(&text, 1, "b"))
	s.Undo()
	assert.Equal(t, "a", text)

	s.Push(NewInsert(&text, 1, "c"))
	assert.Equal(t, "ac", text)
	assert.False(t, s.CanRedo())
	assert.Equal(t, 2, s.Len())
}

func TestNonAdjacentEditsDoNotMerge(t *testing.T) {
	text := "abcdef"
	s := NewStack(DefaultMergeWindow)
	s.Push(NewBackspace(&text, 6, 1))
	s.Push(NewBackspace(&text, 3, 1)) // not adjacent to the first
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "abde", text)
}
