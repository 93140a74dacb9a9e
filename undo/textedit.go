// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package undo

// TextEdit is a reversible replacement of text[Pos:Pos+len(Removed)]
// with Inserted, against a shared text buffer.
type TextEdit struct {
	Text     *string
	Pos      int
	Removed  string
	Inserted string

	kind string
}

// NewInsert returns an op inserting text at pos.
func NewInsert(buf *string, pos int, text string) *TextEdit {
	return &TextEdit{Text: buf, Pos: pos, Inserted: text, kind: "insert"}
}

// NewBackspace returns an op deleting n runes ending at pos.
func NewBackspace(buf *string, pos, n int) *TextEdit {
	start := pos - n
	if start < 0 {
		start = 0
	}
	return &TextEdit{Text: buf, Pos: start, Removed: (*buf)[start:pos], kind: "backspace"}
}

func (e *TextEdit) Redo() {
	t := *e.Text
	*e.Text = t[:e.Pos] + e.Inserted + t[e.Pos+len(e.Removed):]
}

func (e *TextEdit) Undo() {
	t := *e.Text
	*e.Text = t[:e.Pos] + e.Removed + t[e.Pos+len(e.Inserted):]
}

func (e *TextEdit) Info() string { return e.kind }

// Merge folds a consecutive edit of the same kind: typing runs join
// into one insert, consecutive backspaces join into one delete.
func (e *TextEdit) Merge(next Op) bool {
	n, ok := next.(*TextEdit)
	if !ok || n.Text != e.Text || n.kind != e.kind {
		return false
	}
	switch e.kind {
	case "insert":
		if n.Removed == "" && n.Pos == e.Pos+len(e.Inserted) {
			e.Inserted += n.Inserted
			return true
		}
	case "backspace":
		if n.Inserted == "" && n.Pos+len(n.Removed) == e.Pos {
			e.Pos = n.Pos
			e.Removed = n.Removed + e.Removed
			return true
		}
	}
	return false
}
