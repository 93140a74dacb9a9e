// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"fmt"

	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/statemap"
)

// Builder constructs one info tree by walking the widget tree. For each
// widget the parent either calls [Builder.PushWidget] recursively or
// [Builder.PushWidgetReuse] to copy the subtree from the previous tree.
//
// Pushing the same widget id twice is a programmer error and panics.
type Builder struct {
	tree  *Tree
	prev  *Tree
	stack []*Node
}

// NewBuilder returns a builder for a new snapshot of the window,
// reusing subtrees from prev (may be nil on the first build).
func NewBuilder(window ids.WindowID, prev *Tree) *Builder {
	gen := uint64(1)
	if prev != nil {
		gen = prev.generation + 1
	}
	return &Builder{
		tree: &Tree{
			window:     window,
			generation: gen,
			lookup:     map[ids.WidgetID]*Node{},
		},
		prev: prev,
	}
}

func (b *Builder) current() *Node {
	if len(b.stack) == 0 {
		panic("info: builder operation outside PushWidget")
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) attach(n *Node) {
	if _, dup := b.tree.lookup[n.id]; dup {
		panic(fmt.Sprintf("info: widget %v appears twice in the info tree", n.id))
	}
	b.tree.lookup[n.id] = n
	if len(b.stack) == 0 {
		if b.tree.root != nil {
			panic("info: a tree has exactly one root widget")
		}
		b.tree.root = n
	} else {
		parent := b.current()
		n.parent = parent
		parent.children = append(parent.children, n)
	}
}

// PushWidget adds a node for the widget and runs f to build its
// subtree. The bounds and border records are shared by identity with
// the widget's layout data.
func (b *Builder) PushWidget(id ids.WidgetID, bounds *Bounds, border *Border, f func(b *Builder)) {
	if id == ids.WidgetInvalid {
		panic("info: invalid widget id")
	}
	if bounds == nil {
		bounds = &Bounds{}
	}
	if border == nil {
		border = &Border{}
	}
	n := &Node{tree: b.tree, id: id, bounds: bounds, border: border, meta: &statemap.Map{}}
	b.attach(n)
	b.stack = append(b.stack, n)
	defer func() {
		b.stack = b.stack[:len(b.stack)-1]
	}()
	if f != nil {
		f(b)
	}
}

// PushWidgetReuse copies the subtree rooted at the widget id from the
// previous tree, preserving node identity: bounds and border records,
// local interactivity, meta entries, and the interactivity filters the
// subtree registered. It reports false when the previous tree has no
// such widget, in which case the caller must rebuild with PushWidget.
func (b *Builder) PushWidgetReuse(id ids.WidgetID) bool {
	if b.prev == nil {
		return false
	}
	src := b.prev.Get(id)
	if src == nil {
		return false
	}
	b.reuse(src)
	return true
}

func (b *Builder) reuse(src *Node) {
	n := &Node{
		tree:   b.tree,
		id:     src.id,
		bounds: src.bounds,
		border: src.border,
		local:  src.local,
		meta:   src.meta,
	}
	b.attach(n)
	for _, tf := range b.prev.filters {
		if tf.owner == src.id {
			b.tree.filters = append(b.tree.filters, treeFilter{owner: src.id, f: tf.f})
		}
	}
	b.stack = append(b.stack, n)
	for _, c := range src.children {
		b.reuse(c)
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// PushInteractivity joins the given bits into the current widget's
// local interactivity.
func (b *Builder) PushInteractivity(bits Interactivity) {
	b.current().local = b.current().local.Or(bits)
}

// PushInteractivityFilter registers a tree-global filter owned by the
// current widget; it is evaluated lazily for every node.
func (b *Builder) PushInteractivityFilter(f Filter) {
	b.tree.filters = append(b.tree.filters, treeFilter{owner: b.current().id, f: f})
}

// Meta returns the current widget's metadata map for the build.
func (b *Builder) Meta() *statemap.Map { return b.current().meta }

// Finish publishes the snapshot. It panics if a PushWidget scope is
// still open or no root was pushed.
func (b *Builder) Finish() *Tree {
	if len(b.stack) != 0 {
		panic("info: Finish inside an open PushWidget scope")
	}
	if b.tree.root == nil {
		panic("info: empty info tree")
	}
	b.collectOutOfBounds()
	t := b.tree
	b.tree = nil
	return t
}

func (b *Builder) collectOutOfBounds() {
	b.tree.root.Walk(func(n *Node) bool {
		if n.parent == nil {
			return true
		}
		if !n.parent.InnerBounds().ContainsBox(n.OuterBounds()) {
			b.tree.oob = append(b.tree.oob, n)
		}
		return true
	})
}
