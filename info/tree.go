// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package info implements the widget info tree: an immutable snapshot of
// the widget tree's spatial and interactivity data, published at the end
// of each info pass. Trees are cheap to share (one pointer) and two
// consecutive trees may share subtrees by identity when a subtree was
// reused during the build.
//
// Info nodes reference widgets by id only and are resolved through the
// tree lookup; they never hold strong back-references, so widgets can be
// torn down before the next publication.
package info

import (
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/statemap"
)

// Tree is one published widget info snapshot for one window. The node
// structure is immutable after [Builder.Finish]; the shared [Bounds]
// records and the interactivity cache are the only mutable parts.
type Tree struct {
	window     ids.WindowID
	generation uint64
	root       *Node
	lookup     map[ids.WidgetID]*Node
	filters    []treeFilter
	filterGen  uint64
	oob        []*Node
}

type treeFilter struct {
	owner ids.WidgetID
	f     Filter
}

// Window returns the window the snapshot belongs to.
func (t *Tree) Window() ids.WindowID { return t.window }

// Generation returns the publication stamp; each build of a window's
// tree increments it.
func (t *Tree) Generation() uint64 { return t.generation }

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Get returns the node of the given widget, or nil.
func (t *Tree) Get(id ids.WidgetID) *Node { return t.lookup[id] }

// Len returns the number of widgets in the snapshot.
func (t *Tree) Len() int { return len(t.lookup) }

// OutOfBounds returns the nodes whose outer bounds extend outside their
// parent's inner bounds, kept separately for spatial queries.
func (t *Tree) OutOfBounds() []*Node { return t.oob }

// InvalidateInteractivity bumps the interactivity cache generation;
// cached node values are recomputed on next read. Call when any
// filter's input may have changed.
func (t *Tree) InvalidateInteractivity() { t.filterGen++ }

// WidgetAt returns the deepest widget whose inner bounds contain the
// point in window space, honoring inline negative space; nil if none.
func (t *Tree) WidgetAt(p geom.Vector2) *Node {
	if t.root == nil {
		return nil
	}
	// out-of-bounds nodes are tested first since the tree walk prunes
	// by parent bounds
	for i := len(t.oob) - 1; i >= 0; i-- {
		if n := t.oob[i].widgetAt(p, false); n != nil {
			return n
		}
	}
	return t.root.widgetAt(p, true)
}

// Node is one widget in a published tree.
type Node struct {
	tree     *Tree
	id       ids.WidgetID
	parent   *Node
	children []*Node

	bounds *Bounds
	border *Border
	local  Interactivity
	meta   *statemap.Map

	interCache Interactivity
	interGen   uint64 // filterGen+1 at cache time; 0 is never cached
}

// ID returns the widget id.
func (n *Node) ID() ids.WidgetID { return n.id }

// Tree returns the snapshot the node belongs to.
func (n *Node) Tree() *Tree { return n.tree }

// Parent returns the parent node, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in tree order; callers must not
// mutate the slice.
func (n *Node) Children() []*Node { return n.children }

// Bounds returns the shared bounds record.
func (n *Node) Bounds() *Bounds { return n.bounds }

// Border returns the shared border record.
func (n *Node) Border() *Border { return n.border }

// Meta returns the node's metadata state map.
func (n *Node) Meta() *statemap.Map { return n.meta }

// LocalInteractivity returns the bits pushed directly on this widget.
func (n *Node) LocalInteractivity() Interactivity { return n.local }

// Interactivity returns the effective interaction state: the join of
// the local bits, the parent's interactivity, and every tree filter's
// output for this node. The value is cached per node and invalidated by
// [Tree.InvalidateInteractivity].
func (n *Node) Interactivity() Interactivity {
	gen := n.tree.filterGen + 1
	if n.interGen == gen {
		return n.interCache
	}
	v := n.local
	if n.parent != nil {
		v = v.Or(n.parent.Interactivity())
	}
	for _, tf := range n.tree.filters {
		v = v.Or(tf.f(n))
	}
	n.interCache = v
	n.interGen = gen
	return v
}

// OuterBounds returns the widget's outer bounds in window space,
// accumulated from the ancestor offsets.
func (n *Node) OuterBounds() geom.Box2 {
	origin := n.bounds.OuterOffset
	for p := n.parent; p != nil; p = p.parent {
		origin = origin.Add(p.bounds.OuterOffset).Add(p.bounds.InnerOffset)
	}
	return geom.FromOriginSize(origin, n.bounds.OuterSize)
}

// InnerBounds returns the widget's inner bounds in window space.
func (n *Node) InnerBounds() geom.Box2 {
	ob := n.OuterBounds()
	return geom.FromOriginSize(ob.Min.Add(n.bounds.InnerOffset), n.bounds.InnerSize)
}

// IsCollapsed reports whether the widget is collapsed.
func (n *Node) IsCollapsed() bool { return n.bounds.Collapsed }

// Collapse collapses the widget and all of its descendants uniformly:
// sizes and offsets zero, no render. O(descendants).
func (n *Node) Collapse() {
	n.bounds.SetCollapsed(true)
	for _, c := range n.children {
		c.Collapse()
	}
}

// Walk calls f for the node and every descendant in tree order,
// pruning a subtree when f returns false.
func (n *Node) Walk(f func(n *Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(f)
	}
}

func (n *Node) widgetAt(p geom.Vector2, pruneByBounds bool) *Node {
	if n.bounds.Collapsed {
		return nil
	}
	inner := n.InnerBounds()
	hit := inner.Contains(p)
	if hit && n.bounds.Inline != nil {
		hit = n.bounds.Inline.HitTest(p.Sub(inner.Min))
	}
	if !hit && pruneByBounds {
		return nil
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if c := n.children[i].widgetAt(p, true); c != nil {
			return c
		}
	}
	if hit {
		return n
	}
	return nil
}
