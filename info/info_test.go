// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/statemap"
)

// buildSimple builds root > (a, b > c) with fixed bounds.
func buildSimple(t *testing.T, win ids.WindowID, prev *Tree, root, a, b, c ids.WidgetID) *Tree {
	t.Helper()
	bld := NewBuilder(win, prev)
	bld.PushWidget(root, &Bounds{OuterSize: geom.Vec2(100, 100), InnerSize: geom.Vec2(100, 100)}, nil, func(bld *Builder) {
		bld.PushWidget(a, &Bounds{OuterSize: geom.Vec2(10, 10), InnerSize: geom.Vec2(10, 10)}, nil, nil)
		bld.PushWidget(b, &Bounds{
			OuterOffset: geom.Vec2(20, 20),
			OuterSize:   geom.Vec2(50, 50), InnerSize: geom.Vec2(50, 50),
		}, nil, func(bld *Builder) {
			bld.PushWidget(c, &Bounds{OuterSize: geom.Vec2(5, 5), InnerSize: geom.Vec2(5, 5)}, nil, nil)
		})
	})
	return bld.Finish()
}

func TestBuildAndLookup(t *testing.T) {
	win := ids.NewWindowID()
	root, a, b, c := ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID()
	tree := buildSimple(t, win, nil, root, a, b, c)

	assert.Equal(t, win, tree.Window())
	assert.Equal(t, uint64(1), tree.Generation())
	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, root, tree.Root().ID())
	assert.Equal(t, b, tree.Get(c).Parent().ID())
	assert.Len(t, tree.Root().Children(), 2)
}

func TestDuplicateIDPanics(t *testing.T) {
	id := ids.NewWidgetID()
	bld := NewBuilder(ids.NewWindowID(), nil)
	assert.Panics(t, func() {
		bld.PushWidget(ids.NewWidgetID(), nil, nil, func(bld *Builder) {
			bld.PushWidget(id, nil, nil, nil)
			bld.PushWidget(id, nil, nil, nil)
		})
	})
}

func TestReusePreservesSubtree(t *testing.T) {
	win := ids.NewWindowID()
	root, a, b, c := ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID()

	key := statemap.NewKey[string]("Tip")
	bld := NewBuilder(win, nil)
	bBounds := &Bounds{OuterOffset: geom.Vec2(20, 20), OuterSize: geom.Vec2(50, 50), InnerSize: geom.Vec2(50, 50)}
	bld.PushWidget(root, &Bounds{OuterSize: geom.Vec2(100, 100), InnerSize: geom.Vec2(100, 100)}, nil, func(bld *Builder) {
		bld.PushWidget(a, nil, nil, nil)
		bld.PushWidget(b, bBounds, nil, func(bld *Builder) {
			bld.PushInteractivity(Disabled)
			statemap.Set(bld.Meta(), key, "hello")
			bld.PushInteractivityFilter(func(n *Node) Interactivity {
				if n.ID() == c {
					return Blocked
				}
				return Enabled
			})
			bld.PushWidget(c, nil, nil, nil)
		})
	})
	prev := bld.Finish()

	bld = NewBuilder(win, prev)
	bld.PushWidget(root, prev.Get(root).Bounds(), nil, func(bld *Builder) {
		bld.PushWidget(a, nil, nil, nil)
		assert.True(t, bld.PushWidgetReuse(b))
	})
	next := bld.Finish()

	assert.Equal(t, uint64(2), next.Generation())
	nb := next.Get(b)
	assert.Same(t, bBounds, nb.Bounds(), "bounds are shared by identity")
	assert.Equal(t, Disabled, nb.LocalInteractivity())
	v, ok := statemap.Get(nb.Meta(), key)
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.Equal(t, c, nb.Children()[0].ID())
	assert.Equal(t, Disabled|Blocked, next.Get(c).Interactivity(),
		"reused subtree keeps its interactivity filters")
}

func TestReuseMissingAndDuplicate(t *testing.T) {
	win := ids.NewWindowID()
	root, a, b, c := ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID()
	prev := buildSimple(t, win, nil, root, a, b, c)

	bld := NewBuilder(win, prev)
	bld.PushWidget(root, nil, nil, func(bld *Builder) {
		assert.False(t, bld.PushWidgetReuse(ids.NewWidgetID()), "unknown widget cannot be reused")
		assert.True(t, bld.PushWidgetReuse(b))
		assert.Panics(t, func() { bld.PushWidgetReuse(b) }, "same id twice fails fast")
	})
}

func TestInteractivityLattice(t *testing.T) {
	win := ids.NewWindowID()
	root, a, b, c := ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID()

	bld := NewBuilder(win, nil)
	bld.PushWidget(root, nil, nil, func(bld *Builder) {
		bld.PushWidget(a, nil, nil, nil)
		bld.PushWidget(b, nil, nil, func(bld *Builder) {
			bld.PushInteractivity(Disabled)
			bld.PushWidget(c, nil, nil, nil)
		})
	})
	tree := bld.Finish()

	assert.True(t, tree.Get(a).Interactivity().IsEnabled())
	assert.Equal(t, Disabled, tree.Get(b).Interactivity())
	assert.Equal(t, Disabled, tree.Get(c).Interactivity(), "restrictions inherit down")
	assert.True(t, tree.Get(c).Interactivity().IsDisabled())
	assert.False(t, tree.Get(c).Interactivity().IsBlocked())
}

func TestInteractivityFilterAndInvalidate(t *testing.T) {
	win := ids.NewWindowID()
	root, a := ids.NewWidgetID(), ids.NewWidgetID()

	blockAll := false
	bld := NewBuilder(win, nil)
	bld.PushWidget(root, nil, nil, func(bld *Builder) {
		bld.PushInteractivityFilter(func(n *Node) Interactivity {
			if blockAll {
				return Blocked
			}
			return Enabled
		})
		bld.PushWidget(a, nil, nil, nil)
	})
	tree := bld.Finish()

	assert.True(t, tree.Get(a).Interactivity().IsEnabled())

	blockAll = true
	assert.True(t, tree.Get(a).Interactivity().IsEnabled(), "cached until invalidated")
	tree.InvalidateInteractivity()
	assert.True(t, tree.Get(a).Interactivity().IsBlocked())
	assert.True(t, tree.Get(root).Interactivity().IsBlocked())
}

func TestCollapseZeroesDescendants(t *testing.T) {
	win := ids.NewWindowID()
	root, a, b, c := ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID()
	tree := buildSimple(t, win, nil, root, a, b, c)

	tree.Get(b).Collapse()
	for _, id := range []ids.WidgetID{b, c} {
		n := tree.Get(id)
		assert.True(t, n.IsCollapsed())
		assert.True(t, n.Bounds().OuterSize.IsZero())
		assert.True(t, n.Bounds().InnerSize.IsZero())
	}
	assert.False(t, tree.Get(a).IsCollapsed())
}

func TestOutOfBounds(t *testing.T) {
	win := ids.NewWindowID()
	root, a := ids.NewWidgetID(), ids.NewWidgetID()

	bld := NewBuilder(win, nil)
	bld.PushWidget(root, &Bounds{OuterSize: geom.Vec2(100, 100), InnerSize: geom.Vec2(100, 100)}, nil, func(bld *Builder) {
		bld.PushWidget(a, &Bounds{
			OuterOffset: geom.Vec2(90, 90),
			OuterSize:   geom.Vec2(50, 50), InnerSize: geom.Vec2(50, 50),
		}, nil, nil)
	})
	tree := bld.Finish()

	if assert.Len(t, tree.OutOfBounds(), 1) {
		assert.Equal(t, a, tree.OutOfBounds()[0].ID())
	}
	// hit inside the overflowing part
	n := tree.WidgetAt(geom.Vec2(120, 120))
	if assert.NotNil(t, n) {
		assert.Equal(t, a, n.ID())
	}
}

func TestWidgetAt(t *testing.T) {
	win := ids.NewWindowID()
	root, a, b, c := ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID(), ids.NewWidgetID()
	tree := buildSimple(t, win, nil, root, a, b, c)

	assert.Equal(t, a, tree.WidgetAt(geom.Vec2(5, 5)).ID())
	assert.Equal(t, c, tree.WidgetAt(geom.Vec2(22, 22)).ID(), "deepest hit wins")
	assert.Equal(t, b, tree.WidgetAt(geom.Vec2(60, 60)).ID())
	assert.Equal(t, root, tree.WidgetAt(geom.Vec2(90, 5)).ID())
	assert.Nil(t, tree.WidgetAt(geom.Vec2(500, 500)))
}

func TestInlineNegativeSpace(t *testing.T) {
	ii := &InlineInfo{}
	// two rows: first starts at x=30 (mid-line), second full width
	ii.SetRows([]geom.Box2{
		geom.B2(30, 0, 100, 20),
		geom.B2(0, 20, 60, 40),
	})

	assert.Equal(t, geom.B2(0, 0, 100, 40), ii.InnerBounds)
	neg := ii.NegativeSpace()
	assert.Contains(t, neg, geom.B2(0, 0, 30, 20), "gap before the first row")
	assert.Contains(t, neg, geom.B2(60, 20, 100, 40), "gap after the last row")

	assert.True(t, ii.HitTest(geom.Vec2(50, 10)))
	assert.False(t, ii.HitTest(geom.Vec2(10, 10)), "negative space misses")
	assert.True(t, ii.HitTest(geom.Vec2(10, 30)))
	assert.False(t, ii.HitTest(geom.Vec2(80, 30)))

	// cache invalidation
	ii.SetRows([]geom.Box2{geom.B2(0, 0, 10, 10)})
	assert.True(t, ii.HitTest(geom.Vec2(5, 5)))
	assert.Empty(t, ii.NegativeSpace())
}
