// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import "strings"

// Interactivity is the interaction state lattice of a widget.
// [Enabled] is the empty set; [Disabled] and [Blocked] are restriction
// bits combined with bitwise or, so an ancestor or filter can only ever
// restrict, never re-enable.
type Interactivity uint8

const (
	// Enabled allows all interaction; it is the zero value.
	Enabled Interactivity = 0

	// Disabled widgets render (usually grayed) but do not receive
	// interaction events.
	Disabled Interactivity = 1 << 0

	// Blocked widgets do not receive interaction events because another
	// widget (e.g. a modal overlay) intercepts them.
	Blocked Interactivity = 1 << 1
)

// Or returns the lattice join of the two values.
func (i Interactivity) Or(o Interactivity) Interactivity { return i | o }

// IsEnabled reports whether no restriction bit is set.
func (i Interactivity) IsEnabled() bool { return i == Enabled }

// IsDisabled reports whether the disabled bit is set.
func (i Interactivity) IsDisabled() bool { return i&Disabled != 0 }

// IsBlocked reports whether the blocked bit is set.
func (i Interactivity) IsBlocked() bool { return i&Blocked != 0 }

func (i Interactivity) String() string {
	if i == Enabled {
		return "ENABLED"
	}
	var parts []string
	if i.IsDisabled() {
		parts = append(parts, "DISABLED")
	}
	if i.IsBlocked() {
		parts = append(parts, "BLOCKED")
	}
	return strings.Join(parts, "|")
}

// Filter restricts interactivity tree-wide: it is called lazily for a
// node and its result is joined into the node's interactivity. Filters
// must be pure with respect to one cache generation; when an input
// changes, bump the generation with [Tree.InvalidateInteractivity].
type Filter func(n *Node) Interactivity
