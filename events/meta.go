// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"zenithui.org/zenith/base/statemap"
	"zenithui.org/zenith/vars"
)

// MetaKey identifies one command metadata entry with value type T.
// Create once with [NewMetaKey] and share.
type MetaKey[T any] struct {
	key statemap.Key[*vars.Shared[T]]
}

// NewMetaKey returns a new metadata key; the name is diagnostic only.
func NewMetaKey[T any](name string) MetaKey[T] {
	return MetaKey[T]{key: statemap.NewKey[*vars.Shared[T]](name)}
}

// Standard metadata keys.
var (
	metaName     = NewMetaKey[string]("Name")
	metaInfo     = NewMetaKey[string]("Info")
	metaShortcut = NewMetaKey[string]("Shortcut")
)

// SetMeta writes a metadata entry on the scope. Writing on a non-root
// scope creates a scope-local override (copy-on-write); the root's entry
// keeps serving every scope that never overrode.
func SetMeta[T any](sc *ScopedCommand, key MetaKey[T], value T) {
	if local, ok := statemap.Get(&sc.meta, key.key); ok {
		local.Set(value)
		return
	}
	v := vars.NewShared(sc.cmd.reg, value)
	statemap.Set(&sc.meta, key.key, v)
}

// Meta returns the metadata entry variable seen from the scope: the
// scope-local override if one exists, the root scope's entry otherwise,
// or a constant def if neither was ever written.
func Meta[T any](sc *ScopedCommand, key MetaKey[T], def T) vars.Var[T] {
	if local, ok := statemap.Get(&sc.meta, key.key); ok {
		return local.ReadOnly()
	}
	root := sc.cmd.root
	if sc != root {
		if rv, ok := statemap.Get(&root.meta, key.key); ok {
			return rv.ReadOnly()
		}
	}
	return vars.Owned(def)
}

// SetName sets the display name metadata of the scope.
func (sc *ScopedCommand) SetName(name string) { SetMeta(sc, metaName, name) }

// NameVar returns the display name variable seen from the scope.
func (sc *ScopedCommand) NameVar() vars.Var[string] { return Meta(sc, metaName, "") }

// Name returns the current display name seen from the scope.
func (sc *ScopedCommand) Name() string { return sc.NameVar().Get() }

// SetInfo sets the long help metadata of the scope.
func (sc *ScopedCommand) SetInfo(info string) { SetMeta(sc, metaInfo, info) }

// InfoVar returns the long help variable seen from the scope.
func (sc *ScopedCommand) InfoVar() vars.Var[string] { return Meta(sc, metaInfo, "") }

// SetShortcut sets the shortcut metadata of the scope, as a chord string.
func (sc *ScopedCommand) SetShortcut(chord string) { SetMeta(sc, metaShortcut, chord) }

// ShortcutVar returns the shortcut variable seen from the scope.
func (sc *ScopedCommand) ShortcutVar() vars.Var[string] { return Meta(sc, metaShortcut, "") }
