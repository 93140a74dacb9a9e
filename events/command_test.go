// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/vars"
)

func newTestCommand(t *testing.T) (*Dispatcher, *vars.Registry, *Command) {
	t.Helper()
	d := NewDispatcher()
	reg := vars.NewRegistry()
	return d, reg, NewCommand(d, reg, "test.copy")
}

func TestScopeMatching(t *testing.T) {
	w := ids.NewWindowID()
	w2 := ids.NewWindowID()

	assert.True(t, AppScope().Matches(AppScope()))
	assert.True(t, AppScope().Matches(WindowScope(w)), "app is the wildcard")
	assert.True(t, WindowScope(w).Matches(AppScope()))
	assert.True(t, WindowScope(w).Matches(WindowScope(w)))
	assert.False(t, WindowScope(w).Matches(WindowScope(w2)))
	assert.False(t, WidgetScope(ids.NewWidgetID()).Matches(WindowScope(w)))
	assert.False(t, CustomScope("x", 1).Matches(CustomScope("x", 2)))
	assert.True(t, CustomScope("x", 1).Matches(CustomScope("x", 1)))
}

func TestScopedDelivery(t *testing.T) {
	d, _, cmd := newTestCommand(t)
	win := ids.NewWindowID()
	other := ids.NewWindowID()
	w := ids.NewWidgetID()

	var got []string
	cmd.Subscribe(w, func(*CommandArgs) { got = append(got, "app") })
	cmd.Scoped(WindowScope(win)).Subscribe(w, func(*CommandArgs) { got = append(got, "win") })
	cmd.Scoped(WindowScope(other)).Subscribe(w, func(*CommandArgs) { got = append(got, "other") })

	cmd.Scoped(WindowScope(win)).Notify(nil)
	d.DispatchAll()
	assert.Equal(t, []string{"app", "win"}, got,
		"scoped delivery reaches matching scope and the app wildcard only")

	got = nil
	cmd.Notify("param")
	d.DispatchAll()
	assert.Equal(t, []string{"app", "win", "other"}, got,
		"app-scope delivery reaches every observer")
}

func TestCommandParam(t *testing.T) {
	d, _, cmd := newTestCommand(t)
	var param any
	cmd.Subscribe(ids.NewWidgetID(), func(a *CommandArgs) { param = a.Param })
	cmd.Notify(42)
	d.DispatchAll()
	assert.Equal(t, 42, param)
}

func TestEnabledTransitions(t *testing.T) {
	_, reg, cmd := newTestCommand(t)
	win := ids.NewWindowID()
	sc := cmd.Scoped(WindowScope(win))

	transitions := 0
	enabled := sc.Enabled()

	assert.False(t, enabled.Get())

	h := sc.NewHandle(true)
	reg.Apply()
	assert.True(t, enabled.Get())
	if enabled.IsNew() {
		transitions++
	}
	reg.Apply()
	assert.False(t, enabled.IsNew())
	assert.Equal(t, 1, transitions, "false->true observed exactly once")

	// a second enabled handle does not transition again
	h2 := sc.NewHandle(true)
	reg.Apply()
	assert.False(t, enabled.IsNew())
	assert.True(t, enabled.Get())

	h2.Drop()
	reg.Apply()
	assert.True(t, enabled.Get(), "one enabled handle remains")

	h.Drop()
	reg.Apply()
	assert.False(t, enabled.Get())
	assert.True(t, enabled.IsNew(), "true->false observed")
}

func TestEnabledIsScoped(t *testing.T) {
	_, reg, cmd := newTestCommand(t)
	win := ids.NewWindowID()
	other := ids.NewWindowID()

	h := cmd.Scoped(WindowScope(win)).NewHandle(true)
	reg.Apply()

	assert.True(t, cmd.Scoped(WindowScope(win)).Enabled().Get())
	assert.False(t, cmd.Scoped(WindowScope(other)).Enabled().Get())
	assert.False(t, cmd.Enabled().Get(), "app scope has no handles of its own")

	h.Drop()
	reg.Apply()
	assert.False(t, cmd.Scoped(WindowScope(win)).Enabled().Get())
}

func TestHasHandlers(t *testing.T) {
	_, reg, cmd := newTestCommand(t)
	hh := cmd.HasHandlers()
	assert.False(t, hh.Get())

	h := cmd.NewHandle(false)
	reg.Apply()
	assert.True(t, hh.Get(), "a disabled handle still counts as a handler")
	assert.False(t, cmd.Enabled().Get())

	h.SetEnabled(true)
	reg.Apply()
	assert.True(t, cmd.Enabled().Get())

	h.SetEnabled(false)
	reg.Apply()
	assert.False(t, cmd.Enabled().Get())
	assert.True(t, hh.Get())

	h.Drop()
	reg.Apply()
	assert.False(t, hh.Get())
	h.Drop() // idempotent
	reg.Apply()
	assert.False(t, hh.Get())
}

func TestHasHandlersScoped(t *testing.T) {
	_, reg, cmd := newTestCommand(t)
	a := ids.NewWidgetID()
	b := ids.NewWidgetID()

	ha := cmd.Scoped(WidgetScope(a)).NewHandle(false)
	reg.Apply()
	assert.True(t, cmd.Scoped(WidgetScope(a)).HasHandlers().Get())
	assert.False(t, cmd.Scoped(WidgetScope(b)).HasHandlers().Get())
	assert.False(t, cmd.HasHandlers().Get(),
		"scoped handles do not count for the app scope")

	ha.Drop()
	reg.Apply()
	assert.False(t, cmd.Scoped(WidgetScope(a)).HasHandlers().Get())
}

func TestMetadataCopyOnWrite(t *testing.T) {
	_, reg, cmd := newTestCommand(t)
	win := ids.NewWindowID()
	sc := cmd.Scoped(WindowScope(win))

	reg.Apply()
	assert.Equal(t, "test.copy", cmd.Scoped(AppScope()).Name())
	assert.Equal(t, "test.copy", sc.Name(), "scopes inherit the root metadata")

	// root write is seen by scopes that never overrode
	cmd.Scoped(AppScope()).SetName("Copy")
	reg.Apply()
	assert.Equal(t, "Copy", sc.Name())

	// scope write creates a local override
	sc.SetName("Copy Here")
	reg.Apply()
	assert.Equal(t, "Copy Here", sc.Name())
	assert.Equal(t, "Copy", cmd.Scoped(AppScope()).Name())

	// root writes no longer affect the overriding scope
	cmd.Scoped(AppScope()).SetName("Copy All")
	reg.Apply()
	assert.Equal(t, "Copy Here", sc.Name())

	// other scopes keep inheriting
	assert.Equal(t, "Copy All", cmd.Scoped(WindowScope(ids.NewWindowID())).Name())
}

func TestMetadataCustomKeys(t *testing.T) {
	_, reg, cmd := newTestCommand(t)
	weight := NewMetaKey[int]("Weight")
	sc := cmd.Scoped(WidgetScope(ids.NewWidgetID()))

	assert.Equal(t, 7, Meta(sc, weight, 7).Get(), "default when never written")

	SetMeta(cmd.Scoped(AppScope()), weight, 1)
	reg.Apply()
	assert.Equal(t, 1, Meta(sc, weight, 7).Get())

	SetMeta(sc, weight, 2)
	reg.Apply()
	assert.Equal(t, 2, Meta(sc, weight, 7).Get())
	assert.Equal(t, 1, Meta(cmd.Scoped(AppScope()), weight, 7).Get())
}

func TestShortcutAndInfoMetadata(t *testing.T) {
	_, reg, cmd := newTestCommand(t)
	cmd.Scoped(AppScope()).SetShortcut("Command+C")
	cmd.Scoped(AppScope()).SetInfo("Copy the selection.")
	reg.Apply()
	sc := cmd.Scoped(WindowScope(ids.NewWindowID()))
	assert.Equal(t, "Command+C", sc.ShortcutVar().Get())
	assert.Equal(t, "Copy the selection.", sc.InfoVar().Get())
}
