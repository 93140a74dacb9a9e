// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"fmt"
	"sync/atomic"

	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/statemap"
	"zenithui.org/zenith/vars"
)

// ScopeKind is the discriminant of a command [Scope].
type ScopeKind uint8

const (
	// ScopeApp is the wildcard scope: it matches every other scope.
	ScopeApp ScopeKind = iota

	// ScopeWindow scopes a command to one window.
	ScopeWindow

	// ScopeWidget scopes a command to one widget.
	ScopeWidget

	// ScopeCustom scopes a command to a user-defined (tag, n) pair.
	ScopeCustom
)

// Scope routes command updates: a delivery notified on scope S reaches
// an observer on scope O iff the scopes are equal or either side is the
// app scope.
type Scope struct {
	Kind   ScopeKind
	Window ids.WindowID
	Widget ids.WidgetID
	Tag    string
	N      uint64
}

// AppScope returns the wildcard app scope.
func AppScope() Scope { return Scope{Kind: ScopeApp} }

// WindowScope returns a scope for the given window.
func WindowScope(id ids.WindowID) Scope { return Scope{Kind: ScopeWindow, Window: id} }

// WidgetScope returns a scope for the given widget.
func WidgetScope(id ids.WidgetID) Scope { return Scope{Kind: ScopeWidget, Widget: id} }

// CustomScope returns a user-defined scope.
func CustomScope(tag string, n uint64) Scope { return Scope{Kind: ScopeCustom, Tag: tag, N: n} }

// Matches reports whether a delivery on scope s reaches an observer on
// scope o: exact match, or either side is the app wildcard.
func (s Scope) Matches(o Scope) bool {
	return s == o || s.Kind == ScopeApp || o.Kind == ScopeApp
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeApp:
		return "App"
	case ScopeWindow:
		return fmt.Sprintf("Window(%v)", s.Window)
	case ScopeWidget:
		return fmt.Sprintf("Widget(%v)", s.Widget)
	default:
		return fmt.Sprintf("Custom(%s,%d)", s.Tag, s.N)
	}
}

// CommandArgs is the argument type of every command event.
type CommandArgs struct {
	Base

	// Param is the optional dynamic parameter of the notification.
	Param any

	// Scope is the scope the notification targets.
	Scope Scope
}

// Command is an event specialized for UI actions: notifications carry an
// optional parameter and a scope, and each scope owns reactive metadata
// (enabled, has-handlers, name, info, shortcut, and user-defined
// entries) driven by the registry of live [CommandHandle] tokens.
type Command struct {
	ev     *Event[CommandArgs]
	reg    *vars.Registry
	root   *ScopedCommand
	scopes map[Scope]*ScopedCommand
}

// NewCommand returns a new command registered on the dispatcher, with
// metadata vars owned by the registry. The command itself is its app
// scope.
func NewCommand(d *Dispatcher, reg *vars.Registry, name string) *Command {
	c := &Command{
		ev:     New[CommandArgs](d, name),
		reg:    reg,
		scopes: map[Scope]*ScopedCommand{},
	}
	c.root = c.scoped(AppScope())
	c.root.SetName(name)
	return c
}

// Event returns the underlying event, e.g. for high-pressure checks.
func (c *Command) Event() *Event[CommandArgs] { return c.ev }

// Scoped returns the command view for the given scope, creating its
// metadata lazily. The app scope returns the root view.
func (c *Command) Scoped(s Scope) *ScopedCommand { return c.scoped(s) }

func (c *Command) scoped(s Scope) *ScopedCommand {
	if sc, ok := c.scopes[s]; ok {
		return sc
	}
	sc := &ScopedCommand{
		cmd:         c,
		scope:       s,
		enabled:     vars.NewShared(c.reg, false),
		hasHandlers: vars.NewShared(c.reg, false),
	}
	c.scopes[s] = sc
	return sc
}

// Root command convenience: the methods below delegate to the app scope.

// Notify stages a delivery on the app scope, reaching every observer.
func (c *Command) Notify(param any) { c.root.Notify(param) }

// Subscribe registers an app-scope observer, reached by every delivery.
func (c *Command) Subscribe(w ids.WidgetID, h func(args *CommandArgs)) *Handle {
	return c.root.Subscribe(w, h)
}

// NewHandle registers an app-scope handler token.
func (c *Command) NewHandle(enabled bool) *CommandHandle { return c.root.NewHandle(enabled) }

// Enabled returns the app scope's enabled variable.
func (c *Command) Enabled() vars.Var[bool] { return c.root.Enabled() }

// HasHandlers returns the app scope's has-handlers variable.
func (c *Command) HasHandlers() vars.Var[bool] { return c.root.HasHandlers() }

// ScopedCommand is one command as seen from one scope. It owns the
// scope's handle counters and metadata.
type ScopedCommand struct {
	cmd   *Command
	scope Scope

	// handle counters; atomics per the shared-resource policy, handles
	// may be held by background jobs.
	handleCount  atomic.Int64
	enabledCount atomic.Int64

	enabled     *vars.Shared[bool]
	hasHandlers *vars.Shared[bool]

	// meta holds scope-local metadata overrides; reads fall back to the
	// root scope's entries (copy-on-write).
	meta statemap.Map
}

// Scope returns the scope of this view.
func (sc *ScopedCommand) Scope() Scope { return sc.scope }

// Notify stages a delivery on this scope. It reaches observers whose
// scope matches per [Scope.Matches].
func (sc *ScopedCommand) Notify(param any) {
	sc.cmd.ev.Notify(CommandArgs{Param: param, Scope: sc.scope})
}

// Subscribe registers an observer on this scope: the handler runs for
// deliveries whose scope matches per [Scope.Matches].
func (sc *ScopedCommand) Subscribe(w ids.WidgetID, h func(args *CommandArgs)) *Handle {
	scope := sc.scope
	return sc.cmd.ev.Subscribe(w, func(a *CommandArgs) {
		if a.Scope.Matches(scope) {
			h(a)
		}
	})
}

// Enabled returns the scope's enabled variable: true while the scope has
// at least one live handle with enabled set. Transitions are staged
// through the var apply step, so observers see them in the next update
// pass.
func (sc *ScopedCommand) Enabled() vars.Var[bool] { return sc.enabled.ReadOnly() }

// HasHandlers returns the scope's has-handlers variable: true while the
// scope has at least one live handle.
func (sc *ScopedCommand) HasHandlers() vars.Var[bool] { return sc.hasHandlers.ReadOnly() }

// NewHandle registers a handler token for this scope. The number of live
// handles drives HasHandlers; the number of live enabled handles drives
// Enabled. Dropping the handle unregisters it.
func (sc *ScopedCommand) NewHandle(enabled bool) *CommandHandle {
	h := &CommandHandle{sc: sc}
	sc.handleCount.Add(1)
	if enabled {
		h.enabled = true
		sc.enabledCount.Add(1)
	}
	sc.syncVars()
	return h
}

// syncVars stages the handle-derived variables; SetNE makes crossings of
// zero the only observable transitions.
func (sc *ScopedCommand) syncVars() {
	sc.hasHandlers.SetNE(sc.handleCount.Load() > 0)
	sc.enabled.SetNE(sc.enabledCount.Load() > 0)
}

// CommandHandle is a ref-counted token representing one active handler
// of a command scope.
type CommandHandle struct {
	sc      *ScopedCommand
	enabled bool
	dropped bool
}

// IsEnabled reports whether this handle currently counts as enabled.
func (h *CommandHandle) IsEnabled() bool { return h != nil && h.enabled && !h.dropped }

// SetEnabled changes whether this handle counts towards the scope's
// enabled state.
func (h *CommandHandle) SetEnabled(enabled bool) {
	if h == nil || h.dropped || h.enabled == enabled {
		return
	}
	h.enabled = enabled
	if enabled {
		h.sc.enabledCount.Add(1)
	} else {
		h.sc.enabledCount.Add(-1)
	}
	h.sc.syncVars()
}

// Drop unregisters the handle. Idempotent and safe on nil.
func (h *CommandHandle) Drop() {
	if h == nil || h.dropped {
		return
	}
	h.dropped = true
	h.sc.handleCount.Add(-1)
	if h.enabled {
		h.sc.enabledCount.Add(-1)
	}
	h.sc.syncVars()
}
