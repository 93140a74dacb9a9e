// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events implements the typed broadcast events and scoped
// commands of the Zenith app process. Notifying an event stages one
// delivery on the [Dispatcher]; deliveries are applied in notify order
// during the event dispatch cycle that precedes each update pass, and
// within one delivery subscribers are called in subscription order.
package events

import (
	"reflect"

	"zenithui.org/zenith/base/ids"
)

// Base is the embeddable portion of event argument types. It carries the
// propagation flag: a handler may call StopPropagation to mark the args,
// downstream handlers still receive the delivery and are expected to
// honor the flag.
type Base struct {
	stopped bool
}

// StopPropagation marks the delivery as stopped for downstream handlers.
func (b *Base) StopPropagation() { b.stopped = true }

// PropagationStopped reports whether an upstream handler stopped the
// delivery.
func (b *Base) PropagationStopped() bool { return b.stopped }

// Dispatcher owns the staged deliveries of all events of one app
// process, in notify order. It must only be used from the app loop
// thread; cross-thread producers post through [Queue] and the app loop.
type Dispatcher struct {
	pending  []*pendingDelivery
	onNotify func(highPressure bool)
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// OnNotify sets the hook called when a delivery is staged, so the app
// loop can schedule a dispatch cycle. High-pressure events report
// highPressure true and are expected to be handled in the alternate
// update band.
func (d *Dispatcher) OnNotify(f func(highPressure bool)) { d.onNotify = f }

// HasPending reports whether any deliveries are staged.
func (d *Dispatcher) HasPending() bool { return len(d.pending) > 0 }

// DispatchAll applies every staged delivery in notify order. Deliveries
// staged by handlers run in the next cycle.
func (d *Dispatcher) DispatchAll() {
	pending := d.pending
	d.pending = nil
	for _, p := range pending {
		p.deliver()
	}
}

type pendingDelivery struct {
	source  any // the *Event[A] that staged this delivery
	args    any
	deliver func()
}

// Event is a typed broadcast channel with argument type A. Handlers
// receive a pointer to the staged args, so the [Base] propagation flag
// set by one handler is visible to the handlers after it.
type Event[A any] struct {
	name         string
	d            *Dispatcher
	highPressure bool
	merge        func(prev, next A) (A, bool)
	subs         []*eventSub[A]
	last         *pendingDelivery
}

type eventSub[A any] struct {
	widget  ids.WidgetID
	handler func(args *A)
	dropped bool
}

// New returns a new event registered on the dispatcher.
func New[A any](d *Dispatcher, name string) *Event[A] {
	return &Event[A]{name: name, d: d}
}

// NewHighPressure returns an event in the high-pressure band, for
// high-frequency input such as raw mouse motion. Coalescing is enabled:
// consecutive staged deliveries whose args are equal under
// [reflect.DeepEqual] are merged to one within a dispatch cycle. Pass a
// merge function to customize (return the merged args and true to
// coalesce); pass nil for the default.
func NewHighPressure[A any](d *Dispatcher, name string, merge func(prev, next A) (A, bool)) *Event[A] {
	if merge == nil {
		merge = func(prev, next A) (A, bool) {
			return next, reflect.DeepEqual(prev, next)
		}
	}
	return &Event[A]{name: name, d: d, highPressure: true, merge: merge}
}

// Name returns the diagnostic name of the event.
func (e *Event[A]) Name() string { return e.name }

// IsHighPressure reports whether the event opted into the alternate
// high-frequency update band.
func (e *Event[A]) IsHighPressure() bool { return e.highPressure }

// Notify stages one delivery of the given args.
func (e *Event[A]) Notify(args A) {
	if e.highPressure && e.last != nil {
		if lastArgs, ok := e.lastArgs(); ok {
			if merged, ok := e.merge(lastArgs, args); ok {
				e.stageInto(e.last, merged)
				return
			}
		}
	}
	p := &pendingDelivery{source: e}
	e.stageInto(p, args)
	e.d.pending = append(e.d.pending, p)
	e.last = p
	if e.d.onNotify != nil {
		e.d.onNotify(e.highPressure)
	}
}

// lastArgs recovers the staged args of the event's most recent pending
// delivery, if it is still pending in the current cycle.
func (e *Event[A]) lastArgs() (A, bool) {
	var zero A
	n := len(e.d.pending)
	if n == 0 || e.d.pending[n-1] != e.last {
		return zero, false
	}
	return e.last.args.(pendingArgs[A]).args, true
}

type pendingArgs[A any] struct {
	args A
}

func (e *Event[A]) stageInto(p *pendingDelivery, args A) {
	p.args = pendingArgs[A]{args: args}
	p.deliver = func() {
		e.last = nil
		a := args
		e.deliverTo(&a)
	}
}

func (e *Event[A]) deliverTo(a *A) {
	// iterate over a snapshot: subscriptions made by handlers only see
	// later deliveries
	subs := e.subs
	for _, s := range subs {
		if !s.dropped {
			s.handler(a)
		}
	}
	e.compact()
}

func (e *Event[A]) compact() {
	live := e.subs[:0]
	for _, s := range e.subs {
		if !s.dropped {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(e.subs); i++ {
		e.subs[i] = nil
	}
	e.subs = live
}

// Subscribe registers a handler on behalf of the widget. Handlers are
// called in subscription order; dropping the returned handle
// unsubscribes.
func (e *Event[A]) Subscribe(w ids.WidgetID, handler func(args *A)) *Handle {
	s := &eventSub[A]{widget: w, handler: handler}
	e.subs = append(e.subs, s)
	return &Handle{drop: func() { s.dropped = true }}
}

// SubscriberCount returns the number of live subscriptions.
func (e *Event[A]) SubscriberCount() int {
	n := 0
	for _, s := range e.subs {
		if !s.dropped {
			n++
		}
	}
	return n
}

// Handle represents one live event subscription; dropping it
// unsubscribes. Drop is idempotent and safe on nil.
type Handle struct {
	drop func()
}

// Drop cancels the subscription.
func (h *Handle) Drop() {
	if h == nil || h.drop == nil {
		return
	}
	h.drop()
	h.drop = nil
}
