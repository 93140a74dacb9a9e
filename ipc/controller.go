// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/base/logx"
)

// ErrViewDisconnected reports that the view process died or timed out
// under a request; recovery has been scheduled and the caller must
// re-render after the Respawned event.
var ErrViewDisconnected = errors.New("ipc: view process disconnected")

// Starter launches one view process and makes it dial back to addr. It
// returns a stop function that terminates the process. The controller
// calls it again on every respawn.
type Starter func(addr string) (stop func(), err error)

// Controller is the app-process endpoint of the protocol. All methods
// are called from the app loop thread; the event pump runs on its own
// goroutine and hands events to the OnEvent callback.
type Controller struct {
	starter Starter

	// OnEvent receives every view event, including the synthetic
	// Respawned event. Set before Start.
	OnEvent func(Event)

	mu      sync.Mutex
	ln      *Listener
	ch      *Channels
	stop    func()
	gen     uint32
	closed  bool
	started bool

	// replay state for respawn
	startup *Request
	windows map[ids.WindowID]*WindowConfig
	order   []ids.WindowID
}

// NewController returns a controller that spawns views with starter.
func NewController(starter Starter) *Controller {
	return &Controller{
		starter: starter,
		windows: map[ids.WindowID]*WindowConfig{},
	}
}

// Generation returns the current view-process generation. It starts at
// 1 and increments on every respawn; events from older generations must
// be discarded.
func (c *Controller) Generation() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Start launches the first view process and performs the version
// handshake. It panics when the two processes were built from different
// versions.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("ipc: controller already started")
	}
	if err := c.connectLocked(); err != nil {
		return err
	}
	c.started = true
	return nil
}

// connectLocked spawns a view, accepts the channels, handshakes, and
// starts the event pump. Callers hold c.mu.
func (c *Controller) connectLocked() error {
	ln, err := Listen()
	if err != nil {
		return err
	}
	stop, err := c.starter(ln.Addr())
	if err != nil {
		ln.Close()
		return fmt.Errorf("ipc: start view process: %w", err)
	}
	ch, err := ln.Accept(RequestTimeout)
	ln.Close()
	if err != nil {
		stop()
		return err
	}

	// the first request must be version; a mismatch is fatal
	if err := ch.Request.Send(&Request{Kind: ReqVersion}); err != nil {
		stop()
		ch.Close()
		return err
	}
	var resp Response
	ch.Response.SetRecvDeadline(time.Now().Add(RequestTimeout))
	if err := ch.Response.Recv(&resp); err != nil {
		stop()
		ch.Close()
		return err
	}
	ch.Response.SetRecvDeadline(time.Time{})
	if resp.Version != Version {
		stop()
		ch.Close()
		panic(VersionMismatchPanic)
	}

	c.ln = nil
	c.ch = ch
	c.stop = stop
	c.gen++
	go c.pumpEvents(ch.Event, c.gen)
	return nil
}

// pumpEvents forwards view events until the channel breaks, then
// schedules recovery if its generation is still current.
func (c *Controller) pumpEvents(conn *Conn, gen uint32) {
	for {
		var ev Event
		if err := conn.Recv(&ev); err != nil {
			c.mu.Lock()
			stale := c.closed || c.gen != gen
			c.mu.Unlock()
			if !stale {
				slog.Warn("view event channel broke", "err", err, "generation", gen)
				go c.Recover()
			}
			return
		}
		ev.Generation = gen
		if c.OnEvent != nil {
			c.OnEvent(ev)
		}
	}
}

// Request sends one request and waits for its response. Responses
// arrive in request order; a timeout or transport error schedules
// recovery and returns [ErrViewDisconnected].
func (c *Controller) Request(req *Request) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ch == nil {
		return Response{}, ErrViewDisconnected
	}
	c.recordLocked(req)
	if err := c.ch.Request.Send(req); err != nil {
		c.scheduleRecoverLocked(err)
		return Response{}, ErrViewDisconnected
	}
	var resp Response
	c.ch.Response.SetRecvDeadline(time.Now().Add(RequestTimeout))
	err := c.ch.Response.Recv(&resp)
	if err != nil {
		c.scheduleRecoverLocked(err)
		return Response{}, ErrViewDisconnected
	}
	c.ch.Response.SetRecvDeadline(time.Time{})
	return resp, nil
}

// recordLocked keeps the replay state respawn needs: the startup
// request and the latest config of every open window.
func (c *Controller) recordLocked(req *Request) {
	switch req.Kind {
	case ReqStartup:
		cp := *req
		c.startup = &cp
	case ReqOpenWindow:
		cfg := &WindowConfig{}
		if req.Config != nil {
			// deep copy: the caller may mutate its config after the call
			if err := copier.CopyWithOption(cfg, req.Config, copier.Option{DeepCopy: true}); err != nil {
				slog.Error("snapshot window config", "err", err)
				*cfg = *req.Config
			}
		}
		if _, ok := c.windows[req.Window]; !ok {
			c.order = append(c.order, req.Window)
		}
		c.windows[req.Window] = cfg
	case ReqCloseWindow:
		delete(c.windows, req.Window)
		for i, id := range c.order {
			if id == req.Window {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	default:
		cfg, ok := c.windows[req.Window]
		if !ok {
			return
		}
		switch req.Kind {
		case ReqSetTitle:
			cfg.Title = req.Title
		case ReqSetVisible:
			cfg.Visible = req.Flag
		case ReqSetAlwaysOnTop:
			cfg.AlwaysOnTop = req.Flag
		case ReqSetMovable:
			cfg.Movable = req.Flag
		case ReqSetResizable:
			cfg.Resizable = req.Flag
		case ReqSetTaskbarVisible:
			cfg.TaskbarVisible = req.Flag
		case ReqSetTransparent:
			cfg.Transparent = req.Flag
		case ReqSetChromeVisible:
			cfg.ChromeVisible = req.Flag
		case ReqSetPosition:
			cfg.Position = req.Point
		case ReqSetSize:
			cfg.Size = req.Size
		case ReqSetState:
			cfg.State = req.State
		case ReqSetTextAA:
			cfg.TextAA = req.Flag
		}
	}
}

// scheduleRecoverLocked tears the broken channels down and runs
// recovery on a fresh goroutine. Callers hold c.mu.
func (c *Controller) scheduleRecoverLocked(cause error) {
	logx.Error(fmt.Errorf("ipc: view channel broken: %w", cause))
	if c.ch != nil {
		c.ch.Close()
		c.ch = nil
	}
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	go c.Recover()
}

// Recover respawns the view process, replays startup and every open
// window's latest config, and raises the synthetic Respawned event.
// Display-list caches and renderer resources of the old process are
// gone; the application layer must re-render everything.
func (c *Controller) Recover() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.ch != nil {
		c.ch.Close()
		c.ch = nil
	}
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if err := c.connectLocked(); err != nil {
		c.closed = true
		c.mu.Unlock()
		logx.Error(fmt.Errorf("ipc: view respawn failed: %w", err))
		return
	}
	gen := c.gen
	ch := c.ch

	var replay []*Request
	if c.startup != nil {
		cp := *c.startup
		replay = append(replay, &cp)
	}
	for _, id := range c.order {
		if cfg, ok := c.windows[id]; ok {
			replay = append(replay, &Request{Kind: ReqOpenWindow, Window: id, Config: cfg})
		}
	}
	for _, req := range replay {
		if err := ch.Request.Send(req); err != nil {
			break
		}
		var resp Response
		ch.Response.SetRecvDeadline(time.Now().Add(RequestTimeout))
		if err := ch.Response.Recv(&resp); err != nil {
			break
		}
	}
	if c.ch != nil {
		c.ch.Response.SetRecvDeadline(time.Time{})
	}
	c.mu.Unlock()

	slog.Info("view process respawned", "generation", gen)
	if c.OnEvent != nil {
		c.OnEvent(Event{Kind: EvRespawned, Generation: gen})
	}
}

// Close shuts the controller down and terminates the view process.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.ch != nil {
		c.ch.Close()
		c.ch = nil
	}
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}
