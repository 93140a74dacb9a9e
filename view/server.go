// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package view implements the view-process side of the runtime: the
// request server, per-window frame caches with reuse expansion and
// binding tables, the window state machine, and a headless rasterizer
// used for pixel readback where no GPU backend is available.
package view

import (
	"fmt"
	"log/slog"

	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/ipc"
	"zenithui.org/zenith/render"
)

// Server owns the view-process state and answers requests one at a
// time, in order, on the thread that calls [Server.Run].
type Server struct {
	ch   *ipc.Channels
	opts Options

	started  bool
	headless bool
	textAA   bool

	windows map[ids.WindowID]*window
	monitor ipc.MonitorInfo

	nextPipeline  render.PipelineID
	nextNamespace uint32
	nextKey       uint64
}

// NewServer returns a server over connected channels.
func NewServer(ch *ipc.Channels, opts Options) *Server {
	return &Server{
		ch:      ch,
		opts:    opts,
		textAA:  true,
		windows: map[ids.WindowID]*window{},
		monitor: ipc.MonitorInfo{
			ID:          ids.NewMonitorID(),
			Name:        "headless",
			Size:        geom.Vec2(opts.MonitorWidth, opts.MonitorHeight),
			ScaleFactor: opts.ScaleFactor,
			Primary:     true,
		},
	}
}

// Run serves requests until the request channel closes. It never
// returns nil: a closed channel from the app process is the normal
// shutdown and reports the underlying error.
func (s *Server) Run() error {
	for {
		var req ipc.Request
		if err := s.ch.Request.Recv(&req); err != nil {
			return fmt.Errorf("view: request channel closed: %w", err)
		}
		resp := s.handle(&req)
		if err := s.ch.Response.Send(&resp); err != nil {
			return fmt.Errorf("view: response channel closed: %w", err)
		}
	}
}

// emit sends one event to the app process.
func (s *Server) emit(evs ...ipc.Event) {
	for _, ev := range evs {
		if err := s.ch.Event.Send(&ev); err != nil {
			slog.Warn("event channel send failed", "err", err)
			return
		}
	}
}

func fail(kind ipc.RequestKind, format string, args ...any) ipc.Response {
	return ipc.Response{Kind: kind, Err: fmt.Sprintf(format, args...)}
}

func (s *Server) win(req *ipc.Request) (*window, *ipc.Response) {
	w, ok := s.windows[req.Window]
	if !ok {
		r := fail(req.Kind, "window %v not found", req.Window)
		return nil, &r
	}
	return w, nil
}

func (s *Server) handle(req *ipc.Request) ipc.Response {
	resp := ipc.Response{Kind: req.Kind}
	switch req.Kind {
	case ipc.ReqVersion:
		resp.Version = ipc.Version

	case ipc.ReqStartup:
		s.started = true
		s.headless = req.Headless

	case ipc.ReqPrimaryMonitor, ipc.ReqMonitorInfo:
		resp.Monitor = s.monitor

	case ipc.ReqAvailableMonitors:
		resp.Monitors = []ipc.MonitorInfo{s.monitor}

	case ipc.ReqOpenWindow:
		if req.Config == nil {
			return fail(req.Kind, "open_window without config")
		}
		if _, ok := s.windows[req.Window]; ok {
			return fail(req.Kind, "window %v already open", req.Window)
		}
		s.nextPipeline++
		w := newWindow(req.Window, *req.Config, s.nextPipeline, s.opts)
		s.windows[req.Window] = w
		resp.Window = req.Window
		s.emit(ipc.Event{Kind: ipc.EvWindowResized, Window: w.id, Size: w.cfg.Size})

	case ipc.ReqCloseWindow:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		delete(s.windows, w.id)
		s.emit(ipc.Event{Kind: ipc.EvWindowClosed, Window: w.id})

	case ipc.ReqSetTitle:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.Title = req.Title

	case ipc.ReqSetVisible:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.Visible = req.Flag

	case ipc.ReqSetAlwaysOnTop:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.AlwaysOnTop = req.Flag

	case ipc.ReqSetMovable:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.Movable = req.Flag

	case ipc.ReqSetResizable:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.Resizable = req.Flag

	case ipc.ReqSetTaskbarVisible:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.TaskbarVisible = req.Flag

	case ipc.ReqSetParent:
		if _, errResp := s.win(req); errResp != nil {
			return *errResp
		}
		if _, ok := s.windows[req.Parent]; !ok && req.Parent != ids.WindowInvalid {
			return fail(req.Kind, "parent window %v not found", req.Parent)
		}

	case ipc.ReqSetTransparent:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.Transparent = req.Flag

	case ipc.ReqSetChromeVisible:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		w.cfg.ChromeVisible = req.Flag

	case ipc.ReqSetPosition:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		s.emit(w.setPosition(req.Point)...)

	case ipc.ReqSetSize:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		s.emit(w.setSize(req.Size)...)

	case ipc.ReqSetState:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		s.emit(w.setState(req.State, s.opts)...)

	case ipc.ReqSetIcon:
		if _, errResp := s.win(req); errResp != nil {
			return *errResp
		}

	case ipc.ReqPipelineID:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		resp.Pipeline = w.pipeline

	case ipc.ReqNamespaceID:
		s.nextNamespace++
		resp.Namespace = s.nextNamespace

	case ipc.ReqGenerateImageKey, ipc.ReqGenerateFontKey, ipc.ReqGenerateFontInstanceKey:
		s.nextKey++
		resp.Key = s.nextKey

	case ipc.ReqSize:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		resp.Size = w.cfg.Size

	case ipc.ReqScaleFactor:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		resp.Scale = w.scale

	case ipc.ReqReadPixels:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		px := w.readPixels(nil)
		resp.Pixels = &px

	case ipc.ReqReadPixelsRect:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		box := geom.FromOriginSize(req.Point, req.Size)
		px := w.readPixels(&box)
		resp.Pixels = &px

	case ipc.ReqHitTest:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		resp.Hits = w.hitTest(req.Point)

	case ipc.ReqSetTextAA:
		s.textAA = req.Flag
		s.emit(ipc.Event{Kind: ipc.EvTextAAChanged, TextAA: req.Flag})

	case ipc.ReqRender:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		if req.Frame == nil {
			return fail(req.Kind, "render without frame")
		}
		s.emit(w.renderFrame(req.Frame)...)
		resp.Frame = req.Frame.List.Frame

	case ipc.ReqRenderUpdate:
		w, errResp := s.win(req)
		if errResp != nil {
			return *errResp
		}
		if req.Dynamic != nil {
			s.emit(w.renderUpdate(req.Dynamic)...)
		}
		resp.Frame = w.cache.LatestID()

	case ipc.ReqUpdateResources:
		// resource blobs are accepted and dropped by the headless backend

	default:
		return fail(req.Kind, "unknown request kind %d", req.Kind)
	}
	return resp
}
