// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// ServerEnv names the environment variable carrying the app-process
// channel address a view process must dial back to.
const ServerEnv = "ZENITH_VIEW_SERVER"

// ModeEnv names the environment variable selecting the view mode,
// "headed" or "headless". A process started with both [ServerEnv] and
// [ModeEnv] set must run the view loop instead of its own main.
const ModeEnv = "ZENITH_VIEW_MODE"

// Channels is one connected channel triple between an app and a view
// process.
type Channels struct {
	// Request carries app→view requests.
	Request *Conn
	// Response carries view→app responses, one per request in order.
	Response *Conn
	// Event carries view→app events.
	Event *Conn
}

// Close closes all three channels.
func (c *Channels) Close() {
	c.Request.Close()
	c.Response.Close()
	c.Event.Close()
}

const (
	pathRequest  = "/request"
	pathResponse = "/response"
	pathEvent    = "/event"
)

// Listener is the app-process side of the channel transport: it listens
// on loopback and waits for a spawned view process to dial the three
// channels back.
type Listener struct {
	ln     net.Listener
	srv    *http.Server
	connCh chan namedConn
}

type namedConn struct {
	path string
	ws   *websocket.Conn
}

// Listen opens a loopback listener for one view process.
func Listen() (*Listener, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("ipc: listen: %w", err)
	}
	l := &Listener{ln: ln, connCh: make(chan namedConn, 3)}
	up := websocket.Upgrader{
		ReadBufferSize:  64 << 10,
		WriteBufferSize: 64 << 10,
	}
	mux := http.NewServeMux()
	handle := func(path string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			ws, err := up.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			l.connCh <- namedConn{path: path, ws: ws}
		})
	}
	handle(pathRequest)
	handle(pathResponse)
	handle(pathEvent)
	l.srv = &http.Server{Handler: mux}
	go l.srv.Serve(ln)
	return l, nil
}

// Addr returns the address a view process must dial, suitable for
// [ServerEnv].
func (l *Listener) Addr() string { return l.ln.Addr().String() }

// Accept waits until the view process has connected all three channels.
func (l *Listener) Accept(timeout time.Duration) (*Channels, error) {
	ch := &Channels{}
	deadline := time.After(timeout)
	for i := 0; i < 3; i++ {
		select {
		case nc := <-l.connCh:
			c := NewConn(nc.ws)
			switch nc.path {
			case pathRequest:
				ch.Request = c
			case pathResponse:
				ch.Response = c
			case pathEvent:
				ch.Event = c
			}
		case <-deadline:
			return nil, fmt.Errorf("ipc: view process did not connect within %v", timeout)
		}
	}
	if ch.Request == nil || ch.Response == nil || ch.Event == nil {
		return nil, fmt.Errorf("ipc: view process connected duplicate channels")
	}
	return ch, nil
}

// Close stops the listener. Accepted channels stay open.
func (l *Listener) Close() error {
	l.srv.Close()
	return nil
}

// Dial connects the three channels from the view-process side. addr is
// the value of [ServerEnv].
func Dial(addr string) (*Channels, error) {
	dial := func(path string) (*Conn, error) {
		ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+path, nil)
		if err != nil {
			return nil, fmt.Errorf("ipc: dial %s: %w", path, err)
		}
		return NewConn(ws), nil
	}
	req, err := dial(pathRequest)
	if err != nil {
		return nil, err
	}
	resp, err := dial(pathResponse)
	if err != nil {
		req.Close()
		return nil, err
	}
	ev, err := dial(pathEvent)
	if err != nil {
		req.Close()
		resp.Close()
		return nil, err
	}
	return &Channels{Request: req, Response: resp, Event: ev}, nil
}
