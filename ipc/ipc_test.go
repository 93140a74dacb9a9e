// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/base/ids"
	"zenithui.org/zenith/ipc"
	"zenithui.org/zenith/render"
	"zenithui.org/zenith/view"
)

// eventLog collects controller events across goroutines.
type eventLog struct {
	mu  sync.Mutex
	evs []ipc.Event
	c   chan ipc.EventKind
}

func newEventLog() *eventLog {
	return &eventLog{c: make(chan ipc.EventKind, 64)}
}

func (l *eventLog) add(ev ipc.Event) {
	l.mu.Lock()
	l.evs = append(l.evs, ev)
	l.mu.Unlock()
	l.c <- ev.Kind
}

func (l *eventLog) wait(t *testing.T, kind ipc.EventKind) ipc.Event {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case k := <-l.c:
			if k == kind {
				l.mu.Lock()
				defer l.mu.Unlock()
				for i := len(l.evs) - 1; i >= 0; i-- {
					if l.evs[i].Kind == kind {
						return l.evs[i]
					}
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func startController(t *testing.T) (*ipc.Controller, *eventLog) {
	t.Helper()
	log := newEventLog()
	c := ipc.NewController(view.SameProcessStarter(view.DefaultOptions()))
	c.OnEvent = log.add
	require.NoError(t, c.Start())
	t.Cleanup(c.Close)

	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqStartup, Headless: true})
	require.NoError(t, err)
	require.True(t, resp.Ok())
	return c, log
}

func openWindow(t *testing.T, c *ipc.Controller, size geom.Vector2) ids.WindowID {
	t.Helper()
	id := ids.NewWindowID()
	cfg := ipc.DefaultWindowConfig("test", size)
	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqOpenWindow, Window: id, Config: &cfg})
	require.NoError(t, err)
	require.True(t, resp.Ok(), resp.Err)
	return id
}

func TestHandshakeAndStartup(t *testing.T) {
	c, _ := startController(t)
	assert.Equal(t, uint32(1), c.Generation())

	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqPrimaryMonitor})
	require.NoError(t, err)
	assert.True(t, resp.Monitor.Primary)
	assert.Equal(t, float32(1), resp.Monitor.ScaleFactor)
}

func TestWindowLifecycle(t *testing.T) {
	c, log := startController(t)
	id := openWindow(t, c, geom.Vec2(200, 100))
	log.wait(t, ipc.EvWindowResized)

	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqSize, Window: id})
	require.NoError(t, err)
	assert.Equal(t, geom.Vec2(200, 100), resp.Size)

	resp, err = c.Request(&ipc.Request{Kind: ipc.ReqSetSize, Window: id, Size: geom.Vec2(300, 150)})
	require.NoError(t, err)
	require.True(t, resp.Ok())
	ev := log.wait(t, ipc.EvWindowResized)
	assert.Equal(t, geom.Vec2(300, 150), ev.Size)

	resp, err = c.Request(&ipc.Request{Kind: ipc.ReqCloseWindow, Window: id})
	require.NoError(t, err)
	require.True(t, resp.Ok())
	log.wait(t, ipc.EvWindowClosed)

	// operations on a closed window return a typed error, not a panic
	resp, err = c.Request(&ipc.Request{Kind: ipc.ReqSize, Window: id})
	require.NoError(t, err)
	assert.False(t, resp.Ok())
}

func TestFullscreenRestoresGeometry(t *testing.T) {
	c, log := startController(t)
	id := openWindow(t, c, geom.Vec2(200, 100))

	_, err := c.Request(&ipc.Request{Kind: ipc.ReqSetState, Window: id, State: ipc.WindowFullscreen})
	require.NoError(t, err)
	ev := log.wait(t, ipc.EvWindowStateChanged)
	assert.Equal(t, ipc.WindowFullscreen, ev.State)

	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqSize, Window: id})
	require.NoError(t, err)
	assert.Equal(t, geom.Vec2(1920, 1080), resp.Size)

	// size changes are ignored while not in the normal state
	_, err = c.Request(&ipc.Request{Kind: ipc.ReqSetSize, Window: id, Size: geom.Vec2(50, 50)})
	require.NoError(t, err)

	_, err = c.Request(&ipc.Request{Kind: ipc.ReqSetState, Window: id, State: ipc.WindowNormal})
	require.NoError(t, err)
	resp, err = c.Request(&ipc.Request{Kind: ipc.ReqSize, Window: id})
	require.NoError(t, err)
	assert.Equal(t, geom.Vec2(200, 100), resp.Size, "normal geometry restored")
}

func redFrame(id ids.WindowID, frame render.FrameID, key render.BindingKey) *ipc.FrameRequest {
	b := render.NewDisplayListBuilder(1, frame)
	color := render.Value(render.RGBA(1, 0, 0, 1))
	if key != 0 {
		color = render.Bind(key, render.RGBA(1, 0, 0, 1), true)
	}
	b.PushColor(geom.B2(0, 0, 100, 100), color)
	dl := b.Finalize()
	return &ipc.FrameRequest{Window: id, List: dl}
}

func TestRenderAndReadPixels(t *testing.T) {
	c, log := startController(t)
	id := openWindow(t, c, geom.Vec2(100, 100))

	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqRender, Window: id, Frame: redFrame(id, 1, 0)})
	require.NoError(t, err)
	require.True(t, resp.Ok(), resp.Err)
	log.wait(t, ipc.EvFrameRendered)

	resp, err = c.Request(&ipc.Request{Kind: ipc.ReqReadPixels, Window: id})
	require.NoError(t, err)
	require.NotNil(t, resp.Pixels)
	px := resp.Pixels
	assert.Equal(t, geom.Vec2(100, 100), px.Size)
	// center pixel is red
	off := (50*100 + 50) * 4
	assert.Equal(t, uint8(255), px.Data[off+0])
	assert.Equal(t, uint8(0), px.Data[off+1])
}

func TestRenderUpdateInPlace(t *testing.T) {
	c, log := startController(t)
	id := openWindow(t, c, geom.Vec2(100, 100))
	key := render.NewBindingKey()

	_, err := c.Request(&ipc.Request{Kind: ipc.ReqRender, Window: id, Frame: redFrame(id, 1, key)})
	require.NoError(t, err)
	log.wait(t, ipc.EvFrameRendered)

	// patch the bound color to green without resending the list
	dyn := &render.DynamicProperties{
		Colors: []render.FrameValueUpdate[render.Color]{
			render.Update(key, render.RGBA(0, 1, 0, 1), true),
		},
	}
	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqRenderUpdate, Window: id, Dynamic: dyn})
	require.NoError(t, err)
	require.True(t, resp.Ok())

	resp, err = c.Request(&ipc.Request{Kind: ipc.ReqReadPixelsRect, Window: id,
		Point: geom.Vec2(10, 10), Size: geom.Vec2(1, 1)})
	require.NoError(t, err)
	require.NotNil(t, resp.Pixels)
	assert.Equal(t, uint8(0), resp.Pixels.Data[0])
	assert.Equal(t, uint8(255), resp.Pixels.Data[1])
}

func TestHitTestTags(t *testing.T) {
	c, _ := startController(t)
	id := openWindow(t, c, geom.Vec2(100, 100))

	b := render.NewDisplayListBuilder(1, 1)
	b.SetTag(7)
	b.PushColor(geom.B2(0, 0, 100, 100), render.Value(render.RGBA(1, 1, 1, 1)))
	b.SetTag(9)
	b.PushColor(geom.B2(20, 20, 40, 40), render.Value(render.RGBA(0, 0, 1, 1)))
	b.SetTag(0)
	dl := b.Finalize()
	_, err := c.Request(&ipc.Request{Kind: ipc.ReqRender, Window: id,
		Frame: &ipc.FrameRequest{Window: id, List: dl}})
	require.NoError(t, err)

	resp, err := c.Request(&ipc.Request{Kind: ipc.ReqHitTest, Window: id, Point: geom.Vec2(30, 30)})
	require.NoError(t, err)
	assert.Equal(t, []ids.WidgetID{9, 7}, resp.Hits, "frontmost first")

	resp, err = c.Request(&ipc.Request{Kind: ipc.ReqHitTest, Window: id, Point: geom.Vec2(90, 90)})
	require.NoError(t, err)
	assert.Equal(t, []ids.WidgetID{7}, resp.Hits)
}

func TestGeneratedKeysUnique(t *testing.T) {
	c, _ := startController(t)
	seen := map[uint64]bool{}
	for _, kind := range []ipc.RequestKind{
		ipc.ReqGenerateImageKey, ipc.ReqGenerateFontKey, ipc.ReqGenerateFontInstanceKey,
	} {
		resp, err := c.Request(&ipc.Request{Kind: kind})
		require.NoError(t, err)
		assert.False(t, seen[resp.Key])
		seen[resp.Key] = true
	}
}

func TestRespawnReopensWindows(t *testing.T) {
	log := newEventLog()

	// starter that lets the test sever the view side to simulate a crash
	var mu sync.Mutex
	var viewCh *ipc.Channels
	starter := func(addr string) (func(), error) {
		ch, err := ipc.Dial(addr)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		viewCh = ch
		mu.Unlock()
		go view.Serve(ch, view.DefaultOptions())
		return func() { ch.Close() }, nil
	}

	c := ipc.NewController(starter)
	c.OnEvent = log.add
	require.NoError(t, c.Start())
	t.Cleanup(c.Close)

	_, err := c.Request(&ipc.Request{Kind: ipc.ReqStartup, Headless: true})
	require.NoError(t, err)
	id := openWindow(t, c, geom.Vec2(123, 45))
	assert.Equal(t, uint32(1), c.Generation())

	// crash the view process
	mu.Lock()
	viewCh.Close()
	mu.Unlock()

	ev := log.wait(t, ipc.EvRespawned)
	assert.Equal(t, uint32(2), ev.Generation)
	assert.Equal(t, uint32(2), c.Generation())

	// the window was reopened with its saved config by the new view
	var resp ipc.Response
	require.Eventually(t, func() bool {
		r, err := c.Request(&ipc.Request{Kind: ipc.ReqSize, Window: id})
		if err != nil || !r.Ok() {
			return false
		}
		resp = r
		return true
	}, 10*time.Second, 50*time.Millisecond)
	assert.Equal(t, geom.Vec2(123, 45), resp.Size)
}

func TestCodecRoundTrip(t *testing.T) {
	ln, err := ipc.Listen()
	require.NoError(t, err)
	defer ln.Close()

	var dialed *ipc.Channels
	done := make(chan error, 1)
	go func() {
		var err error
		dialed, err = ipc.Dial(ln.Addr())
		done <- err
	}()
	accepted, err := ln.Accept(5 * time.Second)
	require.NoError(t, err)
	require.NoError(t, <-done)
	defer accepted.Close()
	defer dialed.Close()

	req := &ipc.Request{Kind: ipc.ReqSetTitle, Window: 3, Title: "hello"}
	require.NoError(t, accepted.Request.Send(req))
	var got ipc.Request
	require.NoError(t, dialed.Request.Recv(&got))
	assert.Equal(t, *req, got)
}
