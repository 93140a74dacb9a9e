// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// MaxMessageSize is the frame budget per message on every channel.
// Over-budget payloads must be split by the caller.
const MaxMessageSize = 20 << 20

// RequestTimeout bounds every request round trip; on expiry the channel
// pair is considered broken and recovery runs.
const RequestTimeout = 5 * time.Second

// ErrTooLarge reports a message over [MaxMessageSize].
type ErrTooLarge struct {
	Size int
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("ipc: message of %d bytes exceeds the %d byte frame budget", e.Size, MaxMessageSize)
}

// Conn is one message channel: a websocket connection carrying
// gob-encoded frames, one message per frame.
type Conn struct {
	ws  *websocket.Conn
	enc bytes.Buffer
}

// NewConn wraps a websocket connection.
func NewConn(ws *websocket.Conn) *Conn {
	ws.SetReadLimit(MaxMessageSize)
	return &Conn{ws: ws}
}

// Send gob-encodes v and writes it as one binary frame.
func (c *Conn) Send(v any) error {
	c.enc.Reset()
	if err := gob.NewEncoder(&c.enc).Encode(v); err != nil {
		return fmt.Errorf("ipc: encode: %w", err)
	}
	if c.enc.Len() > MaxMessageSize {
		return &ErrTooLarge{Size: c.enc.Len()}
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, c.enc.Bytes())
}

// Recv reads one frame and gob-decodes it into v, which must be a
// pointer.
func (c *Conn) Recv(v any) error {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("ipc: decode: %w", err)
	}
	return nil
}

// SetRecvDeadline bounds the next [Conn.Recv].
func (c *Conn) SetRecvDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
