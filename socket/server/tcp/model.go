/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package tcp

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// OpenFunc is invoked exactly once, right after a connection is accepted.
type OpenFunc func(conn *Connection, global any)

// InputFunc is invoked when a connection has readable data. The handler
// must call Read exactly once before returning.
type InputFunc func(conn *Connection, global any)

// CloseFunc is invoked exactly once, as the last callback for a connection,
// once its eof flag is set and its output queue has drained.
type CloseFunc func(conn *Connection, global any)

// Handler bundles the three entry points the multiplexor calls back into,
// plus nothing else: the opaque global handle travels alongside every call
// instead of being folded into a closure, keeping the capability record
// reusable across connections.
type Handler struct {
	Open  OpenFunc
	Input InputFunc
	Close CloseFunc
}

// segment is one pending output write: an owned byte slice, and how much of
// it has already been written.
type segment struct {
	buf []byte
	pos int
}

func (s *segment) remaining() []byte {
	return s.buf[s.pos:]
}

func (s *segment) done() bool {
	return s.pos >= len(s.buf)
}

// Connection is one accepted TCP session. Fields besides the exported
// Global handle are only ever touched by the owning Multiplexor's Run
// goroutine.
type Connection struct {
	fd     int
	mux    *Multiplexor
	Global any

	eof        bool
	readInTurn bool // guards the "Read exactly once per input callback" contract

	last time.Time // last read or write activity, for the idle timeout

	out []*segment

	bytesIn  atomic.Int64
	bytesOut atomic.Int64
}

// Fd returns the raw file descriptor backing this connection. Exposed for
// logging and tests; the multiplexor owns its lifecycle.
func (c *Connection) Fd() int {
	return c.fd
}

// BytesIn reports how many bytes have been read from this connection.
func (c *Connection) BytesIn() int64 {
	return c.bytesIn.Load()
}

// BytesOut reports how many bytes have been written to this connection.
func (c *Connection) BytesOut() int64 {
	return c.bytesOut.Load()
}

// pendingOutput reports whether any output segment is still queued.
func (c *Connection) pendingOutput() bool {
	return len(c.out) > 0
}

// destroyable reports whether this connection is ready for teardown: eof has
// been observed and every queued write has drained.
func (c *Connection) destroyable() bool {
	return c.eof && !c.pendingOutput()
}

// Options tunes a Multiplexor beyond the mandatory listening descriptor and
// handler set.
type Options struct {
	// Log receives structured diagnostics for accept/poll/IO failures.
	// Defaults to logrus.StandardLogger() when nil.
	Log logrus.FieldLogger

	// Global is the opaque handle passed to every callback invocation.
	Global any

	// IdleTimeout closes connections that produced neither read nor write
	// activity within the window. Zero disables it.
	IdleTimeout time.Duration
}

// Multiplexor owns the listening descriptor, the live connection set, and
// the single poll(2)-driven event loop. It is not safe to call Run
// concurrently on the same Multiplexor, nor to share one across
// goroutines: handlers assume serialized access to the connection list,
// so everything runs on the one loop goroutine.
type Multiplexor struct {
	listenFD     int
	acceptBroken bool

	conns map[int]*Connection
	order []int // insertion order, so poll-set construction is deterministic

	handler Handler
	global  any
	log     logrus.FieldLogger
	idle    time.Duration

	openConnections atomic.Int64
}

func newMultiplexor(listenFD int, h Handler, o Options) *Multiplexor {
	lg := o.Log
	if lg == nil {
		lg = logrus.StandardLogger()
	}

	return &Multiplexor{
		listenFD: listenFD,
		conns:    make(map[int]*Connection),
		handler:  h,
		global:   o.Global,
		log:      lg,
		idle:     o.IdleTimeout,
	}
}

// OpenConnections reports the number of connections currently tracked by the
// multiplexor (accepted but not yet destroyed).
func (m *Multiplexor) OpenConnections() int64 {
	return m.openConnections.Load()
}
