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

package session

import (
	"time"

	"github.com/sirupsen/logrus"

	libtcp "github.com/nabbar/netmux/socket/server/tcp"
)

// OpenFunc runs once a connection is accepted, before any request is framed.
// Handlers typically stash session-scoped state in Session.Local here.
type OpenFunc func(s *Session, global any)

// RequestFunc runs exactly once per successfully framed request. The
// matched byte range is available through Session.Scan.
type RequestFunc func(s *Session, global any)

// CloseFunc runs exactly once, as the last callback for a session.
type CloseFunc func(s *Session, global any)

// Handler bundles the session-level callback set, mirroring the capability
// record used one layer down in socket/server/tcp.
type Handler struct {
	Open    OpenFunc
	Request RequestFunc
	Close   CloseFunc
}

// Options tunes a service beyond its mandatory endpoint/pattern/handler.
type Options struct {
	Log    logrus.FieldLogger
	Global any

	// IdleTimeout is forwarded to the underlying multiplexor; zero
	// disables it.
	IdleTimeout time.Duration
}

// Session is one framed conversation over a single TCP connection: a
// sliding buffer, the current match's capture vector, and a pointer/length
// into the current request's bytes.
type Session struct {
	conn *libtcp.Connection
	buf  slidingBuffer
	svc  *service

	// Local is the per-session opaque handle; Open may set it for Request
	// and Close to read back.
	Local any

	reqStart int
	reqLen   int
	captures [][]int

	inRequest bool
	scanned   bool
}

// Request returns the current request's matched bytes. Only meaningful
// while inside a RequestFunc invocation.
func (s *Session) Request() []byte {
	base := s.buf.buf[s.reqStart : s.reqStart+s.reqLen]
	return base
}

// service is the shared, per-listener state: the compiled pattern and the
// handler/global pair every session dispatches into.
type service struct {
	re      *compiledRegex
	handler Handler
	global  any
	log     logrus.FieldLogger
}
