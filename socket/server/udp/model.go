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

package udp

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// OpenFunc runs once per new peer, right after its Link is synthesized. The
// handler must call Read exactly once: the first Read is what actually
// receives the datagram and binds the link to its private socket.
type OpenFunc func(link *Link, global any)

// InputFunc runs when a link has a readable datagram.
type InputFunc func(link *Link, global any)

// CloseFunc runs exactly once, as the last callback for a link.
type CloseFunc func(link *Link, global any)

// Handler bundles the link-level callback set.
type Handler struct {
	Open  OpenFunc
	Input InputFunc
	Close CloseFunc
}

// segment is one queued outbound datagram with its retry bookkeeping.
type segment struct {
	buf      []byte
	attempts int
	timeouts int
}

// Link is one UDP peer session: initially it shares the listening socket;
// after its first inbound datagram it owns a private, connected socket
// (and thereby a session-identifying source port), matching the TFTP
// session-port convention.
type Link struct {
	mux *Multiplexor

	fd          int
	peer        unix.Sockaddr
	initialized bool
	closed      bool

	Global any

	out []*segment
}

func (l *Link) pendingOutput() bool {
	return len(l.out) > 0
}

func (l *Link) destroyable() bool {
	return l.closed && !l.pendingOutput()
}

// Options tunes a Multiplexor.
type Options struct {
	Log    logrus.FieldLogger
	Global any
}

// Multiplexor owns the shared listening socket, every initialized link, and
// the single poll(2)-driven retransmission loop.
type Multiplexor struct {
	listenFD   int
	domain     int
	timeout    time.Duration
	maxRetries int

	links map[int]*Link
	order []int

	handler Handler
	global  any
	log     logrus.FieldLogger

	retransmits atomic.Int64
}

// Retransmits reports how many datagrams have been sent over every link's
// private socket, initial transmissions included.
func (m *Multiplexor) Retransmits() int64 {
	return m.retransmits.Load()
}

func newMultiplexor(listenFD, domain int, timeout time.Duration, maxRetries int, h Handler, o Options) *Multiplexor {
	lg := o.Log
	if lg == nil {
		lg = logrus.StandardLogger()
	}

	return &Multiplexor{
		listenFD:   listenFD,
		domain:     domain,
		timeout:    timeout,
		maxRetries: maxRetries,
		links:      make(map[int]*Link),
		handler:    h,
		global:     o.Global,
		log:        lg,
	}
}
