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
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	libep "github.com/nabbar/netmux/network/endpoint"
)

// Listen binds the shared listening socket on the first alternative in
// chain that succeeds, returning the raw non-blocking descriptor plus the
// address family Run needs to create per-peer sockets.
func Listen(chain libep.Chain) (fd int, spec libep.Spec, err error) {
	var lastErr error

	for _, s := range chain {
		f, e := unix.Socket(s.Domain(), unix.SOCK_DGRAM, 0)
		if e != nil {
			lastErr = e
			continue
		}

		_ = unix.SetsockoptInt(f, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)

		sa, e := s.Sockaddr()
		if e != nil {
			_ = unix.Close(f)
			lastErr = e
			continue
		}

		if e = unix.Bind(f, sa); e != nil {
			_ = unix.Close(f)
			lastErr = e
			continue
		}

		if e = unix.SetNonblock(f, true); e != nil {
			_ = unix.Close(f)
			lastErr = e
			continue
		}

		return f, s, nil
	}

	return -1, libep.Spec{}, ErrorBindListen.Error(lastErr)
}

// Run blocks, driving the session/retransmission loop over listenFD. domain
// is the address family of listenFD (per-peer sockets are created in the
// same family). timeout is the retransmission interval; maxRetries is the
// per-segment retry budget: once a head segment has been transmitted that
// many times without any inbound datagram from the peer, the link is torn
// down and its close handler runs.
//
// SIGPIPE is ignored for the duration of the call and reset before return.
func Run(listenFD, domain int, timeout time.Duration, maxRetries int, h Handler, opts ...Options) error {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	m := newMultiplexor(listenFD, domain, timeout, maxRetries, h, o)

	signal.Ignore(syscall.SIGPIPE)
	defer signal.Reset(syscall.SIGPIPE)

	for {
		m.collect()
		m.reap()

		fds, awaiting := m.buildPollSet()

		pt := -1
		if awaiting {
			pt = int(m.timeout / time.Millisecond)
		}

		n, err := pollRetryEINTR(fds, pt)
		if err != nil {
			return ErrorPollFailure.Error(err)
		}

		if n == 0 {
			m.tick()
			continue
		}

		m.dispatch(fds)
	}
}

func pollRetryEINTR(fds []unix.PollFd, timeout int) (int, error) {
	for {
		n, err := unix.Poll(fds, timeout)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

// collect applies the per-iteration garbage rules to every queue head: a
// head that exhausted its retry budget discards the whole queue and closes
// the link (transmission timeout); a closed link never retransmits, so any
// already-transmitted head is dropped instead of waiting for an ack that
// may never come.
func (m *Multiplexor) collect() {
	for _, fd := range m.order {
		l, ok := m.links[fd]
		if !ok || !l.pendingOutput() {
			continue
		}

		head := l.out[0]

		if head.attempts >= m.maxRetries {
			l.out = nil
			l.closed = true
			continue
		}

		if l.closed && head.attempts > 0 {
			l.out = l.out[1:]
		}
	}
}

// reap destroys every link that is closed with a drained output queue,
// invoking its close handler exactly once.
func (m *Multiplexor) reap() {
	live := m.order[:0]
	for _, fd := range m.order {
		l, ok := m.links[fd]
		if !ok {
			continue
		}
		if l.destroyable() {
			m.destroy(l)
			continue
		}
		live = append(live, fd)
	}
	m.order = live
}

func (m *Multiplexor) destroy(l *Link) {
	delete(m.links, l.fd)
	if m.handler.Close != nil {
		m.handler.Close(l, l.Global)
	}
	if l.initialized {
		_ = unix.Close(l.fd)
	}
}

// buildPollSet subscribes the listening socket to read, every open link to
// read, and every link whose head has never been sent or whose last send
// has timed out (timeouts == attempts) to write. The second return reports
// whether any head is transmitted-but-unacknowledged, which decides between
// a finite poll timeout and blocking indefinitely.
func (m *Multiplexor) buildPollSet() ([]unix.PollFd, bool) {
	fds := make([]unix.PollFd, 0, len(m.order)+1)
	fds = append(fds, unix.PollFd{Fd: int32(m.listenFD), Events: unix.POLLIN})

	awaiting := false
	for _, fd := range m.order {
		l := m.links[fd]

		var ev int16
		if !l.closed {
			ev |= unix.POLLIN
		}
		if l.pendingOutput() {
			head := l.out[0]
			if head.timeouts == head.attempts {
				ev |= unix.POLLOUT
			}
			if head.attempts > 0 {
				awaiting = true
			}
		}
		if ev == 0 {
			continue
		}
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: ev})
	}

	return fds, awaiting
}

// tick runs when poll expired with no events: every transmitted head that
// has not yet burned this cycle's timeout gets its timeout count bumped,
// which re-arms retransmission (timeouts == attempts) on the next
// iteration.
func (m *Multiplexor) tick() {
	for _, fd := range m.order {
		l := m.links[fd]
		if !l.pendingOutput() {
			continue
		}
		head := l.out[0]
		if head.timeouts < head.attempts {
			head.timeouts++
		}
	}
}

func (m *Multiplexor) dispatch(fds []unix.PollFd) {
	for _, pfd := range fds {
		fd := int(pfd.Fd)

		if fd == m.listenFD {
			if pfd.Revents&unix.POLLIN != 0 {
				m.newLink()
			}
			continue
		}

		l, ok := m.links[fd]
		if !ok {
			continue
		}

		// an error-only wakeup (ICMP unreachable and the like) would
		// otherwise spin the loop forever
		if pfd.Revents&(unix.POLLERR|unix.POLLNVAL) != 0 &&
			pfd.Revents&unix.POLLIN == 0 {
			l.out = nil
			l.closed = true
			continue
		}

		if pfd.Revents&unix.POLLIN != 0 {
			m.inbound(l)
		}

		if _, stillLive := m.links[fd]; !stillLive {
			continue
		}

		if pfd.Revents&unix.POLLOUT != 0 {
			m.outbound(l)
		}
	}
}

// newLink synthesizes an uninitialized link for a datagram waiting on the
// shared listening socket and invokes the open handler, which must call
// Read exactly once to receive the datagram and bind the link to its
// private socket.
func (m *Multiplexor) newLink() {
	l := &Link{mux: m, fd: m.listenFD, Global: m.global}

	if m.handler.Open != nil {
		m.handler.Open(l, l.Global)
	}

	if !l.initialized {
		// the open handler never read, or the read failed before the peer
		// socket existed; nothing to track.
		return
	}

	m.links[l.fd] = l
	m.order = append(m.order, l.fd)
}

// inbound handles a readable private socket: any datagram from the peer
// acknowledges a transmitted head, which is discarded before the input
// handler gets to see the datagram itself.
func (m *Multiplexor) inbound(l *Link) {
	if l.pendingOutput() && l.out[0].attempts > 0 {
		l.out = l.out[1:]
	}

	if m.handler.Input != nil {
		m.handler.Input(l, l.Global)
	}
}

// outbound transmits the head segment. When more segments are queued
// behind it, the head is popped immediately: only the last enqueued
// segment is ever retained for retransmission, back-to-back writes meaning
// the peer only needs the latest state. A sole head instead has its
// attempt count bumped and stays queued awaiting acknowledgement.
func (m *Multiplexor) outbound(l *Link) {
	head := l.out[0]

	if err := unix.Send(l.fd, head.buf, 0); err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return
		}
		l.out = nil
		l.closed = true
		return
	}

	m.retransmits.Add(1)

	if len(l.out) > 1 {
		l.out = l.out[1:]
		return
	}

	head.attempts++
}

// Enqueue queues buf for transmission on link, FIFO; only the head is
// eligible for transmission and, if unacknowledged, retransmission. A
// zero-length buf is a no-op success.
func Enqueue(link *Link, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	link.out = append(link.out, &segment{buf: buf})
	return nil
}

// Read must be called exactly once per Open/Input invocation. On the first
// call for a link it receives via the shared listening socket, captures the
// peer address, and creates a fresh socket connected to the peer, whose
// kernel-assigned port identifies the session from then on. Subsequent
// calls read from that private socket. Any receive error closes the link.
func Read(link *Link, out []byte) (int, error) {
	if !link.initialized {
		return readFirst(link, out)
	}

	n, _, err := unix.Recvfrom(link.fd, out, 0)
	if err != nil {
		link.closed = true
		return 0, err
	}
	return n, nil
}

func readFirst(link *Link, out []byte) (int, error) {
	m := link.mux

	n, peer, err := unix.Recvfrom(m.listenFD, out, 0)
	if err != nil {
		link.closed = true
		return 0, err
	}

	fd, err := unix.Socket(m.domain, unix.SOCK_DGRAM, 0)
	if err != nil {
		link.closed = true
		return 0, ErrorPeerSocket.Error(err)
	}

	if err = unix.Connect(fd, peer); err != nil {
		_ = unix.Close(fd)
		link.closed = true
		return 0, ErrorPeerSocket.Error(err)
	}

	_ = unix.SetNonblock(fd, true)

	link.peer = peer
	link.fd = fd
	link.initialized = true

	return n, nil
}

// Close stops accepting input on link; pending outbound segments still
// attempt one send each but are never retransmitted.
func Close(link *Link) {
	link.closed = true
}
