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
	"io"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	libep "github.com/nabbar/netmux/network/endpoint"
)

// Listen binds and starts listening on the first alternative in chain that
// succeeds, returning the raw, non-blocking listening descriptor that Run
// expects.
func Listen(chain libep.Chain) (fd int, spec libep.Spec, err error) {
	var lastErr error

	for _, s := range chain {
		f, e := unix.Socket(s.Domain(), unix.SOCK_STREAM, 0)
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

		if e = unix.Listen(f, unix.SOMAXCONN); e != nil {
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

// Run blocks, driving the accept/read/write event loop over listenFD. It
// returns only on unrecoverable error: memory exhaustion surfaces from Go's
// runtime as a panic, not a return here, so in practice Run returns on
// polling failure or when the handler set refuses to make progress.
//
// SIGPIPE is ignored for the duration of the call (writes to a peer that
// reset the connection surface as an error return instead) and reset to its
// default disposition before Run returns.
func Run(listenFD int, h Handler, opts ...Options) error {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	m := newMultiplexor(listenFD, h, o)

	signal.Ignore(syscall.SIGPIPE)
	defer signal.Reset(syscall.SIGPIPE)

	pt := -1
	if m.idle > 0 {
		pt = int(m.idle / time.Millisecond)
	}

	for {
		m.expire()
		m.reap()

		fds := m.buildPollSet()
		if len(fds) == 0 {
			return nil
		}

		n, err := pollRetryEINTR(fds, pt)
		if err != nil {
			return ErrorPollFailure.Error(err)
		}
		if n == 0 {
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

// expire marks connections idle beyond the configured window for teardown,
// pending writes included: an idle peer that also refuses our bytes is not
// worth draining for.
func (m *Multiplexor) expire() {
	if m.idle <= 0 {
		return
	}

	cut := time.Now().Add(-m.idle)
	for _, fd := range m.order {
		c := m.conns[fd]
		if c.eof || c.last.After(cut) {
			continue
		}
		m.log.WithField("fd", fd).Debug("tcp: closing idle connection")
		c.out = nil
		c.eof = true
	}
}

// reap removes every connection that reached eof with a drained output
// queue, invoking its close handler exactly once.
func (m *Multiplexor) reap() {
	live := m.order[:0]
	for _, fd := range m.order {
		c, ok := m.conns[fd]
		if !ok {
			continue
		}
		if c.destroyable() {
			m.destroy(c, true)
			continue
		}
		live = append(live, fd)
	}
	m.order = live
}

func (m *Multiplexor) destroy(c *Connection, runClose bool) {
	delete(m.conns, c.fd)
	if runClose && m.handler.Close != nil {
		m.handler.Close(c, c.Global)
	}
	_ = unix.Close(c.fd)
	m.openConnections.Add(-1)
}

func (m *Multiplexor) buildPollSet() []unix.PollFd {
	fds := make([]unix.PollFd, 0, len(m.order)+1)

	if !m.acceptBroken {
		fds = append(fds, unix.PollFd{Fd: int32(m.listenFD), Events: unix.POLLIN})
	}

	for _, fd := range m.order {
		c := m.conns[fd]
		var ev int16
		if !c.eof {
			ev |= unix.POLLIN
		}
		if c.pendingOutput() {
			ev |= unix.POLLOUT
		}
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: ev})
	}

	return fds
}

func (m *Multiplexor) dispatch(fds []unix.PollFd) {
	for _, pfd := range fds {
		fd := int(pfd.Fd)

		if fd == m.listenFD {
			if pfd.Revents&(unix.POLLIN) != 0 {
				m.acceptAll()
			}
			continue
		}

		c, ok := m.conns[fd]
		if !ok {
			continue
		}

		// an error-only wakeup (no readable data left) would otherwise
		// spin the loop forever
		if pfd.Revents&(unix.POLLERR|unix.POLLNVAL) != 0 ||
			(pfd.Revents&unix.POLLHUP != 0 && pfd.Revents&unix.POLLIN == 0) {
			c.out = nil
			c.eof = true
			continue
		}

		if pfd.Revents&unix.POLLIN != 0 && m.handler.Input != nil {
			c.readInTurn = false
			m.handler.Input(c, c.Global)
		}

		if _, stillOpen := m.conns[fd]; !stillOpen {
			continue
		}

		if pfd.Revents&unix.POLLOUT != 0 {
			m.flushOutput(c)
		}
	}
}

func (m *Multiplexor) acceptAll() {
	for {
		nfd, _, err := unix.Accept(m.listenFD)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			m.acceptBroken = true
			m.log.WithError(err).Warn("tcp: accept failed, no further connections will be accepted")
			return
		}

		_ = unix.SetNonblock(nfd, true)

		c := &Connection{fd: nfd, mux: m, Global: m.global, last: time.Now()}
		m.conns[nfd] = c
		m.order = append(m.order, nfd)
		m.openConnections.Add(1)

		if m.handler.Open != nil {
			m.handler.Open(c, c.Global)
		}
	}
}

func (m *Multiplexor) flushOutput(c *Connection) {
	for len(c.out) > 0 {
		s := c.out[0]
		n, err := unix.Write(c.fd, s.remaining())
		if n > 0 {
			s.pos += n
			c.bytesOut.Add(int64(n))
			c.last = time.Now()
		}
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			m.destroy(c, true)
			return
		}
		if n <= 0 {
			m.destroy(c, true)
			return
		}
		if s.done() {
			c.out = c.out[1:]
			continue
		}
		return
	}
}

// EnqueueWrite queues buf for transmission on conn, in order after any
// previously queued bytes. A zero-length buf is a no-op success.
func EnqueueWrite(conn *Connection, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	conn.out = append(conn.out, &segment{buf: buf})
	return nil
}

// Read must be called exactly once per InputFunc invocation, and only
// there. It returns io.EOF once the peer has closed its send side (and
// marks conn for teardown once pending writes drain); any other error also
// marks conn for teardown.
func Read(conn *Connection, out []byte) (int, error) {
	if conn.readInTurn {
		return 0, ErrorReadNotExpected.Error(nil)
	}
	conn.readInTurn = true

	n, err := unix.Read(conn.fd, out)
	if err != nil {
		conn.eof = true
		return 0, err
	}
	if n == 0 {
		conn.eof = true
		return 0, io.EOF
	}

	conn.bytesIn.Add(int64(n))
	conn.last = time.Now()
	return n, nil
}

// Close half-shuts conn's read side and marks it eof: no further Input
// invocations follow, but any already-queued output still drains before the
// connection is destroyed.
func Close(conn *Connection) {
	_ = unix.Shutdown(conn.fd, unix.SHUT_RD)
	conn.eof = true
}
