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
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	libep "github.com/nabbar/netmux/network/endpoint"
	libtcp "github.com/nabbar/netmux/socket/server/tcp"
)

// RunService sets up the TCP multiplexor and per-connection session records
// and blocks, framing requests out of pattern (an anchored, multiline PCRE
// expression) for every accepted connection.
func RunService(chain libep.Chain, pattern string, h Handler, opts ...Options) error {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	lg := o.Log
	if lg == nil {
		lg = logrus.StandardLogger()
	}

	re, err := compile(pattern)
	if err != nil {
		return err
	}

	sv := &service{re: re, handler: h, global: o.Global, log: lg}

	listenFD, _, err := libtcp.Listen(chain)
	if err != nil {
		return err
	}

	th := libtcp.Handler{
		Open:  sv.onOpen,
		Input: sv.onInput,
		Close: sv.onClose,
	}

	return libtcp.Run(listenFD, th, libtcp.Options{Log: lg, Global: sv, IdleTimeout: o.IdleTimeout})
}

func (sv *service) onOpen(conn *libtcp.Connection, global any) {
	s := &Session{conn: conn, svc: sv}
	conn.Global = s

	if sv.handler.Open != nil {
		sv.handler.Open(s, sv.global)
	}
}

func (sv *service) onInput(conn *libtcp.Connection, global any) {
	s, ok := conn.Global.(*Session)
	if !ok || s == nil {
		return
	}

	tail := s.buf.tail()
	n, err := libtcp.Read(conn, tail)
	if err != nil {
		if err == io.EOF {
			s.frame(false)
		}
		return
	}

	s.buf.commit(n)
	s.frame(true)
}

func (sv *service) onClose(conn *libtcp.Connection, global any) {
	s, ok := conn.Global.(*Session)
	if !ok || s == nil {
		return
	}
	if sv.handler.Close != nil {
		sv.handler.Close(s, sv.global)
	}
}

// frame repeatedly tries to match the compiled pattern anchored at the
// buffer's read cursor, dispatching one RequestFunc call per full match,
// until no further complete request can be extracted from the buffered
// bytes. allowPartial enables PARTIAL_HARD matching; the final post-EOF
// pass disables it so any still-incomplete frame is discarded rather than
// held forever.
func (s *Session) frame(allowPartial bool) {
	for {
		subject := s.buf.unread()
		if len(subject) == 0 {
			return
		}

		out := s.svc.re.attempt(subject, allowPartial)
		if !out.matched {
			if out.partial {
				return
			}
			libtcp.Close(s.conn)
			return
		}

		s.reqStart = s.buf.offset
		s.reqLen = out.end
		s.captures = out.groups
		s.inRequest = true
		s.scanned = false

		if s.svc.handler.Request != nil {
			s.svc.handler.Request(s, s.svc.global)
		}

		s.inRequest = false
		s.buf.advance(out.end)
	}
}

// Scan copies each requested capturing group (by index, 1-based, group 0
// being the whole match) into the caller's destination buffer. A nil
// destination skips that group. It is only valid inside a RequestFunc
// invocation and at most once per call. Returns the number of groups that
// actually participated in the match (a non-participating group yields a
// zero-length destination and is not counted).
func Scan(s *Session, dest ...*[]byte) (int, error) {
	if !s.inRequest {
		return 0, ErrorScanOutsideRequest.Error(nil)
	}
	if s.scanned {
		return 0, ErrorScanAlreadyCalled.Error(nil)
	}
	s.scanned = true

	present := 0
	for i, d := range dest {
		group := i + 1
		if d == nil {
			continue
		}
		if group >= len(s.captures) {
			*d = nil
			continue
		}
		idx := s.captures[group]
		if len(idx) < 2 || idx[0] < 0 || idx[1] < 0 {
			*d = (*d)[:0]
			continue
		}
		*d = append((*d)[:0], s.buf.buf[idx[0]+s.reqStart:idx[1]+s.reqStart]...)
		present++
	}

	return present, nil
}

// Printf formats into a freshly allocated buffer and hands it to the
// underlying multiplexor's write queue for s's connection.
func Printf(s *Session, format string, args ...any) error {
	return libtcp.EnqueueWrite(s.conn, []byte(fmt.Sprintf(format, args...)))
}

// CloseSession is equivalent to closing the underlying TCP connection.
func CloseSession(s *Session) {
	libtcp.Close(s.conn)
}
