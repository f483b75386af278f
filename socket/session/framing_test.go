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

package session_test

import (
	"bufio"
	"net"
	"strconv"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libses "github.com/nabbar/netmux/socket/session"
)

// echoService frames newline requests and writes the capture back.
func echoService() libses.Handler {
	return libses.Handler{
		Request: func(s *libses.Session, global any) {
			var line []byte
			_, err := libses.Scan(s, &line)
			Expect(err).ToNot(HaveOccurred())
			Expect(libses.Printf(s, "%s\n", line)).To(Succeed())
		},
	}
}

var _ = Describe("Regex-framed Session Layer", func() {
	It("echoes every framed request back", func() {
		addr := startService(`(.*)\n`, echoService())

		cli, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = cli.Close() }()

		_, err = cli.Write([]byte("hello\nworld\n"))
		Expect(err).ToNot(HaveOccurred())

		rd := bufio.NewReader(cli)
		_ = cli.SetReadDeadline(time.Now().Add(2 * time.Second))

		l1, err := rd.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		Expect(l1).To(Equal("hello\n"))

		l2, err := rd.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		Expect(l2).To(Equal("world\n"))
	})

	It("assembles one request out of a split packet", func() {
		addr := startService(`(.*)\n`, echoService())

		cli, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = cli.Close() }()

		_, err = cli.Write([]byte("he"))
		Expect(err).ToNot(HaveOccurred())

		time.Sleep(150 * time.Millisecond)

		_, err = cli.Write([]byte("llo\n"))
		Expect(err).ToNot(HaveOccurred())

		rd := bufio.NewReader(cli)
		_ = cli.SetReadDeadline(time.Now().Add(2 * time.Second))

		line, err := rd.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		Expect(line).To(Equal("hello\n"))
	})

	It("keeps per-session and global counters apart across sessions", func() {
		// each request is "[global ]<number>\r\n": the reply is the new
		// value of the chosen counter
		var (
			mu     sync.Mutex
			global int
		)

		h := libses.Handler{
			Open: func(s *libses.Session, _ any) {
				local := 0
				s.Local = &local
			},
			Request: func(s *libses.Session, _ any) {
				var scope, num []byte
				_, err := libses.Scan(s, &scope, &num)
				Expect(err).ToNot(HaveOccurred())

				n, err := strconv.Atoi(string(num))
				Expect(err).ToNot(HaveOccurred())

				var v int
				if len(scope) > 0 {
					mu.Lock()
					global += n
					v = global
					mu.Unlock()
				} else {
					p := s.Local.(*int)
					*p += n
					v = *p
				}

				Expect(libses.Printf(s, "%d\r\n", v)).To(Succeed())
			},
		}

		addr := startService(`(?:(global) )?(-?\d+)\r\n`, h)

		connA, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = connA.Close() }()

		connB, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = connB.Close() }()

		rdA := bufio.NewReader(connA)
		rdB := bufio.NewReader(connB)
		_ = connA.SetReadDeadline(time.Now().Add(2 * time.Second))
		_ = connB.SetReadDeadline(time.Now().Add(2 * time.Second))

		ask := func(c net.Conn, rd *bufio.Reader, req string) string {
			_, e := c.Write([]byte(req))
			Expect(e).ToNot(HaveOccurred())
			rep, e := rd.ReadString('\n')
			Expect(e).ToNot(HaveOccurred())
			return rep
		}

		Expect(ask(connA, rdA, "5\r\n")).To(Equal("5\r\n"))
		Expect(ask(connA, rdA, "3\r\n")).To(Equal("8\r\n"))
		Expect(ask(connB, rdB, "global 10\r\n")).To(Equal("10\r\n"))
		Expect(ask(connA, rdA, "global 1\r\n")).To(Equal("11\r\n"))
	})
})
