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

package tcp_test

import (
	"io"
	"net"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libtcp "github.com/nabbar/netmux/socket/server/tcp"
)

var _ = Describe("TCP Multiplexor", func() {
	It("echoes bytes back in enqueue order and closes exactly once", func() {
		fd, addr := listenLoopback()

		var opened, closed atomic.Int64

		h := libtcp.Handler{
			Open: func(conn *libtcp.Connection, global any) {
				opened.Add(1)
			},
			Input: func(conn *libtcp.Connection, global any) {
				buf := make([]byte, 4096)
				n, err := libtcp.Read(conn, buf)
				if err != nil {
					return
				}
				// two enqueues per burst: bytes must still come out
				// concatenated in order
				Expect(libtcp.EnqueueWrite(conn, buf[:n/2])).To(Succeed())
				Expect(libtcp.EnqueueWrite(conn, buf[n/2:n])).To(Succeed())
			},
			Close: func(conn *libtcp.Connection, global any) {
				closed.Add(1)
			},
		}

		go func() {
			defer GinkgoRecover()
			_ = libtcp.Run(fd, h)
		}()

		cli, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())

		_, err = cli.Write([]byte("hello world!"))
		Expect(err).ToNot(HaveOccurred())

		got := make([]byte, len("hello world!"))
		_, err = io.ReadFull(cli, got)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(got)).To(Equal("hello world!"))

		Expect(cli.Close()).To(Succeed())

		Eventually(opened.Load, time.Second, 10*time.Millisecond).Should(Equal(int64(1)))
		Eventually(closed.Load, time.Second, 10*time.Millisecond).Should(Equal(int64(1)))
		Consistently(closed.Load, 200*time.Millisecond, 50*time.Millisecond).Should(Equal(int64(1)))
	})

	It("drains pending writes before tearing a closed connection down", func() {
		fd, addr := listenLoopback()

		payload := []byte("goodbye and thanks for all the fish\n")

		h := libtcp.Handler{
			Input: func(conn *libtcp.Connection, global any) {
				buf := make([]byte, 64)
				if _, err := libtcp.Read(conn, buf); err != nil {
					return
				}
				Expect(libtcp.EnqueueWrite(conn, payload)).To(Succeed())
				libtcp.Close(conn)
			},
		}

		go func() {
			defer GinkgoRecover()
			_ = libtcp.Run(fd, h)
		}()

		cli, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = cli.Close() }()

		_, err = cli.Write([]byte("x"))
		Expect(err).ToNot(HaveOccurred())

		got := make([]byte, len(payload))
		_, err = io.ReadFull(cli, got)
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(payload))

		// after the drain the server tore the connection down: reads
		// must hit EOF
		_ = cli.SetReadDeadline(time.Now().Add(time.Second))
		_, err = cli.Read(make([]byte, 1))
		Expect(err).To(Equal(io.EOF))
	})

	It("closes idle connections once the idle timeout elapses", func() {
		fd, addr := listenLoopback()

		var closed atomic.Int64

		h := libtcp.Handler{
			Close: func(conn *libtcp.Connection, global any) {
				closed.Add(1)
			},
		}

		go func() {
			defer GinkgoRecover()
			_ = libtcp.Run(fd, h, libtcp.Options{IdleTimeout: 100 * time.Millisecond})
		}()

		cli, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = cli.Close() }()

		Eventually(closed.Load, 2*time.Second, 20*time.Millisecond).Should(Equal(int64(1)))
	})
})
