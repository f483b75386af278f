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

package udp_test

import (
	"net"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libudp "github.com/nabbar/netmux/socket/server/udp"
)

// echoHandler reads one datagram and queues it straight back.
func echoHandler(link *libudp.Link, global any) {
	buf := make([]byte, 2048)
	n, err := libudp.Read(link, buf)
	if err != nil {
		return
	}
	_ = libudp.Enqueue(link, buf[:n])
}

// The replies come from the session's private port, TFTP-style, so the
// client side must stay unconnected and answer whatever address the first
// reply carries.
var _ = Describe("UDP Multiplexor", func() {
	It("retransmits an unacknowledged reply and closes after the retry budget", func() {
		const maxRetries = 3

		fd, domain, addr := listenLoopback()

		var closed atomic.Int64

		h := libudp.Handler{
			Open:  echoHandler,
			Input: echoHandler,
			Close: func(link *libudp.Link, global any) {
				closed.Add(1)
			},
		}

		go func() {
			defer GinkgoRecover()
			_ = libudp.Run(fd, domain, 100*time.Millisecond, maxRetries, h)
		}()

		cli, err := net.ListenPacket("udp4", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = cli.Close() }()

		srv, err := net.ResolveUDPAddr("udp4", addr)
		Expect(err).ToNot(HaveOccurred())

		_, err = cli.WriteTo([]byte("ping"), srv)
		Expect(err).ToNot(HaveOccurred())

		// the client never acknowledges, so the reply shows up once per
		// attempt, identical, exactly maxRetries times, always from the
		// same session port distinct from the listener's
		var session net.Addr

		buf := make([]byte, 64)
		for i := 0; i < maxRetries; i++ {
			_ = cli.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, from, e := cli.ReadFrom(buf)
			Expect(e).ToNot(HaveOccurred())
			Expect(string(buf[:n])).To(Equal("ping"))
			Expect(from.String()).ToNot(Equal(srv.String()))

			if session == nil {
				session = from
			} else {
				Expect(from.String()).To(Equal(session.String()))
			}
		}

		// past the budget the link is torn down: no further traffic
		_ = cli.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		_, _, err = cli.ReadFrom(buf)
		Expect(err).To(HaveOccurred())

		Eventually(closed.Load, 2*time.Second, 20*time.Millisecond).Should(Equal(int64(1)))
	})

	It("treats any inbound datagram as acknowledgement of the pending head", func() {
		fd, domain, addr := listenLoopback()

		var inputs atomic.Int64

		h := libudp.Handler{
			Open: echoHandler,
			Input: func(link *libudp.Link, global any) {
				inputs.Add(1)
				buf := make([]byte, 2048)
				_, _ = libudp.Read(link, buf)
			},
		}

		go func() {
			defer GinkgoRecover()
			_ = libudp.Run(fd, domain, 100*time.Millisecond, 5, h)
		}()

		cli, err := net.ListenPacket("udp4", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = cli.Close() }()

		srv, err := net.ResolveUDPAddr("udp4", addr)
		Expect(err).ToNot(HaveOccurred())

		_, err = cli.WriteTo([]byte("ping"), srv)
		Expect(err).ToNot(HaveOccurred())

		buf := make([]byte, 64)
		_ = cli.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, session, e := cli.ReadFrom(buf)
		Expect(e).ToNot(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("ping"))

		// acknowledge on the session port; the server must stop
		// retransmitting
		_, err = cli.WriteTo([]byte("ack"), session)
		Expect(err).ToNot(HaveOccurred())

		Eventually(inputs.Load, 2*time.Second, 20*time.Millisecond).Should(Equal(int64(1)))

		_ = cli.SetReadDeadline(time.Now().Add(400 * time.Millisecond))
		_, _, err = cli.ReadFrom(buf)
		Expect(err).To(HaveOccurred())
	})
})
