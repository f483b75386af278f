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

package endpoint

import (
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// Domain returns the socket(2) address family for this alternative: the
// "domain" half of the (domain, type, protocol, address, address-length)
// bind spec the resolver hands to raw-fd servers.
func (s Spec) Domain() int {
	switch {
	case s.Network.IsUnix():
		return unix.AF_UNIX
	case s.Network.Code() == "tcp6" || s.Network.Code() == "udp6":
		return unix.AF_INET6
	default:
		return unix.AF_INET
	}
}

// Type returns the socket(2) type: SOCK_STREAM for TCP/unix, SOCK_DGRAM for
// UDP/unixgram.
func (s Spec) Type() int {
	if s.Network.IsUDP() || s.Network.Code() == "unixgram" {
		return unix.SOCK_DGRAM
	}
	return unix.SOCK_STREAM
}

// Sockaddr resolves Address into a unix.Sockaddr suitable for bind(2) or
// connect(2), matching Domain()/Type().
func (s Spec) Sockaddr() (unix.Sockaddr, error) {
	if s.Network.IsUnix() {
		return &unix.SockaddrUnix{Name: s.Address}, nil
	}

	host, portStr, err := net.SplitHostPort(s.Address)
	if err != nil {
		host = s.Address
		portStr = "0"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, err := net.LookupIP(host)
		if err != nil || len(ips) == 0 {
			return nil, err
		}
		ip = ips[0]
	}

	if v4 := ip.To4(); v4 != nil && s.Domain() == unix.AF_INET {
		var a [4]byte
		copy(a[:], v4)
		return &unix.SockaddrInet4{Port: port, Addr: a}, nil
	}

	var a [16]byte
	copy(a[:], ip.To16())
	return &unix.SockaddrInet6{Port: port, Addr: a}, nil
}
