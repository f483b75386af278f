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
	"fmt"
	"net"
	"strconv"
	"strings"

	libptc "github.com/nabbar/netmux/network/protocol"
)

// maxUnixPathLen mirrors the sun_path field of struct sockaddr_un on Linux:
// 108 bytes total, one of which is reserved for the guaranteed trailing zero.
const maxUnixPathLen = 107

// Spec is one bindable alternative produced by Resolve: a network family
// (tcp/tcp4/tcp6/udp/udp4/udp6/unix/unixgram) paired with the address string
// accepted by net.Listen / net.ListenPacket / net.Dial for that family.
type Spec struct {
	Network libptc.NetworkProtocol
	Address string
}

// String renders the spec as "<network>://<address>" for display, e.g.
// "tcp://127.0.0.1:8080" or "unix:///run/netmux.sock"; this form is not
// itself accepted by net.Dial/net.Listen.
func (s Spec) String() string {
	return fmt.Sprintf("%s://%s", s.Network.Code(), s.Address)
}

// Chain is an ordered list of alternative Specs to try in sequence; the
// first that binds successfully wins.
type Chain []Spec

// String prints every alternative, comma separated, in resolution order.
func (c Chain) String() string {
	s := make([]string, 0, len(c))
	for _, e := range c {
		s = append(s, e.String())
	}
	return strings.Join(s, ", ")
}

// isFilesystemPath reports whether host is a filesystem socket path rather
// than a host[:port] specification: paths begin with "/" or ".".
func isFilesystemPath(host string) bool {
	return strings.HasPrefix(host, "/") || strings.HasPrefix(host, ".")
}

// Resolve converts a text endpoint ("host[:port]" or a filesystem path) into
// a Chain of bindable alternatives for the given base protocol (only the
// IsTCP()/IsUDP() family of proto is honored; the exact variant, e.g. tcp
// versus tcp4, is preserved into every alternative unless proto is the
// family-agnostic NetworkTCP/NetworkUDP, in which case each resolved address
// picks its own v4/v6 variant).
//
// defaultPort is used when host carries no explicit port and is not a
// filesystem path.
func Resolve(hostport string, defaultPort uint16, proto libptc.NetworkProtocol) (Chain, error) {
	if hostport == "" {
		return nil, ErrorEndpointEmpty.Error(nil)
	}

	if isFilesystemPath(hostport) {
		if len(hostport) > maxUnixPathLen {
			return nil, ErrorEndpointPathTooLong.Error(nil)
		}

		n := libptc.NetworkUnix
		if proto.IsUDP() {
			n = libptc.NetworkUnixGram
		}

		return Chain{{Network: n, Address: hostport}}, nil
	}

	host, port, err := splitHostPort(hostport, defaultPort)
	if err != nil {
		return nil, ErrorEndpointResolve.Error(err)
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		// host may already be a literal address unknown to the resolver
		// (e.g. sandboxed environments without /etc/hosts); fall back to
		// a single alternative using the literal text as-is.
		return Chain{{Network: proto, Address: net.JoinHostPort(host, port)}}, nil
	}

	c := make(Chain, 0, len(ips))
	for _, ip := range ips {
		n := proto
		if ip.To4() != nil {
			n = variantFor(proto, false)
		} else {
			n = variantFor(proto, true)
		}
		c = append(c, Spec{Network: n, Address: net.JoinHostPort(ip.String(), port)})
	}

	if len(c) == 0 {
		return nil, ErrorEndpointNoAlternative.Error(nil)
	}

	return c, nil
}

// variantFor narrows a family-agnostic protocol (NetworkTCP/NetworkUDP) to
// its v4/v6 specific constant; an already-specific proto is returned as-is.
func variantFor(proto libptc.NetworkProtocol, v6 bool) libptc.NetworkProtocol {
	switch proto {
	case libptc.NetworkTCP:
		if v6 {
			return libptc.NetworkTCP6
		}
		return libptc.NetworkTCP4
	case libptc.NetworkUDP:
		if v6 {
			return libptc.NetworkUDP6
		}
		return libptc.NetworkUDP4
	default:
		return proto
	}
}

func splitHostPort(hostport string, defaultPort uint16) (host, port string, err error) {
	host, port, err = net.SplitHostPort(hostport)
	if err != nil {
		// no port present: treat the whole string as host, apply the default
		host = hostport
		port = strconv.FormatUint(uint64(defaultPort), 10)
		return host, port, nil
	}
	return host, port, nil
}

// Listen tries every alternative in order and returns the first listener
// that binds, for stream-oriented families (tcp*, unix).
func (c Chain) Listen() (net.Listener, Spec, error) {
	var lastErr error
	for _, s := range c {
		l, e := net.Listen(s.Network.Code(), s.Address)
		if e == nil {
			return l, s, nil
		}
		lastErr = e
	}
	return nil, Spec{}, ErrorEndpointBindAll.Error(lastErr)
}

// ListenPacket tries every alternative in order and returns the first packet
// connection that binds, for datagram-oriented families (udp*, unixgram).
func (c Chain) ListenPacket() (net.PacketConn, Spec, error) {
	var lastErr error
	for _, s := range c {
		l, e := net.ListenPacket(s.Network.Code(), s.Address)
		if e == nil {
			return l, s, nil
		}
		lastErr = e
	}
	return nil, Spec{}, ErrorEndpointBindAll.Error(lastErr)
}
