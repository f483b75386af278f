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

package endpoint_test

import (
	"strings"
	"testing"

	libep "github.com/nabbar/netmux/network/endpoint"
	libptc "github.com/nabbar/netmux/network/protocol"
)

func TestResolveLiteralHostPort(t *testing.T) {
	chain, err := libep.Resolve("127.0.0.1:8080", 1234, libptc.NetworkTCP)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(chain) == 0 {
		t.Fatal("empty chain")
	}
	if chain[0].Address != "127.0.0.1:8080" {
		t.Fatalf("address: got %q", chain[0].Address)
	}
	if !chain[0].Network.IsTCP() {
		t.Fatalf("network: got %v", chain[0].Network)
	}
}

func TestResolveDefaultPort(t *testing.T) {
	chain, err := libep.Resolve("127.0.0.1", 1234, libptc.NetworkTCP4)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.HasSuffix(chain[0].Address, ":1234") {
		t.Fatalf("default port not applied: %q", chain[0].Address)
	}
}

func TestResolveFilesystemPath(t *testing.T) {
	for _, p := range []string{"/run/test.sock", "./local.sock"} {
		chain, err := libep.Resolve(p, 0, libptc.NetworkTCP)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", p, err)
		}
		if len(chain) != 1 {
			t.Fatalf("path must resolve to one alternative, got %d", len(chain))
		}
		if chain[0].Network != libptc.NetworkUnix {
			t.Fatalf("network: got %v", chain[0].Network)
		}
		if chain[0].Address != p {
			t.Fatalf("address: got %q", chain[0].Address)
		}
	}

	// datagram flavor for UDP resolutions
	chain, err := libep.Resolve("/run/test.sock", 0, libptc.NetworkUDP)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if chain[0].Network != libptc.NetworkUnixGram {
		t.Fatalf("network: got %v", chain[0].Network)
	}
}

func TestResolveRejectsOversizedPath(t *testing.T) {
	long := "/" + strings.Repeat("x", 120)
	if _, err := libep.Resolve(long, 0, libptc.NetworkTCP); err == nil {
		t.Fatal("oversized socket path should not resolve")
	}
}

func TestResolveRejectsEmpty(t *testing.T) {
	if _, err := libep.Resolve("", 0, libptc.NetworkTCP); err == nil {
		t.Fatal("empty endpoint should not resolve")
	}
}

func TestSpecPrinter(t *testing.T) {
	chain, err := libep.Resolve("127.0.0.1:9000", 0, libptc.NetworkTCP4)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if s := chain[0].String(); s != "tcp4://127.0.0.1:9000" {
		t.Fatalf("String: got %q", s)
	}
	if s := chain.String(); !strings.Contains(s, "tcp4://127.0.0.1:9000") {
		t.Fatalf("chain String: got %q", s)
	}
}
