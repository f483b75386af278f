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

package domain_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libdom "github.com/nabbar/netmux/domain"
)

func TestGolibDomain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Domain Suite")
}

// setupDomain creates a domain and one connected handle per non-creator
// rank. Handles share the process here; the mapping underneath is the same
// file-backed region separate processes would share.
func setupDomain(bufSize uint64, parts int) []*libdom.Domain {
	creator, err := libdom.Setup(libdom.Config{
		BufferSize:   bufSize,
		Participants: parts,
	})
	Expect(err).ToNot(HaveOccurred())

	handles := make([]*libdom.Domain, parts)
	handles[0] = creator

	for r := 1; r < parts; r++ {
		h, e := libdom.Connect(creator.Path(), r)
		Expect(e).ToNot(HaveOccurred())
		handles[r] = h
	}

	return handles
}

func freeDomain(handles []*libdom.Domain) {
	for r := len(handles) - 1; r >= 0; r-- {
		if handles[r] != nil {
			_ = handles[r].Free()
		}
	}
}
