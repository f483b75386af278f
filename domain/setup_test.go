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
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libdom "github.com/nabbar/netmux/domain"
)

var _ = Describe("Domain Setup and Connect", func() {
	It("rejects a zero buffer size or participant count", func() {
		_, err := libdom.Setup(libdom.Config{BufferSize: 0, Participants: 2})
		Expect(err).To(HaveOccurred())

		_, err = libdom.Setup(libdom.Config{BufferSize: 16, Participants: 0})
		Expect(err).To(HaveOccurred())
	})

	It("rejects connecting with a rank out of range or a bogus file", func() {
		creator, err := libdom.Setup(libdom.Config{BufferSize: 16, Participants: 2})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = creator.Free() }()

		_, err = libdom.Connect(creator.Path(), 2)
		Expect(err).To(HaveOccurred())

		_, err = libdom.Connect(creator.Path(), -1)
		Expect(err).To(HaveOccurred())

		f, e := os.CreateTemp("", "")
		Expect(e).ToNot(HaveOccurred())
		defer func() { _ = os.Remove(f.Name()) }()
		Expect(f.Close()).To(Succeed())

		_, err = libdom.Connect(f.Name(), 0)
		Expect(err).To(HaveOccurred())
	})

	It("shares the extra space between creator and connected handles", func() {
		creator, err := libdom.Setup(libdom.Config{BufferSize: 16, Participants: 2, ExtraSize: 64})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = creator.Free() }()

		other, err := libdom.Connect(creator.Path(), 1)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = other.Free() }()

		copy(creator.Extra(), "shared state")
		Expect(string(other.Extra()[:12])).To(Equal("shared state"))
	})

	It("unlinks the backing file when the creator frees", func() {
		creator, err := libdom.Setup(libdom.Config{BufferSize: 16, Participants: 1})
		Expect(err).ToNot(HaveOccurred())

		path := creator.Path()
		_, err = os.Stat(path)
		Expect(err).ToNot(HaveOccurred())

		Expect(creator.Free()).To(Succeed())

		_, err = os.Stat(path)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
