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
	"bytes"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Domain Mailboxes", func() {
	It("delivers one sender's writes in order, across ring wraps", func() {
		handles := setupDomain(64, 2)
		defer freeDomain(handles)

		// 8 messages of 48 bytes through a 64-byte ring: the write
		// index cycles 0, 48, 32, 16, so every other pair of messages
		// wraps past the ring's end
		const msgLen = 48
		const rounds = 8

		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				msg := bytes.Repeat([]byte{byte('a' + i)}, msgLen)
				Expect(handles[0].Write(1, msg)).To(BeTrue())
			}
		}()

		for i := 0; i < rounds; i++ {
			got := make([]byte, msgLen)
			Expect(handles[1].Read(got)).To(BeTrue())
			Expect(got).To(Equal(bytes.Repeat([]byte{byte('a' + i)}, msgLen)))
		}

		wg.Wait()
	})

	It("never interleaves two senders' messages to one recipient", func() {
		handles := setupDomain(128, 3)
		defer freeDomain(handles)

		// senders 1 and 2 each flood rank 0 with marked messages longer
		// than the ring, forcing both to block mid-transfer; atomicity
		// means every received message is uniformly one marker
		const msgLen = 300
		const rounds = 16

		var wg sync.WaitGroup

		for _, s := range []int{1, 2} {
			wg.Add(1)
			sender := s
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				msg := bytes.Repeat([]byte{byte('0' + sender)}, msgLen)
				for i := 0; i < rounds; i++ {
					Expect(handles[sender].Write(0, msg)).To(BeTrue())
				}
			}()
		}

		seen := map[byte]int{}
		for i := 0; i < 2*rounds; i++ {
			got := make([]byte, msgLen)
			Expect(handles[0].Read(got)).To(BeTrue())

			marker := got[0]
			seen[marker]++
			Expect(got).To(Equal(bytes.Repeat([]byte{marker}, msgLen)))
		}

		Expect(seen[byte('1')]).To(Equal(rounds))
		Expect(seen[byte('2')]).To(Equal(rounds))

		wg.Wait()
	})

	It("rejects empty buffers and out-of-range ranks", func() {
		handles := setupDomain(32, 2)
		defer freeDomain(handles)

		Expect(handles[0].Write(1, nil)).To(BeFalse())
		Expect(handles[0].Write(-1, []byte("x"))).To(BeFalse())
		Expect(handles[0].Write(2, []byte("x"))).To(BeFalse())
		Expect(handles[0].Read(nil)).To(BeFalse())
	})
})
