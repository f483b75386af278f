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
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Domain Barrier and Shutdown", func() {
	It("releases every participant once per round, for two rounds", func() {
		const parts = 4

		handles := setupDomain(32, parts)
		defer freeDomain(handles)

		var afterFirst, afterSecond atomic.Int32

		var wg sync.WaitGroup
		for r := 0; r < parts; r++ {
			wg.Add(1)
			rank := r
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				Expect(handles[rank].Barrier()).To(BeTrue())
				afterFirst.Add(1)

				// everyone must have cleared round one before anyone
				// clears round two
				Expect(handles[rank].Barrier()).To(BeTrue())
				Expect(afterFirst.Load()).To(Equal(int32(parts)))
				afterSecond.Add(1)
			}()
		}

		wg.Wait()
		Expect(afterFirst.Load()).To(Equal(int32(parts)))
		Expect(afterSecond.Load()).To(Equal(int32(parts)))
	})

	It("wakes blocked readers and barrier waiters on shutdown", func() {
		handles := setupDomain(32, 3)
		defer freeDomain(handles)

		results := make(chan bool, 2)

		go func() {
			defer GinkgoRecover()
			// blocks: nothing ever lands in rank 1's mailbox
			results <- handles[1].Read(make([]byte, 8))
		}()

		go func() {
			defer GinkgoRecover()
			// blocks: the other two ranks never enter
			results <- handles[2].Barrier()
		}()

		// give both goroutines time to block
		time.Sleep(100 * time.Millisecond)

		Expect(handles[0].Shutdown()).To(BeTrue())

		Eventually(results, 2*time.Second).Should(Receive(BeFalse()))
		Eventually(results, 2*time.Second).Should(Receive(BeFalse()))

		for _, h := range handles {
			Expect(h.Terminating()).To(BeTrue())
		}

		// every later operation fails fast
		Expect(handles[0].Write(1, []byte("x"))).To(BeFalse())
		Expect(handles[1].Read(make([]byte, 1))).To(BeFalse())
		Expect(handles[2].Barrier()).To(BeFalse())
	})

	It("refuses shutdown from a non-creator", func() {
		handles := setupDomain(32, 2)
		defer freeDomain(handles)

		Expect(handles[1].Shutdown()).To(BeFalse())
		Expect(handles[0].Terminating()).To(BeFalse())
	})
})
