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

package semaphore_test

import (
	"context"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libsem "github.com/nabbar/netmux/semaphore"
)

var _ = Describe("Semaphore", func() {
	It("hands out up to the configured number of slots", func() {
		sem := libsem.New(context.Background(), 3)
		defer sem.DeferMain()

		Expect(sem.NewWorker()).ToNot(HaveOccurred())
		Expect(sem.NewWorker()).ToNot(HaveOccurred())
		Expect(sem.NewWorker()).ToNot(HaveOccurred())

		Expect(sem.NewWorkerTry()).To(BeFalse())

		sem.DeferWorker()
		Expect(sem.NewWorkerTry()).To(BeTrue())

		sem.DeferWorker()
		sem.DeferWorker()
		sem.DeferWorker()
	})

	It("defaults to one slot per CPU", func() {
		sem := libsem.New(context.Background(), 0)
		defer sem.DeferMain()

		for i := 0; i < libsem.MaxSimultaneous(); i++ {
			Expect(sem.NewWorkerTry()).To(BeTrue())
		}
		Expect(sem.NewWorkerTry()).To(BeFalse())
	})

	It("WaitAll blocks until every slot is back", func() {
		sem := libsem.New(context.Background(), 2)
		defer sem.DeferMain()

		var done atomic.Int32

		Expect(sem.NewWorker()).ToNot(HaveOccurred())
		Expect(sem.NewWorker()).ToNot(HaveOccurred())

		for i := 0; i < 2; i++ {
			go func() {
				defer GinkgoRecover()
				done.Add(1)
				sem.DeferWorker()
			}()
		}

		Expect(sem.WaitAll()).ToNot(HaveOccurred())
		Expect(done.Load()).To(Equal(int32(2)))
	})

	It("fails NewWorker once the context is gone", func() {
		ctx, cancel := context.WithCancel(context.Background())
		sem := libsem.New(ctx, 1)
		defer sem.DeferMain()

		cancel()
		Expect(sem.NewWorker()).To(HaveOccurred())
	})
})
