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

package semaphore

import (
	"context"

	sdksmp "golang.org/x/sync/semaphore"
)

type sem struct {
	d int64
	s *sdksmp.Weighted
	x context.Context
	n context.CancelFunc
}

func (o *sem) NewWorker() error {
	return o.s.Acquire(o.x, 1)
}

func (o *sem) NewWorkerTry() bool {
	return o.s.TryAcquire(1)
}

func (o *sem) DeferWorker() {
	o.s.Release(1)
}

func (o *sem) WaitAll() error {
	if err := o.s.Acquire(o.x, o.d); err != nil {
		return err
	}

	o.s.Release(o.d)
	return nil
}

func (o *sem) DeferMain() {
	if o.n != nil {
		o.n()
	}
}

func (o *sem) Context() context.Context {
	return o.x
}
