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

// Package semaphore bounds how many workers run simultaneously, wrapping
// golang.org/x/sync/semaphore behind the worker/main vocabulary the rest of
// the module speaks: a caller takes one slot per worker with NewWorker,
// gives it back with DeferWorker, and drains everything with WaitAll or
// DeferMain.
package semaphore

import (
	"context"
	"runtime"

	sdksmp "golang.org/x/sync/semaphore"
)

// Semaphore hands out worker slots up to a fixed simultaneous count.
type Semaphore interface {
	// NewWorker blocks until a slot frees up, or fails when the context
	// is done.
	NewWorker() error

	// NewWorkerTry takes a slot only if one is immediately free.
	NewWorkerTry() bool

	// DeferWorker gives one slot back.
	DeferWorker()

	// WaitAll blocks until every handed-out slot is back, or fails when
	// the context is done.
	WaitAll() error

	// DeferMain abandons the semaphore, releasing its context. Meant for
	// defer right after New.
	DeferMain()

	// Context exposes the semaphore's internal context, done once
	// DeferMain ran or the parent expired.
	Context() context.Context
}

// MaxSimultaneous returns the default simultaneous count, one slot per
// schedulable CPU.
func MaxSimultaneous() int {
	return runtime.GOMAXPROCS(0)
}

// New builds a Semaphore allowing nbrSimultaneous concurrent workers; zero
// or negative means MaxSimultaneous(). The parent context bounds every
// blocking call.
func New(ctx context.Context, nbrSimultaneous int) Semaphore {
	if nbrSimultaneous < 1 {
		nbrSimultaneous = MaxSimultaneous()
	}

	x, n := context.WithCancel(ctx)

	return &sem{
		d: int64(nbrSimultaneous),
		s: sdksmp.NewWeighted(int64(nbrSimultaneous)),
		x: x,
		n: n,
	}
}
