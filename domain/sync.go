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

package domain

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Cross-process synchronization over the mapping: a lock word per mutex
// and a sequence counter per condition. A waiter snapshots the sequence
// while still holding the mutex, releases it, then polls for the sequence
// to move; a waker bumps the sequence. Because the snapshot happens before
// the release, a bump can never slip between predicate check and sleep,
// so no wakeup is lost. Waiters spin briefly, then yield, then sleep.

const (
	spinRounds  = 64
	yieldRounds = 256
	sleepStep   = 50 * time.Microsecond
)

func backoff(round int) {
	switch {
	case round < spinRounds:
	case round < yieldRounds:
		runtime.Gosched()
	default:
		time.Sleep(sleepStep)
	}
}

// lock acquires the lock word at off, giving up only when the domain turns
// terminating. Returns false in that case, with the lock not held.
func (d *Domain) lock(off uint64) bool {
	for round := 0; ; round++ {
		if atomic.CompareAndSwapUint32(d.u32(off), 0, 1) {
			return true
		}
		if d.Terminating() {
			return false
		}
		backoff(round)
	}
}

func (d *Domain) unlock(off uint64) {
	atomic.StoreUint32(d.u32(off), 0)
}

// wake bumps the sequence at seqOff, releasing every current waiter on it.
// Waiters always re-check their predicate, so waking more than one is
// harmless; this makes signal and broadcast the same operation.
func (d *Domain) wake(seqOff uint64) {
	atomic.AddUint32(d.u32(seqOff), 1)
}

// waitSeq blocks until the sequence at seqOff differs from gen or the
// domain turns terminating; the caller must not hold any domain lock.
// Returns false on termination.
func (d *Domain) waitSeq(seqOff uint64, gen uint32) bool {
	for round := 0; ; round++ {
		if d.Terminating() {
			return false
		}
		if atomic.LoadUint32(d.u32(seqOff)) != gen {
			return true
		}
		backoff(round)
	}
}

// wait atomically releases the lock at lockOff, blocks on the condition
// sequence at seqOff, and re-acquires the lock before returning true. On
// termination it returns false with the lock not held: the domain is done
// for, so callers skip their usual token cleanup and fail out.
func (d *Domain) wait(seqOff, lockOff uint64) bool {
	gen := atomic.LoadUint32(d.u32(seqOff))
	d.unlock(lockOff)

	if !d.waitSeq(seqOff, gen) {
		return false
	}

	return d.lock(lockOff)
}
