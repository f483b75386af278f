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

import "sync/atomic"

// Barrier blocks until every participant in the domain has entered it.
// The sync counter starts each round at 0: the first entrant sets it to
// N-1 and waits; each later entrant decrements it; whoever brings it to 0
// releases everyone. Because the counter is back at 0 on release, a fresh
// round may follow immediately. Returns false when the domain is (or
// turns) terminating, for every waiter.
func (d *Domain) Barrier() bool {
	if d.Terminating() {
		return false
	}

	if !d.lock(hdrLock) {
		return false
	}
	if d.Terminating() {
		d.unlock(hdrLock)
		return false
	}

	sc := d.load32(hdrSyncCount)
	if sc == 0 {
		sc = uint32(d.parts - 1)
	} else {
		sc--
	}
	d.store32(hdrSyncCount, sc)

	if sc == 0 {
		// last one in releases the round
		d.wake(hdrBarrierSeq)
		d.unlock(hdrLock)
		return true
	}

	gen := atomic.LoadUint32(d.u32(hdrBarrierSeq))
	d.unlock(hdrLock)

	return d.waitSeq(hdrBarrierSeq, gen)
}
