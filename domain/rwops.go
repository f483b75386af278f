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

// Write sends p, whole, into recipient's mailbox. It blocks while another
// sender holds the recipient's writing token, then while the ring is full,
// transferring across as many ring wraps as p needs; no other sender's
// bytes interleave with p at the recipient. Returns false on a rank out of
// range, an empty p, or domain termination.
func (d *Domain) Write(recipient int, p []byte) bool {
	if recipient < 0 || recipient >= d.parts || len(p) == 0 {
		return false
	}
	if d.Terminating() {
		return false
	}

	base := d.bufOff(recipient)

	if !d.lock(base + bufLock) {
		return false
	}
	if d.Terminating() {
		d.unlock(base + bufLock)
		return false
	}

	// acquire the writing token
	for d.load32(base+bufWriting) != 0 {
		if !d.wait(base+bufSeqWAlone, base+bufLock) {
			return false
		}
	}
	d.store32(base+bufWriting, 1)

	ring := d.ring(recipient)

	for len(p) > 0 {
		for d.load64(base+bufFilled) == d.bufSize {
			if !d.wait(base+bufSeqWrite, base+bufLock) {
				return false
			}
		}

		filled := d.load64(base + bufFilled)
		wi := d.load64(base + bufWriteIndex)

		chunk := uint64(len(p))
		if free := d.bufSize - filled; chunk > free {
			chunk = free
		}
		if tail := d.bufSize - wi; chunk > tail {
			chunk = tail
		}

		copy(ring[wi:wi+chunk], p[:chunk])
		p = p[chunk:]

		d.store64(base+bufWriteIndex, (wi+chunk)%d.bufSize)
		atomic.AddUint64(d.u64(base+bufFilled), chunk)
		d.wake(base + bufSeqRead)
	}

	// release the writing token
	d.store32(base+bufWriting, 0)
	d.wake(base + bufSeqWAlone)
	d.unlock(base + bufLock)

	return true
}

// Read receives exactly len(p) bytes from this participant's own mailbox.
// It blocks while another goroutine of the same process holds the reading
// token, then while the ring is empty, draining across as many ring wraps
// as p needs. Returns false on an empty p or domain termination.
func (d *Domain) Read(p []byte) bool {
	if len(p) == 0 {
		return false
	}
	if d.Terminating() {
		return false
	}

	base := d.bufOff(d.rank)

	if !d.lock(base + bufLock) {
		return false
	}
	if d.Terminating() {
		d.unlock(base + bufLock)
		return false
	}

	// acquire the reading token
	for d.load32(base+bufReading) != 0 {
		if !d.wait(base+bufSeqRAlone, base+bufLock) {
			return false
		}
	}
	d.store32(base+bufReading, 1)

	ring := d.ring(d.rank)

	for len(p) > 0 {
		for d.load64(base+bufFilled) == 0 {
			if !d.wait(base+bufSeqRead, base+bufLock) {
				return false
			}
		}

		filled := d.load64(base + bufFilled)
		ri := d.load64(base + bufReadIndex)

		chunk := uint64(len(p))
		if chunk > filled {
			chunk = filled
		}
		if tail := d.bufSize - ri; chunk > tail {
			chunk = tail
		}

		copy(p[:chunk], ring[ri:ri+chunk])
		p = p[chunk:]

		d.store64(base+bufReadIndex, (ri+chunk)%d.bufSize)
		atomic.AddUint64(d.u64(base+bufFilled), ^(chunk - 1))
		d.wake(base + bufSeqWrite)
	}

	// release the reading token
	d.store32(base+bufReading, 0)
	d.wake(base + bufSeqRAlone)
	d.unlock(base + bufLock)

	return true
}
