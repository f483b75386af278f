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

package session

// growChunk is the minimum capacity added to the sliding buffer before
// each read.
const growChunk = 2048

// slidingBuffer is a growable byte container with a read cursor: bytes
// [0, offset) are consumed, [offset, length) are unread. The invariant
// offset <= length always holds.
type slidingBuffer struct {
	buf    []byte
	length int
	offset int
}

// unread returns the live, unconsumed suffix.
func (s *slidingBuffer) unread() []byte {
	return s.buf[s.offset:s.length]
}

// advance moves the read cursor forward by n bytes, n <= length-offset.
func (s *slidingBuffer) advance(n int) {
	s.offset += n
}

// reserve grows the buffer's tail capacity by at least n bytes, compacting
// (shifting the live suffix to the front) when the consumed prefix is worth
// reclaiming instead of growing further.
func (s *slidingBuffer) reserve(n int) {
	if n < growChunk {
		n = growChunk
	}

	free := cap(s.buf) - s.length
	if free >= n {
		return
	}

	live := s.length - s.offset
	if s.offset > 0 {
		copy(s.buf, s.buf[s.offset:s.length])
		s.length = live
		s.offset = 0

		if cap(s.buf)-s.length >= n {
			return
		}
	}

	grown := make([]byte, live, live+n)
	copy(grown, s.buf[s.offset:s.length])
	s.buf = grown
	s.length = live
	s.offset = 0
}

// tail returns the writable region beyond length, sized to at least
// growChunk bytes; callers append/read into it and then call commit.
func (s *slidingBuffer) tail() []byte {
	s.reserve(growChunk)
	return s.buf[s.length:cap(s.buf)]
}

// commit records that n bytes were written into the slice returned by tail.
func (s *slidingBuffer) commit(n int) {
	s.length += n
}
