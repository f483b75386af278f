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
	"sync/atomic"
	"unsafe"
)

// The backing file holds [header | buffer[0] | ... | buffer[N-1] | extra],
// every block aligned to blockAlign. A buffer block is its fixed bookkeeping
// fields followed immediately by its ring's byte storage; the common stride
// is computed once from B and N at setup and recorded in the header so
// Connect never has to re-derive it.
//
// All offsets below are byte offsets into the mapping. Fields that more
// than one process touches are 4- or 8-byte aligned so the atomic package
// accepts them.

const (
	layoutMagic   = 0x4e4d5844 // "NMXD"
	layoutVersion = 1

	blockAlign = 64

	// header field offsets
	hdrMagic       = 0
	hdrVersion     = 4
	hdrParts       = 8
	hdrTerminating = 12
	hdrBufSize     = 16
	hdrExtraOff    = 24
	hdrExtraSize   = 32
	hdrStride      = 40
	hdrLock        = 48
	hdrSyncCount   = 52
	hdrBarrierSeq  = 56

	hdrSize = blockAlign

	// per-buffer field offsets, relative to the buffer block base
	bufLock       = 0
	bufWriting    = 4
	bufReading    = 8
	bufSeqRead    = 12 // ready_for_reading
	bufSeqWrite   = 16 // ready_for_writing
	bufSeqRAlone  = 20 // ready_for_reading_alone
	bufSeqWAlone  = 24 // ready_for_writing_alone
	bufFilled     = 32
	bufReadIndex  = 40
	bufWriteIndex = 48
	bufData       = blockAlign
)

func alignUp(n uint64) uint64 {
	return (n + blockAlign - 1) &^ (blockAlign - 1)
}

// layoutSize returns the buffer stride, the extra-space offset and the
// total mapping size for a domain of n participants with rings of b bytes
// and extra bytes of free-form shared space.
func layoutSize(b uint64, n int, extra uint64) (stride, extraOff, total uint64) {
	stride = alignUp(bufData + b)
	extraOff = hdrSize + uint64(n)*stride
	total = alignUp(extraOff + extra)
	return stride, extraOff, total
}

func (d *Domain) u32(off uint64) *uint32 {
	return (*uint32)(unsafe.Pointer(&d.mem[off]))
}

func (d *Domain) u64(off uint64) *uint64 {
	return (*uint64)(unsafe.Pointer(&d.mem[off]))
}

func (d *Domain) bufOff(rank int) uint64 {
	return hdrSize + uint64(rank)*d.stride
}

func (d *Domain) ring(rank int) []byte {
	base := d.bufOff(rank) + bufData
	return d.mem[base : base+d.bufSize]
}

func (d *Domain) load32(off uint64) uint32 {
	return atomic.LoadUint32(d.u32(off))
}

func (d *Domain) store32(off uint64, v uint32) {
	atomic.StoreUint32(d.u32(off), v)
}

func (d *Domain) load64(off uint64) uint64 {
	return atomic.LoadUint64(d.u64(off))
}

func (d *Domain) store64(off uint64, v uint64) {
	atomic.StoreUint64(d.u64(off), v)
}
