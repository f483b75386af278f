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
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	libiot "github.com/nabbar/netmux/ioutils"
)

// Setup creates the backing file under the system temp directory, sizes it
// for the header, the N stride-aligned mailboxes and the optional extra
// space, maps it shared, and initializes the whole region. The returned
// handle is the creator's, with rank 0; the other participants bootstrap
// with Connect using Path() and their own rank.
func Setup(cfg Config) (*Domain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lg := cfg.Log
	if lg == nil {
		lg = logrus.StandardLogger()
	}

	mode := cfg.FileMode.FileMode()
	if mode == 0 {
		mode = 0600
	}

	f, err := libiot.NewTempFile()
	if err != nil {
		return nil, ErrorFileCreate.Error(err)
	}

	path := f.Name()

	stride, extraOff, total := layoutSize(cfg.BufferSize, cfg.Participants, cfg.ExtraSize)

	if e := f.Chmod(mode); e != nil {
		_ = libiot.DelTempFile(f)
		return nil, ErrorFileCreate.Error(e)
	}

	if e := f.Truncate(int64(total)); e != nil {
		_ = libiot.DelTempFile(f)
		return nil, ErrorFileSize.Error(e)
	}

	mem, e := unix.Mmap(int(f.Fd()), 0, int(total), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if e != nil {
		_ = libiot.DelTempFile(f)
		return nil, ErrorMapping.Error(e)
	}

	// the mapping outlives the descriptor
	_ = f.Close()

	d := &Domain{
		creator:   true,
		rank:      0,
		path:      path,
		parts:     cfg.Participants,
		bufSize:   cfg.BufferSize,
		stride:    stride,
		extraOff:  extraOff,
		extraSize: cfg.ExtraSize,
		mem:       mem,
		log:       lg,
	}

	d.store32(hdrVersion, layoutVersion)
	d.store32(hdrParts, uint32(cfg.Participants))
	d.store64(hdrBufSize, cfg.BufferSize)
	d.store64(hdrExtraOff, extraOff)
	d.store64(hdrExtraSize, cfg.ExtraSize)
	d.store64(hdrStride, stride)

	// the magic goes in last: a connecting worker that observes it may
	// trust every other header field.
	d.store32(hdrMagic, layoutMagic)

	lg.WithFields(logrus.Fields{
		"name":         path,
		"participants": cfg.Participants,
		"buffer_size":  cfg.BufferSize,
		"total_size":   total,
	}).Debug("domain: created")

	return d, nil
}

// Connect opens the backing file created by another participant's Setup,
// maps it at whatever base this process's address space allows, and
// returns the handle for the given rank.
func Connect(name string, rank int, log ...logrus.FieldLogger) (*Domain, error) {
	lg := logrus.FieldLogger(logrus.StandardLogger())
	if len(log) > 0 && log[0] != nil {
		lg = log[0]
	}

	if name == "" {
		return nil, ErrorParamInvalid.Error(nil)
	}

	f, e := os.OpenFile(name, os.O_RDWR, 0)
	if e != nil {
		return nil, ErrorFileOpen.Error(e)
	}

	st, e := f.Stat()
	if e != nil {
		_ = f.Close()
		return nil, ErrorFileSize.Error(e)
	}

	if st.Size() < hdrSize {
		_ = f.Close()
		return nil, ErrorHeaderInvalid.Error(nil)
	}

	mem, e := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	_ = f.Close()
	if e != nil {
		return nil, ErrorMapping.Error(e)
	}

	d := &Domain{
		creator: false,
		rank:    rank,
		path:    name,
		mem:     mem,
		log:     lg,
	}

	if d.load32(hdrMagic) != layoutMagic || d.load32(hdrVersion) != layoutVersion {
		_ = unix.Munmap(mem)
		return nil, ErrorHeaderInvalid.Error(nil)
	}

	d.parts = int(d.load32(hdrParts))
	d.bufSize = d.load64(hdrBufSize)
	d.stride = d.load64(hdrStride)
	d.extraOff = d.load64(hdrExtraOff)
	d.extraSize = d.load64(hdrExtraSize)

	if rank < 0 || rank >= d.parts {
		_ = unix.Munmap(mem)
		return nil, ErrorRankRange.Error(nil)
	}

	if _, _, total := layoutSize(d.bufSize, d.parts, d.extraSize); total > uint64(st.Size()) {
		_ = unix.Munmap(mem)
		return nil, ErrorHeaderInvalid.Error(nil)
	}

	return d, nil
}

// Free releases this participant's handle. The creator additionally
// unlinks the backing file, ending the domain for good; everyone else just
// unmaps. Calling any other method on d afterwards is invalid.
func (d *Domain) Free() error {
	var errUnlink error

	if d.creator {
		errUnlink = os.Remove(d.path)
	}

	if e := unix.Munmap(d.mem); e != nil {
		return ErrorMapping.Error(e)
	}
	d.mem = nil

	if errUnlink != nil {
		return ErrorFileOpen.Error(errUnlink)
	}

	return nil
}
