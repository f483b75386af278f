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
	"github.com/sirupsen/logrus"

	libprm "github.com/nabbar/netmux/file/perm"
)

// Config sizes a new domain for Setup.
type Config struct {
	// BufferSize is the ring capacity, in bytes, of each participant's
	// mailbox. Must be > 0.
	BufferSize uint64 `mapstructure:"buffer_size" json:"buffer_size" yaml:"buffer_size" toml:"buffer_size"`

	// Participants is the number of cooperating processes, creator
	// included. Must be > 0.
	Participants int `mapstructure:"participants" json:"participants" yaml:"participants" toml:"participants"`

	// ExtraSize reserves free-form shared space after the mailboxes,
	// reachable through Extra(). May be 0.
	ExtraSize uint64 `mapstructure:"extra_size" json:"extra_size" yaml:"extra_size" toml:"extra_size"`

	// FileMode is applied to the backing file, defaulting to 0600 when
	// zero.
	FileMode libprm.Perm `mapstructure:"file_mode" json:"file_mode" yaml:"file_mode" toml:"file_mode"`

	// Log receives structured diagnostics, defaulting to
	// logrus.StandardLogger() when nil.
	Log logrus.FieldLogger `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// Validate reports whether the config can produce a working domain.
func (c Config) Validate() error {
	if c.BufferSize == 0 || c.Participants < 1 {
		return ErrorParamInvalid.Error(nil)
	}
	return nil
}

// Domain is one participant's handle onto the shared communication domain.
// The handle itself is private to its process; everything shared lives in
// the mapping it points into. A handle may be used from several goroutines
// of the same process, in which case the reading/writing tokens arbitrate
// between them exactly as they do between processes.
type Domain struct {
	creator bool
	rank    int
	path    string

	parts     int
	bufSize   uint64
	stride    uint64
	extraOff  uint64
	extraSize uint64

	mem []byte
	log logrus.FieldLogger
}

// Creator reports whether this handle belongs to the participant that set
// the domain up (the only one allowed to call Shutdown and to unlink the
// backing file in Free).
func (d *Domain) Creator() bool {
	return d.creator
}

// Rank returns this participant's identity in [0, Participants()).
func (d *Domain) Rank() int {
	return d.rank
}

// Participants returns the number of cooperating processes in the domain.
func (d *Domain) Participants() int {
	return d.parts
}

// BufferSize returns the per-mailbox ring capacity in bytes.
func (d *Domain) BufferSize() uint64 {
	return d.bufSize
}

// Path returns the backing file's path, the name workers Connect with.
func (d *Domain) Path() string {
	return d.path
}

// Extra returns the free-form shared space reserved at setup, or nil when
// none was.
func (d *Domain) Extra() []byte {
	if d.extraSize == 0 {
		return nil
	}
	return d.mem[d.extraOff : d.extraOff+d.extraSize]
}

// Terminating reports whether Shutdown has been called by the creator.
func (d *Domain) Terminating() bool {
	return d.load32(hdrTerminating) != 0
}

// Shutdown atomically flags the domain terminating and wakes every blocked
// participant, whichever condition it is waiting on. Creator only; any
// other caller gets false and the domain is left untouched.
func (d *Domain) Shutdown() bool {
	if !d.creator {
		return false
	}

	d.store32(hdrTerminating, 1)

	d.wake(hdrBarrierSeq)
	for r := 0; r < d.parts; r++ {
		off := d.bufOff(r)
		d.wake(off + bufSeqRead)
		d.wake(off + bufSeqWrite)
		d.wake(off + bufSeqRAlone)
		d.wake(off + bufSeqWAlone)
	}

	d.log.WithField("name", d.path).Info("domain: terminating")
	return true
}
