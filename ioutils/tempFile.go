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

package ioutils

import (
	"os"

	. "github.com/nabbar/netmux/errors"
)

// NewTempFile creates a uniquely named file under the system temp
// directory. The caller owns it: close with DelTempFile to also unlink it,
// or plain Close to leave it on disk (the shared-domain creator does the
// latter, unlinking only at teardown).
func NewTempFile() (*os.File, Error) {
	f, e := os.CreateTemp("", "")
	return f, ErrorIOFileTempNew.IfError(e)
}

// DelTempFile closes f and removes it from disk, reporting whichever of
// the two failed. A nil f is a no-op.
func DelTempFile(f *os.File) Error {
	if f == nil {
		return nil
	}

	n := f.Name()

	e1 := ErrorIOFileTempClose.IfError(f.Close())
	e2 := ErrorIOFileTempRemove.IfError(os.Remove(n))

	return MakeIfError(e2, e1)
}
