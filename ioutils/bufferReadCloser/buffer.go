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

package bufferReadCloser

import (
	"bytes"
	"io"
)

type buf struct {
	b *bytes.Buffer
	f FuncClose
	c bool
}

func (o *buf) Read(p []byte) (int, error) {
	if o.c {
		return 0, io.ErrClosedPipe
	}
	return o.b.Read(p)
}

func (o *buf) Write(p []byte) (int, error) {
	if o.c {
		return 0, io.ErrClosedPipe
	}
	return o.b.Write(p)
}

func (o *buf) Close() error {
	if o.c {
		return nil
	}
	o.c = true

	if o.f != nil {
		return o.f()
	}
	return nil
}

func (o *buf) Len() int {
	if o.c {
		return 0
	}
	return o.b.Len()
}

func (o *buf) Bytes() []byte {
	if o.c {
		return nil
	}
	return o.b.Bytes()
}
