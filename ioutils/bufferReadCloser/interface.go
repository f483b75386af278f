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

// Package bufferReadCloser dresses a bytes.Buffer as the closable reader
// and writer interfaces the rest of the module passes around, with an
// optional close hook for callers that need to observe the hand-back (the
// launcher's per-worker output capture does).
package bufferReadCloser

import (
	"bytes"
	"io"
)

// FuncClose runs when a wrapped buffer is closed; its error becomes the
// Close result.
type FuncClose func() error

// Buffer is a bytes.Buffer seen through io interfaces, closable.
type Buffer interface {
	io.ReadWriteCloser

	// Len returns the number of unread bytes.
	Len() int

	// Bytes exposes the unread bytes without consuming them.
	Bytes() []byte
}

// New wraps b with no close hook; Close only marks the wrapper done.
func New(b *bytes.Buffer) Buffer {
	return NewBuffer(b, nil)
}

// NewBuffer wraps b, running fct on Close.
func NewBuffer(b *bytes.Buffer, fct FuncClose) Buffer {
	return &buf{b: b, f: fct}
}
