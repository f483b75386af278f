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

package bufferReadCloser_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	libbuf "github.com/nabbar/netmux/ioutils/bufferReadCloser"
)

func TestReadWriteClose(t *testing.T) {
	b := libbuf.New(bytes.NewBufferString("hello"))

	if b.Len() != 5 {
		t.Fatalf("Len: got %d", b.Len())
	}

	if _, err := b.Write([]byte(" world")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := io.ReadAll(b)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q", got)
	}

	if err = b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err = b.Read(make([]byte, 1)); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("read after close: %v", err)
	}
	if _, err = b.Write([]byte("x")); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("write after close: %v", err)
	}
	if b.Len() != 0 || b.Bytes() != nil {
		t.Fatal("closed buffer must expose nothing")
	}
}

func TestCloseHook(t *testing.T) {
	boom := errors.New("close hook failed")
	hits := 0

	b := libbuf.NewBuffer(&bytes.Buffer{}, func() error {
		hits++
		return boom
	})

	if err := b.Close(); !errors.Is(err, boom) {
		t.Fatalf("Close: %v", err)
	}
	// closing twice runs the hook once
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if hits != 1 {
		t.Fatalf("hook ran %d times", hits)
	}
}
