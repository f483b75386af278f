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

// Package tcp is a single-threaded, event-driven TCP session multiplexor: it
// accepts connections on one listening descriptor and monitors every
// accepted descriptor for read- and write-readiness with a single poll(2)
// call per iteration, never spawning a goroutine per connection.
//
// Handlers (open/input/close) run synchronously inside the loop and may
// call EnqueueWrite, Read, and Close directly; the loop guarantees that no
// two handlers for different connections ever run concurrently, and that
// Close runs exactly once per connection, after its output queue has
// drained.
//
// Errors returned by this package use the CodeError scheme from
// github.com/nabbar/netmux/errors, registered under errors.MinPkgSocket.
package tcp
