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

// Package domain gives N cooperating processes, named by rank 0..N-1, a
// shared-memory communication domain: one ring-buffered mailbox per
// recipient with atomic multi-byte send and receive, an all-participant
// barrier, and a creator-initiated terminating shutdown that wakes every
// blocked participant.
//
// The whole domain lives in one file-backed shared mapping under the system
// temp directory. Nothing inside the shared region stores a raw address:
// every internal offset is recomputed from the mapping base, so each
// participant may map the file wherever its own address space allows.
//
// Synchronization across processes uses lock words and sequence counters in
// the mapping itself, driven by atomic operations with a spin-then-sleep
// backoff. Waits poll a per-condition sequence that wakers bump, so a
// wakeup can never be lost to a sleeping waiter; every wakeup re-checks its
// predicate and the terminating flag. Ordering guarantees: FIFO within one
// sender's writes to one recipient; none between distinct senders to the
// same recipient.
//
// Errors from Setup/Connect/Free use the CodeError scheme from
// github.com/nabbar/netmux/errors, registered under errors.MinPkgDomain.
// Runtime operations (Barrier, Write, Read, Shutdown) report protocol
// violations and termination as a boolean false, leaving the shared state
// valid for the other participants.
package domain
