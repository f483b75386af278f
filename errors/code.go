/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

import (
	"sort"
	"strconv"
	"sync"
)

// UnknownError is the zero code: no package may register it, and its
// message is empty.
const UnknownError CodeError = 0

// CodeError is a numeric error code. Each package owns one contiguous
// range of codes, anchored at its MinPkg constant from modules.go.
type CodeError uint16

// fctMessage resolves a code of the registering package's range to its
// message, empty for anything outside the range.
type fctMessage func(code CodeError) string

var (
	mu       sync.RWMutex
	registry = make(map[CodeError]fctMessage)
)

// RegisterIdFctMessage binds a message function to the range anchored at
// minCode. The same function serves every code of the calling package; the
// anchor only identifies the range.
func RegisterIdFctMessage(minCode CodeError, fct fctMessage) {
	if fct == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	registry[minCode] = fct
}

// ExistInMapMessage reports whether some already-registered range resolves
// the given code to a non-empty message. Packages use it in init to detect
// a range collision before registering their own.
func ExistInMapMessage(code CodeError) bool {
	mu.RLock()
	defer mu.RUnlock()

	for _, fct := range registry {
		if fct(code) != "" {
			return true
		}
	}

	return false
}

// GetCodePackages returns every registered code with a non-empty message,
// scanning each registered range. Meant for help output; not a hot path.
func GetCodePackages() map[CodeError]string {
	mu.RLock()
	defer mu.RUnlock()

	res := make(map[CodeError]string)
	for anchor, fct := range registry {
		for c := anchor; c < anchor+rangeSpan; c++ {
			if msg := fct(c); msg != "" {
				res[c] = msg
			}
		}
	}

	return res
}

// SortedCodes returns the registered codes in ascending order.
func SortedCodes() []CodeError {
	m := GetCodePackages()

	lst := make([]CodeError, 0, len(m))
	for c := range m {
		lst = append(lst, c)
	}

	sort.Slice(lst, func(i, j int) bool { return lst[i] < lst[j] })
	return lst
}

// rangeSpan bounds how far past its anchor a package's range is scanned.
const rangeSpan = 100

// GetCode returns the code itself; it exists so a CodeError satisfies the
// same shape as a full Error when only the code matters.
func (c CodeError) GetCode() CodeError {
	return c
}

// String renders the code as its decimal value.
func (c CodeError) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Message resolves the code through the registry, empty for UnknownError
// or an unregistered code.
func (c CodeError) Message() string {
	if c == UnknownError {
		return ""
	}

	mu.RLock()
	defer mu.RUnlock()

	for _, fct := range registry {
		if msg := fct(c); msg != "" {
			return msg
		}
	}

	return ""
}

// Error builds a full Error from the code, chaining the given parents.
func (c CodeError) Error(parent ...error) Error {
	return newError(c, parent...)
}

// IfError is Error, except it collapses to nil when every parent is nil:
// the usual tail of a call that may or may not have failed.
func (c CodeError) IfError(parent ...error) Error {
	for _, p := range parent {
		if p != nil {
			return newError(c, parent...)
		}
	}

	return nil
}
