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

// Package errors gives every package of this module one uint16 code space
// for its failures. A package claims a contiguous range in modules.go,
// registers a code-to-message function in its init, and builds errors with
// CodeError.Error / CodeError.IfError. The resulting Error chains parents
// the way the standard library wraps causes, and remembers where it was
// built.
package errors

// Error is a coded error with an optional chain of parent causes.
type Error interface {
	error

	// Code returns the numeric code this error was built from.
	Code() CodeError

	// IsCode reports whether this error carries the given code.
	IsCode(code CodeError) bool

	// HasCode reports whether this error or any parent carries the code.
	HasCode(code CodeError) bool

	// Add appends parents to the chain, dropping nils.
	Add(parent ...error)

	// HasParent reports whether at least one parent is chained.
	HasParent() bool

	// GetParent returns the direct parents in the order they were added;
	// the parents' own parents are not flattened into the slice. With
	// mainIsError, the receiver's own message leads the slice as a plain
	// error.
	GetParent(mainIsError bool) []error

	// GetTrace returns the file:line of the call site that built the
	// error, empty when it could not be captured.
	GetTrace() string

	// Unwrap exposes the first parent to the standard errors package.
	Unwrap() error

	// StringError returns the message alone, parents excluded.
	StringError() string
}
