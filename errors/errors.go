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
	"fmt"
	"runtime"
	"strings"
)

type ers struct {
	code   CodeError
	trace  string
	parent []error
}

func newError(code CodeError, parent ...error) Error {
	e := &ers{code: code, trace: capture()}
	e.Add(parent...)
	return e
}

// MakeIfError folds several maybe-nil errors into one: nil when all are
// nil; otherwise, when the first non-nil one is an Error, that Error with
// the rest added as its parents, and when it is not, a new UnknownError
// chaining every non-nil one.
func MakeIfError(err ...error) Error {
	var lst []error

	for _, e := range err {
		if e != nil {
			lst = append(lst, e)
		}
	}

	switch len(lst) {
	case 0:
		return nil
	default:
		if e, ok := lst[0].(Error); ok {
			e.Add(lst[1:]...)
			return e
		}
		return newError(UnknownError, lst...)
	}
}

// capture records the file:line of the caller that built the error. The
// depth is fixed: every construction path is caller -> exported builder ->
// newError -> capture.
func capture() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return ""
	}

	if i := strings.LastIndex(file, "/"); i >= 0 {
		file = file[i+1:]
	}

	return fmt.Sprintf("%s:%d", file, line)
}

func (e *ers) Code() CodeError {
	return e.code
}

func (e *ers) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e.code == code {
		return true
	}

	for _, p := range e.parent {
		if pe, ok := p.(Error); ok && pe.HasCode(code) {
			return true
		}
	}

	return false
}

func (e *ers) Add(parent ...error) {
	for _, p := range parent {
		if p == nil {
			continue
		}
		e.parent = append(e.parent, p)
	}
}

func (e *ers) HasParent() bool {
	return len(e.parent) > 0
}

func (e *ers) GetParent(mainIsError bool) []error {
	var lst []error

	if mainIsError {
		lst = append(lst, fmt.Errorf("%s", e.StringError()))
	}

	return append(lst, e.parent...)
}

func (e *ers) GetTrace() string {
	return e.trace
}

func (e *ers) Unwrap() error {
	if len(e.parent) == 0 {
		return nil
	}
	return e.parent[0]
}

func (e *ers) StringError() string {
	if msg := e.code.Message(); msg != "" {
		return msg
	}
	return "unknown error (code " + e.code.String() + ")"
}

func (e *ers) Error() string {
	b := strings.Builder{}
	b.WriteString(e.StringError())

	for _, p := range e.parent {
		b.WriteString(", ")
		b.WriteString(p.Error())
	}

	return b.String()
}
