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

import "github.com/nabbar/netmux/errors"

const (
	ErrorParamInvalid errors.CodeError = iota + errors.MinPkgDomain
	ErrorFileCreate
	ErrorFileOpen
	ErrorFileSize
	ErrorMapping
	ErrorHeaderInvalid
	ErrorRankRange
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorParamInvalid)
	errors.RegisterIdFctMessage(ErrorParamInvalid, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorParamInvalid:
		return "at least one domain parameter is zero or out of range"
	case ErrorFileCreate:
		return "creating the backing file failed"
	case ErrorFileOpen:
		return "opening the backing file failed"
	case ErrorFileSize:
		return "sizing or measuring the backing file failed"
	case ErrorMapping:
		return "mapping the backing file failed"
	case ErrorHeaderInvalid:
		return "the backing file header is missing or inconsistent"
	case ErrorRankRange:
		return "the participant rank is outside [0, participants)"
	}

	return ""
}
