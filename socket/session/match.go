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

// This file is the only place that talks directly to the PCRE binding, so
// that any drift in its exact surface stays contained to one translation
// unit.
package session

import (
	pcre "github.com/gijsbers/go-pcre"
)

// compiledRegex wraps a single compiled, anchored, multiline PCRE pattern.
type compiledRegex struct {
	re pcre.Regexp
}

func compile(pattern string) (*compiledRegex, error) {
	re, err := pcre.Compile(pattern, pcre.ANCHORED|pcre.MULTILINE)
	if err != nil {
		return nil, ErrorRegexCompile.Error(err)
	}
	return &compiledRegex{re: re}, nil
}

// matchOutcome is the result of one attempt to frame a request out of
// subject, starting at offset 0 (callers pass the unread suffix, not the
// whole sliding buffer).
type matchOutcome struct {
	matched bool
	partial bool
	end     int
	groups  [][]int
}

// attempt runs one anchored match against subject. allowPartial enables
// PCRE_PARTIAL_HARD, which reports "could still match with more input"
// instead of an outright failure; the final, post-EOF pass disables it so
// a dangling partial frame is treated as a real non-match.
func (c *compiledRegex) attempt(subject []byte, allowPartial bool) matchOutcome {
	flags := 0
	if allowPartial {
		flags |= pcre.PARTIAL_HARD
	}

	m := c.re.Matcher(subject, flags)

	if !m.Matches() {
		return matchOutcome{matched: false, partial: allowPartial && m.Partial()}
	}

	n := m.Groups()
	groups := make([][]int, n+1)
	for i := 0; i <= n; i++ {
		groups[i] = m.GroupIndices(i)
	}

	return matchOutcome{matched: true, end: groups[0][1], groups: groups}
}
