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

package perm

import (
	"fmt"

	libcbr "github.com/fxamacker/cbor/v2"
)

func (p Perm) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Perm) UnmarshalText(b []byte) error {
	v, e := Parse(string(b))
	if e != nil {
		return e
	}

	*p = v
	return nil
}

func (p Perm) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", p.String())), nil
}

func (p *Perm) UnmarshalJSON(b []byte) error {
	return p.UnmarshalText(b)
}

func (p Perm) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

func (p *Perm) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if e := unmarshal(&s); e != nil {
		return e
	}

	return p.UnmarshalText([]byte(s))
}

func (p Perm) MarshalTOML() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", p.String())), nil
}

func (p *Perm) UnmarshalTOML(i interface{}) error {
	switch v := i.(type) {
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	case int64:
		n, e := ParseInt(v)
		if e != nil {
			return e
		}
		*p = n
		return nil
	default:
		return fmt.Errorf("invalid permission type '%T'", i)
	}
}

func (p Perm) MarshalCBOR() ([]byte, error) {
	return libcbr.Marshal(p.String())
}

func (p *Perm) UnmarshalCBOR(b []byte) error {
	var s string
	if e := libcbr.Unmarshal(b, &s); e != nil {
		return e
	}

	return p.UnmarshalText([]byte(s))
}
