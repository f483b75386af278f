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
	"os"
	"reflect"
	"strconv"
	"strings"

	libmap "github.com/mitchellh/mapstructure"
)

// Perm is an os.FileMode that reads and writes as an octal string.
type Perm os.FileMode

// Parse converts an octal permission string ("0644", with or without
// surrounding quotes) into a Perm.
func Parse(s string) (Perm, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, "'", "")

	v, e := strconv.ParseUint(s, 8, 32)
	if e != nil {
		return 0, fmt.Errorf("invalid permission '%s': %w", s, e)
	}

	return Perm(v), nil
}

// ParseInt converts a raw integer already holding permission bits.
func ParseInt(i int64) (Perm, error) {
	if i < 0 || i > int64(^uint32(0)) {
		return 0, fmt.Errorf("invalid permission '%d'", i)
	}
	return Perm(i), nil
}

// String renders the permission as 4-digit octal, the way it is written
// in configuration files.
func (p Perm) String() string {
	return fmt.Sprintf("%04o", uint32(p))
}

// FileMode returns the permission as the type the os package consumes.
func (p Perm) FileMode() os.FileMode {
	return os.FileMode(p)
}

// Uint64 returns the raw permission bits.
func (p Perm) Uint64() uint64 {
	return uint64(p)
}

// ViperDecoderHook lets viper.Unmarshal fill a Perm from the string or
// integer form found in the configuration file.
func ViperDecoderHook() libmap.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(Perm(0)) || data == nil {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return Parse(v)
		case int:
			return ParseInt(int64(v))
		case int64:
			return ParseInt(v)
		case uint64:
			return ParseInt(int64(v))
		case float64:
			return ParseInt(int64(v))
		default:
			return data, nil
		}
	}
}
