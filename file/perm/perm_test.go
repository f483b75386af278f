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

package perm_test

import (
	"encoding/json"
	"strings"
	"testing"

	libcbr "github.com/fxamacker/cbor/v2"
	libtml "github.com/pelletier/go-toml"
	spfvpr "github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	libprm "github.com/nabbar/netmux/file/perm"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]libprm.Perm{
		"0644":     0644,
		"'0600'":   0600,
		"\"0755\"": 0755,
		" 0777 ":   0777,
	} {
		got, err := libprm.Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q): got %04o, want %04o", in, got, want)
		}
	}

	for _, bad := range []string{"", "worldwide", "0899"} {
		if _, err := libprm.Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
}

func TestString(t *testing.T) {
	if s := libprm.Perm(0644).String(); s != "0644" {
		t.Fatalf("String: got %q", s)
	}
	if m := libprm.Perm(0600).FileMode(); m != 0600 {
		t.Fatalf("FileMode: got %o", m)
	}
}

func TestEncodingRoundTrips(t *testing.T) {
	type holder struct {
		Mode libprm.Perm `json:"mode" yaml:"mode" toml:"mode"`
	}

	in := holder{Mode: 0640}

	// json
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	var outJSON holder
	if err = json.Unmarshal(b, &outJSON); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if outJSON.Mode != in.Mode {
		t.Fatalf("json: got %04o", outJSON.Mode)
	}

	// yaml
	b, err = yaml.Marshal(in)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	var outYAML holder
	if err = yaml.Unmarshal(b, &outYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if outYAML.Mode != in.Mode {
		t.Fatalf("yaml: got %04o", outYAML.Mode)
	}

	// toml
	b, err = libtml.Marshal(in)
	if err != nil {
		t.Fatalf("toml marshal: %v", err)
	}
	var outTOML holder
	if err = libtml.Unmarshal(b, &outTOML); err != nil {
		t.Fatalf("toml unmarshal: %v", err)
	}
	if outTOML.Mode != in.Mode {
		t.Fatalf("toml: got %04o", outTOML.Mode)
	}

	// cbor
	b, err = libcbr.Marshal(in.Mode)
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	var outCBOR libprm.Perm
	if err = libcbr.Unmarshal(b, &outCBOR); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if outCBOR != in.Mode {
		t.Fatalf("cbor: got %04o", outCBOR)
	}
}

func TestViperDecoderHook(t *testing.T) {
	type cfg struct {
		Mode libprm.Perm `mapstructure:"mode"`
	}

	v := spfvpr.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader("mode: \"0640\"\n")); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}

	var c cfg
	if err := v.Unmarshal(&c, spfvpr.DecodeHook(libprm.ViperDecoderHook())); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if c.Mode != 0640 {
		t.Fatalf("viper: got %04o", c.Mode)
	}
}
