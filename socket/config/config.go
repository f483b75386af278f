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

// Package config carries the service-level configuration of the socket
// servers, as plain structs tagged for viper/mapstructure binding. Each
// struct validates before use and resolves its endpoint text into the
// bindable chain the servers consume.
package config

import (
	"time"

	liberr "github.com/nabbar/netmux/errors"
	libep "github.com/nabbar/netmux/network/endpoint"
	libptc "github.com/nabbar/netmux/network/protocol"
)

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgSocket + 60
	ErrorParamInvalid
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorParamEmpty)
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorParamEmpty:
		return "at least one mandatory config parameter is empty"
	case ErrorParamInvalid:
		return "at least one config parameter is out of range"
	}

	return ""
}

// Server configures one TCP listener: the endpoint text accepted by the
// resolver (host[:port] or a filesystem path), the default port applied
// when the text carries none, and an optional idle timeout after which a
// connection with neither read nor write activity is closed (zero disables
// the timeout).
type Server struct {
	Listen      string        `mapstructure:"listen" json:"listen" yaml:"listen" toml:"listen"`
	DefaultPort uint16        `mapstructure:"default_port" json:"default_port" yaml:"default_port" toml:"default_port"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout" json:"idle_timeout" yaml:"idle_timeout" toml:"idle_timeout"`
}

// Validate reports whether the config can produce a listener.
func (c Server) Validate() error {
	if c.Listen == "" {
		return ErrorParamEmpty.Error(nil)
	}
	return nil
}

// Chain resolves the endpoint text into bindable TCP alternatives.
func (c Server) Chain() (libep.Chain, error) {
	return libep.Resolve(c.Listen, c.DefaultPort, libptc.NetworkTCP)
}

// Session configures one regex-framed service: a listener plus the
// anchored, multiline pattern that frames each request.
type Session struct {
	Server  `mapstructure:",squash" yaml:",inline"`
	Pattern string `mapstructure:"pattern" json:"pattern" yaml:"pattern" toml:"pattern"`
}

// Validate reports whether the config can produce a service.
func (c Session) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Pattern == "" {
		return ErrorParamEmpty.Error(nil)
	}
	return nil
}

// UDP configures one retransmitting UDP server: the endpoint, the
// retransmission interval, and the per-segment retry budget.
type UDP struct {
	Listen      string        `mapstructure:"listen" json:"listen" yaml:"listen" toml:"listen"`
	DefaultPort uint16        `mapstructure:"default_port" json:"default_port" yaml:"default_port" toml:"default_port"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries" json:"max_retries" yaml:"max_retries" toml:"max_retries"`
}

// Validate reports whether the config can produce a server.
func (c UDP) Validate() error {
	if c.Listen == "" {
		return ErrorParamEmpty.Error(nil)
	}
	if c.Timeout <= 0 || c.MaxRetries < 1 {
		return ErrorParamInvalid.Error(nil)
	}
	return nil
}

// Chain resolves the endpoint text into bindable UDP alternatives.
func (c UDP) Chain() (libep.Chain, error) {
	return libep.Resolve(c.Listen, c.DefaultPort, libptc.NetworkUDP)
}
