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

// Package cobra wraps spf13/cobra for this module's binaries: an
// instance-based root command with the shared flags (config file, verbose
// level), lazy logger and viper injection, and help output for the
// module's error-code registry. No global state; each binary builds its
// own instance.
package cobra

import (
	"github.com/sirupsen/logrus"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

// FuncLogger returns the logger to use at run time; injected as a
// function so commands resolve it lazily, after flags configured it.
type FuncLogger func() logrus.FieldLogger

// FuncViper returns the viper instance holding the loaded configuration.
type FuncViper func() *spfvpr.Viper

// Cobra assembles one CLI application.
type Cobra interface {
	// SetLogger injects the lazy logger accessor used by Logger.
	SetLogger(fct FuncLogger)

	// SetViper injects the lazy viper accessor used by Viper and by the
	// config-file flag handling.
	SetViper(fct FuncViper)

	// Init creates the root command with the given name and
	// descriptions. Must run before any flag or command registration.
	Init(name, short, long string)

	// SetFlagConfig registers the --config/-c flag and binds it to the
	// injected viper's config file.
	SetFlagConfig(persistent bool, flagVar *string)

	// SetFlagVerbose registers the --verbose/-v counted flag, raising
	// the logrus level for each repetition.
	SetFlagVerbose(persistent bool)

	// AddCommand appends subcommands to the root.
	AddCommand(cmd ...*spfcbr.Command)

	// NewCommand builds a bare subcommand carrying only use, short and
	// long; it is not tied to this instance's logger or viper and is left
	// for the caller to flesh out and register.
	NewCommand(use, short, long string) *spfcbr.Command

	// AddCommandPrintErrorCode registers the error-code listing command
	// built over the module's CodeError registry.
	AddCommandPrintErrorCode()

	// Execute parses os.Args and runs the selected command.
	Execute() error

	// Cobra exposes the underlying root for whatever the wrapper does
	// not cover.
	Cobra() *spfcbr.Command

	// Logger resolves the injected logger, a default logrus one when
	// nothing was injected.
	Logger() logrus.FieldLogger

	// Viper resolves the injected viper, nil when nothing was injected.
	Viper() *spfvpr.Viper
}

// New returns an empty instance; call Init before anything else.
func New() Cobra {
	return &cobra{}
}
