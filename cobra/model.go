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

package cobra

import (
	"github.com/sirupsen/logrus"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

type cobra struct {
	c *spfcbr.Command
	l FuncLogger
	v FuncViper

	verbose int
}

func (c *cobra) SetLogger(fct FuncLogger) {
	c.l = fct
}

func (c *cobra) SetViper(fct FuncViper) {
	c.v = fct
}

func (c *cobra) Logger() logrus.FieldLogger {
	if c.l != nil {
		if l := c.l(); l != nil {
			return l
		}
	}
	return logrus.StandardLogger()
}

func (c *cobra) Viper() *spfvpr.Viper {
	if c.v != nil {
		return c.v()
	}
	return nil
}

func (c *cobra) Init(name, short, long string) {
	c.c = &spfcbr.Command{
		Use:   name,
		Short: short,
		Long:  long,
	}
}

func (c *cobra) SetFlagConfig(persistent bool, flagVar *string) {
	fs := c.c.Flags()
	if persistent {
		fs = c.c.PersistentFlags()
	}

	fs.StringVarP(flagVar, "config", "c", "", "configuration file to load before running")

	cfg := flagVar
	spfcbr.OnInitialize(func() {
		v := c.Viper()
		if v == nil || *cfg == "" {
			return
		}

		v.SetConfigFile(*cfg)
		if err := v.ReadInConfig(); err != nil {
			c.Logger().WithError(err).Fatal("reading configuration failed")
		}
	})
}

func (c *cobra) SetFlagVerbose(persistent bool) {
	fs := c.c.Flags()
	if persistent {
		fs = c.c.PersistentFlags()
	}

	fs.CountVarP(&c.verbose, "verbose", "v", "raise logging verbosity, repeatable")

	spfcbr.OnInitialize(func() {
		switch {
		case c.verbose >= 2:
			logrus.SetLevel(logrus.TraceLevel)
		case c.verbose == 1:
			logrus.SetLevel(logrus.DebugLevel)
		default:
			logrus.SetLevel(logrus.InfoLevel)
		}
	})
}

func (c *cobra) AddCommand(cmd ...*spfcbr.Command) {
	c.c.AddCommand(cmd...)
}

func (c *cobra) NewCommand(use, short, long string) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   use,
		Short: short,
		Long:  long,
	}
}

func (c *cobra) Execute() error {
	return c.c.Execute()
}

func (c *cobra) Cobra() *spfcbr.Command {
	return c.c
}
