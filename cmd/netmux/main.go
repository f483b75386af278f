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

// Command netmux exercises the library end to end: a regex-framed TCP
// echo service, a retransmitting UDP echo service, and the shared-memory
// domain launcher/worker pair.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	spfvpr "github.com/spf13/viper"

	libcbr "github.com/nabbar/netmux/cobra"
)

var (
	app libcbr.Cobra
	vpr *spfvpr.Viper

	cfgFile string
)

func main() {
	vpr = spfvpr.New()

	app = libcbr.New()
	app.SetLogger(func() logrus.FieldLogger {
		return logrus.StandardLogger()
	})
	app.SetViper(func() *spfvpr.Viper {
		return vpr
	})

	app.Init("netmux", "event-driven socket servers and a shared-memory communication domain",
		"netmux hosts a regex-framed TCP echo service, a retransmitting session-oriented UDP echo\n"+
			"service, and a launcher/worker pair demonstrating the shared-memory communication domain.")

	app.SetFlagConfig(true, &cfgFile)
	app.SetFlagVerbose(true)

	app.AddCommand(cmdEcho(), cmdUDPEcho(), cmdLaunch(), cmdWorker())
	app.AddCommandPrintErrorCode()

	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
