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

package main

import (
	spfcbr "github.com/spf13/cobra"

	libcfg "github.com/nabbar/netmux/socket/config"
	libses "github.com/nabbar/netmux/socket/session"
)

func cmdEcho() *spfcbr.Command {
	cfg := libcfg.Session{
		Server:  libcfg.Server{Listen: "localhost", DefaultPort: 7070},
		Pattern: `(.*)\n`,
	}

	cmd := app.NewCommand("echo", "run the regex-framed TCP echo service",
		"Frames each request with the given pattern and writes the first capture back, newline\n"+
			"terminated. Blocks until the event loop fails.")

	cmd.Flags().StringVar(&cfg.Listen, "listen", cfg.Listen, "endpoint to listen on: host[:port] or a socket path")
	cmd.Flags().StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "anchored multiline pattern framing each request")
	cmd.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", 0, "close connections idle for this long, 0 keeps them")

	cmd.RunE = func(cmd *spfcbr.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		chain, err := cfg.Chain()
		if err != nil {
			return err
		}

		lg := app.Logger()
		lg.WithField("endpoint", chain.String()).Info("echo: listening")

		h := libses.Handler{
			Request: func(s *libses.Session, global any) {
				var line []byte
				if _, err := libses.Scan(s, &line); err != nil {
					libses.CloseSession(s)
					return
				}
				_ = libses.Printf(s, "%s\n", line)
			},
		}

		return libses.RunService(chain, cfg.Pattern, h, libses.Options{
			Log:         lg,
			IdleTimeout: cfg.IdleTimeout,
		})
	}

	return cmd
}
