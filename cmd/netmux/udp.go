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
	"time"

	spfcbr "github.com/spf13/cobra"

	libcfg "github.com/nabbar/netmux/socket/config"
	libudp "github.com/nabbar/netmux/socket/server/udp"
)

const udpDatagramMax = 64 * 1024

func cmdUDPEcho() *spfcbr.Command {
	cfg := libcfg.UDP{
		Listen:      "localhost",
		DefaultPort: 7071,
		Timeout:     500 * time.Millisecond,
		MaxRetries:  5,
	}

	cmd := app.NewCommand("udpecho", "run the retransmitting UDP echo service",
		"Echoes every datagram back to its sender on a per-session socket, retransmitting each\n"+
			"reply until the peer answers or the retry budget runs out.")

	cmd.Flags().StringVar(&cfg.Listen, "listen", cfg.Listen, "endpoint to listen on: host[:port]")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "retransmission interval")
	cmd.Flags().IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "per-datagram retry budget")

	cmd.RunE = func(cmd *spfcbr.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		chain, err := cfg.Chain()
		if err != nil {
			return err
		}

		fd, spec, err := libudp.Listen(chain)
		if err != nil {
			return err
		}

		lg := app.Logger()
		lg.WithField("endpoint", spec.String()).Info("udpecho: listening")

		echo := func(link *libudp.Link, global any) {
			buf := make([]byte, udpDatagramMax)
			n, err := libudp.Read(link, buf)
			if err != nil {
				return
			}
			_ = libudp.Enqueue(link, buf[:n])
		}

		h := libudp.Handler{
			Open:  echo,
			Input: echo,
		}

		return libudp.Run(fd, spec.Domain(), cfg.Timeout, cfg.MaxRetries, h, libudp.Options{Log: lg})
	}

	return cmd
}
