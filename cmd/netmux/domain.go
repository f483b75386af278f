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
	"context"
	"fmt"
	"os"

	spfcbr "github.com/spf13/cobra"

	libdom "github.com/nabbar/netmux/domain"
	librun "github.com/nabbar/netmux/runner"
)

// greetingSize fixes the record length workers exchange, so a reader
// always knows how many bytes one message is.
const greetingSize = 64

func cmdLaunch() *spfcbr.Command {
	var (
		workers int
		bufSize uint64
	)

	cmd := app.NewCommand("launch", "create a communication domain and run its workers",
		"Creates the shared-memory domain, starts one worker process per rank (this binary's\n"+
			"worker command unless another command follows --), and propagates the first failure\n"+
			"by signalling every worker's process group.")

	cmd.Flags().IntVarP(&workers, "workers", "n", 4, "number of worker processes")
	cmd.Flags().Uint64Var(&bufSize, "buffer-size", 4096, "per-mailbox ring capacity in bytes")

	cmd.RunE = func(cmd *spfcbr.Command, args []string) error {
		command := args
		if len(command) == 0 {
			command = []string{os.Args[0], "worker"}
		}

		l, err := librun.New(librun.Config{
			Command: command,
			Domain: libdom.Config{
				BufferSize:   bufSize,
				Participants: workers,
				Log:          app.Logger(),
			},
			Log: app.Logger(),
		})
		if err != nil {
			return err
		}

		return l.Run(context.Background())
	}

	return cmd
}

func cmdWorker() *spfcbr.Command {
	cmd := app.NewCommand("worker", "join the communication domain exported by a launcher",
		"Connects to the domain named in the environment, greets rank 0 through its mailbox, and\n"+
			"meets every sibling at the barrier twice. Meant to be spawned by the launch command.")

	cmd.RunE = func(cmd *spfcbr.Command, args []string) error {
		d, err := librun.Connect("", app.Logger())
		if err != nil {
			return err
		}
		defer func() {
			_ = d.Free()
		}()

		rank := d.Rank()

		// every rank greets rank 0; rank 0 collects the others
		if rank == 0 {
			msg := make([]byte, greetingSize)
			for i := 1; i < d.Participants(); i++ {
				if !d.Read(msg) {
					return fmt.Errorf("rank 0: read failed")
				}
				fmt.Printf("rank 0 got: %s\n", trimZero(msg))
			}
		} else {
			msg := make([]byte, greetingSize)
			copy(msg, fmt.Sprintf("hello from rank %d", rank))
			if !d.Write(0, msg) {
				return fmt.Errorf("rank %d: write failed", rank)
			}
		}

		if !d.Barrier() {
			return fmt.Errorf("rank %d: first barrier failed", rank)
		}
		fmt.Printf("rank %d after first barrier\n", rank)

		if !d.Barrier() {
			return fmt.Errorf("rank %d: second barrier failed", rank)
		}
		fmt.Printf("rank %d after second barrier\n", rank)

		return nil
	}

	return cmd
}

func trimZero(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
