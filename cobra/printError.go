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
	"github.com/fatih/color"
	spfcbr "github.com/spf13/cobra"

	liberr "github.com/nabbar/netmux/errors"
)

// AddCommandPrintErrorCode registers an "errors" subcommand that lists
// every registered error code with its message, codes colored apart from
// text so the list stays scannable.
func (c *cobra) AddCommandPrintErrorCode() {
	cmd := &spfcbr.Command{
		Use:   "errors",
		Short: "list the error codes this binary can emit",
		Run: func(cmd *spfcbr.Command, args []string) {
			msg := liberr.GetCodePackages()
			num := color.New(color.FgYellow, color.Bold)
			txt := color.New(color.FgWhite)

			for _, code := range liberr.SortedCodes() {
				num.Printf("  %6s  ", code.String())
				txt.Printf("%s\n", msg[code])
			}
		},
	}

	c.c.AddCommand(cmd)
}
