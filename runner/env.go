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

package runner

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	libdom "github.com/nabbar/netmux/domain"
)

// DefaultPrefix is the environment prefix used when a Config leaves its own
// empty.
const DefaultPrefix = "NETMUX"

func envName(prefix string) string {
	return prefix + "_NAME"
}

func envRank(prefix string) string {
	return prefix + "_RANK"
}

// Export appends the two bootstrap variables to env: <prefix>_NAME carries
// the domain's backing-file path, <prefix>_RANK the worker's rank as plain
// unsigned decimal.
func Export(env []string, prefix, name string, rank int) []string {
	return append(env,
		fmt.Sprintf("%s=%s", envName(prefix), name),
		fmt.Sprintf("%s=%d", envRank(prefix), rank),
	)
}

// FromEnv reads the bootstrap variables back. The rank must be a plain
// decimal with no sign, matching what Export wrote.
func FromEnv(prefix string) (name string, rank int, err error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	name = os.Getenv(envName(prefix))
	r := os.Getenv(envRank(prefix))

	if name == "" || r == "" {
		return "", 0, ErrorEnvMissing.Error(nil)
	}

	for _, c := range r {
		if c < '0' || c > '9' {
			return "", 0, ErrorEnvRank.Error(nil)
		}
	}

	rank, e := strconv.Atoi(r)
	if e != nil {
		return "", 0, ErrorEnvRank.Error(e)
	}

	return name, rank, nil
}

// Connect bootstraps a worker process into the communication domain its
// launcher exported through the environment.
func Connect(prefix string, log ...logrus.FieldLogger) (*libdom.Domain, error) {
	name, rank, err := FromEnv(prefix)
	if err != nil {
		return nil, err
	}

	return libdom.Connect(name, rank, log...)
}
