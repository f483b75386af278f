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
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	libdom "github.com/nabbar/netmux/domain"
	libbuf "github.com/nabbar/netmux/ioutils/bufferReadCloser"
	libsmp "github.com/nabbar/netmux/semaphore"
)

// Config drives one Launch: the worker command line, the domain to create
// for it, and how the workers' output is handled.
type Config struct {
	// Command is the worker executable plus its arguments, run identically
	// for every rank; each worker tells its rank from the environment.
	Command []string `mapstructure:"command" json:"command" yaml:"command" toml:"command"`

	// Prefix names the bootstrap environment variables, DefaultPrefix when
	// empty.
	Prefix string `mapstructure:"prefix" json:"prefix" yaml:"prefix" toml:"prefix"`

	// Domain sizes the communication domain; its Participants field is the
	// worker count.
	Domain libdom.Config `mapstructure:"domain" json:"domain" yaml:"domain" toml:"domain"`

	// MaxSpawn bounds how many workers are being started at any one
	// moment (the started workers themselves all run concurrently); zero
	// or negative means one per schedulable CPU (GOMAXPROCS).
	MaxSpawn int `mapstructure:"max_spawn" json:"max_spawn" yaml:"max_spawn" toml:"max_spawn"`

	// CaptureOutput redirects each worker's stdout+stderr into a
	// per-worker buffer reachable through Output; when false workers
	// inherit the launcher's own streams.
	CaptureOutput bool `mapstructure:"capture_output" json:"capture_output" yaml:"capture_output" toml:"capture_output"`

	// Log receives structured diagnostics, defaulting to
	// logrus.StandardLogger() when nil.
	Log logrus.FieldLogger `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// Validate reports whether the config can launch anything.
func (c Config) Validate() error {
	if len(c.Command) == 0 || c.Command[0] == "" {
		return ErrorParamEmpty.Error(nil)
	}
	return c.Domain.Validate()
}

// Launcher creates a communication domain, runs one worker per rank, and
// propagates the first failure by signalling every worker's process
// group.
type Launcher interface {
	// Run blocks until every worker exited or the first failure tore the
	// group down. It may be called once.
	Run(ctx context.Context) error

	// Domain returns the created domain handle, nil before Run set it up.
	Domain() *libdom.Domain

	// Output returns the captured output of one worker, nil unless
	// CaptureOutput was set. Only complete once Run returned.
	Output(rank int) io.ReadCloser

	// ExitCodes returns every worker's exit code, indexed by rank, -1 for
	// a worker killed by a signal. Only complete once Run returned.
	ExitCodes() []int
}

// New builds a Launcher from cfg.
func New(cfg Config) (Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lg := cfg.Log
	if lg == nil {
		lg = logrus.StandardLogger()
	}
	cfg.Log = lg

	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	n := cfg.Domain.Participants

	return &launcher{
		cfg:   cfg,
		codes: make([]int, n),
		bufs:  make([]*bytes.Buffer, n),
	}, nil
}

type launcher struct {
	cfg   Config
	dom   *libdom.Domain
	codes []int
	bufs  []*bytes.Buffer

	mu    sync.Mutex
	procs []*os.Process
}

func (l *launcher) Domain() *libdom.Domain {
	return l.dom
}

func (l *launcher) Output(rank int) io.ReadCloser {
	if rank < 0 || rank >= len(l.bufs) || l.bufs[rank] == nil {
		return nil
	}
	return libbuf.New(l.bufs[rank])
}

func (l *launcher) ExitCodes() []int {
	return l.codes
}

func (l *launcher) Run(ctx context.Context) error {
	d, err := libdom.Setup(l.cfg.Domain)
	if err != nil {
		return err
	}

	l.dom = d
	defer func() {
		_ = d.Free()
	}()

	grp, gctx := errgroup.WithContext(ctx)

	spawn := libsmp.New(gctx, l.cfg.MaxSpawn)
	defer spawn.DeferMain()

	for rank := 0; rank < l.cfg.Domain.Participants; rank++ {
		if err = spawn.NewWorker(); err != nil {
			break
		}

		cmd, e := l.start(rank)
		spawn.DeferWorker()

		if e != nil {
			err = e
			break
		}

		rk := rank

		grp.Go(func() error {
			return l.wait(rk, cmd)
		})
	}

	if err != nil {
		// some workers may already run: tear the group down before
		// collecting them.
		l.killGroup()
		_ = grp.Wait()
		d.Shutdown()
		return err
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-gctx.Done():
			l.killGroup()
		case <-done:
		}
	}()

	err = grp.Wait()
	close(done)

	if err != nil {
		d.Shutdown()
		return err
	}

	return nil
}

func (l *launcher) start(rank int) (*exec.Cmd, error) {
	cmd := exec.Command(l.cfg.Command[0], l.cfg.Command[1:]...)
	cmd.Env = Export(os.Environ(), l.cfg.Prefix, l.dom.Path(), rank)

	// every worker leads its own process group so a kill(2) on its
	// negative pgid reaches whatever it spawned underneath
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if l.cfg.CaptureOutput {
		b := &bytes.Buffer{}
		l.bufs[rank] = b
		cmd.Stdout = b
		cmd.Stderr = b
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, ErrorWorkerStart.Error(err)
	}

	l.mu.Lock()
	l.procs = append(l.procs, cmd.Process)
	l.mu.Unlock()

	l.cfg.Log.WithFields(logrus.Fields{
		"rank": rank,
		"pid":  cmd.Process.Pid,
	}).Debug("runner: worker started")

	return cmd, nil
}

func (l *launcher) wait(rank int, cmd *exec.Cmd) error {
	err := cmd.Wait()

	code := cmd.ProcessState.ExitCode()
	l.codes[rank] = code

	if err == nil {
		return nil
	}

	l.cfg.Log.WithFields(logrus.Fields{
		"rank": rank,
		"code": code,
	}).Error("runner: worker failed")

	// first failure cancels the group context; the watcher signals the
	// whole process group so the siblings stop too.
	return ErrorWorkerExit.Error(err)
}

func (l *launcher) killGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.procs {
		_ = syscall.Kill(-p.Pid, syscall.SIGTERM)
	}
}
