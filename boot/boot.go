// Package boot brings the machine up: disk, filesystem, kernel, console,
// shipped user programs, and the power-off primitive.
package boot

import (
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/fs"
	"github.com/DarwinGalicia/chaparrOS/kernel"
	"github.com/DarwinGalicia/chaparrOS/uprogs"
)

type Machine_t struct {
	Kern *kernel.Kernel_t
	Fsys *fs.Fs_t

	log      *zap.SugaredLogger
	halted   chan struct{}
	haltonce sync.Once
}

func Boot(param *Param, conout io.Writer, kbd io.Reader) (*Machine_t, error) {
	log, err := mklogger(param.Trace)
	if err != nil {
		return nil, err
	}
	m := &Machine_t{halted: make(chan struct{})}
	m.log = log

	bdev := fs.MkBdev(param.DiskBlocks, param.CacheSlots)
	m.Fsys = fs.Mkfs(bdev)
	m.Kern = kernel.MkKernel(m.Fsys, conout, kbd, m.poweroff, log)

	for name, prog := range uprogs.Progs {
		if err := m.Kern.Install(name, prog); err != 0 {
			log.Warnw("install failed", "prog", name, "err", err)
		}
	}
	log.Infow("booted", "disk", bdev.Statstr())
	return m, nil
}

// poweroff may be reached from any number of processes; only the first
// one turns the machine off.
func (m *Machine_t) poweroff() {
	m.haltonce.Do(func() {
		m.log.Infow("power off")
		close(m.halted)
	})
}

// Halted reports whether some process has powered the machine down.
func (m *Machine_t) Halted() bool {
	select {
	case <-m.halted:
		return true
	default:
		return false
	}
}

// Run executes one command line as a top-level process, with the machine
// standing in as its parent, and returns its exit status. the second
// result is false once the machine has been powered down.
func (m *Machine_t) Run(cmdline string) (int, bool) {
	if m.Halted() {
		return defs.FAILURE, false
	}
	pcb, ok := m.Kern.Launch(cmdline)
	if !ok {
		return defs.FAILURE, true
	}
	done := make(chan int, 1)
	go func() {
		status, err := pcb.Reap()
		if err == 0 {
			pcb.Reclaim()
		}
		done <- status
	}()
	select {
	case status := <-done:
		return status, true
	case <-m.halted:
		return 0, false
	}
}

func mklogger(trace bool) (*zap.SugaredLogger, error) {
	if !trace {
		return zap.NewNop().Sugar(), nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
