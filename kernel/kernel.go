package kernel

import (
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/fs"
	"github.com/DarwinGalicia/chaparrOS/mem"
	"github.com/DarwinGalicia/chaparrOS/proc"
)

// Fslock_t is the single global mutual-exclusion guard serializing every
// filesystem-touching operation, system wide. it is intentionally coarse:
// the filesystem beneath it has no concurrency control of its own.
//
// invariant: no code path calls Sys_exit while holding the lock; a handler
// that discovers an invalid pointer inside a critical section releases the
// lock first and terminates after. otherwise every other process touching
// the filesystem would block forever.
type Fslock_t struct {
	sync.Mutex
}

// Kernel_t ties the syscall dispatcher to its collaborators: the
// filesystem under the global lock, the console and keyboard byte
// primitives, the program registry standing in for an on-disk program
// loader, and the power-off primitive.
type Kernel_t struct {
	fsl   Fslock_t
	fs    *fs.Fs_t
	cons  *console_t
	progs map[string]Prog_t
	// powers down the machine; installed at boot
	poweroff func()
	log      *zap.SugaredLogger
}

func MkKernel(fsys *fs.Fs_t, conout io.Writer, kbd io.Reader, poweroff func(),
	log *zap.SugaredLogger) *Kernel_t {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Kernel_t{
		fs:       fsys,
		cons:     mkconsole(conout, kbd),
		progs:    make(map[string]Prog_t),
		poweroff: poweroff,
		log:      log,
	}
}

var _ proc.Syscall_i = (*Kernel_t)(nil)

// Launch creates the first process of a command line with the caller (the
// machine, or a test harness) standing in as its parent. it returns once
// the child has reported its load outcome; the caller reaps the returned
// pcb to observe the exit code.
func (k *Kernel_t) Launch(cmdline string) (*proc.Pcb_t, bool) {
	p, ok := proc.Proc_new(cmdline, k)
	if !ok {
		return nil, false
	}
	go k.run(p)
	pcb := p.Mypcb
	if !pcb.Startwait() {
		if pcb.Abandon() {
			pcb.Reclaim()
		}
		return nil, false
	}
	return pcb, true
}

// exit1 is process teardown: the exit line, descriptor cleanup, settling
// of children, and the completion handshake. it runs exactly once per
// process and must be entered with the filesystem lock NOT held.
func (k *Kernel_t) exit1(p *proc.Proc_t, status int) {
	if !p.Doom() {
		return
	}
	// every process prints exactly one of these, no matter how it died
	k.cons.kprintf("%s: exit(%d)\n", p.Name, status)

	k.fsl.Lock()
	p.Fd_closeall()
	k.fsl.Unlock()

	// children that already terminated unreaped are reclaimed here; the
	// rest learn that no wait is coming and reclaim themselves
	for _, cpcb := range p.Children() {
		if cpcb.Abandon() {
			cpcb.Reclaim()
		}
	}

	proc.Proc_del(p.Pid)

	// the exit code is in place before the completion signal fires
	if p.Mypcb.Exitsig(status) {
		p.Mypcb.Reclaim()
	}
}

// kernel-side population of the filesystem: install program images the
// loader will find, write arbitrary file contents. used by boot and tests.

func (k *Kernel_t) Install(name string, prog Prog_t) defs.Err_t {
	img := progimage(name)
	if err := k.Writefile(name, img); err != 0 {
		return err
	}
	k.progs[name] = prog
	return 0
}

func (k *Kernel_t) Writefile(name string, data []uint8) defs.Err_t {
	k.fsl.Lock()
	defer k.fsl.Unlock()
	if err := k.fs.Create(name, len(data)); err != 0 {
		return err
	}
	f, err := k.fs.Open(name)
	if err != 0 {
		return err
	}
	defer f.Close()
	ub := mem.MkFakeubuf(data)
	if _, err := f.Write(ub); err != 0 {
		return err
	}
	return 0
}
