package kernel

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/limits"
	"github.com/DarwinGalicia/chaparrOS/mem"
	"github.com/DarwinGalicia/chaparrOS/proc"
)

// user memory layout built by the loader: a stack at the top of the user
// range with the command line above it, the syscall frame below that, and
// scratch space growing down.
const (
	ustackpages = 8
	ustackbase  = mem.Maxuva - ustackpages*mem.PGSIZE
	// room for the longest command line plus its terminator
	ucmdline = mem.Maxuva - 132
	uframe   = ucmdline - 4*(defs.SYSARGS+1)
)

// Prog_t is a user program: the stand-in for a loaded program image,
// resolved by name through the kernel's program registry. it runs with
// user privileges only — everything it does to the outside world goes
// through Trap.
type Prog_t func(ut *Uthread_t) int

// Uthread_t is the user-mode execution context of one process: its stack
// pointer and its view of its own memory. the methods on it are
// user-mode instructions, not kernel services — stores into the
// process's own address space and the trap instruction itself.
type Uthread_t struct {
	k  *Kernel_t
	p  *proc.Proc_t
	sp int
	// scratch allocation cursor, grows down toward the stack base
	brk int
}

func mkuthread(k *Kernel_t, p *proc.Proc_t) *Uthread_t {
	return &Uthread_t{k: k, p: p, sp: uframe, brk: uframe}
}

func (ut *Uthread_t) Pid() int {
	return ut.p.Pid
}

// Cmdline reads the command line the loader placed in this process's
// memory.
func (ut *Uthread_t) Cmdline() string {
	s, err := ut.p.As.Userstr(ucmdline, limits.Syslimit.Cmdmax)
	if err != 0 {
		panic("cmdline must be mapped")
	}
	return s
}

// Trap stores the syscall number and argument words at the frame base and
// enters the kernel. this is the only user/kernel crossing.
func (ut *Uthread_t) Trap(words ...int) int {
	for i, w := range words {
		if err := ut.p.As.Userwriten(ut.sp+i*defs.SYSARGSZ, defs.SYSARGSZ, w); err != 0 {
			panic("frame must be mapped")
		}
	}
	return ut.k.Syscall(ut.p, ut.sp)
}

// Trapat enters the kernel with an arbitrary frame address; user programs
// are free to hand the kernel garbage.
func (ut *Uthread_t) Trapat(sp int) int {
	return ut.k.Syscall(ut.p, sp)
}

// Alloc carves n bytes of scratch memory out of the stack and returns its
// user address. exhausting the stack returns an unmapped address, which
// the next syscall that touches it treats like any other bad pointer.
func (ut *Uthread_t) Alloc(n int) int {
	ut.brk -= (n + 3) &^ 3
	if ut.brk < ustackbase {
		return 0
	}
	return ut.brk
}

// Poke stores bytes into the process's own memory, as user code would.
func (ut *Uthread_t) Poke(va int, src []uint8) bool {
	return ut.p.As.K2user(src, va) == 0
}

// Peek loads bytes from the process's own memory.
func (ut *Uthread_t) Peek(va int, n int) ([]uint8, bool) {
	dst := make([]uint8, n)
	if ut.p.As.User2k(dst, va) != 0 {
		return nil, false
	}
	return dst, true
}
