package proc

import (
	"sync"

	"github.com/DarwinGalicia/chaparrOS/defs"
)

// requirements for the exit handshake (see sys_wait/sys_exit):
// - wait for a pid that is not my child must fail
// - only one wait for a specific pid may succeed; others must fail
// - the exit code is written before the completion signal is raised and
//   read only after the signal is observed
// - exactly one side, parent or child, reclaims a Pcb_t

// Pcb_t is created by the parent at exec time, before the child is
// scheduled, and is referenced by exactly two parties: the parent through
// its child list and the child through its Proc_t.
type Pcb_t struct {
	sync.Mutex
	Pid     int
	Cmdline string

	// readiness: the child sends the load outcome exactly once and the
	// parent receives it exactly once
	startc chan bool

	// completion
	cond       *sync.Cond
	terminated bool
	exitcode   int

	// parent consumed the exit code; a pid may be waited on at most once
	waited bool
	// the parent exited (or gave up after a load failure) and will never
	// wait; the child reclaims its own pcb at termination
	abandoned bool

	reclaimed bool
}

func MkPcb(pid int, cmdline string) *Pcb_t {
	p := &Pcb_t{Pid: pid, Cmdline: cmdline}
	p.startc = make(chan bool, 1)
	p.cond = sync.NewCond(p)
	return p
}

// Startsig reports the load outcome to the parent. child side, once.
func (p *Pcb_t) Startsig(ok bool) {
	p.startc <- ok
}

// Startwait blocks until the child reports whether its image loaded.
// parent side, once.
func (p *Pcb_t) Startwait() bool {
	return <-p.startc
}

// Exitsig records the exit code, marks the pcb terminated, and raises the
// completion signal. it returns true iff the child must reclaim the pcb
// itself because no wait will ever consume it. child side, exactly once.
func (p *Pcb_t) Exitsig(status int) bool {
	p.Lock()
	if p.terminated {
		panic("double exit")
	}
	p.exitcode = status
	p.terminated = true
	self := p.abandoned
	p.cond.Broadcast()
	p.Unlock()
	return self
}

// Reap blocks on the completion signal and consumes the exit code. parent
// side; a second reap of the same pcb fails.
func (p *Pcb_t) Reap() (int, defs.Err_t) {
	p.Lock()
	defer p.Unlock()
	if p.waited {
		return 0, -defs.ECHILD
	}
	for !p.terminated {
		p.cond.Wait()
	}
	p.waited = true
	return p.exitcode, 0
}

// Abandon is called by a parent that will never wait on this pcb: at the
// parent's own exit, or after a load failure. it returns true iff the
// child already terminated unreaped, in which case the caller (the
// parent) must reclaim; otherwise the child self-reclaims at termination.
func (p *Pcb_t) Abandon() bool {
	p.Lock()
	defer p.Unlock()
	if p.waited || p.reclaimed {
		return false
	}
	if p.terminated {
		p.waited = true
		return true
	}
	p.abandoned = true
	return false
}

// Reclaim releases the pcb's registry presence. called exactly once, by
// whichever side the termination-instant decision chose.
func (p *Pcb_t) Reclaim() {
	p.Lock()
	if p.reclaimed {
		panic("double reclaim")
	}
	p.reclaimed = true
	p.Unlock()
}

func (p *Pcb_t) Reclaimed() bool {
	p.Lock()
	defer p.Unlock()
	return p.reclaimed
}
