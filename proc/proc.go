package proc

import (
	"strings"
	"sync/atomic"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/fd"
	"github.com/DarwinGalicia/chaparrOS/hashtable"
	"github.com/DarwinGalicia/chaparrOS/limits"
	"github.com/DarwinGalicia/chaparrOS/mem"
)

type Proc_t struct {
	Pid  int
	Name string
	// the full command line the process was created with
	Cmdline string

	// address space
	As *mem.Aspace_t

	// my own pcb, shared with my parent
	Mypcb *Pcb_t
	// pcbs of my direct children, in creation order
	children []*Pcb_t

	// open descriptors, in open order. the table is only ever touched by
	// this process's own execution context, so it needs no lock; callers
	// that touch a looked-up handle must hold the filesystem lock around
	// that use.
	fds []fdent_t

	// marked once termination is decided; keeps the exit line single
	doomed bool

	syscall Syscall_i
}

type fdent_t struct {
	id int
	fd *fd.Fd_t
}

type ptable_t struct {
	ht *hashtable.Hashtable_t
}

func (pt *ptable_t) Get(pid int) (*Proc_t, bool) {
	ret, ok := pt.ht.Get(pid)
	if ok {
		return ret.(*Proc_t), true
	}
	return nil, false
}

func (pt *ptable_t) Set(pid int, p *Proc_t) {
	pt.ht.Set(pid, p)
}

func (pt *ptable_t) Del(pid int) {
	pt.ht.Del(pid)
}

var Ptable = ptable_t{
	ht: hashtable.MkHash(limits.Syslimit.Sysprocs),
}

var nprocs int64
var atomic_pid int32

// Proc_new creates a process and its pcb; the pcb is handed to the parent
// before the new process is scheduled. can fail if the system-wide process
// limit has been reached.
func Proc_new(cmdline string, sys Syscall_i) (*Proc_t, bool) {
	if atomic.AddInt64(&nprocs, 1) >= int64(limits.Syslimit.Sysprocs) {
		atomic.AddInt64(&nprocs, -1)
		return nil, false
	}
	pid := int(atomic.AddInt32(&atomic_pid, 1))
	if _, ok := Ptable.Get(pid); ok {
		panic("pid exists")
	}
	name := cmdline
	if fields := strings.Fields(cmdline); len(fields) != 0 {
		name = fields[0]
	}
	ret := &Proc_t{
		Pid:     pid,
		Name:    name,
		Cmdline: cmdline,
		As:      mem.MkAspace(),
		Mypcb:   MkPcb(pid, cmdline),
		syscall: sys,
	}
	Ptable.Set(pid, ret)
	return ret, true
}

func Proc_check(pid int) (*Proc_t, bool) {
	return Ptable.Get(pid)
}

func Proc_del(pid int) {
	Ptable.Del(pid)
	if atomic.AddInt64(&nprocs, -1) < 0 {
		panic("neg nprocs")
	}
}

func (p *Proc_t) Syscall() Syscall_i {
	return p.syscall
}

func (p *Proc_t) Doomed() bool {
	return p.doomed
}

// Doom marks the termination decision; returns false if it was already
// taken, so teardown runs at most once.
func (p *Proc_t) Doom() bool {
	if p.doomed {
		return false
	}
	p.doomed = true
	return true
}

// descriptor table. ids start at 3; the next id is one past the highest
// existing id, so an id, once assigned, is never reused while any entry
// remains in the table.

func (p *Proc_t) Fd_insert(f *fd.Fd_t) (int, bool) {
	if len(p.fds) >= limits.Syslimit.Nofile {
		return -1, false
	}
	newfd := defs.FD_FIRST
	if n := len(p.fds); n != 0 {
		newfd = p.fds[n-1].id + 1
	}
	p.fds = append(p.fds, fdent_t{id: newfd, fd: f})
	return newfd, true
}

// Fd_get is a pure scan; it performs no I/O.
func (p *Proc_t) Fd_get(fdn int) (*fd.Fd_t, bool) {
	if fdn < defs.FD_FIRST {
		return nil, false
	}
	for _, e := range p.fds {
		if e.id == fdn {
			return e.fd, true
		}
	}
	return nil, false
}

func (p *Proc_t) Fd_del(fdn int) (*fd.Fd_t, bool) {
	if fdn < defs.FD_FIRST {
		return nil, false
	}
	for i, e := range p.fds {
		if e.id == fdn {
			p.fds = append(p.fds[:i], p.fds[i+1:]...)
			return e.fd, true
		}
	}
	return nil, false
}

// Fd_closeall closes every remaining entry, as if close were called on
// each. the caller holds the filesystem lock.
func (p *Proc_t) Fd_closeall() {
	for _, e := range p.fds {
		fd.Close_panic(e.fd)
	}
	p.fds = nil
}

// child list

func (p *Proc_t) Child_add(pcb *Pcb_t) {
	p.children = append(p.children, pcb)
}

func (p *Proc_t) Child_find(pid int) (*Pcb_t, bool) {
	for _, c := range p.children {
		if c.Pid == pid {
			return c, true
		}
	}
	return nil, false
}

func (p *Proc_t) Child_del(pid int) {
	for i, c := range p.children {
		if c.Pid == pid {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (p *Proc_t) Children() []*Pcb_t {
	return p.children
}
