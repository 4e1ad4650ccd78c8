package kernel

import (
	"runtime"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/fd"
	"github.com/DarwinGalicia/chaparrOS/limits"
	"github.com/DarwinGalicia/chaparrOS/proc"
)

// Syscall dispatches the syscall whose trap frame argument area starts at
// user address sp: the syscall number is the 4-byte word at sp, arguments
// are 4-byte words at sp+4, sp+8, sp+12. a fault while reading the number
// or ANY argument kills the process with status -1 before any per-call
// logic runs; a partially-read call is never partially executed.
func (k *Kernel_t) Syscall(p *proc.Proc_t, sp int) int {
	sysno := k.sysarg(p, sp, 0)
	arg := func(n int) int {
		return k.sysarg(p, sp, n)
	}

	var ret int
	switch sysno {
	case defs.SYS_HALT:
		k.sys_halt(p)
	case defs.SYS_EXIT:
		k.Sys_exit(p, arg(1))
	case defs.SYS_EXEC:
		ret = k.sys_exec(p, arg(1))
	case defs.SYS_WAIT:
		ret = k.sys_wait(p, arg(1))
	case defs.SYS_CREATE:
		ret = k.sys_create(p, arg(1), arg(2))
	case defs.SYS_REMOVE:
		ret = k.sys_remove(p, arg(1))
	case defs.SYS_OPEN:
		ret = k.sys_open(p, arg(1))
	case defs.SYS_FILESIZE:
		ret = k.sys_filesize(p, arg(1))
	case defs.SYS_READ:
		ret = k.sys_read(p, arg(1), arg(2), arg(3))
	case defs.SYS_WRITE:
		ret = k.sys_write(p, arg(1), arg(2), arg(3))
	case defs.SYS_SEEK:
		ret = k.sys_seek(p, arg(1), arg(2))
	case defs.SYS_TELL:
		ret = k.sys_tell(p, arg(1))
	case defs.SYS_CLOSE:
		ret = k.sys_close(p, arg(1))
	default:
		k.cons.kprintf("unexpected syscall %d (%s)\n", sysno, p.Name)
		k.Sys_exit(p, defs.FAILURE)
	}
	return ret
}

// sysarg reads argument word n of the trap frame, killing the process on
// a fault. argument words are signed 32-bit values.
func (k *Kernel_t) sysarg(p *proc.Proc_t, sp, n int) int {
	v, err := p.As.Userreadn(sp+n*defs.SYSARGSZ, defs.SYSARGSZ)
	if err != 0 {
		k.Sys_exit(p, defs.FAILURE)
	}
	return int(int32(v))
}

// Sys_exit terminates p and never returns: unwinding the handler
// goroutine runs any pending defers, so a critical section abandoned by a
// kill still releases what it held.
func (k *Kernel_t) Sys_exit(p *proc.Proc_t, status int) {
	k.exit1(p, status)
	runtime.Goexit()
}

func (k *Kernel_t) sys_halt(p *proc.Proc_t) {
	k.log.Infow("halt", "proc", p.Name)
	k.poweroff()
	runtime.Goexit()
}

func (k *Kernel_t) sys_wait(p *proc.Proc_t, pid int) int {
	pcb, ok := p.Child_find(pid)
	if !ok {
		// not a direct child, already reaped, or never existed
		return defs.FAILURE
	}
	status, err := pcb.Reap()
	if err != 0 {
		return defs.FAILURE
	}
	// the parent consumed the exit code; it reclaims
	p.Child_del(pid)
	pcb.Reclaim()
	return status
}

func (k *Kernel_t) sys_create(p *proc.Proc_t, pathn, flen int) int {
	path, err := k.userpath(p, pathn)
	if err != 0 {
		return 0
	}
	k.fsl.Lock()
	err = k.fs.Create(path, flen)
	k.fsl.Unlock()
	if err != 0 {
		return 0
	}
	return 1
}

func (k *Kernel_t) sys_remove(p *proc.Proc_t, pathn int) int {
	path, err := k.userpath(p, pathn)
	if err != 0 {
		return 0
	}
	k.fsl.Lock()
	err = k.fs.Remove(path)
	k.fsl.Unlock()
	if err != 0 {
		return 0
	}
	return 1
}

func (k *Kernel_t) sys_open(p *proc.Proc_t, pathn int) int {
	path, err := k.userpath(p, pathn)
	if err != 0 {
		return defs.FAILURE
	}
	k.fsl.Lock()
	file, err := k.fs.Open(path)
	if err != 0 {
		k.fsl.Unlock()
		return defs.FAILURE
	}
	nfd := fd.Mkfd(file, fd.FD_READ|fd.FD_WRITE)
	fdn, ok := p.Fd_insert(nfd)
	if !ok {
		fd.Close_panic(nfd)
		k.fsl.Unlock()
		return defs.FAILURE
	}
	k.fsl.Unlock()
	return fdn
}

func (k *Kernel_t) sys_close(p *proc.Proc_t, fdn int) int {
	f, ok := p.Fd_del(fdn)
	if !ok {
		return 0
	}
	k.fsl.Lock()
	fd.Close_panic(f)
	k.fsl.Unlock()
	return 0
}

func (k *Kernel_t) sys_filesize(p *proc.Proc_t, fdn int) int {
	f, ok := p.Fd_get(fdn)
	if !ok {
		return defs.FAILURE
	}
	k.fsl.Lock()
	sz, err := f.Fops.Len()
	k.fsl.Unlock()
	if err != 0 {
		return defs.FAILURE
	}
	return sz
}

func (k *Kernel_t) sys_seek(p *proc.Proc_t, fdn, pos int) int {
	f, ok := p.Fd_get(fdn)
	if !ok {
		// seek on a bad fd is a no-op
		return 0
	}
	k.fsl.Lock()
	f.Fops.Lseek(pos)
	k.fsl.Unlock()
	return 0
}

func (k *Kernel_t) sys_tell(p *proc.Proc_t, fdn int) int {
	f, ok := p.Fd_get(fdn)
	if !ok {
		return defs.FAILURE
	}
	k.fsl.Lock()
	pos, err := f.Fops.Tell()
	k.fsl.Unlock()
	if err != 0 {
		return defs.FAILURE
	}
	return pos
}

func (k *Kernel_t) sys_read(p *proc.Proc_t, fdn, bufp, sz int) int {
	if sz < 0 {
		return defs.FAILURE
	}
	if sz == 0 {
		return 0
	}
	ub := p.As.Mkuserbuf(bufp, sz)
	if fdn == defs.FD_STDIN {
		ret, err := k.cons.Cons_read(ub)
		if err != 0 {
			k.Sys_exit(p, defs.FAILURE)
		}
		return ret
	}
	f, ok := p.Fd_get(fdn)
	if !ok {
		return defs.FAILURE
	}
	k.fsl.Lock()
	ret, err := f.Fops.Read(ub)
	k.fsl.Unlock()
	// the lock is already dropped when a bad buffer kills the process
	if err == -defs.EFAULT {
		k.Sys_exit(p, defs.FAILURE)
	}
	if err != 0 {
		return defs.FAILURE
	}
	return ret
}

func (k *Kernel_t) sys_write(p *proc.Proc_t, fdn, bufp, sz int) int {
	if sz < 0 {
		return defs.FAILURE
	}
	if sz == 0 {
		return 0
	}
	ub := p.As.Mkuserbuf(bufp, sz)
	if fdn == defs.FD_STDOUT {
		ret, err := k.cons.Cons_write(ub)
		if err != 0 {
			k.Sys_exit(p, defs.FAILURE)
		}
		return ret
	}
	f, ok := p.Fd_get(fdn)
	if !ok {
		return defs.FAILURE
	}
	k.fsl.Lock()
	ret, err := f.Fops.Write(ub)
	k.fsl.Unlock()
	if err == -defs.EFAULT {
		k.Sys_exit(p, defs.FAILURE)
	}
	if err != 0 {
		return defs.FAILURE
	}
	return ret
}

// userpath reads a path string through the memory guard. a faulting
// pointer is fatal; a merely-overlong path is the caller's error.
func (k *Kernel_t) userpath(p *proc.Proc_t, pathn int) (string, defs.Err_t) {
	path, err := p.As.Userstr(pathn, limits.Syslimit.Namemax)
	if err == -defs.EFAULT {
		k.Sys_exit(p, defs.FAILURE)
	}
	return path, err
}
