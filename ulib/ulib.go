// Package ulib is the user-side syscall veneer: the little stubs a user
// program links against to place arguments in its own memory and trap
// into the kernel. nothing here runs with kernel privileges.
package ulib

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/kernel"
)

func Halt(ut *kernel.Uthread_t) {
	ut.Trap(defs.SYS_HALT)
}

func Exit(ut *kernel.Uthread_t, status int) {
	ut.Trap(defs.SYS_EXIT, status)
}

// Exec runs cmdline as a child process, returning its pid or -1.
func Exec(ut *kernel.Uthread_t, cmdline string) int {
	va, ok := pushstr(ut, cmdline)
	if !ok {
		return defs.FAILURE
	}
	return ut.Trap(defs.SYS_EXEC, va)
}

func Wait(ut *kernel.Uthread_t, pid int) int {
	return ut.Trap(defs.SYS_WAIT, pid)
}

func Create(ut *kernel.Uthread_t, name string, size int) bool {
	va, ok := pushstr(ut, name)
	if !ok {
		return false
	}
	return ut.Trap(defs.SYS_CREATE, va, size) != 0
}

func Remove(ut *kernel.Uthread_t, name string) bool {
	va, ok := pushstr(ut, name)
	if !ok {
		return false
	}
	return ut.Trap(defs.SYS_REMOVE, va) != 0
}

func Open(ut *kernel.Uthread_t, name string) int {
	va, ok := pushstr(ut, name)
	if !ok {
		return defs.FAILURE
	}
	return ut.Trap(defs.SYS_OPEN, va)
}

func Close(ut *kernel.Uthread_t, fd int) {
	ut.Trap(defs.SYS_CLOSE, fd)
}

func Filesize(ut *kernel.Uthread_t, fd int) int {
	return ut.Trap(defs.SYS_FILESIZE, fd)
}

func Seek(ut *kernel.Uthread_t, fd, pos int) {
	ut.Trap(defs.SYS_SEEK, fd, pos)
}

func Tell(ut *kernel.Uthread_t, fd int) int {
	return ut.Trap(defs.SYS_TELL, fd)
}

// Write copies data into the process's memory and writes it to fd,
// returning the bytes written or -1.
func Write(ut *kernel.Uthread_t, fd int, data []uint8) int {
	va := ut.Alloc(len(data))
	ut.Poke(va, data)
	return ut.Trap(defs.SYS_WRITE, fd, va, len(data))
}

// Read reads up to n bytes from fd into the process's memory and returns
// them.
func Read(ut *kernel.Uthread_t, fd int, n int) ([]uint8, int) {
	va := ut.Alloc(n)
	ret := ut.Trap(defs.SYS_READ, fd, va, n)
	if ret < 0 {
		return nil, ret
	}
	buf, ok := ut.Peek(va, ret)
	if !ok {
		return nil, defs.FAILURE
	}
	return buf, ret
}

func Print(ut *kernel.Uthread_t, s string) int {
	return Write(ut, defs.FD_STDOUT, []uint8(s))
}

func pushstr(ut *kernel.Uthread_t, s string) (int, bool) {
	va := ut.Alloc(len(s) + 1)
	return va, ut.Poke(va, append([]uint8(s), 0))
}
