// Package uprogs holds the user programs shipped with the machine. each
// is the stand-in for a program image on disk; boot installs them into
// the filesystem and the program registry.
package uprogs

import (
	"strings"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/kernel"
	"github.com/DarwinGalicia/chaparrOS/ulib"
)

var Progs = map[string]kernel.Prog_t{
	"hello": hello,
	"echo":  echo,
	"cat":   cat,
	"run":   run,
	"halt":  halt,
}

func hello(ut *kernel.Uthread_t) int {
	ulib.Print(ut, "hello, world\n")
	return 0
}

func echo(ut *kernel.Uthread_t) int {
	args := strings.Fields(ut.Cmdline())[1:]
	ulib.Print(ut, strings.Join(args, " ")+"\n")
	return 0
}

func cat(ut *kernel.Uthread_t) int {
	ret := 0
	for _, name := range strings.Fields(ut.Cmdline())[1:] {
		fd := ulib.Open(ut, name)
		if fd < 0 {
			ulib.Print(ut, "cat: "+name+": no such file\n")
			ret = 1
			continue
		}
		for {
			buf, n := ulib.Read(ut, fd, 256)
			if n <= 0 {
				break
			}
			ulib.Write(ut, defs.FD_STDOUT, buf)
		}
		ulib.Close(ut, fd)
	}
	return ret
}

// run execs its arguments as one child command line and propagates the
// child's exit status.
func run(ut *kernel.Uthread_t) int {
	args := strings.Fields(ut.Cmdline())[1:]
	if len(args) == 0 {
		return defs.FAILURE
	}
	pid := ulib.Exec(ut, strings.Join(args, " "))
	if pid < 0 {
		ulib.Print(ut, "run: exec failed\n")
		return defs.FAILURE
	}
	return ulib.Wait(ut, pid)
}

func halt(ut *kernel.Uthread_t) int {
	ulib.Halt(ut)
	// not reached
	return 0
}
