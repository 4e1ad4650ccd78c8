package kernel

import (
	"strings"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/limits"
	"github.com/DarwinGalicia/chaparrOS/mem"
	"github.com/DarwinGalicia/chaparrOS/proc"
)

// program images carry a short header the loader checks before it trusts
// the name to the program registry.
var imagemagic = []uint8("#!chaparr\n")

func progimage(name string) []uint8 {
	img := append([]uint8{}, imagemagic...)
	return append(img, []uint8(name+"\n")...)
}

// sys_exec creates a child process running the named program and blocks
// until the child reports whether its image loaded. the pid comes back on
// success; a load failure comes back as -1 and the parent keeps running.
func (k *Kernel_t) sys_exec(p *proc.Proc_t, cmdp int) int {
	cmdline, err := p.As.Userstr(cmdp, limits.Syslimit.Cmdmax)
	if err == -defs.EFAULT {
		k.Sys_exit(p, defs.FAILURE)
	}
	if err != 0 {
		return defs.FAILURE
	}
	child, ok := proc.Proc_new(cmdline, k)
	if !ok {
		return defs.FAILURE
	}
	pcb := child.Mypcb
	p.Child_add(pcb)
	go k.run(child)
	if !pcb.Startwait() {
		// the child never became a child worth waiting on
		p.Child_del(pcb.Pid)
		if pcb.Abandon() {
			pcb.Reclaim()
		}
		return defs.FAILURE
	}
	return child.Pid
}

// run is the body of a process's kernel thread: load the image, report
// the outcome to the parent, execute the user program, and exit with its
// return value if it never called exit itself.
func (k *Kernel_t) run(p *proc.Proc_t) {
	k.fsl.Lock()
	prog, err := k.load(p)
	k.fsl.Unlock()
	if err != 0 {
		k.log.Debugw("load failed", "cmdline", p.Cmdline, "err", err)
		p.Mypcb.Startsig(false)
		k.exit1(p, defs.FAILURE)
		return
	}
	p.Mypcb.Startsig(true)
	ut := mkuthread(k, p)
	status := prog(ut)
	k.exit1(p, status)
}

// load resolves the program image and builds the child's user memory:
// stack pages and the command line at the top. called with the
// filesystem lock held, because the image lives in a file.
func (k *Kernel_t) load(p *proc.Proc_t) (Prog_t, defs.Err_t) {
	if len(p.Cmdline) > limits.Syslimit.Cmdmax {
		return nil, -defs.EINVAL
	}
	fields := strings.Fields(p.Cmdline)
	if len(fields) == 0 {
		return nil, -defs.ENOENT
	}
	name := fields[0]
	prog, ok := k.progs[name]
	if !ok {
		return nil, -defs.ENOENT
	}
	file, err := k.fs.Open(name)
	if err != 0 {
		return nil, err
	}
	defer file.Close()
	hdr := make([]uint8, len(imagemagic))
	if n, err := file.Read(mem.MkFakeubuf(hdr)); err != 0 || n != len(hdr) {
		return nil, -defs.ENOEXEC
	}
	for i := range hdr {
		if hdr[i] != imagemagic[i] {
			return nil, -defs.ENOEXEC
		}
	}

	p.As.Mkpages(ustackbase, ustackpages)
	cl := append([]uint8(p.Cmdline), 0)
	if err := p.As.K2user(cl, ucmdline); err != 0 {
		panic("stack must be mapped")
	}
	return prog, 0
}
