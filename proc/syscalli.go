package proc

// Interface to the syscall dispatcher, which lives in the kernel package.
// Breaks the circular dependency between the two.
type Syscall_i interface {
	// Syscall dispatches the syscall whose number and arguments live at
	// user address sp, returning the value to hand back to user code.
	Syscall(p *Proc_t, sp int) int
	// Sys_exit terminates p with the given status and never returns.
	Sys_exit(p *Proc_t, status int)
}
