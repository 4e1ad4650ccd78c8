package defs

// FAILURE is the status a process exits with when it is killed by the
// kernel, and the sentinel returned by syscalls that fail.
const FAILURE = -1

// the first descriptor id handed out by a process's fd table. 0 and 1 name
// the keyboard and the console and are never table keys.
const (
	FD_STDIN  = 0
	FD_STDOUT = 1
	FD_FIRST  = 3
)
