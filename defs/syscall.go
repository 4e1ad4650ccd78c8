package defs

// syscall numbers. the number is a 4-byte word at the base of the trap
// frame's argument area; up to three further 4-byte words follow it.
const (
	SYS_HALT     = 0
	SYS_EXIT     = 1
	SYS_EXEC     = 2
	SYS_WAIT     = 3
	SYS_CREATE   = 4
	SYS_REMOVE   = 5
	SYS_OPEN     = 6
	SYS_FILESIZE = 7
	SYS_READ     = 8
	SYS_WRITE    = 9
	SYS_SEEK     = 10
	SYS_TELL     = 11
	SYS_CLOSE    = 12
)

// ABI geometry
const (
	SYSARGSZ = 4
	SYSARGS  = 3
)
