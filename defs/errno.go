package defs

type Err_t int

const (
	ENOENT       Err_t = 2
	ENOEXEC      Err_t = 8
	EBADF        Err_t = 9
	ECHILD       Err_t = 10
	ENOMEM       Err_t = 12
	EFAULT       Err_t = 14
	EEXIST       Err_t = 17
	EINVAL       Err_t = 22
	EMFILE       Err_t = 24
	ENOSPC       Err_t = 28
	ESPIPE       Err_t = 29
	ENAMETOOLONG Err_t = 36
	ENOSYS       Err_t = 38
)
