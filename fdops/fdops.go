package fdops

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
)

// interface for reading/writing user space memory via a pointer and a
// length. implemented by mem.Userbuf_t.
type Userio_i interface {
	// copy src to user memory
	Uiowrite(src []uint8) (int, defs.Err_t)
	// copy user memory to dst
	Uioread(dst []uint8) (int, defs.Err_t)
	// the number of unwritten/unread bytes remaining
	Remain() int
	// the total buffer size
	Totalsz() int
}

// the file abstraction the kernel consumes: an open-by-path filesystem
// hands out objects with these ops. the filesystem provides no internal
// concurrency control; every caller that touches a handle must hold the
// kernel's filesystem lock around the use.
type Fdops_i interface {
	Close() defs.Err_t
	Read(dst Userio_i) (int, defs.Err_t)
	Write(src Userio_i) (int, defs.Err_t)
	// Lseek sets the absolute position; seeking past the end is allowed
	Lseek(off int) defs.Err_t
	Tell() (int, defs.Err_t)
	Len() (int, defs.Err_t)
}
