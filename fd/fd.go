package fd

import (
	"github.com/DarwinGalicia/chaparrOS/fdops"
)

const (
	FD_READ  = 0x1
	FD_WRITE = 0x2
)

type Fd_t struct {
	// fops is an interface implemented via a "pointer receiver", thus
	// fops is a reference, not a value
	Fops  fdops.Fdops_i
	Perms int
}

func Mkfd(fops fdops.Fdops_i, perms int) *Fd_t {
	return &Fd_t{Fops: fops, Perms: perms}
}

func Close_panic(f *Fd_t) {
	if f.Fops.Close() != 0 {
		panic("must succeed")
	}
}
