package mem

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
)

// Aspace_t is one process's simulated address space: a sparse map of user
// pages below Maxuva. an address space is only ever touched by its owning
// process's thread (and by the loader before that thread starts), so it
// needs no lock.
type Aspace_t struct {
	pages map[int]*Pg_t
}

func MkAspace() *Aspace_t {
	return &Aspace_t{pages: make(map[int]*Pg_t)}
}

// Mkpages maps n fresh zero pages covering [va, va+n*PGSIZE). the loader
// and tests populate address spaces with it; the guard itself never maps.
func (as *Aspace_t) Mkpages(va, n int) {
	if va+n*PGSIZE > Maxuva {
		panic("mapping above user boundary")
	}
	p := pgn(va)
	for i := 0; i < n; i++ {
		if _, ok := as.pages[p+i]; !ok {
			as.pages[p+i] = &Pg_t{}
		}
	}
}

// Readbyte is the fault-tolerant single-byte probe that all syscall
// argument marshaling rests on. a bad address comes back as -EFAULT, never
// as a fault delivered to kernel code; the caller decides whether it is
// fatal to the process.
func (as *Aspace_t) Readbyte(va int) (uint8, defs.Err_t) {
	if va < 0 || va >= Maxuva {
		return 0, -defs.EFAULT
	}
	pg, ok := as.pages[pgn(va)]
	if !ok {
		return 0, -defs.EFAULT
	}
	return pg[pgoff(va)], 0
}

func (as *Aspace_t) Writebyte(va int, b uint8) defs.Err_t {
	if va < 0 || va >= Maxuva {
		return -defs.EFAULT
	}
	pg, ok := as.pages[pgn(va)]
	if !ok {
		return -defs.EFAULT
	}
	pg[pgoff(va)] = b
	return 0
}

// Userreadn reads an n-byte little-endian word, one byte at a time. it
// never assumes two consecutive bytes live on the same page.
func (as *Aspace_t) Userreadn(va, n int) (int, defs.Err_t) {
	if n > 8 {
		panic("large n")
	}
	var ret int
	for i := 0; i < n; i++ {
		b, err := as.Readbyte(va + i)
		if err != 0 {
			return 0, err
		}
		ret |= int(b) << (8 * uint(i))
	}
	return ret, 0
}

func (as *Aspace_t) Userwriten(va, n, val int) defs.Err_t {
	if n > 8 {
		panic("large n")
	}
	for i := 0; i < n; i++ {
		if err := as.Writebyte(va+i, uint8(val>>(8*uint(i)))); err != 0 {
			return err
		}
	}
	return 0
}

// Userstr reads a NUL-terminated string starting at va. the first faulting
// byte aborts the read; a string longer than lenmax is ENAMETOOLONG.
func (as *Aspace_t) Userstr(va int, lenmax int) (string, defs.Err_t) {
	s := make([]uint8, 0, 16)
	for {
		b, err := as.Readbyte(va + len(s))
		if err != 0 {
			return "", err
		}
		if b == 0 {
			return string(s), 0
		}
		s = append(s, b)
		if len(s) > lenmax {
			return "", -defs.ENAMETOOLONG
		}
	}
}

// K2user copies src to user address va. the copy is validated byte by byte
// and stops at the first unmapped byte.
func (as *Aspace_t) K2user(src []uint8, va int) defs.Err_t {
	for i, b := range src {
		if err := as.Writebyte(va+i, b); err != 0 {
			return err
		}
	}
	return 0
}

// User2k fills dst from user address va.
func (as *Aspace_t) User2k(dst []uint8, va int) defs.Err_t {
	for i := range dst {
		b, err := as.Readbyte(va + i)
		if err != 0 {
			return err
		}
		dst[i] = b
	}
	return 0
}
