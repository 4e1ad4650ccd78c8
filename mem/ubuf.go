package mem

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/util"
)

// Userbuf_t cursors over a user buffer so file and console ops can stream
// directly to and from user memory. it implements fdops.Userio_i.
type Userbuf_t struct {
	userva int
	len    int
	// 0 <= off <= len
	off int
	as  *Aspace_t
}

func (as *Aspace_t) Mkuserbuf(userva, len int) *Userbuf_t {
	return &Userbuf_t{userva: userva, len: len, as: as}
}

func (ub *Userbuf_t) Remain() int {
	return ub.len - ub.off
}

func (ub *Userbuf_t) Totalsz() int {
	return ub.len
}

// Uioread copies user memory to dst, advancing the cursor. returns the
// bytes copied; a faulting byte aborts the whole transfer.
func (ub *Userbuf_t) Uioread(dst []uint8) (int, defs.Err_t) {
	did := util.Min(len(dst), ub.Remain())
	if err := ub.as.User2k(dst[:did], ub.userva+ub.off); err != 0 {
		return 0, err
	}
	ub.off += did
	return did, 0
}

// Uiowrite copies src to user memory, advancing the cursor.
func (ub *Userbuf_t) Uiowrite(src []uint8) (int, defs.Err_t) {
	did := util.Min(len(src), ub.Remain())
	if err := ub.as.K2user(src[:did], ub.userva+ub.off); err != 0 {
		return 0, err
	}
	ub.off += did
	return did, 0
}
