package mem

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/util"
)

// Fakeubuf_t wraps a kernel buffer in the Userio_i interface so kernel
// code (boot, tests) can reuse paths that normally stream user memory.
type Fakeubuf_t struct {
	buf []uint8
	off int
}

func MkFakeubuf(buf []uint8) *Fakeubuf_t {
	return &Fakeubuf_t{buf: buf}
}

func (fb *Fakeubuf_t) Remain() int {
	return len(fb.buf) - fb.off
}

func (fb *Fakeubuf_t) Totalsz() int {
	return len(fb.buf)
}

func (fb *Fakeubuf_t) Uioread(dst []uint8) (int, defs.Err_t) {
	did := util.Min(len(dst), fb.Remain())
	copy(dst, fb.buf[fb.off:fb.off+did])
	fb.off += did
	return did, 0
}

func (fb *Fakeubuf_t) Uiowrite(src []uint8) (int, defs.Err_t) {
	did := util.Min(len(src), fb.Remain())
	copy(fb.buf[fb.off:], src[:did])
	fb.off += did
	return did, 0
}
