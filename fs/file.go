package fs

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/fdops"
	"github.com/DarwinGalicia/chaparrOS/util"
)

// Fsfile_t is one open handle: a shared file object plus a private
// position. it implements fdops.Fdops_i.
type Fsfile_t struct {
	fo  *fobj_t
	off int
}

func (f *Fsfile_t) Close() defs.Err_t {
	f.fo.close()
	return 0
}

func (f *Fsfile_t) Read(dst fdops.Userio_i) (int, defs.Err_t) {
	fo := f.fo
	did := 0
	for dst.Remain() != 0 && f.off < fo.flen {
		blk, err := fo.fs.bdev.Read(fo.start + f.off/BSIZE)
		if err != 0 {
			return did, err
		}
		boff := f.off % BSIZE
		c := util.Min(util.Min(BSIZE-boff, fo.flen-f.off), dst.Remain())
		wrote, err := dst.Uiowrite(blk.Data[boff : boff+c])
		if err != 0 {
			return did, err
		}
		f.off += wrote
		did += wrote
	}
	return did, 0
}

func (f *Fsfile_t) Write(src fdops.Userio_i) (int, defs.Err_t) {
	fo := f.fo
	// the whole source range is drained up front, so a buffer with a bad
	// byte anywhere delivers nothing to the device
	buf := make([]uint8, src.Remain())
	if _, err := src.Uioread(buf); err != 0 {
		return 0, err
	}
	did := 0
	// files cannot grow; a write stops at the creation size
	for did < len(buf) && f.off < fo.flen {
		blk, err := fo.fs.bdev.Read(fo.start + f.off/BSIZE)
		if err != 0 {
			return did, err
		}
		boff := f.off % BSIZE
		c := util.Min(util.Min(BSIZE-boff, fo.flen-f.off), len(buf)-did)
		copy(blk.Data[boff:boff+c], buf[did:did+c])
		if err := fo.fs.bdev.Write(blk); err != 0 {
			return did, err
		}
		f.off += c
		did += c
	}
	return did, 0
}

func (f *Fsfile_t) Lseek(off int) defs.Err_t {
	if off < 0 {
		return -defs.EINVAL
	}
	// seeking past the end is allowed; reads there see EOF
	f.off = off
	return 0
}

func (f *Fsfile_t) Tell() (int, defs.Err_t) {
	return f.off, 0
}

func (f *Fsfile_t) Len() (int, defs.Err_t) {
	return f.fo.flen, 0
}
