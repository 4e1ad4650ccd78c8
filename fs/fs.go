package fs

import (
	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/util"
)

// a deliberately small flat filesystem: one directory, files allocated as
// a single extent of blocks, files cannot grow past their creation size.
// there is NO internal locking anywhere in this package; the kernel holds
// its global filesystem lock around every operation that reaches here.

const NAME_MAX = 22

// disk layout: block 0 is the free bitmap, blocks 1..NDIRBLKS hold the
// directory table, data blocks follow.
const (
	freemapblk = 0
	dirblk     = 1
	NDIRBLKS   = 8
	datablk    = dirblk + NDIRBLKS
)

// an on-disk directory entry: name, extent start block, length in bytes,
// used marker.
const (
	de_sz    = 32
	de_name  = 0
	de_start = NAME_MAX
	de_len   = NAME_MAX + 4
	de_used  = NAME_MAX + 8
	deperblk = BSIZE / de_sz
)

type Fs_t struct {
	bdev *Bdev_t
	// handles for currently-open files, so Remove can defer block
	// release until the last close
	open map[string]*fobj_t
}

// Mkfs writes an empty filesystem onto the device and mounts it.
func Mkfs(bdev *Bdev_t) *Fs_t {
	fm := MkBlock(freemapblk)
	for i := 0; i < datablk; i++ {
		fm.Data[i/8] |= 1 << uint(i%8)
	}
	bdev.Write(fm)
	for i := 0; i < NDIRBLKS; i++ {
		bdev.Write(MkBlock(dirblk + i))
	}
	return &Fs_t{bdev: bdev, open: make(map[string]*fobj_t)}
}

// Mount attaches to a device that already holds a filesystem image.
func Mount(bdev *Bdev_t) *Fs_t {
	return &Fs_t{bdev: bdev, open: make(map[string]*fobj_t)}
}

func (fs *Fs_t) Bdev() *Bdev_t {
	return fs.bdev
}

// directory

type dslot_t struct {
	blk   int
	off   int
	name  string
	start int
	flen  int
	used  bool
}

func (fs *Fs_t) dirscan(f func(*dslot_t) bool) defs.Err_t {
	for i := 0; i < NDIRBLKS; i++ {
		blk, err := fs.bdev.Read(dirblk + i)
		if err != 0 {
			return err
		}
		for j := 0; j < deperblk; j++ {
			off := j * de_sz
			ds := &dslot_t{blk: dirblk + i, off: off}
			ds.used = blk.Data[off+de_used] != 0
			if ds.used {
				n := off + de_name
				e := n
				for e < n+NAME_MAX && blk.Data[e] != 0 {
					e++
				}
				ds.name = string(blk.Data[n:e])
				ds.start = util.Readn(blk.Data[:], 4, off+de_start)
				ds.flen = util.Readn(blk.Data[:], 4, off+de_len)
			}
			if !f(ds) {
				return 0
			}
		}
	}
	return 0
}

func (fs *Fs_t) dirlookup(name string) (*dslot_t, bool) {
	var found *dslot_t
	fs.dirscan(func(ds *dslot_t) bool {
		if ds.used && ds.name == name {
			found = ds
			return false
		}
		return true
	})
	return found, found != nil
}

func (fs *Fs_t) dirwrite(ds *dslot_t) defs.Err_t {
	blk, err := fs.bdev.Read(ds.blk)
	if err != 0 {
		return err
	}
	for i := 0; i < NAME_MAX; i++ {
		var b uint8
		if i < len(ds.name) {
			b = ds.name[i]
		}
		blk.Data[ds.off+de_name+i] = b
	}
	util.Writen(blk.Data[:], 4, ds.off+de_start, ds.start)
	util.Writen(blk.Data[:], 4, ds.off+de_len, ds.flen)
	if ds.used {
		blk.Data[ds.off+de_used] = 1
	} else {
		blk.Data[ds.off+de_used] = 0
	}
	return fs.bdev.Write(blk)
}

// free bitmap

func (fs *Fs_t) balloc(nblks int) (int, defs.Err_t) {
	if nblks == 0 {
		return 0, 0
	}
	fm, err := fs.bdev.Read(freemapblk)
	if err != 0 {
		return 0, err
	}
	isfree := func(b int) bool {
		return fm.Data[b/8]&(1<<uint(b%8)) == 0
	}
	// first fit over a contiguous run
	run := 0
	for b := datablk; b < fs.bdev.Nblocks(); b++ {
		if isfree(b) {
			run++
		} else {
			run = 0
		}
		if run == nblks {
			start := b - nblks + 1
			for i := start; i <= b; i++ {
				fm.Data[i/8] |= 1 << uint(i%8)
			}
			if err := fs.bdev.Write(fm); err != 0 {
				return 0, err
			}
			return start, 0
		}
	}
	return 0, -defs.ENOSPC
}

func (fs *Fs_t) bfree(start, nblks int) {
	if nblks == 0 {
		return
	}
	fm, err := fs.bdev.Read(freemapblk)
	if err != 0 {
		panic("freemap read")
	}
	for i := start; i < start+nblks; i++ {
		if fm.Data[i/8]&(1<<uint(i%8)) == 0 {
			panic("double free")
		}
		fm.Data[i/8] &^= 1 << uint(i%8)
	}
	fs.bdev.Write(fm)
}

func nblksfor(flen int) int {
	return util.Roundup(flen, BSIZE) / BSIZE
}

// operations the kernel delegates to

func (fs *Fs_t) Create(name string, flen int) defs.Err_t {
	if name == "" || len(name) > NAME_MAX || flen < 0 {
		return -defs.EINVAL
	}
	if _, ok := fs.dirlookup(name); ok {
		return -defs.EEXIST
	}
	var slot *dslot_t
	fs.dirscan(func(ds *dslot_t) bool {
		if !ds.used {
			slot = ds
			return false
		}
		return true
	})
	if slot == nil {
		return -defs.ENOSPC
	}
	start, err := fs.balloc(nblksfor(flen))
	if err != 0 {
		return err
	}
	slot.name = name
	slot.start = start
	slot.flen = flen
	slot.used = true
	return fs.dirwrite(slot)
}

func (fs *Fs_t) Remove(name string) defs.Err_t {
	ds, ok := fs.dirlookup(name)
	if !ok {
		return -defs.ENOENT
	}
	// the name disappears now; the blocks outlive the dirent while any
	// handle remains open
	if fo, ok := fs.open[name]; ok {
		fo.removed = true
	} else {
		fs.bfree(ds.start, nblksfor(ds.flen))
	}
	ds.used = false
	ds.name = ""
	return fs.dirwrite(ds)
}

func (fs *Fs_t) Open(name string) (*Fsfile_t, defs.Err_t) {
	fo, ok := fs.open[name]
	if !ok || fo.removed {
		// a removed-but-open file's old object stays reachable only
		// through its handles; a fresh create under the same name gets
		// a fresh object
		ds, found := fs.dirlookup(name)
		if !found {
			return nil, -defs.ENOENT
		}
		fo = &fobj_t{fs: fs, name: name, start: ds.start, flen: ds.flen}
		fs.open[name] = fo
	}
	fo.ref++
	return &Fsfile_t{fo: fo}, 0
}

// an open file object, shared by every handle for the same name
type fobj_t struct {
	fs      *Fs_t
	name    string
	start   int
	flen    int
	ref     int
	removed bool
}

func (fo *fobj_t) close() {
	fo.ref--
	if fo.ref < 0 {
		panic("neg ref")
	}
	if fo.ref == 0 {
		if fo.fs.open[fo.name] == fo {
			delete(fo.fs.open, fo.name)
		}
		if fo.removed {
			fo.fs.bfree(fo.start, nblksfor(fo.flen))
		}
	}
}
