package fs

import (
	"fmt"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/DarwinGalicia/chaparrOS/defs"
)

const BSIZE = 512

type Blk_t struct {
	Block int
	Data  *[BSIZE]uint8
}

func MkBlock(block int) *Blk_t {
	return &Blk_t{Block: block, Data: &[BSIZE]uint8{}}
}

// Bdev_t is a block device over an in-memory disk image with a
// write-through LRU block cache in front of it. like the filesystem it
// backs, it has no internal concurrency control; the kernel's filesystem
// lock serializes all callers.
type Bdev_t struct {
	disk  [][BSIZE]uint8
	cache *lru.Cache[int, *Blk_t]
	// cache counters
	hits   int
	misses int
}

func MkBdev(nblocks, cacheslots int) *Bdev_t {
	c, err := lru.New[int, *Blk_t](cacheslots)
	if err != nil {
		panic("bad cache size")
	}
	return &Bdev_t{disk: make([][BSIZE]uint8, nblocks), cache: c}
}

func (b *Bdev_t) Nblocks() int {
	return len(b.disk)
}

func (b *Bdev_t) badblock(blkno int) bool {
	return blkno < 0 || blkno >= len(b.disk)
}

// Read returns the block through the cache. the caller may mutate the
// returned block's data but must Write it back for the change to reach
// the disk image.
func (b *Bdev_t) Read(blkno int) (*Blk_t, defs.Err_t) {
	if b.badblock(blkno) {
		return nil, -defs.EINVAL
	}
	if blk, ok := b.cache.Get(blkno); ok {
		b.hits++
		return blk, 0
	}
	b.misses++
	blk := MkBlock(blkno)
	*blk.Data = b.disk[blkno]
	b.cache.Add(blkno, blk)
	return blk, 0
}

func (b *Bdev_t) Write(blk *Blk_t) defs.Err_t {
	if b.badblock(blk.Block) {
		return -defs.EINVAL
	}
	b.disk[blk.Block] = *blk.Data
	b.cache.Add(blk.Block, blk)
	return 0
}

func (b *Bdev_t) Statstr() string {
	return fmt.Sprintf("disk %s (%d blocks), cache %d/%d hits",
		humanize.IBytes(uint64(len(b.disk)*BSIZE)), len(b.disk),
		b.hits, b.hits+b.misses)
}
