package fs

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/mem"
)

func mkfstest(t *testing.T, nblocks int) *Fs_t {
	t.Helper()
	return Mkfs(MkBdev(nblocks, 16))
}

func writestr(t *testing.T, f *Fsfile_t, s string) int {
	t.Helper()
	n, err := f.Write(mem.MkFakeubuf([]uint8(s)))
	require.Equal(t, defs.Err_t(0), err)
	return n
}

func readstr(t *testing.T, f *Fsfile_t, n int) string {
	t.Helper()
	buf := make([]uint8, n)
	did, err := f.Read(mem.MkFakeubuf(buf))
	require.Equal(t, defs.Err_t(0), err)
	return string(buf[:did])
}

func TestCreateOpen(t *testing.T) {
	fs := mkfstest(t, 64)

	require.Equal(t, defs.Err_t(0), fs.Create("a.txt", 10))
	assert.Equal(t, -defs.EEXIST, fs.Create("a.txt", 10))
	assert.Equal(t, -defs.EINVAL, fs.Create("", 10))
	assert.Equal(t, -defs.EINVAL, fs.Create("a-name-longer-than-the-limit", 10))
	assert.Equal(t, -defs.EINVAL, fs.Create("neg", -1))

	f, err := fs.Open("a.txt")
	require.Equal(t, defs.Err_t(0), err)
	l, _ := f.Len()
	assert.Equal(t, 10, l)
	f.Close()

	_, err = fs.Open("nope")
	assert.Equal(t, -defs.ENOENT, err)
}

func TestReadWrite(t *testing.T) {
	fs := mkfstest(t, 64)
	require.Equal(t, defs.Err_t(0), fs.Create("f", 10))

	f, err := fs.Open("f")
	require.Equal(t, defs.Err_t(0), err)
	assert.Equal(t, 5, writestr(t, f, "hello"))
	// writes past the creation size are clipped
	assert.Equal(t, 5, writestr(t, f, "worldEXTRA"))

	require.Equal(t, defs.Err_t(0), f.Lseek(0))
	assert.Equal(t, "helloworld", readstr(t, f, 64))
	assert.Equal(t, "", readstr(t, f, 64), "at eof")
	f.Close()

	// a fresh handle has its own position
	f, err = fs.Open("f")
	require.Equal(t, defs.Err_t(0), err)
	assert.Equal(t, "hel", readstr(t, f, 3))
	off, _ := f.Tell()
	assert.Equal(t, 3, off)
	f.Close()
}

func TestBigFile(t *testing.T) {
	fs := mkfstest(t, 64)
	// a multi-block extent with a write spanning block boundaries
	flen := 3*BSIZE + 17
	require.Equal(t, defs.Err_t(0), fs.Create("big", flen))

	f, err := fs.Open("big")
	require.Equal(t, defs.Err_t(0), err)
	src := make([]uint8, flen)
	for i := range src {
		src[i] = uint8(i)
	}
	n, err := f.Write(mem.MkFakeubuf(src))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, flen, n)

	require.Equal(t, defs.Err_t(0), f.Lseek(BSIZE-8))
	got := readstr(t, f, 16)
	for i := 0; i < 16; i++ {
		assert.Equal(t, uint8(BSIZE-8+i), got[i])
	}
	f.Close()
}

func TestSeek(t *testing.T) {
	fs := mkfstest(t, 64)
	require.Equal(t, defs.Err_t(0), fs.Create("f", 5))
	f, _ := fs.Open("f")
	defer f.Close()

	assert.Equal(t, -defs.EINVAL, f.Lseek(-1))
	// past the end is allowed; reads there see eof, writes are clipped
	require.Equal(t, defs.Err_t(0), f.Lseek(100))
	off, _ := f.Tell()
	assert.Equal(t, 100, off)
	assert.Equal(t, "", readstr(t, f, 8))
	assert.Equal(t, 0, writestr(t, f, "x"))
}

// a write from a buffer with a bad byte anywhere must not reach the
// device, even when earlier blocks of the transfer were readable
func TestWriteFaultDeliversNothing(t *testing.T) {
	fs := mkfstest(t, 64)
	require.Equal(t, defs.Err_t(0), fs.Create("f", 4*BSIZE))
	f, err := fs.Open("f")
	require.Equal(t, defs.Err_t(0), err)
	defer f.Close()

	writestr(t, f, strings.Repeat("z", 2*BSIZE))
	require.Equal(t, defs.Err_t(0), f.Lseek(0))

	// the first block of the source is mapped, the rest is not
	as := mem.MkAspace()
	as.Mkpages(0, 1)
	srcva := mem.PGSIZE - BSIZE
	require.Equal(t, defs.Err_t(0),
		as.K2user([]uint8(strings.Repeat("A", BSIZE)), srcva))
	n, werr := f.Write(as.Mkuserbuf(srcva, 2*BSIZE))
	assert.Equal(t, -defs.EFAULT, werr)
	assert.Equal(t, 0, n)
	off, _ := f.Tell()
	assert.Equal(t, 0, off)

	assert.Equal(t, strings.Repeat("z", 2*BSIZE), readstr(t, f, 2*BSIZE))
}

func TestRemove(t *testing.T) {
	fs := mkfstest(t, 64)
	require.Equal(t, defs.Err_t(0), fs.Create("f", 10))
	require.Equal(t, defs.Err_t(0), fs.Remove("f"))
	assert.Equal(t, -defs.ENOENT, fs.Remove("f"))
	_, err := fs.Open("f")
	assert.Equal(t, -defs.ENOENT, err)
}

func TestRemoveWhileOpen(t *testing.T) {
	fs := mkfstest(t, 64)
	require.Equal(t, defs.Err_t(0), fs.Create("f", 10))

	f, err := fs.Open("f")
	require.Equal(t, defs.Err_t(0), err)
	writestr(t, f, "keepalive")

	require.Equal(t, defs.Err_t(0), fs.Remove("f"))
	// the name is gone but the open handle still works
	_, err = fs.Open("f")
	assert.Equal(t, -defs.ENOENT, err)
	require.Equal(t, defs.Err_t(0), f.Lseek(0))
	assert.Equal(t, "keepalive", readstr(t, f, 9))

	// the same name can be created again while the old file lingers;
	// the new file is distinct
	require.Equal(t, defs.Err_t(0), fs.Create("f", 4))
	nf, err := fs.Open("f")
	require.Equal(t, defs.Err_t(0), err)
	l, _ := nf.Len()
	assert.Equal(t, 4, l)
	nf.Close()
	require.Equal(t, defs.Err_t(0), fs.Remove("f"))

	// the lingering extent still occupies the disk until the last close
	free := len(fs.bdev.disk) - datablk
	assert.Equal(t, -defs.ENOSPC, fs.Create("g", free*BSIZE))
	f.Close()
	require.Equal(t, defs.Err_t(0), fs.Create("g", free*BSIZE))
}

func TestDiskFull(t *testing.T) {
	fs := mkfstest(t, datablk+4)
	require.Equal(t, defs.Err_t(0), fs.Create("a", 2*BSIZE))
	assert.Equal(t, -defs.ENOSPC, fs.Create("b", 3*BSIZE))
	require.Equal(t, defs.Err_t(0), fs.Create("b", 2*BSIZE))
	assert.Equal(t, -defs.ENOSPC, fs.Create("c", 1))

	// removing frees the extent for reuse
	require.Equal(t, defs.Err_t(0), fs.Remove("a"))
	require.Equal(t, defs.Err_t(0), fs.Create("c", 2*BSIZE))
}

func TestDirFull(t *testing.T) {
	fs := mkfstest(t, 1024)
	nslots := NDIRBLKS * deperblk
	for i := 0; i < nslots; i++ {
		require.Equal(t, defs.Err_t(0), fs.Create(fmt.Sprintf("f%d", i), 0))
	}
	assert.Equal(t, -defs.ENOSPC, fs.Create("onemore", 0))
	require.Equal(t, defs.Err_t(0), fs.Remove("f7"))
	assert.Equal(t, defs.Err_t(0), fs.Create("onemore", 0))
}

func TestZeroLength(t *testing.T) {
	fs := mkfstest(t, 64)
	require.Equal(t, defs.Err_t(0), fs.Create("empty", 0))
	f, err := fs.Open("empty")
	require.Equal(t, defs.Err_t(0), err)
	l, _ := f.Len()
	assert.Equal(t, 0, l)
	assert.Equal(t, "", readstr(t, f, 8))
	assert.Equal(t, 0, writestr(t, f, "x"))
	f.Close()
	require.Equal(t, defs.Err_t(0), fs.Remove("empty"))
}

func TestMount(t *testing.T) {
	bdev := MkBdev(64, 16)
	fs := Mkfs(bdev)
	require.Equal(t, defs.Err_t(0), fs.Create("f", 5))
	f, _ := fs.Open("f")
	writestr(t, f, "12345")
	f.Close()

	// a fresh mount over the same device sees the same image
	fs2 := Mount(bdev)
	f, err := fs2.Open("f")
	require.Equal(t, defs.Err_t(0), err)
	assert.Equal(t, "12345", readstr(t, f, 5))
	f.Close()
}

func TestBdevCache(t *testing.T) {
	bdev := MkBdev(64, 4)
	_, err := bdev.Read(0)
	require.Equal(t, defs.Err_t(0), err)
	_, err = bdev.Read(0)
	require.Equal(t, defs.Err_t(0), err)
	h0 := bdev.hits
	assert.True(t, h0 >= 1, "second read should hit")

	// out of range blocks fail
	_, err = bdev.Read(64)
	assert.Equal(t, -defs.EINVAL, err)
	_, err = bdev.Read(-1)
	assert.Equal(t, -defs.EINVAL, err)

	// eviction keeps reads correct: the data survives on the disk array
	blk := MkBlock(3)
	blk.Data[0] = 0xab
	require.Equal(t, defs.Err_t(0), bdev.Write(blk))
	for i := 10; i < 20; i++ {
		bdev.Read(i)
	}
	got, err := bdev.Read(3)
	require.Equal(t, defs.Err_t(0), err)
	assert.Equal(t, uint8(0xab), got.Data[0])
}
