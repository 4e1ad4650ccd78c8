package kernel

import (
	"fmt"
	"io"
	"sync"

	"github.com/DarwinGalicia/chaparrOS/defs"
	"github.com/DarwinGalicia/chaparrOS/fdops"
)

// console_t fronts the raw console-output and keyboard-input primitives.
// unlike the filesystem, the console has its own lock: processes write it
// concurrently and lines must not shear.
type console_t struct {
	sync.Mutex
	out io.Writer
	kbd io.Reader
}

func mkconsole(out io.Writer, kbd io.Reader) *console_t {
	return &console_t{out: out, kbd: kbd}
}

// Cons_write forwards exactly the buffer's bytes to the console. the user
// memory is drained into one buffer first so the console lock is taken
// once per write.
func (c *console_t) Cons_write(src fdops.Userio_i) (int, defs.Err_t) {
	big := make([]uint8, src.Totalsz())
	read, err := src.Uioread(big)
	if err != 0 {
		return 0, err
	}
	if read != src.Totalsz() {
		panic("short read")
	}
	c.Lock()
	c.out.Write(big)
	c.Unlock()
	return len(big), 0
}

// Cons_read copies up to the buffer's size from keyboard input and
// returns the number of bytes actually copied.
func (c *console_t) Cons_read(dst fdops.Userio_i) (int, defs.Err_t) {
	sz := dst.Remain()
	if sz == 0 {
		return 0, 0
	}
	kdata := make([]uint8, sz)
	c.Lock()
	n, _ := c.kbd.Read(kdata)
	c.Unlock()
	if n == 0 {
		return 0, 0
	}
	ret, err := dst.Uiowrite(kdata[:n])
	if err != 0 {
		return 0, err
	}
	if ret != n {
		fmt.Printf("dropped keys!\n")
	}
	return ret, 0
}

func (c *console_t) kprintf(format string, args ...interface{}) {
	c.Lock()
	fmt.Fprintf(c.out, format, args...)
	c.Unlock()
}
