package util

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Rounddown(v int, b int) int {
	return v - (v % b)
}

func Roundup(v int, b int) int {
	return Rounddown(v+b-1, b)
}

// Readn decodes an n-byte little-endian word at off.
func Readn(a []uint8, n int, off int) int {
	if n > 8 {
		panic("no")
	}
	var ret int
	for i := 0; i < n; i++ {
		ret |= int(a[off+i]) << (8 * uint(i))
	}
	return ret
}

// Writen encodes val as an sz-byte little-endian word at off.
func Writen(a []uint8, sz int, off int, val int) {
	if sz > 8 {
		panic("no")
	}
	for i := 0; i < sz; i++ {
		a[off+i] = uint8(val >> (8 * uint(i)))
	}
}
