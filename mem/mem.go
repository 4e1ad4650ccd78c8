package mem

const (
	PGSIZE   = 4096
	PGSHIFT  = 12
	PGOFFSET = PGSIZE - 1
)

// the user/kernel boundary. any probe at or above Maxuva faults.
const Maxuva = 1 << 28

type Pg_t [PGSIZE]uint8

func pgn(va int) int {
	return va >> PGSHIFT
}

func pgoff(va int) int {
	return va & PGOFFSET
}
