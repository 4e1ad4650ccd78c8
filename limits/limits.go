package limits

type Syslimit_t struct {
	// max live processes, system wide
	Sysprocs int
	// per-process open file limit
	Nofile int
	// longest path the filesystem accepts
	Namemax int
	// longest command line exec accepts
	Cmdmax int
}

var Syslimit *Syslimit_t = MkSysLimit()

func MkSysLimit() *Syslimit_t {
	return &Syslimit_t{
		Sysprocs: 1 << 10,
		Nofile:   128,
		Namemax:  22,
		Cmdmax:   128,
	}
}
