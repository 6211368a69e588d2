package rq

// Compress maps each canonical residue into the balanced interval
// (-p/2, p/2]: residues above p/2 (integer division) are shifted by -p.
func (a Element) Compress() []int64 {
	half := a.par.P / 2
	out := make([]int64, len(a.c))
	for i, v := range a.c {
		if v > half {
			out[i] = -int64(a.par.P - v)
		} else {
			out[i] = int64(v)
		}
	}
	return out
}

// InfNorm returns the largest absolute compressed coefficient.
func (a Element) InfNorm() uint64 {
	var m uint64
	for _, v := range a.Compress() {
		if v < 0 {
			v = -v
		}
		if uint64(v) > m {
			m = uint64(v)
		}
	}
	return m
}

// CheckBound reports whether every compressed coefficient satisfies |c| <= bound.
func (a Element) CheckBound(bound uint64) bool {
	return a.InfNorm() <= bound
}
