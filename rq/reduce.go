package rq

import "math/bits"

func addMod(a, b, p uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= p {
		s -= p
	}
	return s
}

func subMod(a, b, p uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + (p - b)
}

func mulMod(a, b, p uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, p)
}

// reduceSigned maps an arbitrary signed integer to its residue in [0,p).
func reduceSigned(v int64, p uint64) uint64 {
	if v >= 0 {
		return uint64(v) % p
	}
	// -(v+1) cannot overflow, even for math.MinInt64.
	neg := (uint64(-(v + 1)) + 1) % p
	if neg == 0 {
		return 0
	}
	return p - neg
}

// convolve returns the schoolbook product of a and b with every
// multiply-add reduced mod p. The result has len(a)+len(b)-1 entries.
func convolve(a, b []uint64, p uint64) []uint64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]uint64, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			if bj == 0 {
				continue
			}
			out[i+j] = addMod(out[i+j], mulMod(ai, bj, p), p)
		}
	}
	return out
}

// reduceModF folds c (coefficients in [0,p)) modulo the monic polynomial f.
// Leading terms are eliminated from the top degree down to n; every
// intermediate coefficient stays in [0,p). The returned slice has degree < n
// and is trimmed.
func reduceModF(c []uint64, f []uint64, p uint64) []uint64 {
	n := len(f) - 1
	for i := len(c) - 1; i >= n; i-- {
		lead := c[i]
		if lead == 0 {
			continue
		}
		// x^i = x^(i-n) * x^n and x^n ≡ -(f_0 + ... + f_{n-1} x^{n-1}).
		base := i - n
		for j := 0; j < n; j++ {
			if f[j] == 0 {
				continue
			}
			c[base+j] = subMod(c[base+j], mulMod(lead, f[j], p), p)
		}
		c[i] = 0
	}
	if len(c) > n {
		c = c[:n]
	}
	return trim(c)
}

func trim(c []uint64) []uint64 {
	k := len(c)
	for k > 0 && c[k-1] == 0 {
		k--
	}
	return c[:k]
}
