package signverify

import (
	"fmt"
	"math"

	"ringOTS-Signature/keys"
	"ringOTS-Signature/rq"
)

// LogBase is the base of every logarithm in the key, signature and
// verification bounds.
const LogBase = 2.0

// maxSignedLimit is the largest signed sampling limit rq.GenerateRandom accepts.
const maxSignedLimit = 1 << 62

// logb is exact on powers of two, which keeps the floors below stable.
func logb(x float64) float64 { return math.Log2(x) }

// Bounds are the integer thresholds derived from (n, p, m, φ).
type Bounds struct {
	// RootP is p^(1/m).
	RootP float64

	// LMOTS
	PosBits int    // floor(log(n)^2) bits drawn to pick pos
	SigNorm uint64 // floor(10·φ·p^(1/m)·n·log(n)^2)

	// TSS
	YBound uint64 // m·floor(n^(3/2)·log n)
	GBound uint64 // YBound - floor(√n·log n)
}

func computeBounds(scheme keys.Scheme, par rq.Params, m int, phi float64) (Bounds, error) {
	n := float64(par.N())
	lg := logb(n)
	b := Bounds{RootP: math.Pow(float64(par.P), 1/float64(m))}
	switch scheme {
	case keys.LMOTS:
		b.PosBits = int(math.Floor(lg * lg))
		if b.PosBits < 1 {
			return Bounds{}, fmt.Errorf("%w: degree %d gives no position bits", rq.ErrInvalidParameter, par.N())
		}
		sig := math.Floor(10 * phi * b.RootP * n * lg * lg)
		lim := math.Ceil(5 * float64(b.PosBits) * n * phi * b.RootP)
		if sig >= maxSignedLimit || lim > maxSignedLimit {
			return Bounds{}, fmt.Errorf("%w: key bounds overflow for %s, m=%d", rq.ErrInvalidParameter, par, m)
		}
		b.SigNorm = uint64(sig)
	case keys.TSS:
		y := float64(m) * math.Floor(n*math.Sqrt(n)*lg)
		shift := math.Floor(math.Sqrt(n) * lg)
		if y >= maxSignedLimit {
			return Bounds{}, fmt.Errorf("%w: response bound overflow for %s, m=%d", rq.ErrInvalidParameter, par, m)
		}
		if y-shift < 1 {
			return Bounds{}, fmt.Errorf("%w: acceptance bound %v < 1", rq.ErrInvalidParameter, y-shift)
		}
		b.YBound = uint64(y)
		b.GBound = uint64(y - shift)
	default:
		return Bounds{}, fmt.Errorf("%w: %s", keys.ErrUnknownScheme, scheme)
	}
	return b, nil
}

// lmotsLimits returns the sampling limits of K and L for position pos.
func (b Bounds) lmotsLimits(pos int, n int, phi float64) (uint64, uint64) {
	k := math.Ceil(5 * float64(pos) * b.RootP)
	l := math.Ceil(5 * float64(pos) * float64(n) * phi * b.RootP)
	return uint64(k), uint64(l)
}
