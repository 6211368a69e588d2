package commitment

import (
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"

	"ringOTS-Signature/rq"
)

// lattigo needs a power-of-two degree of at least 16 and an NTT-friendly
// prime below 2^61.
const (
	minNTTDegree      = 16
	maxNTTModulusBits = 61
)

// nttBackend evaluates H_a in the NTT domain of lattigo's negacyclic ring.
// The key is stored in Montgomery form so a single MulCoeffsMontgomery per
// term yields the plain product.
type nttBackend struct {
	par   rq.Params
	ringQ *ring.Ring
	aNTT  []*ring.Poly
}

func nttFriendly(par rq.Params) bool {
	n := par.N()
	if !par.IsNegacyclic() || n < minNTTDegree || n&(n-1) != 0 {
		return false
	}
	q := new(big.Int).SetUint64(par.P)
	if q.BitLen() > maxNTTModulusBits || !q.ProbablyPrime(20) {
		return false
	}
	return par.P%uint64(2*n) == 1
}

// newNTTBackend returns nil when the ring does not admit lattigo's NTT; the
// family then falls back to schoolbook products.
func newNTTBackend(a rq.Vector) *nttBackend {
	par := a[0].Params()
	if !nttFriendly(par) {
		return nil
	}
	ringQ, err := ring.NewRing(par.N(), []uint64{par.P})
	if err != nil {
		return nil
	}
	b := &nttBackend{par: par, ringQ: ringQ, aNTT: make([]*ring.Poly, len(a))}
	for i, e := range a {
		p := b.load(e)
		ringQ.MForm(p, p)
		ringQ.NTT(p, p)
		b.aNTT[i] = p
	}
	return b
}

func (b *nttBackend) load(e rq.Element) *ring.Poly {
	p := b.ringQ.NewPoly()
	copy(p.Coeffs[0], e.Coeffs())
	return p
}

func (b *nttBackend) commit(vec rq.Vector) (rq.Element, error) {
	acc := b.ringQ.NewPoly()
	tmp := b.ringQ.NewPoly()
	for i := len(vec) - 1; i >= 0; i-- {
		v := b.load(vec[i])
		b.ringQ.NTT(v, v)
		b.ringQ.MulCoeffsMontgomery(b.aNTT[i], v, tmp)
		b.ringQ.Add(acc, tmp, acc)
	}
	b.ringQ.InvNTT(acc, acc)
	out := make([]uint64, b.par.N())
	for j, c := range acc.Coeffs[0] {
		out[j] = c % b.par.P
	}
	return rq.FromCanonical(b.par, out)
}
