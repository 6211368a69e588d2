// Package commitment implements the linear hash family
// H_a(v) = Σ a_i · v_i over Z_p[x]/(f(x)).
package commitment

import (
	"errors"
	"fmt"

	"ringOTS-Signature/random"
	"ringOTS-Signature/rq"
)

var (
	// ErrDimension reports a vector whose length does not match the family key.
	ErrDimension = errors.New("commitment: dimension mismatch")
	// ErrMismatch reports a commitment that does not open to the given vector.
	ErrMismatch = errors.New("commitment: mismatch")
)

// Family holds the public key a of the hash family. It is immutable and
// safe for concurrent use.
type Family struct {
	a   rq.Vector
	par rq.Params
	ntt *nttBackend
}

// New builds a family over the key a. All entries must live in one ring.
func New(a rq.Vector) (*Family, error) {
	if len(a) == 0 {
		return nil, fmt.Errorf("%w: empty family key", rq.ErrInvalidParameter)
	}
	par := a[0].Params()
	if err := par.Validate(); err != nil {
		return nil, err
	}
	if !a.InRing(par) {
		return nil, fmt.Errorf("%w: family key spans several rings", rq.ErrInvalidParameter)
	}
	f := &Family{a: a.Clone(), par: par}
	f.ntt = newNTTBackend(f.a)
	return f, nil
}

// Generate samples a fresh key of m uniform elements.
func Generate(par rq.Params, m int, rng random.Source) (*Family, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: family dimension %d < 1", rq.ErrInvalidParameter, m)
	}
	a, err := rq.GenerateVector(par, m, par.P, false, rng)
	if err != nil {
		return nil, fmt.Errorf("commitment: sample key: %w", err)
	}
	return New(a)
}

// Key returns a copy of the family key.
func (f *Family) Key() rq.Vector { return f.a.Clone() }

// Dim returns m, the number of elements the family hashes.
func (f *Family) Dim() int { return len(f.a) }

// Params returns the ring of the family.
func (f *Family) Params() rq.Params { return f.par }

// Accelerated reports whether products go through the lattigo NTT.
func (f *Family) Accelerated() bool { return f.ntt != nil }

// Commit computes H_a(vec) = Σ a_i·vec_i, accumulating from the last index
// down to the first.
func (f *Family) Commit(vec rq.Vector) (rq.Element, error) {
	if len(vec) != len(f.a) {
		return rq.Element{}, fmt.Errorf("%w: key has %d elements, vector %d", ErrDimension, len(f.a), len(vec))
	}
	if !vec.InRing(f.par) {
		return rq.Element{}, fmt.Errorf("%w: vector outside %s", rq.ErrParamMismatch, f.par)
	}
	if f.ntt != nil {
		return f.ntt.commit(vec)
	}
	return f.commitSchoolbook(vec)
}

func (f *Family) commitSchoolbook(vec rq.Vector) (rq.Element, error) {
	acc := rq.Zero(f.par)
	for i := len(vec) - 1; i >= 0; i-- {
		prod, err := f.a[i].Mul(vec[i])
		if err != nil {
			return rq.Element{}, fmt.Errorf("commitment: term %d: %w", i, err)
		}
		if acc, err = acc.Add(prod); err != nil {
			return rq.Element{}, fmt.Errorf("commitment: term %d: %w", i, err)
		}
	}
	return acc, nil
}

// Verify recomputes the commitment and checks it matches com.
func (f *Family) Verify(vec rq.Vector, com rq.Element) error {
	recomputed, err := f.Commit(vec)
	if err != nil {
		return err
	}
	if !recomputed.Equal(com) {
		return ErrMismatch
	}
	return nil
}
