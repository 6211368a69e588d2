package rq

import (
	"fmt"
	"strings"
)

// Element is a polynomial of Z_p[x]/(f(x)) in canonical form: residues in
// [0,p), degree < n, no trailing zero coefficients. The zero value is not a
// valid element; build elements with Zero, NewElement or FromCanonical.
type Element struct {
	par Params
	c   []uint64
}

// Zero returns the additive identity of the ring.
func Zero(par Params) Element {
	return Element{par: par}
}

// NewElement builds an element from signed integer coefficients in
// ascending order. Any length is accepted; coefficients are taken mod p and
// the polynomial is reduced mod f.
func NewElement(par Params, coeffs []int64) (Element, error) {
	if err := par.Validate(); err != nil {
		return Element{}, err
	}
	c := make([]uint64, len(coeffs))
	for i, v := range coeffs {
		c[i] = reduceSigned(v, par.P)
	}
	return Element{par: par, c: reduceModF(c, par.F, par.P)}, nil
}

// MustElement is NewElement for literals known to be valid.
func MustElement(par Params, coeffs ...int64) Element {
	e, err := NewElement(par, coeffs)
	if err != nil {
		panic(err)
	}
	return e
}

// FromCanonical builds an element from residues that must already lie in
// [0,p) with at most n entries. Trailing zeros are trimmed.
func FromCanonical(par Params, coeffs []uint64) (Element, error) {
	if len(coeffs) > par.N() {
		return Element{}, fmt.Errorf("%w: %d coefficients for degree %d", ErrInvalidParameter, len(coeffs), par.N())
	}
	for i, v := range coeffs {
		if v >= par.P {
			return Element{}, fmt.Errorf("%w: coefficient %d = %d not reduced mod %d", ErrInvalidParameter, i, v, par.P)
		}
	}
	return Element{par: par, c: trim(append([]uint64(nil), coeffs...))}, nil
}

// Params returns the ring the element belongs to.
func (a Element) Params() Params { return a.par }

// Coeffs returns a copy of the canonical coefficients.
func (a Element) Coeffs() []uint64 { return append([]uint64(nil), a.c...) }

// Len returns the number of stored (non-trimmed) coefficients.
func (a Element) Len() int { return len(a.c) }

// Degree returns the polynomial degree, -1 for zero.
func (a Element) Degree() int { return len(a.c) - 1 }

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool { return len(a.c) == 0 }

func (a Element) sameRing(b Element) error {
	if !a.par.Equal(b.par) {
		return fmt.Errorf("%w: %s vs %s", ErrParamMismatch, a.par, b.par)
	}
	return nil
}

// Add returns a + b.
func (a Element) Add(b Element) (Element, error) {
	if err := a.sameRing(b); err != nil {
		return Element{}, err
	}
	p := a.par.P
	out := make([]uint64, max(len(a.c), len(b.c)))
	copy(out, a.c)
	for i, v := range b.c {
		out[i] = addMod(out[i], v, p)
	}
	return Element{par: a.par, c: trim(out)}, nil
}

// Sub returns a - b.
func (a Element) Sub(b Element) (Element, error) {
	if err := a.sameRing(b); err != nil {
		return Element{}, err
	}
	p := a.par.P
	out := make([]uint64, max(len(a.c), len(b.c)))
	copy(out, a.c)
	for i, v := range b.c {
		out[i] = subMod(out[i], v, p)
	}
	return Element{par: a.par, c: trim(out)}, nil
}

// Neg returns -a.
func (a Element) Neg() Element {
	out := make([]uint64, len(a.c))
	for i, v := range a.c {
		out[i] = subMod(0, v, a.par.P)
	}
	return Element{par: a.par, c: out}
}

// Mul returns a·b: schoolbook convolution followed by reduction mod f and p.
func (a Element) Mul(b Element) (Element, error) {
	if err := a.sameRing(b); err != nil {
		return Element{}, err
	}
	prod := convolve(a.c, b.c, a.par.P)
	return Element{par: a.par, c: reduceModF(prod, a.par.F, a.par.P)}, nil
}

// ScalarMul returns s·a for an integer s.
func (a Element) ScalarMul(s int64) Element {
	p := a.par.P
	k := reduceSigned(s, p)
	out := make([]uint64, len(a.c))
	for i, v := range a.c {
		out[i] = mulMod(v, k, p)
	}
	return Element{par: a.par, c: trim(out)}
}

// Equal compares rings and the compressed, zero-trimmed coefficients.
func (a Element) Equal(b Element) bool {
	if !a.par.Equal(b.par) {
		return false
	}
	ca, cb := a.Compress(), b.Compress()
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

func (a Element) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Compress() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	sb.WriteString("] mod ")
	fmt.Fprintf(&sb, "%d", a.par.P)
	return sb.String()
}
