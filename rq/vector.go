package rq

import "fmt"

// Vector is an ordered sequence of ring elements.
type Vector []Element

// Clone returns a shallow copy; elements are immutable values.
func (v Vector) Clone() Vector { return append(Vector(nil), v...) }

// ScalarMul broadcasts e·v_i over the vector.
func (v Vector) ScalarMul(e Element) (Vector, error) {
	out := make(Vector, len(v))
	for i := range v {
		r, err := e.Mul(v[i])
		if err != nil {
			return nil, fmt.Errorf("rq: element %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// ScalarMulAdd returns e·v_i + w_i elementwise.
func (v Vector) ScalarMulAdd(e Element, w Vector) (Vector, error) {
	if len(v) != len(w) {
		return nil, fmt.Errorf("%w: vector lengths %d and %d", ErrInvalidParameter, len(v), len(w))
	}
	out := make(Vector, len(v))
	for i := range v {
		r, err := e.Mul(v[i])
		if err != nil {
			return nil, fmt.Errorf("rq: element %d: %w", i, err)
		}
		if r, err = r.Add(w[i]); err != nil {
			return nil, fmt.Errorf("rq: element %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// InfNorm returns the largest compressed absolute coefficient of any element.
func (v Vector) InfNorm() uint64 {
	var m uint64
	for _, e := range v {
		if n := e.InfNorm(); n > m {
			m = n
		}
	}
	return m
}

// CheckBound reports whether every compressed coefficient of every element
// has absolute value at most bound.
func (v Vector) CheckBound(bound uint64) bool {
	for _, e := range v {
		if !e.CheckBound(bound) {
			return false
		}
	}
	return true
}

// InRing reports whether every element belongs to par.
func (v Vector) InRing(par Params) bool {
	for _, e := range v {
		if !e.par.Equal(par) {
			return false
		}
	}
	return true
}

// Equal compares two vectors element-wise.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
