// Package oracle maps digests onto ring elements: the ternary challenge of
// the Fiat-Shamir signature and the binary message scalar of LMOTS.
package oracle

import (
	"fmt"

	"ringOTS-Signature/rq"
)

// Oracle is bound to one ring and one digest. It holds no mutable state.
type Oracle struct {
	par    rq.Params
	digest Digest
}

// New returns an oracle producing elements of par.
func New(par rq.Params, d Digest) (*Oracle, error) {
	if err := par.Validate(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: nil digest", rq.ErrInvalidParameter)
	}
	return &Oracle{par: par, digest: d}, nil
}

// Challenge derives a ternary element from x and msg. The digest of
// x.MarshalBinary() || msg seeds a SHAKE-256 stream read as 2-bit groups,
// most significant first; groups 0, 1, 2 give coefficients 0, 1, -1 and
// group 3 is skipped.
func (o *Oracle) Challenge(x rq.Element, msg []byte) (rq.Element, error) {
	if !x.Params().Equal(o.par) {
		return rq.Element{}, fmt.Errorf("%w: challenge input outside %s", rq.ErrParamMismatch, o.par)
	}
	enc, err := x.MarshalBinary()
	if err != nil {
		return rq.Element{}, fmt.Errorf("oracle: encode input: %w", err)
	}
	s := newStream(challengeLabel, o.digest.sum(enc, msg))
	n := o.par.N()
	coeffs := make([]int64, 0, n)
	for len(coeffs) < n {
		b := s.next()
		for shift := 6; shift >= 0 && len(coeffs) < n; shift -= 2 {
			switch (b >> shift) & 3 {
			case 0:
				coeffs = append(coeffs, 0)
			case 1:
				coeffs = append(coeffs, 1)
			case 2:
				coeffs = append(coeffs, -1)
			}
		}
	}
	return rq.NewElement(o.par, coeffs)
}

// MessageScalar maps msg to an element with coefficients in {0, 1}: the
// first n bits, most significant first, of a SHAKE-256 stream seeded by the
// digest of msg.
func (o *Oracle) MessageScalar(msg []byte) (rq.Element, error) {
	s := newStream(messageLabel, o.digest.sum(msg))
	n := o.par.N()
	coeffs := make([]int64, n)
	var b byte
	for i := range coeffs {
		if i%8 == 0 {
			b = s.next()
		}
		coeffs[i] = int64(b>>(7-i%8)) & 1
	}
	return rq.NewElement(o.par, coeffs)
}
