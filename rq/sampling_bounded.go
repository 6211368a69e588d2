package rq

import (
	"fmt"

	"ringOTS-Signature/random"
)

// GenerateRandom samples n coefficients uniformly from [0, limit) or, when
// allowNegative is set, from [-(limit-1), limit-1]. Each sample goes through
// the same canonicalisation as arithmetic results.
func GenerateRandom(par Params, limit uint64, allowNegative bool, rng random.Source) (Element, error) {
	if err := par.Validate(); err != nil {
		return Element{}, err
	}
	if limit == 0 {
		return Element{}, fmt.Errorf("%w: sampling limit must be >= 1", ErrInvalidParameter)
	}
	if allowNegative && limit > 1<<62 {
		return Element{}, fmt.Errorf("%w: signed sampling limit %d too large", ErrInvalidParameter, limit)
	}
	if rng == nil {
		return Element{}, fmt.Errorf("%w: nil randomness source", ErrInvalidParameter)
	}
	n := par.N()
	c := make([]uint64, n)
	for i := 0; i < n; i++ {
		if allowNegative {
			u, err := rng.Uint64n(2*limit - 1)
			if err != nil {
				return Element{}, fmt.Errorf("rq: sample coefficient %d: %w", i, err)
			}
			c[i] = reduceSigned(int64(u)-int64(limit-1), par.P)
			continue
		}
		u, err := rng.Uint64n(limit)
		if err != nil {
			return Element{}, fmt.Errorf("rq: sample coefficient %d: %w", i, err)
		}
		c[i] = u % par.P
	}
	return Element{par: par, c: trim(c)}, nil
}

// GenerateVector draws m independent elements with GenerateRandom.
func GenerateVector(par Params, m int, limit uint64, allowNegative bool, rng random.Source) (Vector, error) {
	if m < 0 {
		return nil, fmt.Errorf("%w: negative vector length", ErrInvalidParameter)
	}
	v := make(Vector, m)
	for i := range v {
		e, err := GenerateRandom(par, limit, allowNegative, rng)
		if err != nil {
			return nil, err
		}
		v[i] = e
	}
	return v, nil
}
