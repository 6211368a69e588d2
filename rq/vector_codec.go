package rq

import (
	"fmt"
)

// MaxVectorLen is the largest vector the one-byte element count can describe.
const MaxVectorLen = 255

// Tag bits of a non-reference element. A zero tag means the element is
// identical to the reference (index 0).
const (
	tagPoly    byte = 1 << 0
	tagF       byte = 1 << 1
	tagModulus byte = 1 << 2
	tagMask         = tagPoly | tagF | tagModulus
)

// EncodeVector serialises v:
//
//	count (1 byte) | reference element in full | { tag | poly? | f? | p? } ...
//
// Fields absent from a tag are inherited from the reference element.
// All elements must share one profile.
func EncodeVector(v Vector) ([]byte, error) {
	if len(v) > MaxVectorLen {
		return nil, fmt.Errorf("%w: vector of %d elements exceeds %d", ErrInvalidParameter, len(v), MaxVectorLen)
	}
	out := []byte{byte(len(v))}
	if len(v) == 0 {
		return out, nil
	}
	ref := v[0]
	out, err := ref.AppendBinary(out)
	if err != nil {
		return nil, fmt.Errorf("rq: encode element 0: %w", err)
	}
	w := ref.par.Profile.Width()
	for i := 1; i < len(v); i++ {
		e := v[i]
		if e.par.Profile != ref.par.Profile {
			return nil, fmt.Errorf("%w: element %d uses %s profile, reference uses %s",
				ErrInvalidParameter, i, e.par.Profile, ref.par.Profile)
		}
		if err := e.par.Validate(); err != nil {
			return nil, fmt.Errorf("rq: encode element %d: %w", i, err)
		}
		var tag byte
		if !equalWords(e.c, ref.c) {
			tag |= tagPoly
		}
		if !equalWords(e.par.F, ref.par.F) {
			tag |= tagF
		}
		if e.par.P != ref.par.P {
			tag |= tagModulus
		}
		out = append(out, tag)
		if tag&tagPoly != 0 {
			if out, err = appendList(out, e.c, w); err != nil {
				return nil, err
			}
		}
		if tag&tagF != 0 {
			if out, err = appendList(out, e.par.F, w); err != nil {
				return nil, err
			}
		}
		if tag&tagModulus != 0 {
			out = appendWord(out, e.par.P, w)
		}
	}
	return out, nil
}

// DecodeVector reverses EncodeVector. Malformed input of any shape yields
// an error wrapping ErrDecoding; the whole buffer must be consumed.
func DecodeVector(profile Profile, data []byte) (Vector, error) {
	if !profile.Valid() {
		return nil, fmt.Errorf("%w: unknown profile %d", ErrInvalidParameter, uint8(profile))
	}
	r := &reader{buf: data, width: profile.Width()}
	count, err := r.u8()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if r.remaining() != 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes after empty vector", ErrDecoding, r.remaining())
		}
		return Vector{}, nil
	}
	refF, err := r.list()
	if err != nil {
		return nil, err
	}
	refP, err := r.word()
	if err != nil {
		return nil, err
	}
	refC, err := r.list()
	if err != nil {
		return nil, err
	}
	ref, err := assemble(profile, refP, refF, refC)
	if err != nil {
		return nil, fmt.Errorf("rq: element 0: %w", err)
	}
	out := make(Vector, count)
	out[0] = ref
	for i := 1; i < int(count); i++ {
		tag, err := r.u8()
		if err != nil {
			return nil, err
		}
		if tag&^tagMask != 0 {
			return nil, fmt.Errorf("%w: element %d has unknown tag bits %#02x", ErrDecoding, i, tag)
		}
		if tag == 0 {
			out[i] = ref
			continue
		}
		c, f, p := ref.c, ref.par.F, ref.par.P
		if tag&tagPoly != 0 {
			if c, err = r.list(); err != nil {
				return nil, err
			}
		}
		if tag&tagF != 0 {
			if f, err = r.list(); err != nil {
				return nil, err
			}
		}
		if tag&tagModulus != 0 {
			if p, err = r.word(); err != nil {
				return nil, err
			}
		}
		if (tag&tagPoly != 0 && equalWords(c, ref.c)) ||
			(tag&tagF != 0 && equalWords(f, ref.par.F)) ||
			(tag&tagModulus != 0 && p == ref.par.P) {
			return nil, fmt.Errorf("%w: element %d repeats a reference field", ErrDecoding, i)
		}
		e, err := assemble(profile, p, f, c)
		if err != nil {
			return nil, fmt.Errorf("rq: element %d: %w", i, err)
		}
		out[i] = e
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDecoding, r.remaining())
	}
	return out, nil
}
