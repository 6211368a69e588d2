package rq

import (
	"encoding/binary"
	"fmt"
)

// Wire layout of a full element (numeric fields use the profile width,
// length prefixes are 2 bytes, everything big-endian):
//
//	len(f) | f_0 .. f_n | p | len(poly) | c_0 .. c_k

func appendWord(b []byte, v uint64, width int) []byte {
	switch width {
	case 4:
		return binary.BigEndian.AppendUint32(b, uint32(v))
	default:
		return binary.BigEndian.AppendUint64(b, v)
	}
}

func appendList(b []byte, c []uint64, width int) ([]byte, error) {
	if len(c) > maxPolyLen {
		return nil, fmt.Errorf("%w: list of %d words exceeds 2-byte length prefix", ErrInvalidParameter, len(c))
	}
	b = binary.BigEndian.AppendUint16(b, uint16(len(c)))
	for _, v := range c {
		b = appendWord(b, v, width)
	}
	return b, nil
}

// AppendBinary appends the full single-element encoding of a to b.
func (a Element) AppendBinary(b []byte) ([]byte, error) {
	if err := a.par.Validate(); err != nil {
		return nil, err
	}
	w := a.par.Profile.Width()
	b, err := appendList(b, a.par.F, w)
	if err != nil {
		return nil, err
	}
	b = appendWord(b, a.par.P, w)
	return appendList(b, a.c, w)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a Element) MarshalBinary() ([]byte, error) {
	return a.AppendBinary(nil)
}

// UnmarshalElement decodes one full element; data must be consumed exactly.
func UnmarshalElement(profile Profile, data []byte) (Element, error) {
	if !profile.Valid() {
		return Element{}, fmt.Errorf("%w: unknown profile %d", ErrInvalidParameter, uint8(profile))
	}
	r := &reader{buf: data, width: profile.Width()}
	f, err := r.list()
	if err != nil {
		return Element{}, err
	}
	p, err := r.word()
	if err != nil {
		return Element{}, err
	}
	c, err := r.list()
	if err != nil {
		return Element{}, err
	}
	if r.remaining() != 0 {
		return Element{}, fmt.Errorf("%w: %d trailing bytes", ErrDecoding, r.remaining())
	}
	return assemble(profile, p, f, c)
}

// reader walks a buffer and never reads past its end.
type reader struct {
	buf   []byte
	off   int
	width int
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) u8() (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrDecoding, r.off)
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *reader) u16() (int, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("%w: truncated length at offset %d", ErrDecoding, r.off)
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return int(v), nil
}

func (r *reader) word() (uint64, error) {
	if r.remaining() < r.width {
		return 0, fmt.Errorf("%w: truncated word at offset %d", ErrDecoding, r.off)
	}
	var v uint64
	if r.width == 4 {
		v = uint64(binary.BigEndian.Uint32(r.buf[r.off:]))
	} else {
		v = binary.BigEndian.Uint64(r.buf[r.off:])
	}
	r.off += r.width
	return v, nil
}

func (r *reader) list() ([]uint64, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	if n*r.width > r.remaining() {
		return nil, fmt.Errorf("%w: declared %d words but only %d bytes remain", ErrDecoding, n, r.remaining())
	}
	out := make([]uint64, n)
	for i := range out {
		out[i], _ = r.word()
	}
	return out, nil
}

// assemble validates decoded fields and builds the element. Only canonical
// encodings are accepted: residues in [0,p), at most n coefficients and no
// trailing zero.
func assemble(profile Profile, p uint64, f, c []uint64) (Element, error) {
	par := Params{Profile: profile, P: p, F: f}
	if err := par.Validate(); err != nil {
		return Element{}, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	if len(c) > par.N() {
		return Element{}, fmt.Errorf("%w: %d coefficients for degree %d", ErrDecoding, len(c), par.N())
	}
	for i, v := range c {
		if v >= p {
			return Element{}, fmt.Errorf("%w: coefficient %d = %d not reduced mod %d", ErrDecoding, i, v, p)
		}
	}
	if len(c) > 0 && c[len(c)-1] == 0 {
		return Element{}, fmt.Errorf("%w: non-canonical trailing zero", ErrDecoding)
	}
	return Element{par: par, c: c}, nil
}
