package rq

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"ringOTS-Signature/random"
)

func roundTrip(t *testing.T, profile Profile, v Vector) []byte {
	t.Helper()
	enc, err := EncodeVector(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := DecodeVector(profile, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !dec.Equal(v) {
		t.Fatalf("round trip mismatch")
	}
	for i := range v {
		if !dec[i].Params().Equal(v[i].Params()) {
			t.Fatalf("element %d ring changed", i)
		}
	}
	return enc
}

func TestVectorCodecRoundTrip(t *testing.T) {
	rng := random.MustSeeded([]byte("rq-codec"))
	par := toyParams(t)
	wide, err := Negacyclic(Profile64, 16, 7681)
	if err != nil {
		t.Fatalf("params: %v", err)
	}

	if enc := roundTrip(t, Profile32, Vector{}); len(enc) != 1 || enc[0] != 0 {
		t.Fatalf("empty vector encodes to %x", enc)
	}

	single := Vector{randElem(t, par, rng)}
	roundTrip(t, Profile32, single)

	many, err := GenerateVector(wide, 6, wide.P, false, rng)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	roundTrip(t, Profile64, many)

	zeros := Vector{Zero(par), randElem(t, par, rng), Zero(par)}
	roundTrip(t, Profile32, zeros)
}

func TestVectorCodecSharedParamsCompress(t *testing.T) {
	par := toyParams(t)
	e := MustElement(par, 1, 2, 3, 4)
	v := Vector{e, e, e, e}
	enc := roundTrip(t, Profile32, v)
	full, err := e.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// count + reference + one zero tag per repeated element
	if want := 1 + len(full) + 3; len(enc) != want {
		t.Fatalf("encoded size %d, want %d", len(enc), want)
	}
	for _, tag := range enc[1+len(full):] {
		if tag != 0 {
			t.Fatalf("identical elements must use tag 0, got %#x", tag)
		}
	}

	// Same ring, different polynomials: tag carries only the poly bit.
	v2 := Vector{e, MustElement(par, 9)}
	enc2 := roundTrip(t, Profile32, v2)
	if tag := enc2[1+len(full)]; tag != tagPoly {
		t.Fatalf("tag %#x, want poly only", tag)
	}
}

func TestVectorCodecDifferingRings(t *testing.T) {
	a, _ := Negacyclic(Profile32, 8, 97)
	b, _ := Negacyclic(Profile32, 8, 101)
	c, _ := Negacyclic(Profile32, 4, 97)
	d, _ := NewParams(Profile32, 101, []uint64{3, 1, 1})
	v := Vector{
		MustElement(a, 1, 2, 3),
		MustElement(b, 1, 2, 3), // p differs only
		MustElement(c, 1, 2, 3), // f differs only
		MustElement(d, 5),       // everything differs
		MustElement(a, 1, 2, 3), // identical to reference, not to previous
	}
	enc := roundTrip(t, Profile32, v)
	if enc[len(enc)-1] != 0 {
		t.Fatalf("last element must inherit from reference with tag 0")
	}
}

func TestVectorCodecRejectsMalformed(t *testing.T) {
	rng := random.MustSeeded([]byte("rq-codec-bad"))
	par := toyParams(t)
	other, _ := Negacyclic(Profile32, 8, 101)
	v := Vector{randElem(t, par, rng), randElem(t, par, rng), MustElement(other, 7)}
	enc, err := EncodeVector(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Every strict prefix is truncated input.
	for i := 0; i < len(enc); i++ {
		if _, err := DecodeVector(Profile32, enc[:i]); !errors.Is(err, ErrDecoding) {
			t.Fatalf("prefix %d: want ErrDecoding, got %v", i, err)
		}
	}
	if _, err := DecodeVector(Profile32, append(append([]byte(nil), enc...), 0)); !errors.Is(err, ErrDecoding) {
		t.Fatalf("trailing byte: want ErrDecoding, got %v", err)
	}
	// Declared length far beyond the buffer.
	bad := append([]byte(nil), enc...)
	bad[1], bad[2] = 0xff, 0xff
	if _, err := DecodeVector(Profile32, bad); !errors.Is(err, ErrDecoding) {
		t.Fatalf("oversized length: want ErrDecoding, got %v", err)
	}
	// Wrong profile width misaligns every field.
	if _, err := DecodeVector(Profile64, enc); !errors.Is(err, ErrDecoding) {
		t.Fatalf("wrong profile: want ErrDecoding, got %v", err)
	}
	// Flip every byte, one at a time: decoding either fails cleanly or
	// yields a different vector, and never panics.
	for i := range enc {
		flipped := append([]byte(nil), enc...)
		flipped[i] ^= 0xff
		got, err := DecodeVector(Profile32, flipped)
		if err == nil && got.Equal(v) {
			t.Fatalf("flip at %d decoded to the original vector", i)
		}
	}
}

func TestVectorCodecRejectsNonCanonical(t *testing.T) {
	par := toyParams(t)
	e := MustElement(par, 1, 2)
	enc, err := EncodeVector(Vector{e})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Layout: count | len(f)=9 | 9 words | p | len=2 | c0 | c1.
	c1 := len(enc) - 4
	bad := append([]byte(nil), enc...)
	bad[c1], bad[c1+1], bad[c1+2], bad[c1+3] = 0, 0, 0, 97
	if _, err := DecodeVector(Profile32, bad); !errors.Is(err, ErrDecoding) {
		t.Fatalf("unreduced coefficient: want ErrDecoding, got %v", err)
	}
	bad[c1+3] = 0
	if _, err := DecodeVector(Profile32, bad); !errors.Is(err, ErrDecoding) {
		t.Fatalf("trailing zero: want ErrDecoding, got %v", err)
	}
	withTag := append(append([]byte(nil), enc...), 0x08)
	withTag[0] = 2
	if _, err := DecodeVector(Profile32, withTag); !errors.Is(err, ErrDecoding) {
		t.Fatalf("unknown tag bit: want ErrDecoding, got %v", err)
	}
}

func TestVectorCodecLimits(t *testing.T) {
	par := toyParams(t)
	v := make(Vector, MaxVectorLen+1)
	for i := range v {
		v[i] = Zero(par)
	}
	if _, err := EncodeVector(v); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("want ErrInvalidParameter, got %v", err)
	}
	wide, _ := Negacyclic(Profile64, 8, 97)
	if _, err := EncodeVector(Vector{Zero(par), Zero(wide)}); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("mixed profiles: want ErrInvalidParameter, got %v", err)
	}
	roundTrip(t, Profile32, v[:MaxVectorLen])
}

func TestElementMarshalRoundTrip(t *testing.T) {
	par := toyParams(t)
	e := MustElement(par, -1, 0, 5)
	b, err := e.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// 2 + 9*4 + 4 + 2 + 3*4
	if len(b) != 56 {
		t.Fatalf("encoded length %d, want 56", len(b))
	}
	got, err := UnmarshalElement(Profile32, b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(e) {
		t.Fatalf("round trip mismatch")
	}
	if _, err := UnmarshalElement(Profile32, b[:len(b)-1]); !errors.Is(err, ErrDecoding) {
		t.Fatalf("want ErrDecoding, got %v", err)
	}
}

func TestVectorCodecKnownAnswer(t *testing.T) {
	par := toyParams(t)
	ref := MustElement(par, 1, 2, 3)
	v := Vector{ref, ref, MustElement(par, 5)}
	want, _ := hex.DecodeString("03" +
		"0009" + "00000001" + "00000000000000000000000000000000000000000000000000000000" + "00000001" +
		"00000061" +
		"0003" + "00000001" + "00000002" + "00000003" +
		"00" +
		"01" + "0001" + "00000005")
	enc := roundTrip(t, Profile32, v)
	if !bytes.Equal(enc, want) {
		t.Fatalf("encoding\n got %x\nwant %x", enc, want)
	}
}
