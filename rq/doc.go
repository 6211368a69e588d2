// Package rq implements arithmetic in the polynomial ring Z_p[x]/(f(x))
// together with the binary encodings used to exchange ring elements.
//
// Elements are stored as canonical residues in [0,p) with trailing zero
// coefficients trimmed. Two numeric profiles share one engine: Profile32
// and Profile64 only differ in the modulus range they admit and in the
// width of every numeric field on the wire. Multiply-accumulate goes through
// a full 128-bit product, so no profile can overflow.
//
// Vectors of elements are serialised with a delta-compressed codec: the
// first element is written in full and every following element only carries
// the fields that differ from it.
package rq
