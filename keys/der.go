package keys

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"ringOTS-Signature/rq"
)

const derVersion = 1

// DER layout shared by public and private keys:
//
//	SEQUENCE {
//	  INTEGER     version (1)
//	  INTEGER     scheme
//	  INTEGER     profile width in bytes
//	  OCTET STRING vector encoding
//	}

// MarshalPublicKeyDER wraps pk's vector encoding in DER.
func MarshalPublicKeyDER(pk PublicKey) ([]byte, error) {
	if pk == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrMalformedKey)
	}
	return marshalDER(pk.Scheme(), pk.Vector())
}

// ParsePublicKeyDER is the inverse of MarshalPublicKeyDER.
func ParsePublicKeyDER(der []byte) (PublicKey, error) {
	scheme, v, err := parseDER(der)
	if err != nil {
		return nil, err
	}
	return PublicFromVector(scheme, v)
}

// MarshalPrivateKeyDER wraps sk's vector encoding in DER.
func MarshalPrivateKeyDER(sk PrivateKey) ([]byte, error) {
	if sk == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrMalformedKey)
	}
	return marshalDER(sk.Scheme(), sk.Vector())
}

// ParsePrivateKeyDER is the inverse of MarshalPrivateKeyDER.
func ParsePrivateKeyDER(der []byte) (PrivateKey, error) {
	scheme, v, err := parseDER(der)
	if err != nil {
		return nil, err
	}
	return PrivateFromVector(scheme, v)
}

func marshalDER(scheme Scheme, v rq.Vector) ([]byte, error) {
	if err := sameRing(v); err != nil {
		return nil, err
	}
	enc, err := rq.EncodeVector(v)
	if err != nil {
		return nil, fmt.Errorf("keys: encode vector: %w", err)
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(derVersion)
		b.AddASN1Int64(int64(scheme))
		b.AddASN1Int64(int64(v[0].Params().Profile.Width()))
		b.AddASN1OctetString(enc)
	})
	return b.Bytes()
}

func parseDER(der []byte) (Scheme, rq.Vector, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return 0, nil, fmt.Errorf("%w: bad DER sequence", rq.ErrDecoding)
	}
	var version, scheme, width int64
	var enc []byte
	if !seq.ReadASN1Integer(&version) ||
		!seq.ReadASN1Integer(&scheme) ||
		!seq.ReadASN1Integer(&width) ||
		!seq.ReadASN1Bytes(&enc, asn1.OCTET_STRING) ||
		!seq.Empty() {
		return 0, nil, fmt.Errorf("%w: bad DER key fields", rq.ErrDecoding)
	}
	if version != derVersion {
		return 0, nil, fmt.Errorf("%w: unsupported key version %d", rq.ErrDecoding, version)
	}
	if scheme < 0 || scheme > 255 || !Scheme(scheme).Valid() {
		return 0, nil, fmt.Errorf("%w: %d", ErrUnknownScheme, scheme)
	}
	if width < 0 || width > 255 || !rq.Profile(width).Valid() {
		return 0, nil, fmt.Errorf("%w: unsupported profile width %d", rq.ErrDecoding, width)
	}
	v, err := rq.DecodeVector(rq.Profile(width), enc)
	if err != nil {
		return 0, nil, fmt.Errorf("keys: decode vector: %w", err)
	}
	return Scheme(scheme), v, nil
}
