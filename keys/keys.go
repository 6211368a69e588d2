// Package keys models the one-time key variants of both schemes and their
// persisted forms (JSON files and DER).
package keys

import (
	"errors"
	"fmt"
	"strings"

	"ringOTS-Signature/rq"
)

var (
	// ErrUnknownScheme reports a scheme tag that is neither LMOTS nor TSS.
	ErrUnknownScheme = errors.New("keys: unknown scheme")
	// ErrSchemeMismatch reports a key pair whose halves belong to different schemes.
	ErrSchemeMismatch = errors.New("keys: private and public key schemes differ")
	// ErrMalformedKey reports a key vector with the wrong shape.
	ErrMalformedKey = errors.New("keys: malformed key")
)

// Scheme identifies the signature scheme a key belongs to.
type Scheme uint8

const (
	LMOTS Scheme = 1
	TSS   Scheme = 2
)

func (s Scheme) String() string {
	switch s {
	case LMOTS:
		return "lmots"
	case TSS:
		return "tss"
	}
	return fmt.Sprintf("Scheme(%d)", uint8(s))
}

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool { return s == LMOTS || s == TSS }

// ParseScheme accepts the names produced by String, case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lmots":
		return LMOTS, nil
	case "tss":
		return TSS, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// PrivateKey is implemented only by the key types of this package.
type PrivateKey interface {
	Scheme() Scheme
	// Vector returns the key material in its serialised order.
	Vector() rq.Vector
	private()
}

// PublicKey is implemented only by the key types of this package.
type PublicKey interface {
	Scheme() Scheme
	Vector() rq.Vector
	public()
}

// LMOTSPrivateKey holds the two bounded vectors K and L.
type LMOTSPrivateKey struct {
	K, L rq.Vector
}

func (LMOTSPrivateKey) Scheme() Scheme { return LMOTS }

// Vector returns K || L.
func (k LMOTSPrivateKey) Vector() rq.Vector {
	return append(k.K.Clone(), k.L...)
}

func (LMOTSPrivateKey) private() {}

// TSSPrivateKey holds the ternary secret S.
type TSSPrivateKey struct {
	S rq.Vector
}

func (TSSPrivateKey) Scheme() Scheme      { return TSS }
func (k TSSPrivateKey) Vector() rq.Vector { return k.S.Clone() }
func (TSSPrivateKey) private()            {}

// LMOTSPublicKey is (H_a(K), H_a(L)).
type LMOTSPublicKey struct {
	HashedK, HashedL rq.Element
}

func (LMOTSPublicKey) Scheme() Scheme { return LMOTS }
func (k LMOTSPublicKey) Vector() rq.Vector {
	return rq.Vector{k.HashedK, k.HashedL}
}
func (LMOTSPublicKey) public() {}

// TSSPublicKey is H_a(S).
type TSSPublicKey struct {
	SPub rq.Element
}

func (TSSPublicKey) Scheme() Scheme      { return TSS }
func (k TSSPublicKey) Vector() rq.Vector { return rq.Vector{k.SPub} }
func (TSSPublicKey) public()             {}

// KeyPair binds a private key to its public key. A pair must sign at most
// one message.
type KeyPair struct {
	Private PrivateKey
	Public  PublicKey
}

// NewKeyPair checks that both halves are present and share a scheme.
func NewKeyPair(sk PrivateKey, pk PublicKey) (KeyPair, error) {
	if sk == nil || pk == nil {
		return KeyPair{}, fmt.Errorf("%w: missing half of key pair", ErrMalformedKey)
	}
	if sk.Scheme() != pk.Scheme() {
		return KeyPair{}, fmt.Errorf("%w: %s private, %s public", ErrSchemeMismatch, sk.Scheme(), pk.Scheme())
	}
	return KeyPair{Private: sk, Public: pk}, nil
}

// Scheme returns the scheme shared by both halves.
func (kp KeyPair) Scheme() Scheme { return kp.Private.Scheme() }

// PrivateFromVector rebuilds a private key from its serialised vector.
func PrivateFromVector(scheme Scheme, v rq.Vector) (PrivateKey, error) {
	if err := sameRing(v); err != nil {
		return nil, err
	}
	switch scheme {
	case LMOTS:
		if len(v)%2 != 0 {
			return nil, fmt.Errorf("%w: lmots private vector has odd length %d", ErrMalformedKey, len(v))
		}
		m := len(v) / 2
		return LMOTSPrivateKey{K: v[:m].Clone(), L: v[m:].Clone()}, nil
	case TSS:
		return TSSPrivateKey{S: v.Clone()}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, uint8(scheme))
}

// PublicFromVector rebuilds a public key from its serialised vector.
func PublicFromVector(scheme Scheme, v rq.Vector) (PublicKey, error) {
	if err := sameRing(v); err != nil {
		return nil, err
	}
	switch scheme {
	case LMOTS:
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: lmots public key needs 2 elements, got %d", ErrMalformedKey, len(v))
		}
		return LMOTSPublicKey{HashedK: v[0], HashedL: v[1]}, nil
	case TSS:
		if len(v) != 1 {
			return nil, fmt.Errorf("%w: tss public key needs 1 element, got %d", ErrMalformedKey, len(v))
		}
		return TSSPublicKey{SPub: v[0]}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, uint8(scheme))
}

func sameRing(v rq.Vector) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty key vector", ErrMalformedKey)
	}
	if !v.InRing(v[0].Params()) {
		return fmt.Errorf("%w: key vector spans several rings", ErrMalformedKey)
	}
	return nil
}
