package rq

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports malformed ring parameters.
	ErrInvalidParameter = errors.New("rq: invalid parameter")
	// ErrParamMismatch reports an operation between elements of different rings.
	ErrParamMismatch = fmt.Errorf("%w: ring parameters differ", ErrInvalidParameter)
	// ErrDecoding reports a truncated or inconsistent serialised element or vector.
	ErrDecoding = errors.New("rq: decoding error")
)

// Profile selects the integer width used for moduli and wire fields.
type Profile uint8

const (
	// Profile32 stores every numeric field on 4 bytes; p < 2^31.
	Profile32 Profile = 4
	// Profile64 stores every numeric field on 8 bytes; p < 2^63.
	Profile64 Profile = 8
)

// maxPolyLen is the largest coefficient list a 2-byte length prefix can carry.
const maxPolyLen = 1<<16 - 1

// Width returns the byte width of a coefficient or modulus on the wire.
func (pr Profile) Width() int { return int(pr) }

// Valid reports whether pr is one of the supported profiles.
func (pr Profile) Valid() bool { return pr == Profile32 || pr == Profile64 }

// ModulusLimit returns the exclusive upper bound on p for this profile.
func (pr Profile) ModulusLimit() uint64 {
	if pr == Profile32 {
		return 1 << 31
	}
	return 1 << 63
}

func (pr Profile) String() string {
	switch pr {
	case Profile32:
		return "32-bit"
	case Profile64:
		return "64-bit"
	}
	return fmt.Sprintf("Profile(%d)", uint8(pr))
}

// Params describes the ring Z_p[x]/(f(x)). F lists the coefficients of the
// monic reduction polynomial in ascending order, so N = len(F)-1.
// Params values are treated as immutable once built.
type Params struct {
	Profile Profile
	P       uint64
	F       []uint64
}

// NewParams validates and copies the ring description.
func NewParams(profile Profile, p uint64, f []uint64) (Params, error) {
	par := Params{Profile: profile, P: p, F: append([]uint64(nil), f...)}
	if err := par.Validate(); err != nil {
		return Params{}, err
	}
	return par, nil
}

// Negacyclic returns the parameters of Z_p[x]/(x^n + 1).
func Negacyclic(profile Profile, n int, p uint64) (Params, error) {
	if n < 1 {
		return Params{}, fmt.Errorf("%w: degree %d < 1", ErrInvalidParameter, n)
	}
	f := make([]uint64, n+1)
	f[0] = 1
	f[n] = 1
	return NewParams(profile, p, f)
}

// Validate checks the profile, the modulus range and that F is monic with
// canonical coefficients.
func (par Params) Validate() error {
	if !par.Profile.Valid() {
		return fmt.Errorf("%w: unknown profile %d", ErrInvalidParameter, uint8(par.Profile))
	}
	if par.P < 2 || par.P >= par.Profile.ModulusLimit() {
		return fmt.Errorf("%w: modulus %d outside [2, %d) for %s profile",
			ErrInvalidParameter, par.P, par.Profile.ModulusLimit(), par.Profile)
	}
	if len(par.F) < 2 {
		return fmt.Errorf("%w: reduction polynomial needs degree >= 1", ErrInvalidParameter)
	}
	if len(par.F) > maxPolyLen {
		return fmt.Errorf("%w: reduction polynomial too long (%d)", ErrInvalidParameter, len(par.F))
	}
	if par.F[len(par.F)-1] != 1 {
		return fmt.Errorf("%w: reduction polynomial is not monic", ErrInvalidParameter)
	}
	for i, c := range par.F {
		if c >= par.P {
			return fmt.Errorf("%w: f[%d]=%d not reduced mod %d", ErrInvalidParameter, i, c, par.P)
		}
	}
	return nil
}

// N returns the ring degree.
func (par Params) N() int {
	if len(par.F) == 0 {
		return 0
	}
	return len(par.F) - 1
}

// Equal reports whether both parameter sets describe the same ring with the
// same profile.
func (par Params) Equal(o Params) bool {
	return par.Profile == o.Profile && par.P == o.P && equalWords(par.F, o.F)
}

// IsNegacyclic reports whether f = x^n + 1.
func (par Params) IsNegacyclic() bool {
	n := par.N()
	if n < 1 || par.F[0] != 1%par.P {
		return false
	}
	for i := 1; i < n; i++ {
		if par.F[i] != 0 {
			return false
		}
	}
	return true
}

func (par Params) String() string {
	return fmt.Sprintf("Z_%d[x]/(f), n=%d, %s", par.P, par.N(), par.Profile)
}

func equalWords(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
