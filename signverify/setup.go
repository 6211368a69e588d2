package signverify

import (
	"fmt"

	"ringOTS-Signature/commitment"
	"ringOTS-Signature/keys"
	"ringOTS-Signature/oracle"
	"ringOTS-Signature/random"
	"ringOTS-Signature/rq"
)

// DefaultMaxAttempts bounds the TSS rejection loop when Setup leaves it unset.
const DefaultMaxAttempts = 1000

// Setup is the public parameter set shared by signer and verifier. It is
// built once and never mutated.
type Setup struct {
	Scheme keys.Scheme
	Ring   rq.Params
	M      int
	// Phi is the expansion factor of f: ‖a·b‖∞ ≤ Phi·n·‖a‖∞·‖b‖∞.
	// It is 1 for x^n ± 1.
	Phi         float64
	DigestName  string
	MaxAttempts int
	Family      *commitment.Family
}

// NewSetup samples a fresh hash family for the given parameters.
func NewSetup(scheme keys.Scheme, ring rq.Params, m int, phi float64, digest string, rng random.Source) (*Setup, error) {
	fam, err := commitment.Generate(ring, m, rng)
	if err != nil {
		return nil, err
	}
	s := &Setup{
		Scheme:     scheme,
		Ring:       ring,
		M:          m,
		Phi:        phi,
		DigestName: digest,
		Family:     fam,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the parameter combination against both schemes' limits.
func (s *Setup) Validate() error {
	if !s.Scheme.Valid() {
		return fmt.Errorf("%w: %d", keys.ErrUnknownScheme, uint8(s.Scheme))
	}
	if err := s.Ring.Validate(); err != nil {
		return err
	}
	if s.M < 1 {
		return fmt.Errorf("%w: m = %d < 1", rq.ErrInvalidParameter, s.M)
	}
	if s.Family == nil {
		return fmt.Errorf("%w: missing hash family", rq.ErrInvalidParameter)
	}
	if s.Family.Dim() != s.M {
		return fmt.Errorf("%w: m = %d but hash family has dimension %d", rq.ErrInvalidParameter, s.M, s.Family.Dim())
	}
	if !s.Family.Params().Equal(s.Ring) {
		return fmt.Errorf("%w: hash family lives in %s", rq.ErrParamMismatch, s.Family.Params())
	}
	if s.Ring.N() < 2 {
		return fmt.Errorf("%w: degree %d < 2", rq.ErrInvalidParameter, s.Ring.N())
	}
	if s.Phi < 1 {
		return fmt.Errorf("%w: expansion factor %v < 1", rq.ErrInvalidParameter, s.Phi)
	}
	if s.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts %d < 0", rq.ErrInvalidParameter, s.MaxAttempts)
	}
	if _, err := oracle.Lookup(s.DigestName); err != nil {
		return err
	}
	switch s.Scheme {
	case keys.LMOTS:
		if 2*s.M > rq.MaxVectorLen {
			return fmt.Errorf("%w: private key of 2m = %d elements exceeds %d", rq.ErrInvalidParameter, 2*s.M, rq.MaxVectorLen)
		}
	case keys.TSS:
		if s.M+1 > rq.MaxVectorLen {
			return fmt.Errorf("%w: signature of m+1 = %d elements exceeds %d", rq.ErrInvalidParameter, s.M+1, rq.MaxVectorLen)
		}
	}
	b, err := computeBounds(s.Scheme, s.Ring, s.M, s.Phi)
	if err != nil {
		return err
	}
	if b.RootP < 2 {
		return fmt.Errorf("%w: p^(1/m) = %.3f < 2", rq.ErrInvalidParameter, b.RootP)
	}
	return nil
}

func (s *Setup) attempts() int {
	if s.MaxAttempts == 0 {
		return DefaultMaxAttempts
	}
	return s.MaxAttempts
}
