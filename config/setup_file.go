package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"ringOTS-Signature/commitment"
	"ringOTS-Signature/rq"
	"ringOTS-Signature/signverify"
)

// SetupFile is the persisted public setup. Family holds the base64 vector
// encoding of the hash family key.
type SetupFile struct {
	Params ParameterSet `json:"params" yaml:"params"`
	Family string       `json:"family" yaml:"family"`
}

// SaveSetup writes ps and the family key of s to path (JSON or YAML by extension).
func SaveSetup(path string, ps ParameterSet, s *signverify.Setup) error {
	enc, err := rq.EncodeVector(s.Family.Key())
	if err != nil {
		return fmt.Errorf("config: encode family: %w", err)
	}
	data, err := marshal(path, SetupFile{Params: ps.withDefaults(), Family: base64.StdEncoding.EncodeToString(enc)})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSetup reads a file written by SaveSetup and rebuilds the setup.
func LoadSetup(path string) (ParameterSet, *signverify.Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParameterSet{}, nil, err
	}
	var sf SetupFile
	if err := unmarshal(path, data, &sf); err != nil {
		return ParameterSet{}, nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	ps := sf.Params.withDefaults()
	scheme, err := ps.SchemeValue()
	if err != nil {
		return ps, nil, err
	}
	ring, err := ps.RingParams()
	if err != nil {
		return ps, nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(sf.Family)
	if err != nil {
		return ps, nil, fmt.Errorf("config: family base64: %w", err)
	}
	key, err := rq.DecodeVector(ring.Profile, raw)
	if err != nil {
		return ps, nil, fmt.Errorf("config: decode family: %w", err)
	}
	if !key.InRing(ring) {
		return ps, nil, fmt.Errorf("%w: family key outside %s", rq.ErrParamMismatch, ring)
	}
	fam, err := commitment.New(key)
	if err != nil {
		return ps, nil, err
	}
	s := &signverify.Setup{
		Scheme:      scheme,
		Ring:        ring,
		M:           ps.M,
		Phi:         ps.Phi,
		DigestName:  ps.Digest,
		MaxAttempts: ps.MaxAttempts,
		Family:      fam,
	}
	if err := s.Validate(); err != nil {
		return ps, nil, err
	}
	return ps, s, nil
}
