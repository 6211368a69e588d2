// Package config loads parameter sets from presets, JSON or YAML files and
// persists the public setup (parameters plus hash family key).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ringOTS-Signature/keys"
	"ringOTS-Signature/random"
	"ringOTS-Signature/rq"
	"ringOTS-Signature/signverify"
)

// ParameterSet is the on-disk description of a setup.
type ParameterSet struct {
	Name   string `json:"name" yaml:"name"`
	Scheme string `json:"scheme" yaml:"scheme"`
	// ProfileBits is 32 or 64; zero picks 32 for LMOTS and 64 for TSS.
	ProfileBits int    `json:"profile_bits,omitempty" yaml:"profile_bits,omitempty"`
	Degree      int    `json:"N" yaml:"n"`
	Modulus     uint64 `json:"P" yaml:"p"`
	// ReductionPoly lists f in ascending order; empty means x^N + 1.
	ReductionPoly []uint64 `json:"f,omitempty" yaml:"f,omitempty"`
	M             int      `json:"m" yaml:"m"`
	Phi           float64  `json:"phi,omitempty" yaml:"phi,omitempty"`
	Digest        string   `json:"digest,omitempty" yaml:"digest,omitempty"`
	MaxAttempts   int      `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
}

const defaultDigest = "sha3-256"

// withDefaults fills the optional fields.
func (ps ParameterSet) withDefaults() ParameterSet {
	if ps.Phi == 0 {
		ps.Phi = 1
	}
	if ps.Digest == "" {
		ps.Digest = defaultDigest
	}
	return ps
}

// SchemeValue parses Scheme.
func (ps ParameterSet) SchemeValue() (keys.Scheme, error) {
	return keys.ParseScheme(ps.Scheme)
}

// Profile resolves ProfileBits.
func (ps ParameterSet) Profile() (rq.Profile, error) {
	switch ps.ProfileBits {
	case 32:
		return rq.Profile32, nil
	case 64:
		return rq.Profile64, nil
	case 0:
		scheme, err := ps.SchemeValue()
		if err != nil {
			return 0, err
		}
		if scheme == keys.LMOTS {
			return rq.Profile32, nil
		}
		return rq.Profile64, nil
	}
	return 0, fmt.Errorf("%w: profile_bits %d (want 32 or 64)", rq.ErrInvalidParameter, ps.ProfileBits)
}

// RingParams builds the ring description.
func (ps ParameterSet) RingParams() (rq.Params, error) {
	profile, err := ps.Profile()
	if err != nil {
		return rq.Params{}, err
	}
	if len(ps.ReductionPoly) == 0 {
		return rq.Negacyclic(profile, ps.Degree, ps.Modulus)
	}
	if len(ps.ReductionPoly) != ps.Degree+1 {
		return rq.Params{}, fmt.Errorf("%w: f has %d coefficients, N = %d", rq.ErrInvalidParameter, len(ps.ReductionPoly), ps.Degree)
	}
	return rq.NewParams(profile, ps.Modulus, ps.ReductionPoly)
}

// Validate checks the set by building a throwaway setup.
func (ps ParameterSet) Validate() error {
	_, err := ps.NewSetup(random.System())
	return err
}

// NewSetup samples a hash family and returns the complete public setup.
func (ps ParameterSet) NewSetup(rng random.Source) (*signverify.Setup, error) {
	ps = ps.withDefaults()
	scheme, err := ps.SchemeValue()
	if err != nil {
		return nil, err
	}
	ring, err := ps.RingParams()
	if err != nil {
		return nil, err
	}
	s, err := signverify.NewSetup(scheme, ring, ps.M, ps.Phi, ps.Digest, rng)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", ps.Name, err)
	}
	s.MaxAttempts = ps.MaxAttempts
	return s, s.Validate()
}

// LoadParams reads a parameter set from path. Files ending in .yaml or .yml
// are parsed as YAML, anything else as JSON.
func LoadParams(path string) (ParameterSet, error) {
	var ps ParameterSet
	data, err := os.ReadFile(path)
	if err != nil {
		return ps, err
	}
	if err := unmarshal(path, data, &ps); err != nil {
		return ps, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if ps.Degree == 0 || ps.Modulus == 0 {
		return ps, fmt.Errorf("config: invalid or missing N/P in %s", path)
	}
	return ps.withDefaults(), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func unmarshal(path string, data []byte, v any) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func marshal(path string, v any) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
