package config

import (
	"fmt"
	"sort"
)

// Toy is the n=8, p=97, m=3 LMOTS set used in examples and tests. It offers
// no security.
func Toy() ParameterSet {
	return ParameterSet{Name: "toy", Scheme: "lmots", Degree: 8, Modulus: 97, M: 3, Digest: "sha256"}
}

// ToyTSS is Toy for the rejection-sampled scheme. With only 3^8 challenges
// a tampered signature is occasionally accepted; use n >= 64 where forgery
// resistance matters.
func ToyTSS() ParameterSet {
	return ParameterSet{Name: "toy-tss", Scheme: "tss", Degree: 8, Modulus: 97, M: 3, Digest: "sha256"}
}

// LMOTS256 uses x^256+1 over an NTT-friendly 30-bit prime (p ≡ 1 mod 512).
func LMOTS256() ParameterSet {
	return ParameterSet{Name: "lmots-256", Scheme: "lmots", Degree: 256, Modulus: 1073738753, M: 8, Digest: "sha3-256"}
}

// TSS256 uses x^256+1 over an NTT-friendly 40-bit prime (p ≡ 1 mod 512).
func TSS256() ParameterSet {
	return ParameterSet{Name: "tss-256", Scheme: "tss", Degree: 256, Modulus: 1099511603713, M: 4, Digest: "sha3-256", MaxAttempts: 1000}
}

var presets = map[string]func() ParameterSet{
	"toy":       Toy,
	"toy-tss":   ToyTSS,
	"lmots-256": LMOTS256,
	"tss-256":   TSS256,
}

// Lookup returns the preset registered under name.
func Lookup(name string) (ParameterSet, error) {
	fn, ok := presets[name]
	if !ok {
		return ParameterSet{}, fmt.Errorf("config: unknown preset %q (have %v)", name, PresetNames())
	}
	return fn().withDefaults(), nil
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
