package keys

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ringOTS-Signature/rq"
)

const fileVersion = "ringots-key-v1"

// File is the JSON form of a single key.
type File struct {
	Version string `json:"version"`
	Kind    string `json:"kind"`
	Scheme  string `json:"scheme"`
	N       int    `json:"N"`
	P       string `json:"P"`
	Profile int    `json:"profile"`
	Vector  string `json:"vector"`
}

const (
	kindPrivate = "private"
	kindPublic  = "public"
)

func newFile(kind string, scheme Scheme, v rq.Vector) (*File, error) {
	if err := sameRing(v); err != nil {
		return nil, err
	}
	enc, err := rq.EncodeVector(v)
	if err != nil {
		return nil, fmt.Errorf("keys: encode vector: %w", err)
	}
	par := v[0].Params()
	return &File{
		Version: fileVersion,
		Kind:    kind,
		Scheme:  scheme.String(),
		N:       par.N(),
		P:       strconv.FormatUint(par.P, 10),
		Profile: par.Profile.Width(),
		Vector:  base64.StdEncoding.EncodeToString(enc),
	}, nil
}

func (f *File) decode(kind string) (Scheme, rq.Vector, error) {
	if f.Version != fileVersion {
		return 0, nil, fmt.Errorf("%w: unsupported key file version %q", ErrMalformedKey, f.Version)
	}
	if f.Kind != kind {
		return 0, nil, fmt.Errorf("%w: expected %s key, file holds %q", ErrMalformedKey, kind, f.Kind)
	}
	scheme, err := ParseScheme(f.Scheme)
	if err != nil {
		return 0, nil, err
	}
	profile := rq.Profile(f.Profile)
	if !profile.Valid() {
		return 0, nil, fmt.Errorf("%w: unsupported profile width %d", ErrMalformedKey, f.Profile)
	}
	raw, err := base64.StdEncoding.DecodeString(f.Vector)
	if err != nil {
		return 0, nil, fmt.Errorf("keys: vector base64: %w", err)
	}
	v, err := rq.DecodeVector(profile, raw)
	if err != nil {
		return 0, nil, fmt.Errorf("keys: decode vector: %w", err)
	}
	if len(v) > 0 {
		par := v[0].Params()
		if par.N() != f.N || strconv.FormatUint(par.P, 10) != f.P {
			return 0, nil, fmt.Errorf("%w: header says N=%d P=%s, vector holds %s", ErrMalformedKey, f.N, f.P, par)
		}
	}
	return scheme, v, nil
}

// PrivateFile converts sk into its JSON form.
func PrivateFile(sk PrivateKey) (*File, error) {
	if sk == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrMalformedKey)
	}
	return newFile(kindPrivate, sk.Scheme(), sk.Vector())
}

// PublicFile converts pk into its JSON form.
func PublicFile(pk PublicKey) (*File, error) {
	if pk == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrMalformedKey)
	}
	return newFile(kindPublic, pk.Scheme(), pk.Vector())
}

// PrivateKey rebuilds the private key held by f.
func (f *File) PrivateKey() (PrivateKey, error) {
	scheme, v, err := f.decode(kindPrivate)
	if err != nil {
		return nil, err
	}
	return PrivateFromVector(scheme, v)
}

// PublicKey rebuilds the public key held by f.
func (f *File) PublicKey() (PublicKey, error) {
	scheme, v, err := f.decode(kindPublic)
	if err != nil {
		return nil, err
	}
	return PublicFromVector(scheme, v)
}

// SavePrivate writes sk to dir/private.json.
func SavePrivate(dir string, sk PrivateKey) error {
	f, err := PrivateFile(sk)
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "private.json"), f)
}

// LoadPrivate reads dir/private.json.
func LoadPrivate(dir string) (PrivateKey, error) {
	var f File
	if err := readJSON(filepath.Join(dir, "private.json"), &f); err != nil {
		return nil, err
	}
	return f.PrivateKey()
}

// SavePublic writes pk to dir/public.json.
func SavePublic(dir string, pk PublicKey) error {
	f, err := PublicFile(pk)
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "public.json"), f)
}

// LoadPublic reads dir/public.json.
func LoadPublic(dir string) (PublicKey, error) {
	var f File
	if err := readJSON(filepath.Join(dir, "public.json"), &f); err != nil {
		return nil, err
	}
	return f.PublicKey()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
