package oracle

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/sha3"
)

// ErrUnknownDigest is returned by Lookup for an unregistered digest name.
var ErrUnknownDigest = errors.New("oracle: unknown digest")

// Digest constructs a fresh hash state. Write feeds data, Sum finishes and
// Size is the digest length in bytes.
type Digest func() hash.Hash

var digests = map[string]Digest{
	"sha256":   sha256.New,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
	"sha3-512": sha3.New512,
}

// Lookup returns the digest registered under name.
func Lookup(name string) (Digest, error) {
	d, ok := digests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
	return d, nil
}

// Names lists the registered digest names in sorted order.
func Names() []string {
	out := make([]string, 0, len(digests))
	for name := range digests {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (d Digest) sum(parts ...[]byte) []byte {
	h := d()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
