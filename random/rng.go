// Package random provides the randomness sources consumed by the ring
// sampler and the signature engine: the operating system CSPRNG and a
// seeded deterministic stream for reproducible key generation.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrZeroBound is returned by Uint64n when asked for a value in an empty range.
var ErrZeroBound = errors.New("random: bound must be > 0")

// Source is a pull-based randomness capability. Read fills p entirely;
// Uint64n returns a uniform integer in [0, bound).
type Source interface {
	io.Reader
	Uint64n(bound uint64) (uint64, error)
}

// reader adapts an io.Reader into a Source. Uniform integers use threshold
// rejection over 64-bit little-endian words.
type reader struct {
	mu  sync.Mutex
	r   io.Reader
	buf [8]byte
}

// FromReader wraps r into a Source. Calls are serialised so the result is
// safe for concurrent use even when r is not.
func FromReader(r io.Reader) Source {
	return &reader{r: r}
}

// System returns a Source backed by crypto/rand.
func System() Source {
	return FromReader(crand.Reader)
}

func (s *reader) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return io.ReadFull(s.r, p)
}

func (s *reader) Uint64n(bound uint64) (uint64, error) {
	if bound == 0 {
		return 0, ErrZeroBound
	}
	if bound == 1 {
		return 0, nil
	}
	threshold := (^uint64(0) / bound) * bound
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
			return 0, fmt.Errorf("random: read: %w", err)
		}
		word := binary.LittleEndian.Uint64(s.buf[:])
		if word < threshold {
			return word % bound, nil
		}
	}
}
