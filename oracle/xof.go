package oracle

import "golang.org/x/crypto/sha3"

const (
	challengeLabel = "ringots/oracle/v1"
	messageLabel   = "ringots/message/v1"
)

// stream is a SHAKE-256 output stream keyed by a domain label.
type stream struct {
	h   sha3.ShakeHash
	buf [64]byte
	off int
}

func newStream(label string, parts ...[]byte) *stream {
	h := sha3.NewShake256()
	h.Write([]byte(label))
	for _, p := range parts {
		h.Write(p)
	}
	return &stream{h: h, off: 64}
}

func (s *stream) next() byte {
	if s.off == len(s.buf) {
		// ShakeHash.Read never fails.
		s.h.Read(s.buf[:])
		s.off = 0
	}
	b := s.buf[s.off]
	s.off++
	return b
}
