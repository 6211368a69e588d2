package signverify

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"ringOTS-Signature/keys"
	"ringOTS-Signature/rq"
)

// tssSecretLimit samples S with coefficients in [-1, 1].
const tssSecretLimit = 2

// drawPosition reads PosBits bits, most significant first, and returns the
// 1-based index of the first set bit, or PosBits if none is set.
func (e *Engine) drawPosition() (int, error) {
	bits := e.bounds.PosBits
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(e.rng, buf); err != nil {
		return 0, fmt.Errorf("draw position bits: %w", err)
	}
	return firstSetBit(buf, bits), nil
}

func firstSetBit(buf []byte, bits int) int {
	for i := 0; i < bits; i++ {
		if buf[i/8]>>(7-i%8)&1 == 1 {
			return i + 1
		}
	}
	return bits
}

func (e *Engine) generateLMOTS() (keys.KeyPair, error) {
	pos, err := e.drawPosition()
	if err != nil {
		return keys.KeyPair{}, err
	}
	par, m := e.setup.Ring, e.setup.M
	limitK, limitL := e.bounds.lmotsLimits(pos, par.N(), e.setup.Phi)
	e.log.Debug("lmots limits", zap.Int("pos", pos), zap.Uint64("limitK", limitK), zap.Uint64("limitL", limitL))

	k, err := rq.GenerateVector(par, m, limitK, true, e.rng)
	if err != nil {
		return keys.KeyPair{}, fmt.Errorf("sample K: %w", err)
	}
	l, err := rq.GenerateVector(par, m, limitL, true, e.rng)
	if err != nil {
		return keys.KeyPair{}, fmt.Errorf("sample L: %w", err)
	}
	hk, err := e.setup.Family.Commit(k)
	if err != nil {
		return keys.KeyPair{}, err
	}
	hl, err := e.setup.Family.Commit(l)
	if err != nil {
		return keys.KeyPair{}, err
	}
	return keys.NewKeyPair(keys.LMOTSPrivateKey{K: k, L: l}, keys.LMOTSPublicKey{HashedK: hk, HashedL: hl})
}

func (e *Engine) generateTSS() (keys.KeyPair, error) {
	s, err := rq.GenerateVector(e.setup.Ring, e.setup.M, tssSecretLimit, true, e.rng)
	if err != nil {
		return keys.KeyPair{}, fmt.Errorf("sample S: %w", err)
	}
	spub, err := e.setup.Family.Commit(s)
	if err != nil {
		return keys.KeyPair{}, err
	}
	return keys.NewKeyPair(keys.TSSPrivateKey{S: s}, keys.TSSPublicKey{SPub: spub})
}
