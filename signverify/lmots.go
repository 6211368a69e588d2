package signverify

import (
	"fmt"

	"ringOTS-Signature/keys"
	"ringOTS-Signature/rq"
)

// signLMOTS computes σ = s·K + L with s the binary message scalar.
func (e *Engine) signLMOTS(sk keys.LMOTSPrivateKey, msg []byte) (SignResult, error) {
	if err := e.checkPrivate("K", sk.K); err != nil {
		return SignResult{}, err
	}
	if err := e.checkPrivate("L", sk.L); err != nil {
		return SignResult{}, err
	}
	s, err := e.oracle.MessageScalar(msg)
	if err != nil {
		return SignResult{}, err
	}
	sigma, err := sk.K.ScalarMulAdd(s, sk.L)
	if err != nil {
		return SignResult{}, err
	}
	enc, err := rq.EncodeVector(sigma)
	if err != nil {
		return SignResult{}, err
	}
	return SignResult{Signature: enc, Attempts: 1}, nil
}

// verifyLMOTS accepts iff H_a(σ) = hashedK·s + hashedL and σ is short.
func (e *Engine) verifyLMOTS(pk keys.LMOTSPublicKey, msg, sig []byte) error {
	if err := e.checkPublic(pk.HashedK, pk.HashedL); err != nil {
		return err
	}
	sigma, err := e.decodeSignature(sig, e.setup.M)
	if err != nil {
		return err
	}
	s, err := e.oracle.MessageScalar(msg)
	if err != nil {
		return err
	}
	hashSig, err := e.setup.Family.Commit(sigma)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	expected, err := pk.HashedK.Mul(s)
	if err != nil {
		return err
	}
	if expected, err = expected.Add(pk.HashedL); err != nil {
		return err
	}
	if !hashSig.Equal(expected) {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, ErrHashMismatch)
	}
	if !sigma.CheckBound(e.bounds.SigNorm) {
		return fmt.Errorf("%w: %w: ‖σ‖∞ = %d > %d", ErrInvalidSignature, ErrNormBound, sigma.InfNorm(), e.bounds.SigNorm)
	}
	return nil
}
