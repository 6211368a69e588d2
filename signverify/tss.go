package signverify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ringOTS-Signature/keys"
	"ringOTS-Signature/rq"
)

// signTSS runs the rejection loop: y uniform in [0, YBound], e = O(H_a(y), msg),
// z = e·S + y, accepted once ‖z‖∞ ≤ GBound.
func (e *Engine) signTSS(ctx context.Context, sk keys.TSSPrivateKey, msg []byte) (SignResult, error) {
	if err := e.checkPrivate("S", sk.S); err != nil {
		return SignResult{}, err
	}
	par, m := e.setup.Ring, e.setup.M
	state := Ready
	step := func(next State, attempt int) {
		e.log.Debug("tss transition", zap.Stringer("from", state), zap.Stringer("to", next), zap.Int("attempt", attempt))
		state = next
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return SignResult{Attempts: attempt - 1}, err
		}
		step(Sampling, attempt)
		y, err := rq.GenerateVector(par, m, e.bounds.YBound+1, false, e.rng)
		if err != nil {
			return SignResult{Attempts: attempt}, fmt.Errorf("signverify: sample y: %w", err)
		}

		step(Committing, attempt)
		hy, err := e.setup.Family.Commit(y)
		if err != nil {
			return SignResult{Attempts: attempt}, err
		}
		c, err := e.oracle.Challenge(hy, msg)
		if err != nil {
			return SignResult{Attempts: attempt}, err
		}
		z, err := sk.S.ScalarMulAdd(c, y)
		if err != nil {
			return SignResult{Attempts: attempt}, err
		}

		step(BoundCheck, attempt)
		if !z.CheckBound(e.bounds.GBound) {
			step(Retry, attempt)
			continue
		}
		step(Accepted, attempt)
		enc, err := rq.EncodeVector(append(z, c))
		if err != nil {
			return SignResult{Attempts: attempt}, err
		}
		return SignResult{Signature: enc, Attempts: attempt}, nil
	}
	step(Failed, e.maxAttempts)
	e.log.Warn("tss rejection sampling exhausted", zap.Int("attempts", e.maxAttempts))
	return SignResult{Attempts: e.maxAttempts}, fmt.Errorf("%w after %d attempts", ErrRetryExhausted, e.maxAttempts)
}

// verifyTSS accepts iff z is short and O(H_a(z) - SPub·e, msg) = e.
func (e *Engine) verifyTSS(pk keys.TSSPublicKey, msg, sig []byte) error {
	if err := e.checkPublic(pk.SPub); err != nil {
		return err
	}
	v, err := e.decodeSignature(sig, e.setup.M+1)
	if err != nil {
		return err
	}
	z, c := v[:e.setup.M], v[e.setup.M]
	if !z.CheckBound(e.bounds.GBound) {
		return fmt.Errorf("%w: %w: ‖z‖∞ = %d > %d", ErrInvalidSignature, ErrNormBound, z.InfNorm(), e.bounds.GBound)
	}
	hz, err := e.setup.Family.Commit(z)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	sc, err := pk.SPub.Mul(c)
	if err != nil {
		return err
	}
	w, err := hz.Sub(sc)
	if err != nil {
		return err
	}
	recomputed, err := e.oracle.Challenge(w, msg)
	if err != nil {
		return err
	}
	if !recomputed.Equal(c) {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, ErrHashMismatch)
	}
	return nil
}
