// Package signverify generates one-time key pairs and signs and verifies
// messages under the LMOTS and TSS schemes.
//
// A key pair must sign at most one message: two signatures under the same
// LMOTS key reveal K and L, and two TSS responses reveal S. The engine does
// not track usage; see package keystore.
package signverify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ringOTS-Signature/keys"
	"ringOTS-Signature/metrics"
	"ringOTS-Signature/oracle"
	"ringOTS-Signature/random"
	"ringOTS-Signature/rq"
)

// Engine binds a Setup to its randomness, logging and metrics. It is
// immutable after New and safe for concurrent use when its Source is.
type Engine struct {
	setup       *Setup
	bounds      Bounds
	oracle      *oracle.Oracle
	rng         random.Source
	log         *zap.Logger
	metrics     *metrics.Metrics
	maxAttempts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine events to l.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records sign and verify outcomes into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRandom replaces the system CSPRNG, e.g. with random.NewSeeded.
func WithRandom(r random.Source) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithMaxAttempts overrides Setup.MaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// New validates setup and builds an engine.
func New(setup *Setup, opts ...Option) (*Engine, error) {
	if setup == nil {
		return nil, fmt.Errorf("%w: nil setup", rq.ErrInvalidParameter)
	}
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	bounds, err := computeBounds(setup.Scheme, setup.Ring, setup.M, setup.Phi)
	if err != nil {
		return nil, err
	}
	digest, err := oracle.Lookup(setup.DigestName)
	if err != nil {
		return nil, err
	}
	o, err := oracle.New(setup.Ring, digest)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		setup:       setup,
		bounds:      bounds,
		oracle:      o,
		rng:         random.System(),
		log:         zap.NewNop(),
		maxAttempts: setup.attempts(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(zap.Stringer("scheme", setup.Scheme))
	return e, nil
}

// Setup returns the public parameters.
func (e *Engine) Setup() *Setup { return e.setup }

// Bounds returns the derived thresholds.
func (e *Engine) Bounds() Bounds { return e.bounds }

// GenerateKey samples a fresh one-time key pair.
func (e *Engine) GenerateKey() (keys.KeyPair, error) {
	var (
		kp  keys.KeyPair
		err error
	)
	switch e.setup.Scheme {
	case keys.LMOTS:
		kp, err = e.generateLMOTS()
	case keys.TSS:
		kp, err = e.generateTSS()
	default:
		err = fmt.Errorf("%w: %s", keys.ErrUnknownScheme, e.setup.Scheme)
	}
	if err != nil {
		return keys.KeyPair{}, fmt.Errorf("signverify: keygen: %w", err)
	}
	e.log.Info("key pair generated", zap.Int("n", e.setup.Ring.N()), zap.Int("m", e.setup.M))
	return kp, nil
}

// SignResult carries a signature and the number of loop iterations used.
type SignResult struct {
	Signature []byte
	Attempts  int
}

// Sign signs msg with sk. The private key must not be used again.
func (e *Engine) Sign(ctx context.Context, sk keys.PrivateKey, msg []byte) ([]byte, error) {
	res, err := e.SignDetailed(ctx, sk, msg)
	if err != nil {
		return nil, err
	}
	return res.Signature, nil
}

// SignDetailed is Sign that also reports the attempt count.
func (e *Engine) SignDetailed(ctx context.Context, sk keys.PrivateKey, msg []byte) (SignResult, error) {
	start := time.Now()
	var (
		res SignResult
		err error
	)
	switch k := sk.(type) {
	case keys.LMOTSPrivateKey:
		if e.setup.Scheme != keys.LMOTS {
			err = fmt.Errorf("%w: lmots key for %s setup", ErrInvalidKeyType, e.setup.Scheme)
			break
		}
		res, err = e.signLMOTS(k, msg)
	case keys.TSSPrivateKey:
		if e.setup.Scheme != keys.TSS {
			err = fmt.Errorf("%w: tss key for %s setup", ErrInvalidKeyType, e.setup.Scheme)
			break
		}
		res, err = e.signTSS(ctx, k, msg)
	default:
		err = fmt.Errorf("%w: %T", ErrInvalidKeyType, sk)
	}
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	e.metrics.ObserveSign(e.setup.Scheme.String(), result, res.Attempts, time.Since(start))
	return res, err
}

// Verify returns nil when sig is a valid signature of msg under pk. Every
// rejection wraps ErrInvalidSignature; wrong key variants give
// ErrInvalidKeyType.
func (e *Engine) Verify(pk keys.PublicKey, msg, sig []byte) error {
	var err error
	switch k := pk.(type) {
	case keys.LMOTSPublicKey:
		if e.setup.Scheme != keys.LMOTS {
			err = fmt.Errorf("%w: lmots key for %s setup", ErrInvalidKeyType, e.setup.Scheme)
			break
		}
		err = e.verifyLMOTS(k, msg, sig)
	case keys.TSSPublicKey:
		if e.setup.Scheme != keys.TSS {
			err = fmt.Errorf("%w: tss key for %s setup", ErrInvalidKeyType, e.setup.Scheme)
			break
		}
		err = e.verifyTSS(k, msg, sig)
	default:
		err = fmt.Errorf("%w: %T", ErrInvalidKeyType, pk)
	}
	switch {
	case err == nil:
		e.metrics.ObserveVerify(e.setup.Scheme.String(), metrics.ResultOK)
	case isRejection(err):
		e.metrics.ObserveVerify(e.setup.Scheme.String(), metrics.ResultRejected)
	default:
		e.metrics.ObserveVerify(e.setup.Scheme.String(), metrics.ResultError)
	}
	return err
}

// decodeSignature parses sig into exactly want elements of the setup ring.
func (e *Engine) decodeSignature(sig []byte, want int) (rq.Vector, error) {
	v, err := rq.DecodeVector(e.setup.Ring.Profile, sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if len(v) != want {
		return nil, fmt.Errorf("%w: %d elements, want %d", ErrInvalidSignature, len(v), want)
	}
	if !v.InRing(e.setup.Ring) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, rq.ErrParamMismatch)
	}
	return v, nil
}

func (e *Engine) checkPublic(elems ...rq.Element) error {
	for _, el := range elems {
		if !el.Params().Equal(e.setup.Ring) {
			return fmt.Errorf("%w: public key outside %s", rq.ErrParamMismatch, e.setup.Ring)
		}
	}
	return nil
}

func (e *Engine) checkPrivate(name string, v rq.Vector) error {
	if len(v) != e.setup.M {
		return fmt.Errorf("%w: %s has %d elements, want %d", rq.ErrInvalidParameter, name, len(v), e.setup.M)
	}
	if !v.InRing(e.setup.Ring) {
		return fmt.Errorf("%w: %s outside %s", rq.ErrParamMismatch, name, e.setup.Ring)
	}
	return nil
}
