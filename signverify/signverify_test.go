package signverify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ringOTS-Signature/keys"
	"ringOTS-Signature/metrics"
	"ringOTS-Signature/random"
	"ringOTS-Signature/rq"
)

func newSetup(t *testing.T, scheme keys.Scheme, profile rq.Profile, n int, p uint64, m int, seed string) *Setup {
	t.Helper()
	par, err := rq.Negacyclic(profile, n, p)
	require.NoError(t, err)
	s, err := NewSetup(scheme, par, m, 1, "sha256", random.MustSeeded([]byte(seed)))
	require.NoError(t, err)
	return s
}

func newEngine(t *testing.T, s *Setup, seed string, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithRandom(random.MustSeeded([]byte(seed)))}, opts...)
	e, err := New(s, opts...)
	require.NoError(t, err)
	return e
}

// constSource returns the top of every range and all-ones bytes.
type constSource struct{}

func (constSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0xff
	}
	return len(p), nil
}

func (constSource) Uint64n(bound uint64) (uint64, error) { return bound - 1, nil }

func TestToyBounds(t *testing.T) {
	lm := newSetup(t, keys.LMOTS, rq.Profile32, 8, 97, 3, "bounds")
	b, err := computeBounds(lm.Scheme, lm.Ring, lm.M, lm.Phi)
	require.NoError(t, err)
	require.Equal(t, 9, b.PosBits)
	require.Equal(t, uint64(3308), b.SigNorm)

	ts := newSetup(t, keys.TSS, rq.Profile64, 8, 97, 3, "bounds")
	b, err = computeBounds(ts.Scheme, ts.Ring, ts.M, ts.Phi)
	require.NoError(t, err)
	require.Equal(t, uint64(201), b.YBound)
	require.Equal(t, uint64(193), b.GBound)
}

func TestFirstSetBit(t *testing.T) {
	require.Equal(t, 1, firstSetBit([]byte{0x80, 0}, 9))
	require.Equal(t, 8, firstSetBit([]byte{0x01, 0}, 9))
	require.Equal(t, 9, firstSetBit([]byte{0x00, 0x80}, 9))
	require.Equal(t, 9, firstSetBit([]byte{0x00, 0x7f}, 9), "bits past PosBits are ignored")
}

func TestToyScenarioLMOTS(t *testing.T) {
	setup := newSetup(t, keys.LMOTS, rq.Profile32, 8, 97, 3, "S0")

	kp1, err := newEngine(t, setup, "S0").GenerateKey()
	require.NoError(t, err)
	kp2, err := newEngine(t, setup, "S0").GenerateKey()
	require.NoError(t, err)

	der1, err := keys.MarshalPublicKeyDER(kp1.Public)
	require.NoError(t, err)
	der2, err := keys.MarshalPublicKeyDER(kp2.Public)
	require.NoError(t, err)
	require.Equal(t, der1, der2, "keygen from a fixed seed must be reproducible")
	sk1, err := keys.MarshalPrivateKeyDER(kp1.Private)
	require.NoError(t, err)
	sk2, err := keys.MarshalPrivateKeyDER(kp2.Private)
	require.NoError(t, err)
	require.Equal(t, sk1, sk2)

	e := newEngine(t, setup, "S0-sign")
	sig, err := e.Sign(context.Background(), kp1.Private, []byte("test"))
	require.NoError(t, err)
	require.NoError(t, e.Verify(kp1.Public, []byte("test"), sig))

	err = e.Verify(kp1.Public, []byte("TEST"), sig)
	require.ErrorIs(t, err, ErrInvalidSignature)
	require.ErrorIs(t, err, ErrHashMismatch)

	again, err := e.Sign(context.Background(), kp1.Private, []byte("test"))
	require.NoError(t, err)
	require.Equal(t, sig, again, "lmots signing is deterministic")
}

func TestCompleteness(t *testing.T) {
	cases := []struct {
		name    string
		scheme  keys.Scheme
		profile rq.Profile
		n       int
		p       uint64
		m       int
	}{
		{"lmots toy", keys.LMOTS, rq.Profile32, 8, 97, 3},
		{"lmots ntt", keys.LMOTS, rq.Profile32, 64, 7681, 3},
		{"lmots wide", keys.LMOTS, rq.Profile64, 16, 1<<40 + 15, 4},
		{"tss toy", keys.TSS, rq.Profile64, 8, 97, 3},
		{"tss bounded", keys.TSS, rq.Profile64, 16, 12289, 2},
		{"tss ntt", keys.TSS, rq.Profile64, 64, 7681, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setup := newSetup(t, tc.scheme, tc.profile, tc.n, tc.p, tc.m, tc.name)
			e := newEngine(t, setup, tc.name+"-rng")
			for i := 0; i < 4; i++ {
				kp, err := e.GenerateKey()
				require.NoError(t, err)
				msg := []byte{byte(i), 'm', 's', 'g'}
				sig, err := e.Sign(context.Background(), kp.Private, msg)
				require.NoError(t, err)
				require.NoError(t, e.Verify(kp.Public, msg, sig))
			}
		})
	}
}

func TestTSSResponseIsBounded(t *testing.T) {
	setup := newSetup(t, keys.TSS, rq.Profile64, 16, 12289, 2, "tss-bound")
	e := newEngine(t, setup, "tss-bound-rng")
	kp, err := e.GenerateKey()
	require.NoError(t, err)
	res, err := e.SignDetailed(context.Background(), kp.Private, []byte("bounded"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.Attempts, 1)

	v, err := rq.DecodeVector(rq.Profile64, res.Signature)
	require.NoError(t, err)
	require.Len(t, v, 3)
	require.LessOrEqual(t, v[:2].InfNorm(), e.Bounds().GBound)
	require.LessOrEqual(t, v[2].InfNorm(), uint64(1))
}

func TestTamperedSignaturesFail(t *testing.T) {
	cases := []struct {
		name    string
		scheme  keys.Scheme
		profile rq.Profile
		n       int
		p       uint64
		m       int
	}{
		{"lmots", keys.LMOTS, rq.Profile32, 8, 97, 3},
		{"tss", keys.TSS, rq.Profile64, 64, 7681, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setup := newSetup(t, tc.scheme, tc.profile, tc.n, tc.p, tc.m, "tamper-"+tc.name)
			e := newEngine(t, setup, "tamper-rng-"+tc.name)
			kp, err := e.GenerateKey()
			require.NoError(t, err)
			msg := []byte("tamper")
			sig, err := e.Sign(context.Background(), kp.Private, msg)
			require.NoError(t, err)
			require.NoError(t, e.Verify(kp.Public, msg, sig))

			masks := []byte{0x01, 0x80, 0xff}
			if !testing.Short() {
				masks = masks[:0]
				for x := 1; x <= 0xff; x++ {
					masks = append(masks, byte(x))
				}
			}
			for i := range sig {
				for _, mask := range masks {
					bad := bytes.Clone(sig)
					bad[i] ^= mask
					err := e.Verify(kp.Public, msg, bad)
					if !errors.Is(err, ErrInvalidSignature) {
						t.Fatalf("byte %d ^ %#02x: got %v", i, mask, err)
					}
				}
			}
			require.ErrorIs(t, e.Verify(kp.Public, msg, sig[:len(sig)-1]), rq.ErrDecoding)
			require.ErrorIs(t, e.Verify(kp.Public, msg, nil), ErrInvalidSignature)
		})
	}
}

func TestVerifyRejectsLongSignature(t *testing.T) {
	setup := newSetup(t, keys.LMOTS, rq.Profile32, 16, 1<<30+3, 2, "norm")
	e := newEngine(t, setup, "norm-rng")
	kp, err := e.GenerateKey()
	require.NoError(t, err)
	sk := kp.Private.(keys.LMOTSPrivateKey)

	// Scaling K and L keeps H_a(σ) consistent with a scaled public key but
	// pushes σ past the norm bound.
	factor := int64(e.Bounds().SigNorm)
	k, l := scale(sk.K, factor), scale(sk.L, factor)
	pk := kp.Public.(keys.LMOTSPublicKey)
	scaled := keys.LMOTSPublicKey{HashedK: pk.HashedK.ScalarMul(factor), HashedL: pk.HashedL.ScalarMul(factor)}

	sig, err := e.Sign(context.Background(), keys.LMOTSPrivateKey{K: k, L: l}, []byte("m"))
	require.NoError(t, err)
	err = e.Verify(scaled, []byte("m"), sig)
	require.ErrorIs(t, err, ErrInvalidSignature)
	require.ErrorIs(t, err, ErrNormBound)
}

func scale(v rq.Vector, k int64) rq.Vector {
	out := make(rq.Vector, len(v))
	for i := range v {
		out[i] = v[i].ScalarMul(k)
	}
	return out
}

func TestRetryExhausted(t *testing.T) {
	setup := newSetup(t, keys.TSS, rq.Profile64, 16, 12289, 2, "exhaust")
	core, logs := observer.New(zap.DebugLevel)
	e, err := New(setup, WithRandom(constSource{}), WithMaxAttempts(4), WithLogger(zap.New(core)))
	require.NoError(t, err)

	// With S = 0 and y pinned at YBound, z = y always exceeds GBound.
	zero := rq.Vector{rq.Zero(setup.Ring), rq.Zero(setup.Ring)}
	res, err := e.SignDetailed(context.Background(), keys.TSSPrivateKey{S: zero}, []byte("m"))
	require.ErrorIs(t, err, ErrRetryExhausted)
	require.Equal(t, 4, res.Attempts)
	require.Equal(t, 4, logs.FilterMessage("tss transition").FilterField(zap.Stringer("to", Retry)).Len())
	require.Equal(t, 1, logs.FilterMessage("tss rejection sampling exhausted").Len())
}

func TestSignHonoursCancellation(t *testing.T) {
	setup := newSetup(t, keys.TSS, rq.Profile64, 16, 12289, 2, "cancel")
	e := newEngine(t, setup, "cancel-rng")
	kp, err := e.GenerateKey()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Sign(ctx, kp.Private, []byte("m"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestInvalidKeyType(t *testing.T) {
	lmSetup := newSetup(t, keys.LMOTS, rq.Profile64, 8, 97, 3, "type-lm")
	tssSetup := newSetup(t, keys.TSS, rq.Profile64, 8, 97, 3, "type-tss")
	lm := newEngine(t, lmSetup, "type-lm-rng")
	ts := newEngine(t, tssSetup, "type-tss-rng")

	lmKP, err := lm.GenerateKey()
	require.NoError(t, err)
	tsKP, err := ts.GenerateKey()
	require.NoError(t, err)

	_, err = lm.Sign(context.Background(), tsKP.Private, []byte("m"))
	require.ErrorIs(t, err, ErrInvalidKeyType)
	_, err = ts.Sign(context.Background(), lmKP.Private, []byte("m"))
	require.ErrorIs(t, err, ErrInvalidKeyType)
	_, err = ts.Sign(context.Background(), nil, []byte("m"))
	require.ErrorIs(t, err, ErrInvalidKeyType)

	sig, err := lm.Sign(context.Background(), lmKP.Private, []byte("m"))
	require.NoError(t, err)
	require.ErrorIs(t, ts.Verify(lmKP.Public, []byte("m"), sig), ErrInvalidKeyType)
	require.ErrorIs(t, lm.Verify(tsKP.Public, []byte("m"), sig), ErrInvalidKeyType)
}

func TestSignatureFromOtherRingRejected(t *testing.T) {
	a := newSetup(t, keys.TSS, rq.Profile64, 8, 97, 3, "ring-a")
	b := newSetup(t, keys.TSS, rq.Profile64, 8, 101, 3, "ring-b")
	ea, eb := newEngine(t, a, "ring-a-rng"), newEngine(t, b, "ring-b-rng")
	kpa, err := ea.GenerateKey()
	require.NoError(t, err)
	kpb, err := eb.GenerateKey()
	require.NoError(t, err)
	sig, err := eb.Sign(context.Background(), kpb.Private, []byte("m"))
	require.NoError(t, err)

	err = ea.Verify(kpa.Public, []byte("m"), sig)
	require.ErrorIs(t, err, ErrInvalidSignature)
	require.ErrorIs(t, err, rq.ErrParamMismatch)
}

func TestSetupValidation(t *testing.T) {
	par, err := rq.Negacyclic(rq.Profile32, 8, 97)
	require.NoError(t, err)
	rng := random.MustSeeded([]byte("validate"))

	_, err = NewSetup(keys.LMOTS, par, 7, 1, "sha256", rng)
	require.ErrorIs(t, err, rq.ErrInvalidParameter, "97^(1/7) < 2")
	_, err = NewSetup(keys.LMOTS, par, 3, 0.5, "sha256", rng)
	require.ErrorIs(t, err, rq.ErrInvalidParameter, "phi < 1")
	_, err = NewSetup(keys.LMOTS, par, 3, 1, "md4", rng)
	require.Error(t, err)
	_, err = NewSetup(keys.Scheme(7), par, 3, 1, "sha256", rng)
	require.ErrorIs(t, err, keys.ErrUnknownScheme)

	s, err := NewSetup(keys.TSS, par, 3, 1, "sha256", rng)
	require.NoError(t, err)
	s.M = 2
	require.ErrorIs(t, s.Validate(), rq.ErrInvalidParameter, "m differs from family dimension")

	wide, err := rq.Negacyclic(rq.Profile64, 8, 1<<62+135)
	require.NoError(t, err)
	_, err = NewSetup(keys.LMOTS, wide, 128, 1, "sha256", rng)
	require.ErrorIs(t, err, rq.ErrInvalidParameter, "2m > 255")
	_, err = NewSetup(keys.TSS, wide, 255, 1, "sha256", rng)
	require.ErrorIs(t, err, rq.ErrInvalidParameter, "m+1 > 255")

	_, err = New(nil)
	require.ErrorIs(t, err, rq.ErrInvalidParameter)
}

func TestMetricsRecorded(t *testing.T) {
	setup := newSetup(t, keys.TSS, rq.Profile64, 16, 12289, 2, "metrics")
	m := metrics.New()
	e := newEngine(t, setup, "metrics-rng", WithMetrics(m))
	kp, err := e.GenerateKey()
	require.NoError(t, err)
	sig, err := e.Sign(context.Background(), kp.Private, []byte("m"))
	require.NoError(t, err)
	require.NoError(t, e.Verify(kp.Public, []byte("m"), sig))
	require.Error(t, e.Verify(kp.Public, []byte("x"), sig))

	require.Equal(t, 1.0, testutil.ToFloat64(m.SignTotal.WithLabelValues("tss", metrics.ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.VerifyTotal.WithLabelValues("tss", metrics.ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.VerifyTotal.WithLabelValues("tss", metrics.ResultRejected)))
}

func TestStateNames(t *testing.T) {
	require.Equal(t, "bound-check", BoundCheck.String())
	require.Equal(t, "failed", Failed.String())
	require.Equal(t, "State(42)", State(42).String())
}
