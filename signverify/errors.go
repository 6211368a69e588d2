package signverify

import "errors"

var (
	// ErrInvalidKeyType reports a key of the other scheme or a nil key.
	ErrInvalidKeyType = errors.New("signverify: invalid key type")
	// ErrRetryExhausted reports that TSS signing hit MaxAttempts without an
	// acceptable response. The caller may retry.
	ErrRetryExhausted = errors.New("signverify: rejection sampling exhausted")
	// ErrInvalidSignature is the single verification failure callers check for.
	ErrInvalidSignature = errors.New("signverify: invalid signature")

	// ErrHashMismatch and ErrNormBound are wrapped alongside ErrInvalidSignature
	// to tell which check failed.
	ErrHashMismatch = errors.New("signverify: hash mismatch")
	ErrNormBound    = errors.New("signverify: norm bound exceeded")
)

func isRejection(err error) bool { return errors.Is(err, ErrInvalidSignature) }
