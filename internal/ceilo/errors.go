package ceilo

import "errors"

// Fatal decode errors. Callers can match these with errors.Is; the wrapped
// forms carry file-specific context (offending line, detected signature).
var (
	// ErrMalformedFile marks structural problems: fewer than two blank-line
	// sentinels, truncated message blocks, or header lines too short for
	// their schema.
	ErrMalformedFile = errors.New("malformed ceilometer file")

	// ErrUnsupportedModel marks a detection signature that matches none of
	// the supported models. The decoder never guesses a default.
	ErrUnsupportedModel = errors.New("unsupported ceilometer model")

	// ErrInconsistentMessageNumber marks a file whose message blocks report
	// different message numbers. The header schema depends on the message
	// number, so such a file cannot be decoded as a whole.
	ErrInconsistentMessageNumber = errors.New("inconsistent message numbers")
)

// DecodeWarning records a non-fatal, per-profile decode failure. The
// affected profile row stays zero-filled and decoding continues.
type DecodeWarning struct {
	Profile int    `json:"profile"`
	Reason  string `json:"reason"`
}
