package commonModels

import "errors"

// Failure classes the pipeline surfaces to its callers. None of these are
// retried internally, the action that hit them fails as a single attempt.
var (
	// ErrUnsupportedInput - the artifact or text kind is not recognized.
	ErrUnsupportedInput = errors.New("unsupported input type")

	// ErrModelUnavailable - the embedding or completion backend cannot be
	// reached or did not initialize.
	ErrModelUnavailable = errors.New("model backend unavailable")

	// ErrAuthenticationMissing - no API credential is configured for the
	// completion backend. Checked before any call is attempted.
	ErrAuthenticationMissing = errors.New("no API credential configured")
)
