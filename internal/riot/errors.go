package riot

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound means the lookup key has no backing entity (e.g. the
	// handle was renamed and no longer resolves to a puuid).
	ErrNotFound = errors.New("not found")

	// ErrRetryExhausted means the capped retry policy gave up.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrUnauthorized means the API key was rejected (401/403).
	ErrUnauthorized = errors.New("api key rejected")

	// ErrListingFailed wraps transport failures of the match-id listing
	// call. Callers treat it as "no matches for this player".
	ErrListingFailed = errors.New("match listing failed")
)

// IsNotFound reports whether err is a missing-entity lookup result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
