package detect

import "errors"

// The four failure kinds surfaced to callers. Everything else is either
// recovered internally (malformed records are dropped and counted) or wraps
// one of these.
var (
	// ErrAccountNotFound: upstream reports no such account. Terminal.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientData: the account exists but has no usable history.
	// Terminal for this attempt.
	ErrInsufficientData = errors.New("not enough account history to analyze")

	// ErrUpstreamUnavailable: the data-fetch collaborator failed
	// (network, timeout, 5xx). The only retryable condition; callers own
	// the retry policy.
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")
)
