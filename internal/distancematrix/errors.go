package distancematrix

import (
	"errors"
	"fmt"
)

// ErrUpstreamTimeout is returned when the provider call does not complete
// before the request deadline.
var ErrUpstreamTimeout = errors.New("distance matrix: upstream timeout")

// ProviderError reports a failed provider call: the request could not be
// sent, the provider answered with a non-2xx HTTP status, or the top-level
// status of the response was not "OK". The whole call is failed; there is no
// partial result.
type ProviderError struct {
	Status     string // top-level provider status, e.g. "ZERO_RESULTS"
	Message    string // provider error_message, if any
	HTTPStatus int
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("distance matrix: provider request failed: %v", e.Err)
	case e.Status != "":
		if e.Message != "" {
			return fmt.Sprintf("distance matrix: provider status %s: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("distance matrix: provider status %s", e.Status)
	default:
		return fmt.Sprintf("distance matrix: provider returned HTTP %d", e.HTTPStatus)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError reports a response that does not match the expected schema.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("distance matrix: malformed response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
