package generation

import (
	"errors"
	"fmt"
)

// ErrMissingCredential indicates no generation API key is configured. It is a
// configuration fault and is checked before any outbound call is made.
var ErrMissingCredential = errors.New("generation: api credential not configured")

// UpstreamError reports a transport failure or non-success response from the
// completion endpoint. It is not retried automatically; generation is
// expensive and repeating it could double-bill.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation: upstream returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("generation: upstream unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// FormatError reports that the collaborator answered successfully but its
// payload could not be parsed into the expected structure. Distinct from
// UpstreamError: it signals prompt/contract drift, not a transient fault, so
// callers should log the raw text rather than retry.
type FormatError struct {
	Raw string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("generation: malformed model output: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
