package sources

import "fmt"

// TransportError reports a failure to obtain a response body: connection
// errors, timeouts surfaced by the HTTP client, or non-2xx statuses.
// Transport failures are transient and worth retrying; extraction failures
// are not.
type TransportError struct {
	// Status is the HTTP status code, zero when no response arrived
	Status int
	// Err is the underlying cause, nil for status-only failures
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: unexpected status %d", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
