package dataforseo

import (
	"errors"
	"fmt"
)

// TransportError wraps a network-level failure (connection error or
// timeout). Transport errors are retryable.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error calling %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// VendorError is a vendor-side failure: an HTTP status in the server
// error range, or a non-success status code inside the response
// envelope. Vendor errors are retried up to the limit, then surfaced.
type VendorError struct {
	Endpoint   string
	StatusCode int // HTTP status or five-digit envelope code
	Message    string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("vendor error calling %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsRetryable reports whether err is worth retrying. Both transport
// and vendor errors funnel into the same retry logic.
func IsRetryable(err error) bool {
	var te *TransportError
	var ve *VendorError
	return errors.As(err, &te) || errors.As(err, &ve)
}
