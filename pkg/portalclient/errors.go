package portalclient

import "errors"

var (
	// ErrNotFound is returned when the backend has no matching record
	ErrNotFound = errors.New("not found")

	// ErrNetworkError is returned when the backend could not be reached
	ErrNetworkError = errors.New("network error")

	// ErrUnexpectedResponse is returned for non-2xx answers without a usable message
	ErrUnexpectedResponse = errors.New("unexpected response from server")

	// ErrMalformedResponse is returned when the body is not the JSON we expect
	ErrMalformedResponse = errors.New("malformed response from server")

	// ErrInvalidConfig is returned by NewClient for an unusable configuration
	ErrInvalidConfig = errors.New("invalid portal client config")
)

// APIError carries the message the backend sent with a non-2xx status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}
