package auth

import "fmt"

// AuthError indicates the identity provider rejected the token exchange, or
// that no exchange could be attempted at all. It carries the HTTP status code
// and response body when the endpoint answered, so callers can inspect the
// provider's error payload (e.g. {"error":"invalid_grant"}).
type AuthError struct {
	// StatusCode is the HTTP status returned by the token endpoint,
	// or 0 if the failure happened before or outside the HTTP exchange.
	StatusCode int

	// Body is the raw response body from the token endpoint, if any.
	Body string

	// Reason describes failures that have no HTTP response, such as a
	// missing refresh token or a missing access_token field.
	Reason string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auth: token request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return "auth: " + e.Reason
}

// ConnectionError indicates a transport-level failure reaching the identity
// provider (connection refused, DNS failure, timeout). It is distinct from
// AuthError so callers can apply a different retry policy to network faults
// than to credential problems.
type ConnectionError struct {
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("auth: connection error during token exchange: %v", e.Err)
}

// Unwrap exposes the underlying transport error for errors.Is/As matching.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}
