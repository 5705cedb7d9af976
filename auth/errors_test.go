package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAuthError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AuthError
		contains []string
	}{
		{
			name:     "endpoint rejection",
			err:      &AuthError{StatusCode: 401, Body: `{"error":"invalid_grant"}`},
			contains: []string{"401", `{"error":"invalid_grant"}`},
		},
		{
			name:     "reason only",
			err:      &AuthError{Reason: "no refresh token available, reauthentication required"},
			contains: []string{"no refresh token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("error %q should contain %q", msg, want)
				}
			}
		})
	}
}

func TestConnectionError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &ConnectionError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ConnectionError should unwrap to its cause")
	}

	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestErrorKinds_Distinguishable(t *testing.T) {
	var err error = fmt.Errorf("wrapped: %w", &ConnectionError{Err: errors.New("timeout")})

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Error("expected ConnectionError to match through wrapping")
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		t.Error("ConnectionError must not match AuthError")
	}
}
