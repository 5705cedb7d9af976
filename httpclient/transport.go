package httpclient

import (
	"fmt"
	"net/http"

	"github.com/Watts-Digital/go-wattsvision/auth"
)

// BearerTransport is an http.RoundTripper that automatically adds Vision+
// bearer tokens to outgoing HTTP requests.
//
// It wraps an existing transport (typically http.DefaultTransport) and
// injects the Authorization header before each request.
type BearerTransport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// TokenManager provides access tokens.
	TokenManager *auth.TokenManager
}

// RoundTrip implements http.RoundTripper interface.
// It fetches a valid access token and adds it as "Authorization: Bearer <token>"
// to the request headers before delegating to the base transport.
// The token fetch respects the request context's cancellation and deadline.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.TokenManager == nil {
		return nil, fmt.Errorf("httpclient: TokenManager is nil")
	}

	token, err := t.TokenManager.GetAccessToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("httpclient: failed to get token: %w", err)
	}

	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}

// NewBearerTransport creates a new BearerTransport with the given token manager.
// The base transport defaults to http.DefaultTransport if not specified.
func NewBearerTransport(tm *auth.TokenManager, base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &BearerTransport{
		Base:         base,
		TokenManager: tm,
	}
}
