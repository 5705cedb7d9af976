package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultTokenURL is the Watts Vision+ B2C token endpoint.
	DefaultTokenURL = "https://visionlogindev.b2clogin.com/visionlogindev.onmicrosoft.com/" +
		"B2C_1A_VISION_UNIFIEDSIGNUPORSIGNIN/oauth2/v2.0/token"

	// DefaultTimeout bounds the whole token exchange, including connection
	// setup and body read.
	DefaultTimeout = 20 * time.Second

	// defaultExpiresIn is applied when the token endpoint omits expires_in.
	defaultExpiresIn = 3600
)

// Logger is an interface for optional logging in TokenManager.
// Implementations can log token refresh events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// Credentials hold the OAuth2 client identity together with the refresh
// token used to obtain access tokens. The refresh token may be rotated by
// the provider on each exchange; TokenManager tracks the current value.
type Credentials struct {
	ClientID     string
	ClientSecret string

	// RefreshToken is optional at construction time, but GetAccessToken
	// fails without one once the cached access token expires.
	RefreshToken string
}

// TokenManager manages Watts Vision+ access tokens using the OAuth2
// refresh-token grant. It caches the current token, refreshes it before
// expiry, and is safe for concurrent access: at most one refresh exchange is
// in flight at any time, and callers queued behind it observe its result
// without issuing their own network call.
type TokenManager struct {
	creds    Credentials
	tokenURL string
	timeout  time.Duration

	client     *http.Client
	ownsClient bool

	mu           sync.RWMutex // guards token and creds.RefreshToken
	token        *oauth2.Token
	expiryLeeway time.Duration
	logger       Logger // optional logger
}

// Option is a functional option for configuring TokenManager.
type Option func(*TokenManager)

// WithHTTPClient sets the HTTP client used for token exchanges. The manager
// never closes an injected client; the caller retains ownership.
func WithHTTPClient(client *http.Client) Option {
	return func(tm *TokenManager) {
		tm.client = client
	}
}

// WithTokenURL overrides the token endpoint. Useful for the production
// tenant or for tests.
func WithTokenURL(tokenURL string) Option {
	return func(tm *TokenManager) {
		tm.tokenURL = tokenURL
	}
}

// WithTimeout sets the total timeout for token exchanges on the manager's
// own HTTP client. It has no effect when a client is injected via
// WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(tm *TokenManager) {
		tm.timeout = timeout
	}
}

// WithLogger sets a custom logger for token refresh events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(tm *TokenManager) {
		tm.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(tm *TokenManager) {
		tm.logger = log.Default()
	}
}

// NewTokenManager creates a token manager for the given credentials.
//
// Without options it talks to DefaultTokenURL through an HTTP client it owns
// (20s total timeout). Call Close when done so an owned client can release
// its idle connections.
func NewTokenManager(creds Credentials, opts ...Option) *TokenManager {
	tm := &TokenManager{
		creds:        creds,
		tokenURL:     DefaultTokenURL,
		timeout:      DefaultTimeout,
		expiryLeeway: time.Minute, // refresh a bit before expiry to avoid near-expiry races
	}

	for _, opt := range opts {
		opt(tm)
	}

	if tm.client == nil {
		tm.client = &http.Client{Timeout: tm.timeout}
		tm.ownsClient = true
	}

	return tm
}

// GetAccessToken returns a valid bearer token, refreshing it if necessary.
// It is thread-safe and uses double-checked locking to minimize lock
// contention: concurrent callers during a refresh share the single exchange.
//
// It fails with *AuthError when no refresh token is available or the
// provider rejects the exchange, and with *ConnectionError on transport
// failures. A failed refresh leaves the cached state unchanged.
func (tm *TokenManager) GetAccessToken(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Fast path: check if we have a valid token without write lock
	tm.mu.RLock()
	if tm.tokenValid() {
		token := tm.token.AccessToken
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine might have refreshed)
	if tm.tokenValid() {
		return tm.token.AccessToken, nil
	}

	if tm.creds.RefreshToken == "" {
		return "", &AuthError{Reason: "no refresh token available, reauthentication required"}
	}

	token, rotated, err := tm.exchange(ctx)
	if err != nil {
		return "", err
	}

	tm.token = token
	if rotated != "" {
		tm.creds.RefreshToken = rotated
	}

	// Log only if logger is configured
	if tm.logger != nil {
		tm.logger.Printf("auth: obtained new access token (expires: %s)", token.Expiry.Format(time.RFC3339))
	}

	return token.AccessToken, nil
}

// RefreshToken returns the refresh token currently in use. The provider may
// rotate it on each exchange; callers that persist credentials should read
// it back after token fetches.
func (tm *TokenManager) RefreshToken() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.creds.RefreshToken
}

// Close releases the manager's HTTP session. A session injected via
// WithHTTPClient is never touched; only a client the manager created itself
// is closed. Close is idempotent.
func (tm *TokenManager) Close() {
	if tm.ownsClient && tm.client != nil {
		tm.client.CloseIdleConnections()
	}
}

// tokenValid reports whether the cached token is still usable with a small
// safety window. Callers must hold tm.mu.
func (tm *TokenManager) tokenValid() bool {
	if tm.token == nil {
		return false
	}
	return time.Until(tm.token.Expiry) > tm.expiryLeeway
}

// tokenResponse is the JSON body returned by the token endpoint on success.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// exchange performs one refresh-token grant against the token endpoint.
// It returns the new token and the rotated refresh token, if the provider
// sent one. Callers must hold the write lock.
func (tm *TokenManager) exchange(ctx context.Context) (*oauth2.Token, string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {tm.creds.ClientID},
		"client_secret": {tm.creds.ClientSecret},
		"refresh_token": {tm.creds.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", &AuthError{Reason: fmt.Sprintf("building token request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.client.Do(req)
	if err != nil {
		return nil, "", &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &ConnectionError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, "", &AuthError{Reason: fmt.Sprintf("decoding token response: %v", err)}
	}

	if tr.AccessToken == "" {
		return nil, "", &AuthError{Reason: "no access token in response"}
	}

	expiresIn := tr.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}

	token := &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Duration(expiresIn) * time.Second),
	}

	return token, tr.RefreshToken, nil
}
