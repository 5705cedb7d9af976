// Package auth provides an OAuth2 refresh-token manager for the Watts
// Vision+ cloud API.
//
// It caches bearer tokens, refreshes them 60 seconds before expiry, and
// tracks refresh-token rotation. Refreshes are serialized: concurrent
// callers share a single in-flight exchange. Transport failures and
// provider rejections surface as distinct error kinds so callers can apply
// different retry policies.
//
// # Features
//
//   - Refresh-token grant with automatic caching and early refresh
//   - Single-flight refresh under concurrent access
//   - Refresh-token rotation tracking (RefreshToken accessor for persistence)
//   - Typed errors: *AuthError for provider rejections, *ConnectionError for
//     transport faults
//   - Unverified JWT subject extraction (ExtractSubject)
//   - Optional logging (WithLogger, WithLoggingEnabled)
//
// # Quick Start
//
//	tm := auth.NewTokenManager(auth.Credentials{
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	    RefreshToken: "stored-refresh-token",
//	})
//	defer tm.Close()
//
//	token, err := tm.GetAccessToken(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Notes
//
//   - The manager never retries on its own; retry policy belongs to the caller.
//   - Close only tears down an HTTP client the manager created itself; an
//     injected client is left to its owner.
package auth
