// Package httpclient offers HTTP client construction helpers with automatic
// Vision+ bearer-token authentication and TLS options.
//
// It provides a fluent Builder that can create an http.Client with automatic
// Bearer token injection using auth.TokenManager, configurable TLS (custom
// CA, mTLS, insecure for tests), timeouts, base transports, and redirect
// handling. BearerTransport can wrap any RoundTripper.
//
// # Features
//
//   - Fluent builder for http.Client with optional bearer-token injection
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Custom timeouts, base transport override, and redirect disabling
//   - Reusable BearerTransport for manual composition
//
// # Quick Start
//
//	client, err := httpclient.NewBuilder().
//	    WithCredentials(auth.Credentials{
//	        ClientID:     "client-id",
//	        ClientSecret: "client-secret",
//	        RefreshToken: "stored-refresh-token",
//	    }).
//	    WithTimeout(60 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get("https://dev-vision.watts.io/api/...")
//
// # Manual Transport Wrapping
//
//	transport := httpclient.NewBearerTransport(tm, nil)
//	client := &http.Client{Transport: transport}
//
// All components are safe for concurrent use if the provided TokenManager is.
package httpclient
