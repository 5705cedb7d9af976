// Package testutil provides test helpers for go-wattsvision packages.
//
// It includes utilities to spin up IPv4-only local HTTP servers (avoiding
// IPv6 in sandboxes), mock the Vision+ token endpoint without real sockets,
// build JWT fixtures for unverified-decode tests, and generate self-signed
// certificates for TLS tests.
//
// # Utilities
//
//   - NewLocalHTTPServer: start httptest server bound to 127.0.0.1
//   - MockTokenEndpoint: stub the OAuth2 token endpoint and capture requests
//     and their form bodies
//   - RoundTripFunc, StaticJSONResponse, JSONResponse: inline
//     http.RoundTripper implementations
//   - SignedTestToken: build well-formed JWT fixtures
//   - WriteTestCACert / WriteTestCertAndKey: generate temporary CA and leaf
//     certificates for TLS tests
//
// MockTokenEndpoint exposes an http.Client wired to its in-memory
// RoundTripper; inject it into the code under test instead of touching
// http.DefaultClient.
package testutil
