package vision

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/Watts-Digital/go-wattsvision/auth"
	"github.com/Watts-Digital/go-wattsvision/httpclient"
	"github.com/Watts-Digital/go-wattsvision/internal/testutil"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   string
}

// apiRecorder captures API requests and serves scripted responses.
type apiRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  testutil.RoundTripFunc
}

func (r *apiRecorder) roundTrip(req *http.Request) (*http.Response, error) {
	rec := recordedRequest{
		method: req.Method,
		path:   req.URL.EscapedPath(),
		auth:   req.Header.Get("Authorization"),
	}
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		rec.body = string(raw)
	}

	r.mu.Lock()
	r.requests = append(r.requests, rec)
	r.mu.Unlock()

	if r.respond != nil {
		return r.respond(req)
	}
	return testutil.StaticJSONResponse(`{}`)(req)
}

func (r *apiRecorder) recorded() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	reqs := make([]recordedRequest, len(r.requests))
	copy(reqs, r.requests)
	return reqs
}

// newTestClient builds a Client whose token fetches hit an in-memory token
// endpoint and whose API calls hit the given recorder.
func newTestClient(tb testing.TB, recorder *apiRecorder) *Client {
	tb.Helper()

	endpoint := testutil.NewMockTokenEndpoint(tb, nil)
	tb.Cleanup(endpoint.Close)

	tm := auth.NewTokenManager(auth.Credentials{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	},
		auth.WithTokenURL(endpoint.URL),
		auth.WithHTTPClient(endpoint.Client),
	)
	tb.Cleanup(tm.Close)

	apiClient, err := httpclient.NewBuilder().
		WithTokenManager(tm).
		WithBaseTransport(testutil.RoundTripFunc(recorder.roundTrip)).
		Build()
	if err != nil {
		tb.Fatalf("failed to build API client: %v", err)
	}

	return NewClient(tm, WithHTTPClient(apiClient))
}

func TestClient_Discover(t *testing.T) {
	recorder := &apiRecorder{
		respond: testutil.StaticJSONResponse(`{"devices":[{"id":"dev-1","interface":"homeassistant.components.THERMOSTAT"}]}`),
	}
	client := newTestClient(t, recorder)

	payload, err := client.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	var parsed struct {
		Devices []struct {
			ID        string `json:"id"`
			Interface string `json:"interface"`
		} `json:"devices"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if len(parsed.Devices) != 1 || parsed.Devices[0].Interface != InterfaceThermostat {
		t.Errorf("unexpected payload: %s", payload)
	}

	reqs := recorder.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 API request, got %d", len(reqs))
	}

	if reqs[0].method != http.MethodGet {
		t.Errorf("expected GET, got %s", reqs[0].method)
	}

	if reqs[0].path != "/api/integrations/home-assistant/discover" {
		t.Errorf("unexpected path: %s", reqs[0].path)
	}

	if !strings.HasPrefix(reqs[0].auth, "Bearer ") {
		t.Errorf("expected bearer authorization, got %q", reqs[0].auth)
	}
}

func TestClient_DeviceReport(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	if _, err := client.DeviceReport(context.Background(), "dev-42"); err != nil {
		t.Fatalf("DeviceReport failed: %v", err)
	}

	reqs := recorder.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 API request, got %d", len(reqs))
	}

	if reqs[0].path != "/api/integrations/home-assistant/report/dev-42" {
		t.Errorf("unexpected path: %s", reqs[0].path)
	}
}

func TestClient_SetTemperature(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	if err := client.SetTemperature(context.Background(), "dev-1", 21.5); err != nil {
		t.Fatalf("SetTemperature failed: %v", err)
	}

	reqs := recorder.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 API request, got %d", len(reqs))
	}

	if reqs[0].method != http.MethodPost {
		t.Errorf("expected POST, got %s", reqs[0].method)
	}

	if reqs[0].path != "/api/integrations/home-assistant/control/thermostat/dev-1/set-temperature" {
		t.Errorf("unexpected path: %s", reqs[0].path)
	}

	if !strings.Contains(reqs[0].body, `"temperature":21.5`) {
		t.Errorf("unexpected body: %s", reqs[0].body)
	}
}

func TestClient_SetTemperature_OutOfRange(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	tests := []float64{4.9, 35.1, -10, 100}

	for _, celsius := range tests {
		if err := client.SetTemperature(context.Background(), "dev-1", celsius); err == nil {
			t.Errorf("expected error for temperature %v", celsius)
		}
	}

	if got := len(recorder.recorded()); got != 0 {
		t.Fatalf("out-of-range temperatures must not be dispatched, got %d requests", got)
	}
}

func TestClient_SetTemperature_Bounds(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	// Boundary values are settable.
	for _, celsius := range []float64{DefaultMinTemperature, DefaultMaxTemperature} {
		if err := client.SetTemperature(context.Background(), "dev-1", celsius); err != nil {
			t.Errorf("temperature %v should be settable: %v", celsius, err)
		}
	}
}

func TestClient_SetThermostatMode(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	if err := client.SetThermostatMode(context.Background(), "dev-1", ModeEco); err != nil {
		t.Fatalf("SetThermostatMode failed: %v", err)
	}

	reqs := recorder.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 API request, got %d", len(reqs))
	}

	if reqs[0].path != "/api/integrations/home-assistant/control/thermostat/dev-1/set-mode" {
		t.Errorf("unexpected path: %s", reqs[0].path)
	}

	if !strings.Contains(reqs[0].body, `"mode":3`) {
		t.Errorf("unexpected body: %s", reqs[0].body)
	}
}

func TestClient_SetThermostatMode_Invalid(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	for _, mode := range []ThermostatMode{0, 7, -1} {
		if err := client.SetThermostatMode(context.Background(), "dev-1", mode); err == nil {
			t.Errorf("expected error for mode %d", mode)
		}
	}

	if got := len(recorder.recorded()); got != 0 {
		t.Fatalf("invalid modes must not be dispatched, got %d requests", got)
	}
}

func TestClient_SetSwitchState(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	if err := client.SetSwitchState(context.Background(), "dev-9", true); err != nil {
		t.Fatalf("SetSwitchState failed: %v", err)
	}

	reqs := recorder.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 API request, got %d", len(reqs))
	}

	if reqs[0].path != "/api/integrations/home-assistant/control/switch/dev-9/change-state" {
		t.Errorf("unexpected path: %s", reqs[0].path)
	}

	if !strings.Contains(reqs[0].body, `"state":true`) {
		t.Errorf("unexpected body: %s", reqs[0].body)
	}
}

func TestClient_APIError(t *testing.T) {
	recorder := &apiRecorder{
		respond: testutil.JSONResponse(http.StatusInternalServerError, `{"error":"upstream failure"}`),
	}
	client := newTestClient(t, recorder)

	_, err := client.Discover(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}

	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}

	if !strings.Contains(apiErr.Error(), "upstream failure") {
		t.Errorf("error should carry the response body: %v", apiErr)
	}
}

func TestClient_DeviceIDEscaped(t *testing.T) {
	recorder := &apiRecorder{}
	client := newTestClient(t, recorder)

	if _, err := client.DeviceReport(context.Background(), "dev/../etc"); err != nil {
		t.Fatalf("DeviceReport failed: %v", err)
	}

	reqs := recorder.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 API request, got %d", len(reqs))
	}

	if strings.Contains(reqs[0].path, "../") {
		t.Errorf("device id must be path-escaped, got %s", reqs[0].path)
	}
}

func TestClient_Integration_LocalServer(t *testing.T) {
	server := testutil.NewLocalHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/integrations/home-assistant/discover" {
			http.NotFound(w, r)
			return
		}

		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"devices":[]}`))
	}))
	defer server.Close()

	endpoint := testutil.NewMockTokenEndpoint(t, nil)
	defer endpoint.Close()

	tm := auth.NewTokenManager(auth.Credentials{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	},
		auth.WithTokenURL(endpoint.URL),
		auth.WithHTTPClient(endpoint.Client),
	)
	defer tm.Close()

	client := NewClient(tm, WithBaseURL(server.URL))

	payload, err := client.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if string(payload) != `{"devices":[]}` {
		t.Errorf("unexpected payload: %s", payload)
	}
}
