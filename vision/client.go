package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Watts-Digital/go-wattsvision/auth"
	"github.com/Watts-Digital/go-wattsvision/httpclient"
)

// APIError indicates the Vision+ API answered with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("vision: API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client is a thin client for the Vision+ device catalog and control API.
// Every request carries a bearer token obtained from the token manager.
//
// Discovery and report payloads are returned as raw JSON: the vendor schema
// is unversioned and callers decode the fields they need.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root. Useful for the production tenant or
// for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient injects a pre-built HTTP client. The injected client is
// responsible for authentication itself; build it with httpclient.Builder
// and WithTokenManager to keep bearer injection.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a Vision+ API client authenticated by the given token
// manager.
func NewClient(tm *auth.TokenManager, opts ...ClientOption) *Client {
	c := &Client{baseURL: BaseURL}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = httpclient.NewHTTPClient(tm)
	}

	return c
}

// Discover lists the devices registered to the authenticated account.
func (c *Client) Discover(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, OpDiscover, "")
}

// DeviceReport fetches the current state report for a device.
func (c *Client) DeviceReport(ctx context.Context, deviceID string) (json.RawMessage, error) {
	return c.get(ctx, OpDeviceReport, deviceID)
}

// SetTemperature sets a thermostat's target temperature in degrees Celsius.
// The value is validated against the default settable bounds before dispatch.
func (c *Client) SetTemperature(ctx context.Context, deviceID string, celsius float64) error {
	if celsius < DefaultMinTemperature || celsius > DefaultMaxTemperature {
		return fmt.Errorf("vision: temperature %.1f out of range [%.1f, %.1f]",
			celsius, DefaultMinTemperature, DefaultMaxTemperature)
	}

	return c.post(ctx, OpSetTemperature, deviceID, struct {
		Temperature float64 `json:"temperature"`
	}{celsius})
}

// SetThermostatMode sets a thermostat's operating mode.
func (c *Client) SetThermostatMode(ctx context.Context, deviceID string, mode ThermostatMode) error {
	if !mode.Valid() {
		return fmt.Errorf("vision: invalid thermostat mode %d", mode)
	}

	return c.post(ctx, OpSetThermostatMode, deviceID, struct {
		Mode int `json:"mode"`
	}{int(mode)})
}

// SetSwitchState turns a switch on or off.
func (c *Client) SetSwitchState(ctx context.Context, deviceID string, on bool) error {
	return c.post(ctx, OpSetSwitchState, deviceID, struct {
		State bool `json:"state"`
	}{on})
}

// endpointURL resolves an operation name to an absolute URL.
func (c *Client) endpointURL(op, deviceID string) (string, error) {
	template, ok := Endpoints[op]
	if !ok {
		return "", fmt.Errorf("vision: unknown operation %q", op)
	}

	path := strings.ReplaceAll(template, "{device_id}", url.PathEscape(deviceID))
	return c.baseURL + path, nil
}

func (c *Client) get(ctx context.Context, op, deviceID string) (json.RawMessage, error) {
	endpoint, err := c.endpointURL(op, deviceID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("vision: building request: %w", err)
	}

	return c.do(req)
}

func (c *Client) post(ctx context.Context, op, deviceID string, payload any) error {
	endpoint, err := c.endpointURL(op, deviceID)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("vision: encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("vision: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vision: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
