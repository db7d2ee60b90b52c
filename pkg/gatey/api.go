// api.go is the HTTP transport for the Gatey API: RPC-style methods
// invoked as POST {base}/{method} with a JSON body, project auth
// carried in the body per the resolved credential role.

package gatey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultAPIURL is the hosted Gatey API provider. Override with
// WithBaseURL or the GATEY_API_URL environment variable for self-hosted
// servers.
const DefaultAPIURL = "https://api-gatey.florgon.space/v1"

// defaultBaseURL resolves the API base URL, preferring GATEY_API_URL.
func defaultBaseURL() string {
	if url := os.Getenv("GATEY_API_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return DefaultAPIURL
}

// userAgent identifies the SDK on the wire.
var userAgent = fmt.Sprintf("%s/%s", SDKName, SDKVersion)

// APIResponse is the envelope every Gatey API method responds with.
type APIResponse struct {
	// Version is the API version reported by the server.
	Version string `json:"v"`

	// Success holds the method result object on success.
	Success map[string]any `json:"success"`

	// Error is set instead of Success when the method failed.
	Error *apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Exc     string `json:"exc"`
}

// HTTPOption configures the HTTP transport.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// WithBaseURL points the transport at a self-hosted API provider.
func WithBaseURL(url string) HTTPOption {
	return func(c *httpConfig) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient provides a custom *http.Client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *httpConfig) { c.httpClient = hc }
}

// WithHTTPTimeout sets the per-request timeout (default 10s).
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(c *httpConfig) { c.timeout = d }
}

// WithHTTPLogger sets the logger for transport diagnostics.
func WithHTTPLogger(l *zap.Logger) HTTPOption {
	return func(c *httpConfig) { c.logger = l }
}

// HTTPTransport sends events to the Gatey API over HTTPS.
type HTTPTransport struct {
	auth   Auth
	cfg    httpConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPTransport creates the default transport for the given project
// auth.
func NewHTTPTransport(auth Auth, opts ...HTTPOption) *HTTPTransport {
	cfg := httpConfig{
		baseURL: defaultBaseURL(),
		timeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	client := cfg.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	}
	return &HTTPTransport{
		auth:   auth,
		cfg:    cfg,
		client: client,
		logger: cfg.logger,
	}
}

// SendEvent delivers one event via the event.capture method.
func (t *HTTPTransport) SendEvent(ctx context.Context, event Event) error {
	body := captureBody{Event: event}
	// Server secret wins; the client secret is sent only when no
	// server secret is configured.
	if t.auth.ServerSecret != "" {
		body.ServerSecret = t.auth.ServerSecret
	} else {
		body.ClientSecret = t.auth.ClientSecret
	}
	if body.ProjectID == 0 {
		body.ProjectID = t.auth.ProjectID
	}

	_, err := t.Call(ctx, "event.capture", body)
	return err
}

// captureBody is the wire payload of event.capture: the event fields
// plus the project credential.
type captureBody struct {
	Event
	ServerSecret string `json:"server_secret,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Call executes a named API method and returns its parsed response.
// Network failures and server faults (5xx) come back as retryable
// *DeliveryError; client faults (4xx) as non-retryable *DeliveryError;
// API-level failures as *APIError.
func (t *HTTPTransport) Call(ctx context.Context, method string, params any) (*APIResponse, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, &DeliveryError{Cause: fmt.Errorf("marshal %s params: %w", method, err)}
	}

	url := t.cfg.baseURL + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &DeliveryError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &DeliveryError{Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DeliveryError{Retryable: true, Cause: err}
	}

	if resp.StatusCode >= 500 {
		return nil, &DeliveryError{StatusCode: resp.StatusCode, Retryable: true}
	}
	if resp.StatusCode >= 400 {
		return nil, &DeliveryError{StatusCode: resp.StatusCode}
	}

	var parsed APIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &DeliveryError{Cause: fmt.Errorf("unmarshal %s response: %w", method, err)}
	}
	if parsed.Error != nil {
		return nil, &APIError{
			Code:    parsed.Error.Code,
			Message: parsed.Error.Message,
			Status:  parsed.Error.Status,
			Detail:  parsed.Error.Exc,
		}
	}
	return &parsed, nil
}

// ServerTime queries the API server clock via utils.getServerTime.
func (t *HTTPTransport) ServerTime(ctx context.Context) (time.Time, error) {
	resp, err := t.Call(ctx, "utils.getServerTime", map[string]any{})
	if err != nil {
		return time.Time{}, err
	}
	raw, ok := resp.Success["server_time"].(float64)
	if !ok {
		return time.Time{}, &DeliveryError{Cause: fmt.Errorf("utils.getServerTime: missing server_time field")}
	}
	sec := int64(raw)
	nsec := int64((raw - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC(), nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
