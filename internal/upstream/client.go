package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mbonimpa/agrigate/internal/logger"
	"github.com/mbonimpa/agrigate/internal/session"
)

// Client is the typed gateway to the program backend that owns all applicant
// and application data. Every call attaches the session's bearer token and a
// JSON content type; no business rules live here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a backend client with the given base URL and timeout.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// fileEnvelope is the data payload of report endpoints: a base64-encoded CSV.
type fileEnvelope struct {
	File string `json:"file"`
}

// Ping reports whether the backend is reachable. Any HTTP response counts as
// reachable; only transport failures do not.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// do issues one request against the backend and decodes the enveloped
// response into out (which may be nil for calls whose data is ignored).
//
// The bearer token is taken from the session in ctx. Any non-2xx status maps
// to an *APIError carrying the extracted message; a 404 APIError additionally
// matches ErrNotFound through errors.Is, so list callers can render an empty
// state while workflow callers keep the backend's status and message. A 2xx
// body that does not match the envelope fails with ErrBadShape rather than
// silently producing zero values.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	sess := session.FromContext(ctx)
	if sess == nil || sess.Token == "" {
		return ErrNoSession
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// List callers treat a 404 as an empty result, so don't warn on it.
		if resp.StatusCode != http.StatusNotFound {
			c.log.Warn("Upstream rejected request", map[string]interface{}{
				"method": method,
				"path":   path,
				"status": resp.StatusCode,
			})
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(respBody),
		}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: missing data field", ErrBadShape)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}

	return nil
}
