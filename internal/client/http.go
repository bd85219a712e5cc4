package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/reveal/internal/chart"
	"github.com/alfredjeanlab/reveal/internal/registry"
	"github.com/alfredjeanlab/reveal/internal/seq"
)

// requestTimeout bounds every call. The event stream is not served through
// this client.
const requestTimeout = 30 * time.Second

// HTTPClient implements ChartClient using the reveal HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Charts ---

func (c *HTTPClient) Mount(ctx context.Context, req *MountRequest) (*chart.Info, error) {
	var info chart.Info
	if err := c.doJSON(ctx, http.MethodPost, "/v1/charts", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (*chart.Info, error) {
	var resp struct {
		Chart chart.Info `json:"chart"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/charts/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Chart, nil
}

func (c *HTTPClient) List(ctx context.Context) ([]registry.Entry, error) {
	var resp struct {
		Charts []registry.Entry `json:"charts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/charts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Charts, nil
}

func (c *HTTPClient) Reveal(ctx context.Context, id string, ratio float64) (*chart.Info, error) {
	body := map[string]float64{"ratio": ratio}
	var info chart.Info
	if err := c.doJSON(ctx, http.MethodPost, "/v1/charts/"+url.PathEscape(id)+"/visibility", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) Dispose(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/charts/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) SVG(ctx context.Context, id, palette string) ([]byte, error) {
	path := "/v1/charts/" + url.PathEscape(id) + "/svg"
	if palette != "" {
		path += "?" + url.Values{"palette": {palette}}.Encode()
	}
	return c.doRaw(ctx, path)
}

// --- Static ---

func (c *HTTPClient) Render(ctx context.Context, req *RenderRequest) ([]byte, error) {
	q := url.Values{}
	if req.Seed != nil {
		q.Set("seed", strconv.FormatInt(*req.Seed, 10))
	}
	if req.Hidden {
		q.Set("visible", "false")
	}
	if req.Palette != "" {
		q.Set("palette", req.Palette)
	}
	path := "/v1/render/" + url.PathEscape(req.Kind) + ".svg"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.doRaw(ctx, path)
}

func (c *HTTPClient) Tickers(ctx context.Context, symbols []string) ([]seq.Ticker, error) {
	path := "/v1/tickers"
	if len(symbols) > 0 {
		path += "?" + url.Values{"symbols": {strings.Join(symbols, ",")}}.Encode()
	}
	var resp struct {
		Tickers []seq.Ticker `json:"tickers"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickers, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is the server saying the chart does not exist.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsGone reports whether err is the server saying the chart was disposed.
func IsGone(err error) bool { return hasStatus(err, http.StatusGone) }

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, err := c.do(req)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// doRaw performs a GET and returns the body unparsed.
func (c *HTTPClient) doRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return respBody, nil
}
