package httpclient

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tommy-mor/spare/internal/logging"
)

// HTTPError represents a non-2xx response with the body captured for debugging.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the body as a JSON object. An empty body is an empty object.
func (r *Response) JSON() (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal body: %w", err)
	}
	return out, nil
}

// Decode unmarshals the body into out. An empty body leaves out untouched.
func (r *Response) Decode(out any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("unmarshal body: %w", err)
	}
	return nil
}

func (r *Response) asError() *HTTPError {
	if r.StatusCode < 400 {
		return nil
	}
	return &HTTPError{
		StatusCode: r.StatusCode,
		Body:       r.Body,
		Message:    errorMessage(r.Body),
	}
}

// errorMessage prefers the "error" field of a JSON error body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

type Client struct {
	baseURL *url.URL
	client  *http.Client
	logger  logging.Logger
}

// New creates an instrumented HTTP client for talking to an external service.
// baseURL may carry a path prefix such as "http://localhost:8080/api/v1";
// request paths are appended to it.
func New(baseURL string, timeout time.Duration, logger logging.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse baseURL: %q is not absolute", baseURL)
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return &Client{
		baseURL: u,
		client:  httpClient,
		logger:  logger,
	}, nil
}

// buildURL appends a relative path and optional query parameters to the base URL.
func (c *Client) buildURL(path string, query url.Values) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path: %w", err)
	}

	u := c.baseURL.JoinPath(rel.Path)
	switch {
	case query != nil:
		u.RawQuery = query.Encode()
	case rel.RawQuery != "":
		u.RawQuery = rel.RawQuery
	}
	return u.String(), nil
}

// Do sends payload as JSON (when not nil) and returns the whole response.
// HTTP status codes are never turned into errors here.
func (c *Client) Do(ctx context.Context, method, path string, payload any) (*Response, error) {
	return c.do(ctx, method, path, nil, payload)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (*Response, error) {
	urlStr, err := c.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	c.logger.Debug("http call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// call runs a request and turns status >= 400 into *HTTPError.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	resp, err := c.do(ctx, method, path, query, payload)
	if err != nil {
		return err
	}

	if httpErr := resp.asError(); httpErr != nil {
		c.logger.Error("external http error",
			"method", method,
			"status", resp.StatusCode,
			"path", path,
		)
		return httpErr
	}

	return resp.Decode(out)
}

// GetJSON performs a GET and decodes the JSON response into out.
// out should be a pointer to a struct/slice/etc.
// If the status code >= 400, it returns *HTTPError.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON sends a JSON body and decodes a JSON response into out.
// If the status code >= 400, it returns *HTTPError.
func (c *Client) PostJSON(ctx context.Context, path string, payload any, out any) error {
	return c.call(ctx, http.MethodPost, path, nil, payload, out)
}

// PutJSON is PostJSON with PUT.
func (c *Client) PutJSON(ctx context.Context, path string, payload any, out any) error {
	return c.call(ctx, http.MethodPut, path, nil, payload, out)
}

// Delete issues a DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}
