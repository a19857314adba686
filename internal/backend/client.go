package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Client talks to the processing backend over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "quickscript/0.1"
	requestIDHeader  = "X-Request-ID"
	acceptJSON       = "application/json"
)

// NewClient builds a Client for the backend listening at apiURL. A bare
// host:port is accepted and treated as http.
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		// Uploads and downloads can be large; no client-side deadline is imposed.
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SubmitFile uploads name/data as the multipart field "file" to /process/file.
func (c *Client) SubmitFile(ctx context.Context, name string, data []byte) (JobStatus, error) {
	if c == nil {
		return JobStatus{}, fmt.Errorf("client is nil")
	}
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return JobStatus{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return JobStatus{}, fmt.Errorf("write form file: %w", err)
	}
	if err := form.Close(); err != nil {
		return JobStatus{}, fmt.Errorf("close form: %w", err)
	}
	return c.submit(ctx, "/process/file", &body, form.FormDataContentType())
}

// SubmitURL asks the backend to fetch and process rawURL. The URL is sent as-is.
func (c *Client) SubmitURL(ctx context.Context, rawURL string) (JobStatus, error) {
	if c == nil {
		return JobStatus{}, fmt.Errorf("client is nil")
	}
	payload, err := json.Marshal(URLRequest{URL: rawURL, Options: map[string]any{}})
	if err != nil {
		return JobStatus{}, fmt.Errorf("encode request: %w", err)
	}
	return c.submit(ctx, "/process/url", bytes.NewReader(payload), "application/json")
}

func (c *Client) submit(ctx context.Context, path string, body io.Reader, contentType string) (JobStatus, error) {
	rel := &url.URL{Path: path}
	resp, err := c.send(ctx, http.MethodPost, rel, body, contentType, acceptJSON)
	if err != nil {
		return JobStatus{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return JobStatus{}, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	if !isSuccess(resp.StatusCode) {
		return JobStatus{}, statusError(http.MethodPost, rel, resp.StatusCode, data)
	}
	status, err := decodeJobStatus(data)
	if err != nil {
		return JobStatus{}, &DecodeError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return status, nil
}

// Status fetches /status/{jobID} and returns the JSON body untouched. The
// HTTP status is not checked: the backend's error bodies are JSON too and
// the caller decides what they mean.
func (c *Client) Status(ctx context.Context, jobID string) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := pathURL("status", jobID)
	resp, err := c.send(ctx, http.MethodGet, rel, nil, "", acceptJSON)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, &DecodeError{Err: fmt.Errorf("decode response: invalid JSON (status %d)", resp.StatusCode)}
	}
	return json.RawMessage(trimmed), nil
}

// Download fetches the rendered result of jobID in the given format and
// returns the whole body.
func (c *Client) Download(ctx context.Context, jobID, format string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := pathURL("download", jobID, format)
	resp, err := c.send(ctx, http.MethodGet, rel, nil, "", "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, statusError(http.MethodGet, rel, resp.StatusCode, data)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	return data, nil
}

// Cancel deletes jobID on the backend. The response body is ignored.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := pathURL("job", jobID)
	resp, err := c.send(ctx, http.MethodDelete, rel, nil, "", acceptJSON)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if !isSuccess(resp.StatusCode) {
		return statusError(http.MethodDelete, rel, resp.StatusCode, data)
	}
	return nil
}

// send issues one request. An empty accept leaves the Accept header unset.
func (c *Client) send(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType, accept string) (*http.Response, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("execute request: %w", err)}
	}
	return resp, nil
}

func statusError(method string, rel *url.URL, code int, body []byte) *StatusError {
	return &StatusError{
		Method:     method,
		Path:       rel.String(),
		StatusCode: code,
		Detail:     Detail(body),
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// pathURL joins escaped segments under the root, keeping RawPath so that a
// job id containing "/" stays a single segment.
func pathURL(segments ...string) *url.URL {
	raw := make([]string, len(segments))
	for i, s := range segments {
		raw[i] = url.PathEscape(s)
	}
	rawPath := "/" + strings.Join(raw, "/")
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return &url.URL{Path: "/" + strings.Join(segments, "/")}
	}
	return &url.URL{Path: decoded, RawPath: rawPath}
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
