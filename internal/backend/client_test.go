package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:8000", u.Host)

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:1234", u.String())

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestClient_SubmitFileSendsMultipart(t *testing.T) {
	t.Parallel()

	var gotName string
	var gotBody []byte
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/process/file", r.URL.Path)
		gotRequestID = r.Header.Get(requestIDHeader)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotBody, _ = io.ReadAll(file)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"abc123","status":"queued","progress":0.0,"message":"queued"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	status, err := c.SubmitFile(context.Background(), "clip.mp4", []byte("\x00\x01binary"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", status.JobID)
	assert.Equal(t, StatusQueued, status.Status)
	assert.Equal(t, "queued", status.MessageText())
	assert.Nil(t, status.ResultURL)
	assert.Equal(t, "clip.mp4", gotName)
	assert.Equal(t, []byte("\x00\x01binary"), gotBody)
	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err, "request id should be a uuid")
}

func TestClient_SubmitURLSendsJSONBody(t *testing.T) {
	t.Parallel()

	var gotBody string
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/process/url", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotUserAgent = r.Header.Get("User-Agent")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		_, _ = w.Write([]byte(`{"job_id":"abc123","status":"queued","progress":0.0}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	status, err := c.SubmitURL(context.Background(), "http://example.com/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "abc123", status.JobID)
	assert.JSONEq(t, `{"url":"http://example.com/a.mp4","options":{}}`, gotBody)
	assert.True(t, strings.HasPrefix(gotUserAgent, "quickscript/"), "User-Agent = %q", gotUserAgent)
}

func TestClient_SubmitErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shape":
			_, _ = w.Write([]byte(`{"status":"queued","progress":0}`))
		case "/garbage":
			_, _ = w.Write([]byte(`{not-json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"disk full"}`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.submit(ctx, "/shape", strings.NewReader("{}"), "application/json")
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, err.Error(), "job_id")

	_, err = c.submit(ctx, "/garbage", strings.NewReader("{}"), "application/json")
	require.ErrorAs(t, err, &decodeErr)

	_, err = c.SubmitURL(ctx, "x")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "disk full", statusErr.Detail)
	assert.Equal(t, "500 Internal Server Error", statusErr.StatusText())
}

func TestClient_StatusPassesBodyThrough(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/status/abc123":
			_, _ = w.Write([]byte(`{"job_id":"abc123","status":"processing","progress":0.5,"extra":[1,2]}`))
		case "/status/a%2Fb":
			_, _ = w.Write([]byte(`{"job_id":"a/b","status":"queued","progress":0}`))
		case "/status/broken":
			_, _ = w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Job not found"}`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	raw, err := c.Status(ctx, "abc123")
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id":"abc123","status":"processing","progress":0.5,"extra":[1,2]}`, string(raw))
	parsed, ok := ParseStatus(raw)
	require.True(t, ok)
	assert.Equal(t, 0.5, parsed.Progress)
	assert.False(t, parsed.Done())

	raw, err = c.Status(ctx, "a/b")
	require.NoError(t, err)
	parsed, ok = ParseStatus(raw)
	require.True(t, ok)
	assert.Equal(t, "a/b", parsed.JobID)

	raw, err = c.Status(ctx, "missing")
	require.NoError(t, err, "non-2xx JSON bodies are passed through")
	_, ok = ParseStatus(raw)
	assert.False(t, ok)
	assert.Equal(t, "Job not found", Detail(raw))

	_, err = c.Status(ctx, "broken")
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestClient_DownloadAndCancel(t *testing.T) {
	t.Parallel()

	payload := []byte("%PDF-1.4 \x00\xff")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/download/abc123/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(payload)
		case r.Method == http.MethodDelete && r.URL.Path == "/job/abc123":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Job cancelled"})
		case r.Method == http.MethodGet && r.URL.Path == "/download/pending/md":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Job not complete"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Job not found"}`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	data, err := c.Download(ctx, "abc123", "pdf")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	_, err = c.Download(ctx, "pending", "md")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Job not complete", statusErr.Detail)

	require.NoError(t, c.Cancel(ctx, "abc123"))

	err = c.Cancel(ctx, "nope")
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "404 Not Found", statusErr.StatusText())
}

func TestClient_AcceptHeaderSkippedForDownload(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	accept := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		accept[r.Method+" "+r.URL.Path] = r.Header.Get("Accept")
		mu.Unlock()
		if r.URL.Path == "/download/abc123/md" {
			_, _ = w.Write([]byte("# result"))
			return
		}
		_, _ = w.Write([]byte(`{"job_id":"abc123","status":"queued","progress":0}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Status(ctx, "abc123")
	require.NoError(t, err)
	_, err = c.Download(ctx, "abc123", "md")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "application/json", accept["GET /status/abc123"])
	assert.Empty(t, accept["GET /download/abc123/md"])
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	require.NoError(t, err)

	_, err = c.Status(context.Background(), "abc")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "execute request")
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	_, err := c.Status(context.Background(), "x")
	assert.EqualError(t, err, "client is nil")
}
