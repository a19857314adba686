package fakebackend

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quickscript/internal/backend"
)

func newClient(t *testing.T, srv *Server) *backend.Client {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	c, err := backend.NewClient(ts.URL)
	require.NoError(t, err)
	return c
}

func TestServer_AutoProgressLifecycle(t *testing.T) {
	srv := New(WithAutoProgress())
	c := newClient(t, srv)
	ctx := context.Background()

	accepted, err := c.SubmitFile(ctx, "talk.mp3", []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, backend.StatusQueued, accepted.Status)

	var last backend.JobStatus
	for i := 0; i < 10 && !last.Done(); i++ {
		raw, err := c.Status(ctx, accepted.JobID)
		require.NoError(t, err)
		var ok bool
		last, ok = backend.ParseStatus(raw)
		require.True(t, ok)
	}
	assert.Equal(t, backend.StatusComplete, last.Status)
	require.NotNil(t, last.ResultURL)

	data, err := c.Download(ctx, accepted.JobID, "md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "talk.mp3")

	require.NoError(t, c.Cancel(ctx, accepted.JobID))
	assert.False(t, srv.Has(accepted.JobID))
}

func TestServer_ErrorsMirrorBackend(t *testing.T) {
	srv := New()
	c := newClient(t, srv)
	ctx := context.Background()

	raw, err := c.Status(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "Job not found", backend.Detail(raw))

	accepted, err := c.SubmitURL(ctx, "https://example.com/v.mp4")
	require.NoError(t, err)
	require.Len(t, srv.URLRequests(), 1)
	assert.NotNil(t, srv.URLRequests()[0].Options)

	_, err = c.Download(ctx, accepted.JobID, "md")
	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 400, statusErr.StatusCode)

	srv.Complete(accepted.JobID, []byte("done"))
	_, err = c.Download(ctx, accepted.JobID, "docx")
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 500, statusErr.StatusCode)

	_, err = c.SubmitURL(ctx, "not a url")
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 422, statusErr.StatusCode)

	err = c.Cancel(ctx, "missing")
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode)
}

func TestServer_WithLoggerWritesRequestLine(t *testing.T) {
	var buf lockedBuffer
	srv := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	c := newClient(t, srv)

	_, err := c.Status(context.Background(), "missing")
	require.NoError(t, err)

	line := buf.String()
	assert.Contains(t, line, "msg=request")
	assert.Contains(t, line, "path=/status/missing")
	assert.Contains(t, line, "status=404")
	assert.Regexp(t, `request_id=[0-9a-f-]{36}`, line)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
