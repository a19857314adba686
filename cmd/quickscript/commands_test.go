package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quickscript/internal/backend/fakebackend"
)

type cliEnv struct {
	backend *fakebackend.Server
	url     string
	config  string
	dir     string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	fb := fakebackend.New()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "log_dir = \"" + filepath.ToSlash(filepath.Join(dir, "logs")) + "\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return &cliEnv{backend: fb, url: srv.URL, config: cfgPath, dir: dir}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config, "--api-url", e.url}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *cliEnv) submit(t *testing.T) string {
	t.Helper()
	path := filepath.Join(e.dir, "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	out, err := e.run(t, "submit", path)
	require.NoError(t, err)
	return strings.TrimSpace(out)
}

func TestSubmit_PrintsJobID(t *testing.T) {
	env := newCLIEnv(t)
	id := env.submit(t)

	require.NotEmpty(t, id)
	assert.True(t, env.backend.Has(id))
	uploads := env.backend.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "clip.wav", uploads[0].Filename)
}

func TestSubmit_MultipleFilesKeepArgumentOrder(t *testing.T) {
	env := newCLIEnv(t)
	var paths []string
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		p := filepath.Join(env.dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
		paths = append(paths, p)
	}

	out, err := env.run(t, append([]string{"submit"}, paths...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		id, path, ok := strings.Cut(line, "\t")
		require.True(t, ok, line)
		assert.Equal(t, paths[i], path)
		assert.True(t, env.backend.Has(id))
	}
}

func TestSubmit_MissingFileFails(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "submit", filepath.Join(env.dir, "nope.wav"))
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, err.Error(), "failed to read file")
	assert.Empty(t, env.backend.Uploads())
}

func TestSubmitURL_PrintsJobID(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "submit-url", "https://example.com/talk")
	require.NoError(t, err)

	id := strings.TrimSpace(out)
	assert.True(t, env.backend.Has(id))
	reqs := env.backend.URLRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "https://example.com/talk", reqs[0].URL)
}

func TestStatus_JSONAndYAML(t *testing.T) {
	env := newCLIEnv(t)
	id := env.submit(t)

	out, err := env.run(t, "status", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"job_id": "`+id+`"`)
	assert.Contains(t, out, `"status": "queued"`)

	out, err = env.run(t, "status", id, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "job_id: "+id)
	assert.Contains(t, out, "status: queued")
	assert.NotContains(t, out, "{")
}

func TestStatus_UnknownOutputFormat(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run(t, "status", "anything", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestStatus_UnknownJobPrintsBackendDetail(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "status", "ghost")
	require.NoError(t, err)
	assert.Contains(t, out, `"detail": "Job not found"`)
}

func TestDownload_WritesResult(t *testing.T) {
	env := newCLIEnv(t)
	id := env.submit(t)
	env.backend.Complete(id, []byte("# Transcript\n"))

	dest := filepath.Join(env.dir, "out.md")
	out, err := env.run(t, "download", id, "md", dest)
	require.NoError(t, err)
	assert.Equal(t, dest+"\n", out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "# Transcript\n", string(data))
}

func TestDownload_IncompleteJobWritesNothing(t *testing.T) {
	env := newCLIEnv(t)
	id := env.submit(t)

	dest := filepath.Join(env.dir, "out.md")
	_, err := env.run(t, "download", id, "md", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.NoFileExists(t, dest)
}

func TestRead_PrintsFile(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(env.dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld"), 0o644))

	out, err := env.run(t, "read", path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", out)
}

func TestCancel(t *testing.T) {
	env := newCLIEnv(t)
	id := env.submit(t)

	out, err := env.run(t, "cancel", id)
	require.NoError(t, err)
	assert.Equal(t, "cancelled "+id+"\n", out)
	assert.False(t, env.backend.Has(id))

	_, err = env.run(t, "cancel", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Job not found")
}

func TestRootRejectsArgs(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run(t, "unexpected")
	require.Error(t, err)
}
