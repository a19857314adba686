package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/five82/quickscript/internal/backend"
	"github.com/five82/quickscript/internal/state"
)

// Backend is the processing service as seen by the shell.
// It is implemented by *backend.Client.
type Backend interface {
	SubmitFile(ctx context.Context, name string, data []byte) (backend.JobStatus, error)
	SubmitURL(ctx context.Context, rawURL string) (backend.JobStatus, error)
	Status(ctx context.Context, jobID string) (json.RawMessage, error)
	Download(ctx context.Context, jobID, format string) ([]byte, error)
	Cancel(ctx context.Context, jobID string) error
}

var _ Backend = (*backend.Client)(nil)

// Operation names carried in Error.Op.
const (
	OpSubmitFile     = "submit_file"
	OpSubmitURL      = "submit_url"
	OpGetStatus      = "get_status"
	OpDownloadResult = "download_result"
	OpReadLocalFile  = "read_local_file"
	OpCancelJob      = "cancel_job"
)

// Shell translates local operations into backend calls and keeps the job
// registry current. It is safe for concurrent use.
type Shell struct {
	backend Backend
	jobs    *state.Registry
	logger  *slog.Logger
}

// New builds a Shell. A nil registry gets a fresh one; a nil logger discards.
func New(b Backend, jobs *state.Registry, logger *slog.Logger) *Shell {
	if jobs == nil {
		jobs = state.NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{backend: b, jobs: jobs, logger: logger}
}

// Jobs returns the handles submitted by this session, oldest first.
func (s *Shell) Jobs() []string {
	return s.jobs.Snapshot()
}

// SubmitFile uploads the file at path and registers the returned job.
func (s *Shell) SubmitFile(ctx context.Context, path string) (string, error) {
	name, ok := baseName(path)
	if !ok {
		return "", s.fail(localIOError(OpSubmitFile, path, "invalid file path", nil))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", s.fail(localIOError(OpSubmitFile, path, "failed to read file", err))
	}
	s.logger.Debug("uploading file", "path", path, "name", name, "bytes", len(data))

	accepted, err := s.backend.SubmitFile(ctx, name, data)
	if err != nil {
		return "", s.fail(remoteCallError(OpSubmitFile, "failed to submit file", err))
	}

	s.jobs.Add(accepted.JobID)
	s.logger.Info("job submitted", "job_id", accepted.JobID, "source", name, "status", accepted.Status)
	return accepted.JobID, nil
}

// SubmitURL asks the backend to process rawURL and registers the returned job.
// The URL is not validated locally.
func (s *Shell) SubmitURL(ctx context.Context, rawURL string) (string, error) {
	accepted, err := s.backend.SubmitURL(ctx, rawURL)
	if err != nil {
		return "", s.fail(remoteCallError(OpSubmitURL, "failed to submit url", err))
	}

	s.jobs.Add(accepted.JobID)
	s.logger.Info("job submitted", "job_id", accepted.JobID, "source", rawURL, "status", accepted.Status)
	return accepted.JobID, nil
}

// GetStatus returns the backend's status payload for jobID unmodified. Any
// job id is forwarded, registered or not.
func (s *Shell) GetStatus(ctx context.Context, jobID string) (json.RawMessage, error) {
	raw, err := s.backend.Status(ctx, jobID)
	if err != nil {
		return nil, s.fail(remoteCallError(OpGetStatus, "failed to fetch status", err))
	}
	return raw, nil
}

// DownloadResult fetches the result of jobID in format and writes it to
// savePath, replacing any existing file. Nothing is written when the backend
// refuses. A failed write is not cleaned up.
func (s *Shell) DownloadResult(ctx context.Context, jobID, format, savePath string) (string, error) {
	data, err := s.backend.Download(ctx, jobID, format)
	if err != nil {
		return "", s.fail(remoteCallError(OpDownloadResult, "failed to download result", err))
	}

	if err := os.WriteFile(savePath, data, 0o644); err != nil {
		return "", s.fail(localIOError(OpDownloadResult, savePath, "failed to write file", err))
	}
	s.logger.Info("result downloaded", "job_id", jobID, "format", format, "path", savePath, "bytes", len(data))
	return savePath, nil
}

// ReadLocalFile returns the file at path as text. No backend call is made.
func (s *Shell) ReadLocalFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", s.fail(localIOError(OpReadLocalFile, path, "failed to read file", err))
	}
	if !utf8.Valid(data) {
		return "", s.fail(decodeError(OpReadLocalFile, path, "failed to read file", errInvalidUTF8))
	}
	return string(data), nil
}

// CancelJob deletes jobID on the backend and, on success, drops the first
// matching registry entry. A job missing from the registry is not an error.
func (s *Shell) CancelJob(ctx context.Context, jobID string) (bool, error) {
	if err := s.backend.Cancel(ctx, jobID); err != nil {
		return false, s.fail(remoteCallError(OpCancelJob, "failed to cancel job", err))
	}

	removed := s.jobs.Remove(jobID)
	s.logger.Info("job cancelled", "job_id", jobID, "registered", removed)
	return true, nil
}

func (s *Shell) fail(err *Error) *Error {
	s.logger.Warn("operation failed", "op", err.Op, "kind", err.Kind.String(), "error", err.Error())
	return err
}

// baseName returns the final path element, rejecting paths that have none.
func baseName(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	name := filepath.Base(filepath.Clean(path))
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", false
	}
	return name, true
}

var errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
