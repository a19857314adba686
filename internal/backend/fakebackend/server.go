// Package fakebackend is an in-memory stand-in for the processing backend.
// It serves the same HTTP contract so the shell can be tested and demoed
// without the real service.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/five82/quickscript/internal/backend"
)

// Upload records a file received on /process/file.
type Upload struct {
	JobID    string
	Filename string
	Data     []byte
}

type job struct {
	status   string
	progress float64
	message  string
	source   string
	result   []byte
}

// Server implements http.Handler for the backend contract.
type Server struct {
	router chi.Router
	auto   bool
	logger *slog.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	uploads []Upload
	urls    []backend.URLRequest
}

// Option configures a Server.
type Option func(*Server)

// WithAutoProgress makes every status request advance the job, so a polling
// client sees it move from queued to complete.
func WithAutoProgress() Option {
	return func(s *Server) { s.auto = true }
}

// WithLogger logs one line per request.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds a Server with no jobs.
func New(opts ...Option) *Server {
	s := &Server{jobs: make(map[string]*job)}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.logger != nil {
		r.Use(s.logRequests)
	}
	r.Get("/", s.handleRoot)
	r.Post("/process/file", s.handleProcessFile)
	r.Post("/process/url", s.handleProcessURL)
	r.Get("/status/{jobID}", s.handleStatus)
	r.Get("/download/{jobID}/{format}", s.handleDownload)
	r.Delete("/job/{jobID}", s.handleCancel)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start),
		)
	})
}

// Uploads returns the files received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.uploads)
}

// URLRequests returns the /process/url bodies received so far.
func (s *Server) URLRequests() []backend.URLRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.urls)
}

// Has reports whether the backend still tracks jobID.
func (s *Server) Has(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID]
	return ok
}

// Complete marks jobID finished with the given rendered result.
func (s *Server) Complete(jobID string, result []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		j.status = backend.StatusComplete
		j.progress = 1.0
		j.message = "Processing complete"
		j.result = slices.Clone(result)
	}
}

// Fail marks jobID as errored.
func (s *Server) Fail(jobID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		j.status = backend.StatusFailed
		j.message = message
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "QuickScript API is running"})
}

func (s *Server) handleProcessFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	id := s.newJob(header.Filename)
	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{JobID: id, Filename: header.Filename, Data: data})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, backend.JobStatus{
		JobID:    id,
		Status:   backend.StatusQueued,
		Progress: 0,
		Message:  ptr("File upload successful, processing queued"),
	})
}

func (s *Server) handleProcessURL(w http.ResponseWriter, r *http.Request) {
	var req backend.URLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body: "+err.Error())
		return
	}
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid or missing URL scheme")
		return
	}

	id := s.newJob(req.URL)
	s.mu.Lock()
	s.urls = append(s.urls, req)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, backend.JobStatus{
		JobID:    id,
		Status:   backend.StatusQueued,
		Progress: 0,
		Message:  ptr("URL submission successful, processing queued"),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")

	s.mu.Lock()
	j, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	if s.auto {
		advance(j)
	}
	resp := backend.JobStatus{
		JobID:    id,
		Status:   j.status,
		Progress: j.progress,
		Message:  ptr(j.message),
	}
	if j.status == backend.StatusComplete {
		resp.ResultURL = ptr("/download/" + id)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	format := strings.ToLower(chi.URLParam(r, "format"))

	s.mu.Lock()
	j, ok := s.jobs[id]
	var status string
	var result []byte
	if ok {
		status = j.status
		result = slices.Clone(j.result)
	}
	s.mu.Unlock()

	switch {
	case !ok:
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	case status != backend.StatusComplete:
		writeDetail(w, http.StatusBadRequest, "Job not complete")
		return
	case !slices.Contains(backend.Formats, format):
		writeDetail(w, http.StatusInternalServerError, "Unsupported export format: "+format)
		return
	}

	w.Header().Set("Content-Type", "application/"+format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=quickscript_output.%s", format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")

	s.mu.Lock()
	_, ok := s.jobs[id]
	delete(s.jobs, id)
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job cancelled and resources cleaned up"})
}

func (s *Server) newJob(source string) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = &job{
		status:  backend.StatusQueued,
		message: "Job queued",
		source:  source,
	}
	return id
}

// advance moves a job one step along queued -> processing -> complete.
func advance(j *job) {
	switch j.status {
	case backend.StatusQueued:
		j.status = backend.StatusProcessing
		j.progress = 0.1
		j.message = "Analyzing media file..."
	case backend.StatusProcessing:
		j.progress += 0.3
		j.message = "Transcribing audio..."
		if j.progress >= 0.99 {
			j.status = backend.StatusComplete
			j.progress = 1.0
			j.message = "Processing complete"
			j.result = []byte(fmt.Sprintf("# Transcript\n\nSource: %s\n\nNo speech detected.\n", j.source))
		}
	}
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ptr(s string) *string { return &s }
