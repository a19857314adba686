// Package backend provides an HTTP client for the media-processing backend.
//
// # Overview
//
// The backend is a separately running service that accepts media files or
// URLs, processes them in the background and renders results on request.
// This package speaks its HTTP contract and nothing more:
//
//   - POST /process/file: multipart upload, field "file"
//   - POST /process/url: JSON {"url": ..., "options": {}}
//   - GET /status/{job_id}: backend-defined JSON
//   - GET /download/{job_id}/{format}: raw bytes
//   - DELETE /job/{job_id}: any success status, body ignored
//
// # Errors
//
// Failures come back as one of three types so callers can classify them
// with errors.As:
//
//   - *TransportError: the request could not be sent or the body not read
//   - *StatusError: non-success HTTP status (carries code and "detail")
//   - *DecodeError: the body is not the expected JSON shape
//
// Status is the exception: it returns whatever JSON the backend sends,
// including {"detail": "Job not found"} bodies on 404.
//
// # Request Handling
//
// All requests carry a User-Agent of quickscript/0.1 and a fresh
// X-Request-ID. No timeout is applied; cancellation comes only from the
// caller's context.
//
// # Thread Safety
//
// Client is safe for concurrent use. The underlying http.Client pools
// connections.
package backend
