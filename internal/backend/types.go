package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Job states reported by the processing backend.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusFailed     = "error"
)

// Export formats the backend knows how to render a result into.
var Formats = []string{"md", "txt", "pdf"}

// JobStatus mirrors the payload returned by /process/file, /process/url and
// (usually) /status/{job_id}.
type JobStatus struct {
	JobID     string  `json:"job_id"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	Message   *string `json:"message,omitempty"`
	ResultURL *string `json:"result_url,omitempty"`
}

// Done reports whether the backend has finished with the job, successfully or not.
func (s JobStatus) Done() bool {
	switch strings.ToLower(s.Status) {
	case StatusComplete, StatusFailed:
		return true
	default:
		return false
	}
}

// MessageText returns the message or an empty string.
func (s JobStatus) MessageText() string {
	if s.Message == nil {
		return ""
	}
	return *s.Message
}

// URLRequest is the body sent to /process/url.
type URLRequest struct {
	URL     string         `json:"url"`
	Options map[string]any `json:"options"`
}

// decodeJobStatus decodes a submit response, requiring the fields the backend
// always sends for an accepted job.
func decodeJobStatus(data []byte) (JobStatus, error) {
	var raw struct {
		JobID     *string  `json:"job_id"`
		Status    *string  `json:"status"`
		Progress  *float64 `json:"progress"`
		Message   *string  `json:"message"`
		ResultURL *string  `json:"result_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return JobStatus{}, err
	}
	switch {
	case raw.JobID == nil:
		return JobStatus{}, fmt.Errorf("missing field `job_id`")
	case raw.Status == nil:
		return JobStatus{}, fmt.Errorf("missing field `status`")
	case raw.Progress == nil:
		return JobStatus{}, fmt.Errorf("missing field `progress`")
	}
	return JobStatus{
		JobID:     *raw.JobID,
		Status:    *raw.Status,
		Progress:  *raw.Progress,
		Message:   raw.Message,
		ResultURL: raw.ResultURL,
	}, nil
}

// ParseStatus interprets a raw status payload. It reports false when the
// payload is not a job status, e.g. the backend's {"detail": "..."} errors.
func ParseStatus(raw json.RawMessage) (JobStatus, bool) {
	if len(raw) == 0 {
		return JobStatus{}, false
	}
	status, err := decodeJobStatus(raw)
	if err != nil {
		return JobStatus{}, false
	}
	return status, true
}

// Detail extracts the "detail" field the backend uses for error bodies.
func Detail(raw []byte) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Detail == nil {
		return ""
	}
	if s, ok := body.Detail.(string); ok {
		return s
	}
	encoded, err := json.Marshal(body.Detail)
	if err != nil {
		return ""
	}
	return string(encoded)
}
