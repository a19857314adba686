// Package logtail reads the tail of the quickscript log file and splits its
// lines for display in the log view.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory stays proportional to the number of lines shown rather than the
// file size. A missing file yields no lines and no error; the log view simply
// stays empty until the first entry is written.
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//
// # Parsing
//
// The application logs through slog's text handler, which writes lines like
//
//	time=2026-10-18T09:12:01.004+02:00 level=INFO msg="job submitted" job_id=7f3a
//
// Parse pulls out the time, level and message fields and leaves the remaining
// attributes as a single string. Lines in any other shape are kept whole in
// Attrs so nothing is hidden from the user.
package logtail
