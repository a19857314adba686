package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one log line split into the fields the log view renders.
type Entry struct {
	Time    string
	Level   string
	Message string
	Attrs   string // remaining key=value pairs, unparsed
	Raw     string
}

// Parse splits a line written by slog's text handler. Lines in any other
// shape come back with only Raw and Attrs set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	rest := strings.TrimSpace(line)

	var ok bool
	if e.Time, rest, ok = field(rest, "time"); !ok {
		e.Attrs = rest
		return e
	}
	e.Level, rest, _ = field(rest, "level")
	e.Message, rest, _ = field(rest, "msg")
	e.Attrs = rest
	return e
}

// field consumes key=value from the front of s.
func field(s, key string) (value, rest string, ok bool) {
	prefix := key + "="
	if !strings.HasPrefix(s, prefix) {
		return "", s, false
	}
	s = s[len(prefix):]

	if strings.HasPrefix(s, `"`) {
		quoted, err := strconv.QuotedPrefix(s)
		if err == nil {
			unquoted, err := strconv.Unquote(quoted)
			if err == nil {
				return unquoted, strings.TrimLeft(s[len(quoted):], " "), true
			}
		}
	}

	end := strings.IndexByte(s, ' ')
	if end < 0 {
		return s, "", true
	}
	return s[:end], strings.TrimLeft(s[end:], " "), true
}
