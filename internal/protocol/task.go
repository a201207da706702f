package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Task is the quadruple tracked for one executable: its current status, its
// clamped exit code, the timestamp of the last transition, and its absolute
// path.
type Task struct {
	Status Status
	Code   uint8
	Time   time.Time
	Path   string
}

// NewWaiting builds a Task in the Waiting state for path, timestamped now.
func NewWaiting(path string, now time.Time) Task {
	return Task{Status: StatusWaiting, Time: now, Path: path}
}

// FieldError names which of the four line fields failed to parse.
type FieldError string

const (
	FieldStatus    FieldError = "status"
	FieldCode      FieldError = "code"
	FieldTimestamp FieldError = "timestamp"
	FieldPath      FieldError = "path"
)

// ParseError describes why one line of a task list file failed to parse.
type ParseError struct {
	Line   int    // 1-indexed line number
	Text   string // the raw line
	Field  FieldError
	Malformed bool // true if the line had fewer than three commas
}

func (e *ParseError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("line %d: malformed (too few fields): %q", e.Line, e.Text)
	}
	return fmt.Sprintf("line %d: invalid %s: %q", e.Line, e.Field, e.Text)
}

// WriteLine appends the wire-format line for t (including trailing newline)
// to w.
func WriteLine(w *strings.Builder, t Task) {
	w.WriteString(t.Status.String())
	w.WriteByte(',')
	w.WriteString(strconv.Itoa(int(t.Code)))
	w.WriteByte(',')
	w.WriteString(t.Time.UTC().Format(time.RFC3339Nano))
	w.WriteByte(',')
	w.WriteString(t.Path)
	w.WriteByte('\n')
}

// Encode renders tasks as the full contents of a task list file.
func Encode(tasks []Task) []byte {
	var b strings.Builder
	for _, t := range tasks {
		WriteLine(&b, t)
	}
	return []byte(b.String())
}

// ParseLine decodes one line (without its trailing newline) of a task list
// file. Only the first three commas are treated as separators; everything
// after the third comma is the path, so paths may contain literal commas.
func ParseLine(lineNo int, line string) (Task, error) {
	malformed := func() (Task, error) {
		return Task{}, &ParseError{Line: lineNo, Text: line, Malformed: true}
	}

	i1 := strings.IndexByte(line, ',')
	if i1 < 0 {
		return malformed()
	}
	rest := line[i1+1:]
	i2 := strings.IndexByte(rest, ',')
	if i2 < 0 {
		return malformed()
	}
	rest2 := rest[i2+1:]
	i3 := strings.IndexByte(rest2, ',')
	if i3 < 0 {
		return malformed()
	}

	statusField := line[:i1]
	codeField := rest[:i2]
	timeField := rest2[:i3]
	pathField := rest2[i3+1:]

	status, ok := ParseStatus(statusField)
	if !ok {
		return Task{}, &ParseError{Line: lineNo, Text: line, Field: FieldStatus}
	}

	code, err := strconv.ParseUint(codeField, 10, 8)
	if err != nil {
		return Task{}, &ParseError{Line: lineNo, Text: line, Field: FieldCode}
	}

	ts, err := time.Parse(time.RFC3339Nano, timeField)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, timeField)
		if err != nil {
			return Task{}, &ParseError{Line: lineNo, Text: line, Field: FieldTimestamp}
		}
	}

	if pathField == "" {
		return Task{}, &ParseError{Line: lineNo, Text: line, Field: FieldPath}
	}

	return Task{
		Status: status,
		Code:   uint8(code),
		Time:   ts,
		Path:   pathField,
	}, nil
}

// Decode parses the full contents of a task list file, in order. It returns
// as many tasks as parsed successfully along with the first error
// encountered, if any; callers that want every task regardless of trailing
// parse failures should stop consuming err at the first non-nil value.
func Decode(r io.Reader) ([]Task, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var tasks []Task
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		task, err := ParseLine(line, text)
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, task)
	}
	if err := scanner.Err(); err != nil {
		return tasks, err
	}
	return tasks, nil
}
