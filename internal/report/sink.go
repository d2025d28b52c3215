package report

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Printer receives user-facing lines.
type Printer interface {
	Println(line string)
}

// Sink fans every user-facing line out to the console and, when configured,
// a log file. Both destinations receive the same bytes from one Write.
type Sink struct {
	out   io.Writer
	file  *os.File
	lines []string
	err   error
}

// NewSink creates a sink writing to console. A non-empty logPath is created
// (or truncated) and receives a verbatim copy of the console output.
func NewSink(console io.Writer, logPath string) (*Sink, error) {
	s := &Sink{out: console}
	if strings.TrimSpace(logPath) == "" {
		return s, nil
	}
	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	s.file = f
	s.out = io.MultiWriter(console, f)
	return s, nil
}

// Println writes line followed by a newline. Embedded newlines are kept, so a
// multi-line diagnostic is still a single write.
func (s *Sink) Println(line string) {
	s.lines = append(s.lines, line)
	if s.err != nil {
		return
	}
	if _, err := io.WriteString(s.out, line+"\n"); err != nil {
		s.err = err
	}
}

// Lines returns every line written so far, in order.
func (s *Sink) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Err reports the first write failure, if any.
func (s *Sink) Err() error { return s.err }

// Close flushes and closes the log file.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
