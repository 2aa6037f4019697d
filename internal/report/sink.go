package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives rendered report records. Implementations must tolerate
// being closed after a failed write.
type Sink interface {
	Name() string
	WriteRecord(fields []string) error
	Close() error
}

// TextSink writes tab-separated records to a writer. It backs both the
// stdout report and the release log mirror.
type TextSink struct {
	name string
	w    io.Writer
	c    io.Closer
}

var _ Sink = (*TextSink)(nil)

func NewConsoleSink(w io.Writer) *TextSink {
	return &TextSink{name: "console", w: w}
}

func NewLogSink(path string) (*TextSink, error) {
	f, err := createReportFile(path)
	if err != nil {
		return nil, err
	}
	return &TextSink{name: "log", w: f, c: f}, nil
}

func (s *TextSink) Name() string { return s.name }

func (s *TextSink) WriteRecord(fields []string) error {
	_, err := fmt.Fprintln(s.w, strings.Join(fields, "\t"))
	return err
}

func (s *TextSink) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}

// CSVSink mirrors the report into a CSV file.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

var _ Sink = (*CSVSink)(nil)

func NewCSVSink(path string) (*CSVSink, error) {
	f, err := createReportFile(path)
	if err != nil {
		return nil, err
	}
	return &CSVSink{f: f, w: csv.NewWriter(f)}, nil
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) WriteRecord(fields []string) error {
	if err := s.w.Write(fields); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func createReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report file: %w", err)
	}
	return f, nil
}
