package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

type failSink struct {
	writes int
}

func (s *failSink) Name() string { return "fail" }

func (s *failSink) WriteRecord([]string) error {
	s.writes++
	return errors.New("disk full")
}

func (s *failSink) Close() error { return nil }

func twoConfigRow() Row {
	return Row{
		Filename: "a.wav",
		Evals: []Evaluation{
			{Label: "lilt4", BitrateBPS: 48000, Score: math.Inf(1), Fingerprint: 123},
			{Label: "mp3320k", BitrateBPS: 320000.5, Score: 31.4159, Fingerprint: 65534},
		},
	}
}

func TestReporterHeaderAndRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New([]string{"lilt4", "mp3320k"}, []Sink{NewConsoleSink(&buf)}, testLogger(io.Discard))

	r.WriteHeader()
	r.WriteRow(twoConfigRow())
	r.Close()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}

	wantHeader := "filename\tlilt4-bitrate\tlilt4-psnr\tlilt4-hash\tmp3320k-bitrate\tmp3320k-psnr\tmp3320k-hash"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}

	wantRow := "a.wav\t48000.00\tinf\t123\t320000.50\t31.42\t65534"
	if lines[1] != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}
}

func TestReporterFailedEvaluation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New([]string{"lilt4", "mp3320k"}, []Sink{NewConsoleSink(&buf)}, testLogger(io.Discard))

	r.WriteRow(Row{
		Filename: "b.wav",
		Evals: []Evaluation{
			{Label: "lilt4", Err: errors.New("codec blew up")},
			{Label: "mp3320k", BitrateBPS: 320000, Score: 12.5, Fingerprint: 7},
		},
	})

	want := "b.wav\tn/a\tn/a\tn/a\t320000.00\t12.50\t7\n"
	if buf.String() != want {
		t.Errorf("row = %q, want %q", buf.String(), want)
	}
}

func TestReporterFileFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New([]string{"lilt4", "mp3320k"}, []Sink{NewConsoleSink(&buf)}, testLogger(io.Discard))

	r.WriteRow(Row{Filename: "broken.wav", Err: errors.New("unreadable")})

	want := "broken.wav\tn/a\tn/a\tn/a\tn/a\tn/a\tn/a\n"
	if buf.String() != want {
		t.Errorf("row = %q, want %q", buf.String(), want)
	}
}

func TestReporterSinkDowngrade(t *testing.T) {
	t.Parallel()

	var console, logBuf bytes.Buffer
	fail := &failSink{}
	r := New([]string{"lilt4"}, []Sink{fail, NewConsoleSink(&console)}, testLogger(&logBuf))

	r.WriteHeader()
	r.WriteRow(Row{Filename: "a.wav", Evals: []Evaluation{{Label: "lilt4", BitrateBPS: 1, Score: 1, Fingerprint: 1}}})
	r.WriteRow(Row{Filename: "b.wav", Evals: []Evaluation{{Label: "lilt4", BitrateBPS: 2, Score: 2, Fingerprint: 2}}})
	r.Close()

	if fail.writes != 1 {
		t.Errorf("failing sink saw %d writes, want 1", fail.writes)
	}
	if got := strings.Count(console.String(), "\n"); got != 3 {
		t.Errorf("console got %d lines, want 3", got)
	}
	if got := strings.Count(logBuf.String(), "report sink disabled"); got != 1 {
		t.Errorf("downgrade warning logged %d times, want 1:\n%s", got, logBuf.String())
	}
}

func TestCSVSinkMirror(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "run.csv")
	sink, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink() error = %v", err)
	}

	r := New([]string{"lilt4", "mp3320k"}, []Sink{sink}, testLogger(io.Discard))
	r.WriteHeader()
	r.WriteRow(twoConfigRow())
	r.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0][0] != "filename" || records[0][2] != "lilt4-psnr" {
		t.Errorf("header record = %v", records[0])
	}
	if records[1][2] != "inf" || records[1][5] != "31.42" {
		t.Errorf("data record = %v", records[1])
	}
}

func TestLogSinkMirrorsConsole(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")
	sink, err := NewLogSink(path)
	if err != nil {
		t.Fatalf("NewLogSink() error = %v", err)
	}

	var console bytes.Buffer
	r := New([]string{"lilt4"}, []Sink{NewConsoleSink(&console), sink}, testLogger(io.Discard))
	r.WriteHeader()
	r.WriteRow(Row{Filename: "a.wav", Evals: []Evaluation{{Label: "lilt4", BitrateBPS: 100, Score: 9.99, Fingerprint: 42}}})
	r.Close()

	mirrored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(mirrored) != console.String() {
		t.Errorf("log mirror = %q, want %q", mirrored, console.String())
	}
}

func TestFormatScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{math.Inf(1), "inf"},
		{0, "0.00"},
		{12.34, "12.34"},
		{-3.5, "-3.50"},
	}
	for _, tc := range cases {
		if got := FormatScore(tc.score); got != tc.want {
			t.Errorf("FormatScore(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
