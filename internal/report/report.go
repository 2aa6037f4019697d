// Package report renders benchmark outcomes as tab-separated records and
// fans them out to the configured sinks.
package report

import (
	"log/slog"
	"math"
	"strconv"
)

// Evaluation is one codec configuration's outcome on one file.
type Evaluation struct {
	Label       string
	BitrateBPS  float64
	Score       float64
	Fingerprint uint16
	Err         error
}

// Row is one dataset file's outcomes across every configuration, in suite
// order. Err is set when the file never reached the codecs; such a row
// still appears in the report with every cell blanked out.
type Row struct {
	Filename string
	Err      error
	Evals    []Evaluation
}

const naCell = "n/a"

// Reporter writes a header and one record per dataset file to every sink.
// A sink that fails a write is disabled for the rest of the run with a
// single warning; reporting never fails the benchmark.
type Reporter struct {
	labels []string
	sinks  []Sink
	dead   []bool
	log    *slog.Logger
}

func New(labels []string, sinks []Sink, log *slog.Logger) *Reporter {
	return &Reporter{
		labels: labels,
		sinks:  sinks,
		dead:   make([]bool, len(sinks)),
		log:    log.With("component", "reporter"),
	}
}

func (r *Reporter) WriteHeader() {
	fields := make([]string, 0, 1+3*len(r.labels))
	fields = append(fields, "filename")
	for _, label := range r.labels {
		fields = append(fields, label+"-bitrate", label+"-psnr", label+"-hash")
	}
	r.emit(fields)
}

func (r *Reporter) WriteRow(row Row) {
	fields := make([]string, 0, 1+3*len(r.labels))
	fields = append(fields, row.Filename)

	if row.Err != nil {
		for range r.labels {
			fields = append(fields, naCell, naCell, naCell)
		}
		r.emit(fields)
		return
	}

	for _, ev := range row.Evals {
		if ev.Err != nil {
			fields = append(fields, naCell, naCell, naCell)
			continue
		}
		fields = append(fields,
			strconv.FormatFloat(ev.BitrateBPS, 'f', 2, 64),
			FormatScore(ev.Score),
			strconv.Itoa(int(ev.Fingerprint)),
		)
	}
	r.emit(fields)
}

func (r *Reporter) Close() {
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			r.log.Error("closing report sink", "sink", s.Name(), "error", err)
		}
	}
}

func (r *Reporter) emit(fields []string) {
	for i, s := range r.sinks {
		if r.dead[i] {
			continue
		}
		if err := s.WriteRecord(fields); err != nil {
			r.dead[i] = true
			r.log.Warn("report sink disabled after write failure", "sink", s.Name(), "error", err)
		}
	}
}

// FormatScore renders a reconstruction score for report cells. Exact
// reconstructions come through as +Inf and render as "inf", which
// strconv.ParseFloat accepts when reading reports back.
func FormatScore(score float64) string {
	if math.IsInf(score, 1) {
		return "inf"
	}
	return strconv.FormatFloat(score, 'f', 2, 64)
}
