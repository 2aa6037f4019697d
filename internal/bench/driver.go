// Package bench drives every dataset file through every codec
// configuration and turns the outcomes into report rows.
package bench

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ciricc/codecbench/internal/audio"
	"github.com/ciricc/codecbench/internal/codec"
	"github.com/ciricc/codecbench/internal/config"
	"github.com/ciricc/codecbench/internal/eval"
	"github.com/ciricc/codecbench/internal/report"
)

// RowWriter receives the report header and one row per dataset file, in
// file order.
type RowWriter interface {
	WriteHeader()
	WriteRow(report.Row)
}

// Driver owns one run's evaluation loop. Files are independent of each
// other; all run state lives in the loader's rate and the output sinks.
type Driver struct {
	loader   *audio.Loader
	registry *codec.Registry
	configs  []codec.Config
	timeout  time.Duration
	jobs     int
	log      *slog.Logger
}

func New(loader *audio.Loader, registry *codec.Registry, configs []codec.Config, settings config.Settings, log *slog.Logger) *Driver {
	return &Driver{
		loader:   loader,
		registry: registry,
		configs:  configs,
		timeout:  settings.ToolTimeout,
		jobs:     settings.Jobs,
		log:      log.With("component", "driver"),
	}
}

// Run evaluates files against the configured codecs and writes one row
// per file. A file that cannot be loaded still produces a row, with
// every cell blanked out. Run fails only when ctx is cancelled.
func (d *Driver) Run(ctx context.Context, files []string, out RowWriter) error {
	out.WriteHeader()

	if d.jobs > 1 {
		return d.runParallel(ctx, files, out)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.WriteRow(d.evaluateFile(ctx, path))
	}
	return nil
}

// runParallel fans files out over a bounded worker group and emits the
// collected rows in file order afterwards. The first file is evaluated
// up front so it fixes the run's sample rate before workers race to
// load the rest.
func (d *Driver) runParallel(ctx context.Context, files []string, out RowWriter) error {
	if len(files) == 0 {
		return ctx.Err()
	}

	rows := make([]report.Row, len(files))
	rows[0] = d.evaluateFile(ctx, files[0])

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.SetLimit(d.jobs)
	for i := 1; i < len(files); i++ {
		i := i
		errGroup.Go(func() error {
			rows[i] = d.evaluateFile(ctx, files[i])
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, row := range rows {
		out.WriteRow(row)
	}
	return nil
}

func (d *Driver) evaluateFile(ctx context.Context, path string) report.Row {
	name := filepath.Base(path)

	src, err := d.loader.Load(path)
	if err != nil {
		d.log.Warn("skipping unreadable file", "file", name, "error", err)
		return report.Row{Filename: name, Err: err}
	}

	evals := make([]report.Evaluation, 0, len(d.configs))
	for _, cfg := range d.configs {
		evals = append(evals, d.evaluate(ctx, name, src, cfg))
	}
	return report.Row{Filename: name, Evals: evals}
}

func (d *Driver) evaluate(ctx context.Context, file string, src *audio.Buffer, cfg codec.Config) report.Evaluation {
	ev := report.Evaluation{Label: cfg.Label()}

	adapter, err := d.registry.Get(cfg.Algorithm)
	if err != nil {
		d.log.Warn("evaluation failed", "file", file, "config", ev.Label, "error", err)
		ev.Err = err
		return ev
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	res, err := adapter.Roundtrip(ctx, src, cfg)
	if err != nil {
		d.log.Warn("evaluation failed", "file", file, "config", ev.Label, "error", err)
		ev.Err = err
		return ev
	}

	score, err := eval.Score(src, res.Audio)
	if err != nil {
		d.log.Warn("evaluation failed", "file", file, "config", ev.Label, "error", err)
		ev.Err = err
		return ev
	}

	ev.Score = score
	ev.BitrateBPS = bitrate(res.CompressedBytes, src)
	ev.Fingerprint = eval.Fingerprint(res.Audio)

	d.log.Debug("evaluation finished",
		"file", file, "config", ev.Label,
		"bitrate_bps", ev.BitrateBPS, "score", report.FormatScore(ev.Score))
	return ev
}

// bitrate derives bits per second from the measured compressed size and
// the clip's duration.
func bitrate(compressedBytes int, src *audio.Buffer) float64 {
	if src.Len() == 0 {
		return 0
	}
	return float64(8*compressedBytes) * float64(src.Rate) / float64(src.Len())
}
