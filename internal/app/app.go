package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/lo"

	"github.com/ciricc/codecbench/internal/audio"
	"github.com/ciricc/codecbench/internal/bench"
	"github.com/ciricc/codecbench/internal/codec"
	"github.com/ciricc/codecbench/internal/config"
	"github.com/ciricc/codecbench/internal/dataset"
	"github.com/ciricc/codecbench/internal/report"
)

// Application wires one benchmark run together: loader, codec registry,
// driver and report sinks.
type Application struct {
	Settings config.Settings
	Suite    config.Suite

	loader   *audio.Loader
	driver   *bench.Driver
	reporter *report.Reporter
	log      *slog.Logger
}

func New(settings config.Settings) (*Application, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if settings.Verbose {
		level = slog.LevelDebug
	}
	// Stdout carries the report, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	suite := config.DefaultSuite()
	if settings.SuitePath != "" {
		var err error
		suite, err = config.LoadSuite(settings.SuitePath)
		if err != nil {
			return nil, fmt.Errorf("load suite: %w", err)
		}
	}

	loader := audio.NewLoader(settings.SampleRate, log)

	registry := codec.NewRegistry()
	registry.Register(codec.NewLiltAdapter(log))
	registry.Register(codec.NewMP3Adapter(settings.FFmpegPath, log))
	registry.Register(codec.NewVorbisAdapter(settings.FFmpegPath, log))

	sinks := []report.Sink{report.NewConsoleSink(os.Stdout)}
	if settings.ReleaseLog != "" {
		s, err := report.NewLogSink(settings.ReleaseLog)
		if err != nil {
			return nil, fmt.Errorf("open release log: %w", err)
		}
		sinks = append(sinks, s)
	}
	if settings.ReleaseCSV != "" {
		s, err := report.NewCSVSink(settings.ReleaseCSV)
		if err != nil {
			return nil, fmt.Errorf("open release csv: %w", err)
		}
		sinks = append(sinks, s)
	}

	labels := lo.Map(suite.Configs, func(c codec.Config, _ int) string {
		return c.Label()
	})

	return &Application{
		Settings: settings,
		Suite:    suite,
		loader:   loader,
		driver:   bench.New(loader, registry, suite.Configs, settings, log),
		reporter: report.New(labels, sinks, log),
		log:      log,
	}, nil
}

// Run executes the whole benchmark and returns the per-file rows in file
// order, so callers can persist them as a machine-readable report.
func (a *Application) Run(ctx context.Context) ([]report.Row, error) {
	if err := dataset.Bootstrap(ctx, a.Settings.DatasetDir, a.log); err != nil {
		return nil, fmt.Errorf("bootstrap dataset: %w", err)
	}

	files, err := dataset.List(a.Settings.DatasetDir, a.loader.Extensions())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files under %s", a.Settings.DatasetDir)
	}

	a.log.InfoContext(ctx, "starting benchmark",
		"files", len(files), "configs", len(a.Suite.Configs), "jobs", a.Settings.Jobs)

	out := &rowCollector{next: a.reporter}
	if err := a.driver.Run(ctx, files, out); err != nil {
		return nil, err
	}
	return out.rows, nil
}

// EffectiveRate is the run's sample rate. Before any file has loaded in
// native-rate mode it is still 0.
func (a *Application) EffectiveRate() int {
	return a.loader.Rate()
}

func (a *Application) Close() error {
	a.reporter.Close()
	return nil
}

// rowCollector mirrors rows to the reporter while keeping them for the
// run report.
type rowCollector struct {
	next bench.RowWriter
	rows []report.Row
}

func (c *rowCollector) WriteHeader() { c.next.WriteHeader() }

func (c *rowCollector) WriteRow(r report.Row) {
	c.rows = append(c.rows, r)
	c.next.WriteRow(r)
}
