package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ciricc/codecbench/internal/app"
	"github.com/ciricc/codecbench/internal/config"
	"github.com/ciricc/codecbench/internal/report"
	"github.com/ciricc/codecbench/pkg/runreport"
)

func main() {
	var (
		datasetDir  = flag.String("dataset", "samples", "directory of audio files to benchmark; downloaded if missing")
		sampleRate  = flag.Int("samplerate", 0, "target sample rate in Hz; 0 keeps the first file's native rate")
		releaseLog  = flag.String("releaselog", "", "optional plain-text mirror of the report")
		releaseCSV  = flag.String("releasedf", "", "optional CSV mirror of the report")
		releaseJSON = flag.String("releasejson", "", "optional JSON run report path")
		suitePath   = flag.String("suite", "", "optional YAML codec suite; default pits lilt against MP3 bitrates")
		ffmpegPath  = flag.String("ffmpeg", "", "path to the ffmpeg binary used by reference codecs")
		timeout     = flag.Duration("timeout", 2*time.Minute, "bound on a single evaluation, mainly external encode/decode; 0 disables")
		jobs        = flag.Int("jobs", 1, "number of files evaluated concurrently")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	settings := config.Settings{
		DatasetDir:  *datasetDir,
		SampleRate:  *sampleRate,
		ReleaseLog:  *releaseLog,
		ReleaseCSV:  *releaseCSV,
		ReleaseJSON: *releaseJSON,
		SuitePath:   *suitePath,
		FFmpegPath:  *ffmpegPath,
		ToolTimeout: *timeout,
		Jobs:        *jobs,
		Verbose:     *verbose,
	}

	application, err := app.New(settings)
	if err != nil {
		fatalf("init error: %v", err)
	}
	defer application.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sigCh
		cancel()
	}()

	started := time.Now()
	rows, err := application.Run(ctx)
	if err != nil {
		fatalf("benchmark: %v", err)
	}

	if settings.ReleaseJSON != "" {
		rep := buildRunReport(application, rows, time.Since(started))
		if err := writeJSON(rep, settings.ReleaseJSON); err != nil {
			fatalf("write run report: %v", err)
		}
	}
}

func buildRunReport(application *app.Application, rows []report.Row, wall time.Duration) runreport.Report {
	rep := runreport.Report{
		Version:          runreport.CurrentVersion,
		TimestampRFC3339: time.Now().UTC().Format(time.RFC3339),
		DatasetDir:       application.Settings.DatasetDir,
		SampleRate:       application.EffectiveRate(),
		WallMS:           wall.Milliseconds(),
		Files:            make([]runreport.FileResult, 0, len(rows)),
	}
	for _, cfg := range application.Suite.Configs {
		rep.Evaluators = append(rep.Evaluators, cfg.Label())
	}

	for _, row := range rows {
		fr := runreport.FileResult{Filename: row.Filename}
		if row.Err != nil {
			fr.Failed = true
			fr.Error = row.Err.Error()
			rep.Files = append(rep.Files, fr)
			continue
		}
		for _, ev := range row.Evals {
			re := runreport.Evaluation{
				Evaluator:   ev.Label,
				BitrateBPS:  ev.BitrateBPS,
				ScoreDB:     report.FormatScore(ev.Score),
				Fingerprint: ev.Fingerprint,
			}
			if ev.Err != nil {
				re = runreport.Evaluation{Evaluator: ev.Label, Failed: true, Error: ev.Err.Error()}
			}
			fr.Evaluations = append(fr.Evaluations, re)
		}
		rep.Files = append(rep.Files, fr)
	}
	return rep
}

func writeJSON(rep runreport.Report, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
