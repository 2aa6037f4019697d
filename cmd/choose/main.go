package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ciricc/codecbench/internal/report"
	"github.com/ciricc/codecbench/pkg/runreport"
)

// evalStats aggregates one evaluator's outcomes across every loaded run
// report.
type evalStats struct {
	Label  string
	Evals  int
	Exact  int
	Failed int

	sumBitrate float64
	sumScore   float64
	finite     int
}

func (s *evalStats) MeanBitrate() float64 {
	if s.Evals == 0 {
		return 0
	}
	return s.sumBitrate / float64(s.Evals)
}

// MeanScore averages the finite scores. An evaluator whose every score
// was exact comes out as +Inf.
func (s *evalStats) MeanScore() float64 {
	if s.finite == 0 {
		if s.Exact > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return s.sumScore / float64(s.finite)
}

func main() {
	var (
		dir        = flag.String("dir", "reports", "directory containing JSON run reports")
		maxResults = flag.Int("n", 5, "number of top configurations to print")
		prefer     = flag.String("prefer", "quality", "preference if tie: quality|rate")
	)
	flag.Parse()

	stats, err := loadReports(*dir)
	if err != nil {
		fatalf("load reports: %v", err)
	}
	if len(stats) == 0 {
		fatalf("no reports found in %s", *dir)
	}

	// Pareto front: minimize mean bitrate, maximize mean score.
	pareto := paretoFront(stats)

	sort.Slice(pareto, func(i, j int) bool {
		a, b := pareto[i], pareto[j]
		if strings.EqualFold(*prefer, "rate") {
			if a.MeanBitrate() != b.MeanBitrate() {
				return a.MeanBitrate() < b.MeanBitrate()
			}
			return a.MeanScore() > b.MeanScore()
		}
		if a.MeanScore() != b.MeanScore() {
			return a.MeanScore() > b.MeanScore()
		}
		return a.MeanBitrate() < b.MeanBitrate()
	})

	if *maxResults > len(pareto) {
		*maxResults = len(pareto)
	}

	for i := 0; i < *maxResults; i++ {
		s := pareto[i]
		fmt.Printf("%d) %s\n", i+1, s.Label)
		fmt.Printf("   mean_bitrate_bps=%.0f mean_psnr_db=%s evals=%d exact=%d failed=%d\n",
			s.MeanBitrate(), report.FormatScore(s.MeanScore()), s.Evals, s.Exact, s.Failed)
	}
}

func loadReports(dir string) ([]*evalStats, error) {
	byLabel := map[string]*evalStats{}
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		var rep runreport.Report
		if err := json.NewDecoder(f).Decode(&rep); err != nil {
			return nil
		}
		accumulate(byLabel, rep)
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, err
	}

	out := make([]*evalStats, 0, len(byLabel))
	for _, s := range byLabel {
		out = append(out, s)
	}
	return out, nil
}

func accumulate(byLabel map[string]*evalStats, rep runreport.Report) {
	for _, file := range rep.Files {
		for _, ev := range file.Evaluations {
			s, ok := byLabel[ev.Evaluator]
			if !ok {
				s = &evalStats{Label: ev.Evaluator}
				byLabel[ev.Evaluator] = s
			}
			if ev.Failed {
				s.Failed++
				continue
			}
			score, err := strconv.ParseFloat(ev.ScoreDB, 64)
			if err != nil {
				s.Failed++
				continue
			}
			s.Evals++
			s.sumBitrate += ev.BitrateBPS
			if math.IsInf(score, 1) {
				s.Exact++
			} else {
				s.sumScore += score
				s.finite++
			}
		}
	}
}

func paretoFront(in []*evalStats) []*evalStats {
	var out []*evalStats
	for i := range in {
		dominated := false
		for j := range in {
			if i == j {
				continue
			}
			if dominates(in[j], in[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, in[i])
		}
	}
	return out
}

// dominates reports whether a is at least as good as b on both axes and
// strictly better on one.
func dominates(a, b *evalStats) bool {
	betterOrEqualRate := a.MeanBitrate() <= b.MeanBitrate()
	strictlyBetterRate := a.MeanBitrate() < b.MeanBitrate()
	betterOrEqualScore := a.MeanScore() >= b.MeanScore()
	strictlyBetterScore := a.MeanScore() > b.MeanScore()

	return (betterOrEqualRate && strictlyBetterScore) || (strictlyBetterRate && betterOrEqualScore)
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
