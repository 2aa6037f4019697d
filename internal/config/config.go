// Package config holds one benchmark run's settings and the codec suite
// it evaluates.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ciricc/codecbench/internal/codec"
)

// Settings is the complete configuration of one run. It is assembled
// once in main, validated, and then passed around by value; nothing
// mutates it afterwards.
type Settings struct {
	DatasetDir  string
	SampleRate  int
	ReleaseLog  string
	ReleaseCSV  string
	ReleaseJSON string
	SuitePath   string
	FFmpegPath  string
	ToolTimeout time.Duration
	Jobs        int
	Verbose     bool
}

func (s Settings) Validate() error {
	if s.DatasetDir == "" {
		return errors.New("dataset dir must be set")
	}
	if s.SampleRate < 0 {
		return fmt.Errorf("sample rate %d is negative", s.SampleRate)
	}
	if s.Jobs < 1 {
		return fmt.Errorf("jobs %d, want at least 1", s.Jobs)
	}
	return nil
}

// Suite is the ordered list of codec configurations a run evaluates.
// Report columns follow this order.
type Suite struct {
	Configs []codec.Config `yaml:"configs"`
}

// DefaultSuite pits the in-process codec against MP3 at a spread of
// bitrates.
func DefaultSuite() Suite {
	return Suite{Configs: []codec.Config{
		{Algorithm: "lilt", Order: 4},
		{Algorithm: "mp3", Bitrate: "320k"},
		{Algorithm: "mp3", Bitrate: "256k"},
		{Algorithm: "mp3", Bitrate: "224k"},
		{Algorithm: "mp3", Bitrate: "192k"},
		{Algorithm: "mp3", Bitrate: "160k"},
	}}
}

func LoadSuite(path string) (Suite, error) {
	var s Suite
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("parse suite: %w", err)
	}
	if len(s.Configs) == 0 {
		return s, errors.New("suite has no codec configs")
	}
	for _, c := range s.Configs {
		if err := c.Validate(); err != nil {
			return s, err
		}
	}
	return s, nil
}
