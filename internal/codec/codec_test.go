package codec

import (
	"context"
	"errors"
	"testing"

	"github.com/ciricc/codecbench/internal/audio"
)

type stubAdapter struct {
	name string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Roundtrip(_ context.Context, src *audio.Buffer, _ Config) (*Result, error) {
	return &Result{Audio: src.Clone(), CompressedBytes: src.Len()}, nil
}

func TestConfigLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{Algorithm: "lilt", Order: 4}, "lilt4"},
		{Config{Algorithm: "mp3", Bitrate: "320k"}, "mp3320k"},
		{Config{Algorithm: "vorbis", Bitrate: "96k"}, "vorbis96k"},
	}
	for _, tc := range cases {
		if got := tc.cfg.Label(); got != tc.want {
			t.Errorf("Label() = %q, want %q", got, tc.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{Algorithm: "lilt", Order: 4}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := (Config{}).Validate(); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("Validate() error = %v, want ErrInvalidParam", err)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&stubAdapter{name: "beta"})
	r.Register(&stubAdapter{name: "alpha"})

	a, err := r.Get("alpha")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if a.Name() != "alpha" {
		t.Errorf("Get() returned adapter %q", a.Name())
	}

	if _, err := r.Get("gamma"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Get() error = %v, want ErrUnknownAlgorithm", err)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("Names() = %v, want [alpha beta]", names)
	}
}

func TestParseBitrateLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{"320k", 320000, false},
		{"64k", 64000, false},
		{"320", 0, true},
		{"k", 0, true},
		{"-5k", 0, true},
		{"", 0, true},
		{"fastk", 0, true},
	}

	for _, tc := range cases {
		got, err := parseBitrateLabel(tc.label)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidParam) {
				t.Errorf("parseBitrateLabel(%q) error = %v, want ErrInvalidParam", tc.label, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBitrateLabel(%q) error = %v", tc.label, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseBitrateLabel(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}
}

func TestAlignLength(t *testing.T) {
	t.Parallel()

	long := audio.NewInt16(8000, []int16{1, 2, 3, 4, 5})
	alignLength(long, 3)
	if len(long.Ints) != 3 || long.Ints[2] != 3 {
		t.Errorf("alignLength trim = %v, want [1 2 3]", long.Ints)
	}

	short := audio.NewFloat32(8000, []float32{0.5})
	alignLength(short, 3)
	if len(short.Floats) != 3 || short.Floats[0] != 0.5 || short.Floats[1] != 0 || short.Floats[2] != 0 {
		t.Errorf("alignLength pad = %v, want [0.5 0 0]", short.Floats)
	}

	exact := audio.NewInt16(8000, []int16{7, 8})
	alignLength(exact, 2)
	if len(exact.Ints) != 2 || exact.Ints[0] != 7 {
		t.Errorf("alignLength exact = %v, want [7 8]", exact.Ints)
	}
}
