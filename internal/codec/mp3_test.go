package codec

import (
	"context"
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/ciricc/codecbench/internal/eval"
)

func requireFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath(DefaultFFmpegPath); err != nil {
		t.Skip("ffmpeg not installed")
	}
}

func TestMP3AdapterRoundtrip(t *testing.T) {
	requireFFmpeg(t)
	t.Parallel()

	a := NewMP3Adapter("", testLogger())
	src := testSine(16000, 16000, 440)

	res, err := a.Roundtrip(context.Background(), src, Config{Algorithm: "mp3", Bitrate: "64k"})
	if err != nil {
		t.Fatalf("Roundtrip() error = %v", err)
	}
	if res.Audio.Len() != src.Len() {
		t.Fatalf("reconstruction length = %d, want %d", res.Audio.Len(), src.Len())
	}
	if res.Audio.Rate != src.Rate {
		t.Errorf("reconstruction rate = %d, want %d", res.Audio.Rate, src.Rate)
	}
	if res.CompressedBytes <= 0 {
		t.Errorf("CompressedBytes = %d, want > 0", res.CompressedBytes)
	}

	score, err := eval.Score(src, res.Audio)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if math.IsNaN(score) || score < 5 {
		t.Errorf("score = %.2f dB, want >= 5", score)
	}
}

func TestMP3AdapterInvalidBitrate(t *testing.T) {
	t.Parallel()

	a := NewMP3Adapter("", testLogger())
	src := testSine(16000, 1000, 440)

	if _, err := a.Roundtrip(context.Background(), src, Config{Algorithm: "mp3", Bitrate: "fast"}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("Roundtrip() error = %v, want ErrInvalidParam", err)
	}
}

func TestMP3AdapterToolFailureReleasesScratchDir(t *testing.T) {
	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	a := NewMP3Adapter(filepath.Join(scratch, "missing-ffmpeg"), testLogger())
	src := testSine(16000, 1000, 440)

	if _, err := a.Roundtrip(context.Background(), src, Config{Algorithm: "mp3", Bitrate: "64k"}); !errors.Is(err, ErrExternalTool) {
		t.Fatalf("Roundtrip() error = %v, want ErrExternalTool", err)
	}

	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("scratch dir %q left behind after tool failure", e.Name())
		}
	}
}
