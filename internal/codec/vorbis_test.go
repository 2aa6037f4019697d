package codec

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ciricc/codecbench/internal/eval"
)

func TestVorbisAdapterRoundtrip(t *testing.T) {
	requireFFmpeg(t)
	t.Parallel()

	a := NewVorbisAdapter("", testLogger())
	src := testSine(16000, 16000, 440)

	res, err := a.Roundtrip(context.Background(), src, Config{Algorithm: "vorbis", Bitrate: "64k"})
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

func TestVorbisAdapterInvalidBitrate(t *testing.T) {
	t.Parallel()

	a := NewVorbisAdapter("", testLogger())
	src := testSine(16000, 1000, 440)

	if _, err := a.Roundtrip(context.Background(), src, Config{Algorithm: "vorbis", Bitrate: ""}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("Roundtrip() error = %v, want ErrInvalidParam", err)
	}
}
