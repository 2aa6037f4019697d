package codec

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/ciricc/codecbench/internal/audio"
)

// MP3Adapter round-trips audio through an external MP3 encoder. Each
// evaluation writes the source into a scratch dir as 16-bit PCM WAV,
// encodes it at the configured bitrate, decodes the result back to WAV,
// and reads that in. The compressed size is the encoded file's size.
type MP3Adapter struct {
	ffmpeg string
	log    *slog.Logger
}

var _ Adapter = (*MP3Adapter)(nil)

func NewMP3Adapter(ffmpegPath string, log *slog.Logger) *MP3Adapter {
	if ffmpegPath == "" {
		ffmpegPath = DefaultFFmpegPath
	}
	return &MP3Adapter{ffmpeg: ffmpegPath, log: log.With("adapter", "mp3")}
}

func (a *MP3Adapter) Name() string { return "mp3" }

func (a *MP3Adapter) Roundtrip(ctx context.Context, src *audio.Buffer, cfg Config) (*Result, error) {
	if _, err := parseBitrateLabel(cfg.Bitrate); err != nil {
		return nil, err
	}

	w, err := newWorkdir("codecbench-mp3-*")
	if err != nil {
		return nil, err
	}
	defer w.Close()

	in := w.path("in.wav")
	enc := w.path("out.mp3")
	out := w.path("recon.wav")

	if err := audio.WriteWAV16(in, src); err != nil {
		return nil, fmt.Errorf("write encoder input: %w", err)
	}
	if err := runTool(ctx, a.ffmpeg,
		"-v", "error", "-y",
		"-i", in,
		"-codec:a", "libmp3lame", "-b:a", cfg.Bitrate,
		enc,
	); err != nil {
		return nil, err
	}

	info, err := os.Stat(enc)
	if err != nil {
		return nil, fmt.Errorf("stat encoded file: %w", err)
	}

	if err := runTool(ctx, a.ffmpeg,
		"-v", "error", "-y",
		"-i", enc,
		"-ar", strconv.Itoa(src.Rate), "-ac", "1",
		out,
	); err != nil {
		return nil, err
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("open decoded file: %w", err)
	}
	defer f.Close()

	recon, err := audio.DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("read decoded file: %w", err)
	}
	alignLength(recon, src.Len())
	recon.Rate = src.Rate

	a.log.DebugContext(ctx, "round trip finished",
		"bitrate", cfg.Bitrate, "samples", src.Len(), "compressed_bytes", info.Size())

	return &Result{Audio: recon, CompressedBytes: int(info.Size())}, nil
}
