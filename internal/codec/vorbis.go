package codec

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ciricc/codecbench/internal/audio"
)

// VorbisAdapter round-trips audio through an external Vorbis encoder.
// Unlike MP3, the decode half runs in process: the encoded Ogg stream is
// read back with a pure-Go Vorbis decoder, so only the encoder is an
// external tool.
type VorbisAdapter struct {
	ffmpeg string
	log    *slog.Logger
}

var _ Adapter = (*VorbisAdapter)(nil)

func NewVorbisAdapter(ffmpegPath string, log *slog.Logger) *VorbisAdapter {
	if ffmpegPath == "" {
		ffmpegPath = DefaultFFmpegPath
	}
	return &VorbisAdapter{ffmpeg: ffmpegPath, log: log.With("adapter", "vorbis")}
}

func (a *VorbisAdapter) Name() string { return "vorbis" }

func (a *VorbisAdapter) Roundtrip(ctx context.Context, src *audio.Buffer, cfg Config) (*Result, error) {
	if _, err := parseBitrateLabel(cfg.Bitrate); err != nil {
		return nil, err
	}

	w, err := newWorkdir("codecbench-vorbis-*")
	if err != nil {
		return nil, err
	}
	defer w.Close()

	in := w.path("in.wav")
	enc := w.path("out.ogg")

	if err := audio.WriteWAV16(in, src); err != nil {
		return nil, fmt.Errorf("write encoder input: %w", err)
	}
	if err := runTool(ctx, a.ffmpeg,
		"-v", "error", "-y",
		"-i", in,
		"-codec:a", "libvorbis", "-b:a", cfg.Bitrate,
		enc,
	); err != nil {
		return nil, err
	}

	info, err := os.Stat(enc)
	if err != nil {
		return nil, fmt.Errorf("stat encoded file: %w", err)
	}

	f, err := os.Open(enc)
	if err != nil {
		return nil, fmt.Errorf("open encoded file: %w", err)
	}
	defer f.Close()

	recon, err := audio.DecodeOgg(f)
	if err != nil {
		return nil, fmt.Errorf("decode encoded file: %w", err)
	}
	if recon.Rate != src.Rate {
		recon = audio.NewFloat32(src.Rate, audio.Resample(recon.Floats, recon.Rate, src.Rate))
	}
	alignLength(recon, src.Len())

	a.log.DebugContext(ctx, "round trip finished",
		"bitrate", cfg.Bitrate, "samples", src.Len(), "compressed_bytes", info.Size())

	return &Result{Audio: recon, CompressedBytes: int(info.Size())}, nil
}
