package codec

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ciricc/codecbench/internal/audio"
	"github.com/ciricc/codecbench/pkg/lilt"
)

// candidateBitsPerSample is fixed for every evaluation.
// TODO: surface bits per sample as a run setting instead of a constant.
const candidateBitsPerSample = 6

// LiltAdapter runs the in-process lilt codec. The evaluator parameter is
// the LPC model order; the compressed size is the bitstream length.
type LiltAdapter struct {
	log *slog.Logger
}

var _ Adapter = (*LiltAdapter)(nil)

func NewLiltAdapter(log *slog.Logger) *LiltAdapter {
	return &LiltAdapter{log: log.With("adapter", "lilt")}
}

func (a *LiltAdapter) Name() string { return "lilt" }

func (a *LiltAdapter) Roundtrip(ctx context.Context, src *audio.Buffer, cfg Config) (*Result, error) {
	if cfg.Order < 1 {
		return nil, fmt.Errorf("%w: model order %d", ErrInvalidParam, cfg.Order)
	}

	data, err := lilt.Compress(src.Float32s(), cfg.Order, lilt.WithBitsPerSample(candidateBitsPerSample))
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	decoded, err := lilt.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	a.log.DebugContext(ctx, "round trip finished",
		"order", cfg.Order, "samples", src.Len(), "compressed_bytes", len(data))

	return &Result{
		Audio:           audio.NewFloat32(src.Rate, decoded),
		CompressedBytes: len(data),
	}, nil
}
