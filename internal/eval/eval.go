// Package eval scores reconstruction fidelity and fingerprints sample data.
package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/ciricc/codecbench/internal/audio"
)

var (
	// ErrSilentReconstruction marks a reconstruction with zero signal
	// energy against a non-silent original. Scoring it would divide by
	// zero, so it is a defined failure instead.
	ErrSilentReconstruction = errors.New("reconstruction has zero energy")

	// ErrLengthMismatch marks buffers of different length. Adapters must
	// align the reconstruction to the original before scoring.
	ErrLengthMismatch = errors.New("original and reconstruction lengths differ")
)

// Score computes the peak signal-to-noise ratio in dB between an original
// signal and its reconstruction. Both buffers are viewed as normalized
// floating point, and the reconstruction is rescaled to the original's
// energy first, so a pure gain change scores the same as an exact copy.
// Returns +Inf for an exact reconstruction.
func Score(original, reconstruction *audio.Buffer) (float64, error) {
	if original.Len() != reconstruction.Len() {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, original.Len(), reconstruction.Len())
	}
	if original.Len() == 0 {
		return math.Inf(1), nil
	}

	o := normalized(original)
	r := normalized(reconstruction)

	var sumOO, sumRR float64
	for i := range o {
		sumOO += o[i] * o[i]
		sumRR += r[i] * r[i]
	}
	if sumRR == 0 {
		if sumOO == 0 {
			return math.Inf(1), nil
		}
		return 0, ErrSilentReconstruction
	}

	scale := math.Sqrt(sumOO / sumRR)

	var peak, sumErr float64
	for i := range o {
		if a := math.Abs(o[i]); a > peak {
			peak = a
		}
		d := o[i] - r[i]*scale
		sumErr += d * d
	}

	mse := sumErr / float64(len(o))
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20*math.Log10(peak) - 10*math.Log10(mse), nil
}

// Fingerprint reduces a buffer to a 16-bit checksum: the floor of the sum
// of absolute sample values times 2000, modulo 65535. The sum runs over
// the buffer's native representation, so a fixed-point buffer and its
// normalized copy fingerprint differently.
func Fingerprint(b *audio.Buffer) uint16 {
	var sum float64
	switch b.Format {
	case audio.Int16:
		for _, v := range b.Ints {
			sum += math.Abs(float64(v))
		}
	default:
		for _, v := range b.Floats {
			sum += math.Abs(float64(v))
		}
	}
	return uint16(uint64(sum*2000) % 65535)
}

func normalized(b *audio.Buffer) []float64 {
	out := make([]float64, b.Len())
	if b.Format == audio.Int16 {
		for i, v := range b.Ints {
			out[i] = float64(v) / 32768.0
		}
		return out
	}
	for i, v := range b.Floats {
		out[i] = float64(v)
	}
	return out
}
