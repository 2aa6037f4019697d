package audio

import "math"

// Resample converts src from srcRate to dstRate using cubic interpolation
// over a 4-sample window. A simple one-pole low-pass is applied first when
// downsampling to reduce aliasing. The output length is
// round(len(src) * dstRate / srcRate).
func Resample(src []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate {
		out := make([]float32, len(src))
		copy(out, src)
		return out
	}
	if len(src) == 0 {
		return nil
	}

	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(math.Round(float64(len(src)) * float64(dstRate) / float64(srcRate)))
	if outLen == 0 {
		return nil
	}

	if ratio > 1.0 {
		src = lowPass(src, 0.5)
	}

	out := make([]float32, outLen)
	pos := 0.0
	for i := range out {
		idx := int(pos)
		frac := float32(pos - float64(idx))

		y0 := sampleAt(src, idx-1)
		y1 := sampleAt(src, idx)
		y2 := sampleAt(src, idx+1)
		y3 := sampleAt(src, idx+2)

		out[i] = cubicInterpolate(y0, y1, y2, y3, frac)
		pos += ratio
	}
	return out
}

// sampleAt reads src at i, duplicating edge samples outside the range.
func sampleAt(src []float32, i int) float32 {
	if i < 0 {
		return src[0]
	}
	if i >= len(src) {
		return src[len(src)-1]
	}
	return src[i]
}

// lowPass runs a one-pole low-pass over src and returns the filtered copy.
// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
func lowPass(src []float32, alpha float32) []float32 {
	out := make([]float32, len(src))
	state := src[0]
	for i, x := range src {
		state = alpha*x + (1-alpha)*state
		out[i] = state
	}
	return out
}

// cubicInterpolate evaluates a Catmull-Rom spline through four consecutive
// samples at fractional position x between y1 and y2 (0 <= x <= 1).
func cubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
