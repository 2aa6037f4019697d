package lilt

import "math"

const (
	// Regularization applied to the zero-lag autocorrelation before the
	// Levinson recursion, so near-singular blocks stay solvable.
	lpcCondFac = 1e-5
	lpcEps     = 1e-9

	// Minimum inverse prediction gain. The recursion stops once the
	// predictor would exceed 40 dB of gain, which keeps the closed-loop
	// filter stable.
	lpcMinInvGain = 1e-4

	// Coefficients travel as Q12 fixed point so the encoder and decoder
	// run the exact same predictor.
	coeffScale = 4096
)

// lpcCoeffs estimates order prediction coefficients for block such that
// x[t] is approximated by sum(a[k] * x[t-1-k], k=0..order-1).
func lpcCoeffs(block []float64, order int) []float64 {
	r := autocorrelate(block, order)
	r[0] = r[0] + lpcCondFac*r[0] + lpcEps

	a := make([]float64, order)
	prev := make([]float64, order)
	e := r[0]
	invGain := 1.0

	for i := 1; i <= order; i++ {
		if e <= 0 {
			break
		}

		acc := r[i]
		for j := 1; j < i; j++ {
			acc -= a[j-1] * r[i-j]
		}
		k := acc / e

		if k >= 1 || k <= -1 {
			break
		}
		invGain *= 1 - k*k
		if invGain < lpcMinInvGain {
			break
		}

		copy(prev, a[:i-1])
		a[i-1] = k
		for j := 1; j < i; j++ {
			a[j-1] = prev[j-1] - k*prev[i-j-1]
		}

		e *= 1 - k*k
	}

	return a
}

func autocorrelate(x []float64, order int) []float64 {
	r := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		var sum float64
		for t := lag; t < len(x); t++ {
			sum += x[t] * x[t-lag]
		}
		r[lag] = sum
	}
	return r
}

// quantizeCoeffs rounds coefficients to Q12 fixed point.
func quantizeCoeffs(a []float64) []int16 {
	out := make([]int16, len(a))
	for i, v := range a {
		q := math.Round(v * coeffScale)
		if q > math.MaxInt16 {
			q = math.MaxInt16
		} else if q < math.MinInt16 {
			q = math.MinInt16
		}
		out[i] = int16(q)
	}
	return out
}

// dequantizeCoeffs restores Q12 coefficients to float64. Both sides of the
// codec predict with these, never with the unquantized estimates.
func dequantizeCoeffs(q []int16) []float64 {
	out := make([]float64, len(q))
	for i, v := range q {
		out[i] = float64(v) / coeffScale
	}
	return out
}
