package audio

import "time"

// Format tags the numeric representation of samples in a Buffer.
type Format int

const (
	// Int16 is fixed-point 16-bit PCM.
	Int16 Format = iota
	// Float32 is normalized floating point in [-1, 1].
	Float32
)

func (f Format) String() string {
	switch f {
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	default:
		return "unknown"
	}
}

// Buffer holds a mono sample sequence together with its sample rate and
// numeric representation. Exactly one of Ints or Floats is populated,
// matching Format.
type Buffer struct {
	Format Format
	Rate   int
	Ints   []int16
	Floats []float32
}

// NewInt16 wraps fixed-point samples at the given rate.
func NewInt16(rate int, samples []int16) *Buffer {
	return &Buffer{Format: Int16, Rate: rate, Ints: samples}
}

// NewFloat32 wraps normalized floating-point samples at the given rate.
func NewFloat32(rate int, samples []float32) *Buffer {
	return &Buffer{Format: Float32, Rate: rate, Floats: samples}
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	if b.Format == Int16 {
		return len(b.Ints)
	}
	return len(b.Floats)
}

// Duration returns the play time of the buffer at its sample rate.
func (b *Buffer) Duration() time.Duration {
	if b.Rate <= 0 {
		return 0
	}
	return time.Duration(b.Len()) * time.Second / time.Duration(b.Rate)
}

// Float32s returns the samples as normalized float32 in [-1, 1].
// Int16 buffers are scaled by 1/32768; Float32 buffers are copied as is.
func (b *Buffer) Float32s() []float32 {
	if b.Format == Float32 {
		out := make([]float32, len(b.Floats))
		copy(out, b.Floats)
		return out
	}
	out := make([]float32, len(b.Ints))
	for i, v := range b.Ints {
		out[i] = float32(v) / 32768.0
	}
	return out
}

// Int16s returns the samples as fixed-point 16-bit PCM. Float32 buffers
// are clamped to [-1, 1] and scaled by 32767.
func (b *Buffer) Int16s() []int16 {
	if b.Format == Int16 {
		out := make([]int16, len(b.Ints))
		copy(out, b.Ints)
		return out
	}
	out := make([]int16, len(b.Floats))
	for i, v := range b.Floats {
		out[i] = float32ToInt16(v)
	}
	return out
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Format: b.Format, Rate: b.Rate}
	if b.Ints != nil {
		out.Ints = make([]int16, len(b.Ints))
		copy(out.Ints, b.Ints)
	}
	if b.Floats != nil {
		out.Floats = make([]float32, len(b.Floats))
		copy(out.Floats, b.Floats)
	}
	return out
}

func float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}
