package audio

import (
	"math"
	"testing"
)

func TestResample_SameRateCopies(t *testing.T) {
	t.Parallel()

	src := sineFloat32(8000, 100, 440, 0.5)
	got := Resample(src, 8000, 8000)

	if len(got) != len(src) {
		t.Fatalf("Resample() returned %d samples, want %d", len(got), len(src))
	}
	for i := range src {
		if got[i] != src[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], src[i])
		}
	}

	got[0] = 99
	if src[0] == 99 {
		t.Error("Resample() at identical rates must not alias the input")
	}
}

func TestResample_Length(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		srcLen  int
		srcRate int
		dstRate int
	}{
		{"downsample 44100 to 8000", 44100, 44100, 8000},
		{"downsample 16000 to 8000", 16000, 16000, 8000},
		{"upsample 8000 to 44100", 8000, 8000, 44100},
		{"upsample 8000 to 16000", 4000, 8000, 16000},
		{"non-integer ratio", 22050, 22050, 16000},
		{"single sample", 1, 8000, 16000},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := sineFloat32(tc.srcRate, tc.srcLen, 440, 0.5)
			got := Resample(src, tc.srcRate, tc.dstRate)

			want := int(math.Round(float64(tc.srcLen) * float64(tc.dstRate) / float64(tc.srcRate)))
			if len(got) != want {
				t.Errorf("Resample() returned %d samples, want %d", len(got), want)
			}
		})
	}
}

func TestResample_Empty(t *testing.T) {
	t.Parallel()

	if got := Resample(nil, 8000, 16000); len(got) != 0 {
		t.Errorf("Resample(nil) returned %d samples, want 0", len(got))
	}
}

func TestResample_Downsampling(t *testing.T) {
	t.Parallel()

	src := sineFloat32(44100, 44100, 440, 0.5)
	got := Resample(src, 44100, 8000)

	if len(got) != 8000 {
		t.Fatalf("Resample() returned %d samples, want 8000", len(got))
	}

	var energy float64
	for i, s := range got {
		if s < -1.5 || s > 1.5 {
			t.Fatalf("got[%d] = %v, outside reasonable range [-1.5, 1.5]", i, s)
		}
		energy += float64(s) * float64(s)
	}
	if energy == 0 {
		t.Error("downsampled sine has zero energy")
	}
}

func TestResample_Upsampling(t *testing.T) {
	t.Parallel()

	src := sineFloat32(8000, 8000, 440, 0.5)
	got := Resample(src, 8000, 44100)

	if len(got) != 44100 {
		t.Fatalf("Resample() returned %d samples, want 44100", len(got))
	}

	// Upsampling runs no low-pass, so interior samples should track a
	// reference sine at the new rate closely.
	want := sineFloat32(44100, 44100, 440, 0.5)
	for i := 100; i < len(got)-100; i++ {
		if diff := math.Abs(float64(got[i] - want[i])); diff > 0.05 {
			t.Fatalf("got[%d] = %v, want ≈%v (diff %v)", i, got[i], want[i], diff)
		}
	}
}

func TestResample_ConstantSignal(t *testing.T) {
	t.Parallel()

	src := make([]float32, 1000)
	for i := range src {
		src[i] = 0.25
	}

	got := Resample(src, 16000, 8000)
	for i, s := range got {
		if math.Abs(float64(s-0.25)) > 0.01 {
			t.Fatalf("got[%d] = %v, want ≈0.25", i, s)
		}
	}
}

func BenchmarkResample(b *testing.B) {
	b.ReportAllocs()

	src := sineFloat32(44100, 44100, 440, 0.5)
	for i := 0; i < b.N; i++ {
		Resample(src, 44100, 16000)
	}
}
