package audio

import (
	"math"
	"math/cmplx"
	"testing"
)

// naiveDFT is the O(N²) reference used to check both FFT backends.
func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n/2+1)
	for k := range out {
		var sum complex128
		for i, v := range x {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			sum += complex(v*math.Cos(angle), v*math.Sin(angle))
		}
		out[k] = sum
	}
	return out
}

func testSignal(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 0.7*math.Sin(2*math.Pi*5*float64(i)/float64(n)) +
			0.2*math.Cos(2*math.Pi*13*float64(i)/float64(n)) + 0.05
	}
	return x
}

// TestTransform_MatchesDFT checks bin magnitudes from both backends against a
// direct DFT: 64 and 2048 take the gofft path, 100 and 1000 the gonum path.
func TestTransform_MatchesDFT(t *testing.T) {
	for _, n := range []int{2, 64, 100, 1000, 2048} {
		tr, err := NewTransform(n)
		if err != nil {
			t.Fatalf("NewTransform(%d) failed: %v", n, err)
		}
		if tr.Bins() != n/2+1 {
			t.Fatalf("n=%d: Bins() = %d, want %d", n, tr.Bins(), n/2+1)
		}

		x := testSignal(n)
		got, err := tr.Coefficients(x)
		if err != nil {
			t.Fatalf("n=%d: Coefficients failed: %v", n, err)
		}
		want := naiveDFT(x)

		for k := range want {
			if diff := math.Abs(cmplx.Abs(got[k]) - cmplx.Abs(want[k])); diff > 1e-6*float64(n) {
				t.Errorf("n=%d bin %d: |X| = %f, want %f", n, k, cmplx.Abs(got[k]), cmplx.Abs(want[k]))
			}
		}
	}
}

// TestTransform_KnownSineWave verifies a bin-centred sine lands in the right
// bin with magnitude N/2, the unnormalised DFT amplitude.
func TestTransform_KnownSineWave(t *testing.T) {
	const (
		n   = 2048
		bin = 100
	)

	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * bin * float64(i) / n)
	}

	tr, err := NewTransform(n)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}
	coeffs, err := tr.Coefficients(x)
	if err != nil {
		t.Fatalf("Coefficients failed: %v", err)
	}

	peak := 0
	for k := range coeffs {
		if cmplx.Abs(coeffs[k]) > cmplx.Abs(coeffs[peak]) {
			peak = k
		}
	}
	if peak != bin {
		t.Errorf("peak bin = %d, want %d", peak, bin)
	}
	if got := cmplx.Abs(coeffs[bin]); math.Abs(got-n/2) > 1e-6 {
		t.Errorf("peak magnitude = %f, want %d", got, n/2)
	}
}

// TestTransform_Silence verifies all-zero input yields all-zero bins.
func TestTransform_Silence(t *testing.T) {
	for _, n := range []int{512, 600} {
		tr, err := NewTransform(n)
		if err != nil {
			t.Fatalf("NewTransform(%d) failed: %v", n, err)
		}
		coeffs, err := tr.Coefficients(make([]float64, n))
		if err != nil {
			t.Fatalf("Coefficients failed: %v", err)
		}
		for k, c := range coeffs {
			if c != 0 {
				t.Errorf("n=%d bin %d = %v, want 0", n, k, c)
			}
		}
	}
}

func TestTransform_InvalidInput(t *testing.T) {
	if _, err := NewTransform(1); err == nil {
		t.Error("expected error for transform size 1")
	}

	tr, err := NewTransform(16)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}
	if _, err := tr.Coefficients(make([]float64, 15)); err == nil {
		t.Error("expected error for mismatched input length")
	}
}

// TestTransformHotPath checks that the gonum path reuses its plan and output
// buffer: no allocations per step once constructed.
func TestTransformHotPath(t *testing.T) {
	for _, n := range []int{1000, 1500} {
		tr, err := NewTransform(n)
		if err != nil {
			t.Fatalf("NewTransform(%d) failed: %v", n, err)
		}
		x := testSignal(n)

		// Warm-up call so lazily built tables are not counted
		if _, err := tr.Coefficients(x); err != nil {
			t.Fatalf("Coefficients failed: %v", err)
		}
		allocs := testing.AllocsPerRun(50, func() {
			_, _ = tr.Coefficients(x)
		})
		if allocs > 0 {
			t.Errorf("n=%d: expected zero allocations per transform, got %.1f", n, allocs)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for n, want := range map[int]bool{0: false, 1: true, 2: true, 3: false, 1024: true, 1000: false, -4: false} {
		if got := isPowerOfTwo(n); got != want {
			t.Errorf("isPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}
