package audio

import "testing"

func ramp(start, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(start + i)
	}
	return out
}

// TestSlidingWindow_FirstStep verifies that a short first chunk lands in the
// tail of the window and the head comes from the initial silence.
func TestSlidingWindow_FirstStep(t *testing.T) {
	const n = 8
	s := NewSlidingWindow(n)

	chunk := ramp(1, 3)
	window := s.Advance(chunk, len(chunk))

	want := []float64{0, 0, 0, 0, 0, 1, 2, 3}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("window = %v, want %v", window, want)
		}
	}
}

// TestSlidingWindow_Overlap verifies the second step's head is the leftover
// tail of the first step's raw window, not zeros.
func TestSlidingWindow_Overlap(t *testing.T) {
	const n = 8
	s := NewSlidingWindow(n)

	s.Advance(ramp(1, 3), 3) // [0 0 0 0 0 1 2 3]
	window := s.Advance(ramp(4, 3), 3)

	want := []float64{0, 0, 1, 2, 3, 4, 5, 6}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("window = %v, want %v", window, want)
		}
	}

	window = s.Advance(ramp(7, 5), 5)
	want = []float64{4, 5, 6, 7, 8, 9, 10, 11}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("third window = %v, want %v", window, want)
		}
	}
}

// TestSlidingWindow_HistoryIsRaw verifies that windowing the returned slice
// in place does not leak into the overlap carried to the next step.
func TestSlidingWindow_HistoryIsRaw(t *testing.T) {
	const n = 4
	s := NewSlidingWindow(n)

	window := s.Advance(ramp(1, 4), 4)
	ApplyWindow(window, []float64{0, 0, 0, 0})

	window = s.Advance(ramp(5, 2), 2)
	want := []float64{3, 4, 5, 6}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("window = %v, want %v (history was windowed)", window, want)
		}
	}
}

// TestSlidingWindow_ChunkLongerThanWindow covers countRead >= N: the window
// is filled from the start of the chunk without reading past it.
func TestSlidingWindow_ChunkLongerThanWindow(t *testing.T) {
	const n = 4
	s := NewSlidingWindow(n)

	window := s.Advance(ramp(1, 10), 10)
	want := []float64{1, 2, 3, 4}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("window = %v, want %v", window, want)
		}
	}
}

// TestSlidingWindow_ShortRead covers a final short read where countRead is
// below the buffer length; stale entries past countRead must be ignored.
func TestSlidingWindow_ShortRead(t *testing.T) {
	const n = 4
	s := NewSlidingWindow(n)
	s.Advance(ramp(1, 4), 4)

	chunk := []float64{9, 99, 99, 99}
	window := s.Advance(chunk, 1)
	want := []float64{2, 3, 4, 9}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("window = %v, want %v", window, want)
		}
	}

	// countRead larger than the slice is clamped
	window = s.Advance([]float64{10}, 3)
	want = []float64{3, 4, 9, 10}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("clamped window = %v, want %v", window, want)
		}
	}
}

func TestSlidingWindow_Reset(t *testing.T) {
	s := NewSlidingWindow(4)
	s.Advance(ramp(1, 4), 4)
	s.Reset()

	window := s.Advance([]float64{7}, 1)
	want := []float64{0, 0, 0, 7}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("window after reset = %v, want %v", window, want)
		}
	}
	if s.Size() != 4 {
		t.Errorf("Size() = %d, want 4", s.Size())
	}
}
