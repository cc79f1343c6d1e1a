package audio

// SlidingWindow keeps the transform input for successive steps. Each step
// splices the unconsumed tail of the previous raw window with the newly
// read samples, so consecutive windows overlap by N-countRead samples.
//
// The previous window starts as silence; after that it is always real
// input, never zero padding.
type SlidingWindow struct {
	previous []float64 // raw samples of the last window, unwindowed
	current  []float64 // window handed to the caller
}

// NewSlidingWindow creates a sliding window of n samples.
func NewSlidingWindow(n int) *SlidingWindow {
	return &SlidingWindow{
		previous: make([]float64, n),
		current:  make([]float64, n),
	}
}

// Size returns the window length.
func (s *SlidingWindow) Size() int {
	return len(s.current)
}

// Advance builds the next window from the first countRead entries of
// samples and returns it. The returned slice is owned by the SlidingWindow
// and is overwritten by the next call; callers may window it in place,
// because the raw copy used for overlap has already been saved.
func (s *SlidingWindow) Advance(samples []float64, countRead int) []float64 {
	n := len(s.current)
	if countRead > len(samples) {
		countRead = len(samples)
	}
	if countRead < 0 {
		countRead = 0
	}

	// Carry the unconsumed tail of the previous raw window forward
	left := n - countRead
	if left > 0 {
		copy(s.current[:left], s.previous[countRead:])
	} else {
		left = 0
	}

	// Fill the rest with the new samples. A chunk longer than the window
	// contributes only its first n samples.
	copy(s.current[left:], samples[:countRead])

	copy(s.previous, s.current)
	return s.current
}

// Reset returns the window to its initial silent state.
func (s *SlidingWindow) Reset() {
	for i := range s.previous {
		s.previous[i] = 0
		s.current[i] = 0
	}
}
