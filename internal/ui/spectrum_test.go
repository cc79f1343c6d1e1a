package ui

import (
	"testing"
	"unicode/utf8"
)

func TestColumnLevels_Orientation(t *testing.T) {
	// Top row first: the loud value is the highest frequency
	column := []float32{1, 0, 0, 0}

	levels := columnLevels(column, 4)
	want := []int{0, 0, 0, 7}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("columnLevels() = %v, want %v", levels, want)
		}
	}
}

func TestColumnLevels_Downsample(t *testing.T) {
	column := make([]float32, 100)
	column[99] = 0.8 // lowest frequency
	column[50] = 0.4

	levels := columnLevels(column, 10)
	if len(levels) != 10 {
		t.Fatalf("got %d cells, want 10", len(levels))
	}
	if levels[0] != 7 {
		t.Errorf("lowest cell = %d, want 7", levels[0])
	}
	if levels[4] != 3 {
		t.Errorf("middle cell = %d, want 3", levels[4])
	}
	if levels[9] != 0 {
		t.Errorf("highest cell = %d, want 0", levels[9])
	}
}

func TestColumnLevels_Edges(t *testing.T) {
	if got := columnLevels(nil, 10); got != nil {
		t.Errorf("empty column: got %v", got)
	}
	if got := columnLevels([]float32{1}, 0); got != nil {
		t.Errorf("zero width: got %v", got)
	}

	// Silence and negative values stay at the lowest block
	for i, level := range columnLevels([]float32{0, -2, 0}, 3) {
		if level != 0 {
			t.Errorf("cell %d = %d, want 0", i, level)
		}
	}

	// Narrow columns are not stretched
	if got := len(columnLevels([]float32{1, 2}, 50)); got != 2 {
		t.Errorf("got %d cells, want 2", got)
	}
}

func TestRenderColumn(t *testing.T) {
	out := renderColumn([]float32{0.2, 0.4, 0.6, 0.8}, 4)
	if utf8.RuneCountInString(out) < 4 {
		t.Errorf("renderColumn() = %q, want at least 4 runes", out)
	}
}
