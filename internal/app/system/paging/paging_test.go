package paging

import (
	"math"
	"testing"
)

func TestOffset(t *testing.T) {
	tests := []struct {
		page, size, want int
	}{
		{1, 20, 0},
		{2, 20, 20},
		{5, 7, 28},
		{0, 20, 0},
		{-3, 20, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := Offset(tt.page, tt.size); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}

func TestOffset_Saturates(t *testing.T) {
	if got := Offset(math.MaxInt/10, 100); got != math.MaxInt {
		t.Errorf("Offset overflow: got %d, want math.MaxInt", got)
	}
	if got := Offset(922337203685477581, 20); got < 0 {
		t.Errorf("Offset went negative: %d", got)
	}
}

func TestOffset_Formula(t *testing.T) {
	for page := 1; page <= 10; page++ {
		for size := 1; size <= 100; size += 11 {
			if got, want := Offset(page, size), (page-1)*size; got != want {
				t.Fatalf("Offset(%d, %d) = %d, want %d", page, size, got, want)
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name             string
		total            int64
		page, size       int
		wantPages        int
		wantNext, wantPv bool
	}{
		{"empty", 0, 1, 20, 0, false, false},
		{"single page", 15, 1, 20, 1, false, false},
		{"first of three", 45, 1, 20, 3, true, false},
		{"middle", 45, 2, 20, 3, true, true},
		{"last", 45, 3, 20, 3, false, true},
		{"past the end", 45, 9, 20, 3, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeta(tt.total, tt.page, tt.size)
			if m.TotalPages != tt.wantPages || m.HasNext != tt.wantNext || m.HasPrev != tt.wantPv {
				t.Errorf("got pages=%d next=%v prev=%v, want pages=%d next=%v prev=%v",
					m.TotalPages, m.HasNext, m.HasPrev, tt.wantPages, tt.wantNext, tt.wantPv)
			}
		})
	}
}
