package borelog

import (
	"math"
	"testing"
)

func TestXOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a        Rect
		b        Rect
		expected float64
	}{
		{
			name:     "no overlap",
			a:        Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			b:        Rect{X0: 20, Y0: 0, X1: 30, Y1: 10},
			expected: 0,
		},
		{
			name:     "touching edges",
			a:        Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			b:        Rect{X0: 10, Y0: 0, X1: 20, Y1: 10},
			expected: 0,
		},
		{
			name:     "partial overlap",
			a:        Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			b:        Rect{X0: 5, Y0: 50, X1: 15, Y1: 60},
			expected: 5,
		},
		{
			name:     "containment",
			a:        Rect{X0: 0, Y0: 0, X1: 20, Y1: 10},
			b:        Rect{X0: 5, Y0: 0, X1: 15, Y1: 10},
			expected: 10,
		},
		{
			name:     "zero width",
			a:        Rect{X0: 5, Y0: 0, X1: 5, Y1: 10},
			b:        Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := XOverlap(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("XOverlap() = %v, want %v", result, tt.expected)
			}
			// Overlap is symmetric.
			if XOverlap(tt.b, tt.a) != result {
				t.Errorf("XOverlap not symmetric for %s", tt.name)
			}
		})
	}
}

func TestXOverlapSignificant(t *testing.T) {
	narrow := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	wide := Rect{X0: 4, Y0: 0, X1: 44, Y1: 10}
	// Overlap is 6: 60% of the narrow width, 15% of the wide width.

	if !XOverlapSignificantSmallest(narrow, wide, 0.5) {
		t.Error("expected significant overlap against smaller width")
	}
	if XOverlapSignificantSmallest(narrow, wide, 0.7) {
		t.Error("expected insignificant overlap at level 0.7")
	}
	if XOverlapSignificantLargest(narrow, wide, 0.5) {
		t.Error("expected insignificant overlap against larger width")
	}
	if !XOverlapSignificantLargest(narrow, wide, 0.1) {
		t.Error("expected significant overlap at level 0.1")
	}
}

func TestXOverlapSignificantZeroWidth(t *testing.T) {
	degenerate := Rect{X0: 5, Y0: 0, X1: 5, Y1: 10}
	other := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}

	// A zero-width rectangle can never overlap significantly: the overlap
	// is 0 and 0 > level*0 is false. In particular there is no division.
	if XOverlapSignificantSmallest(degenerate, other, 0.5) {
		t.Error("zero-width rect must not overlap significantly")
	}
	if XOverlapSignificantLargest(degenerate, degenerate, 0.5) {
		t.Error("two zero-width rects must not overlap significantly")
	}
}

func TestRectUnionAndIntersects(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := Rect{X0: 5, Y0: 5, X1: 20, Y1: 30}

	union := a.Union(b)
	if union != (Rect{X0: 0, Y0: 0, X1: 20, Y1: 30}) {
		t.Errorf("unexpected union %+v", union)
	}
	if !a.Intersects(b) {
		t.Error("expected intersection")
	}
	if a.Intersects(Rect{X0: 10, Y0: 0, X1: 20, Y1: 10}) {
		t.Error("touching rects must not intersect")
	}
}
