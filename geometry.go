package borelog

import "math"

// XOverlap returns the horizontal overlap length of two rectangles,
// or 0 if they are horizontally disjoint.
func XOverlap(a, b Rect) float64 {
	if a.X0 < b.X1 && b.X0 < a.X1 {
		return math.Min(a.X1, b.X1) - math.Max(a.X0, b.X0)
	}
	return 0
}

// XOverlapSignificantSmallest reports whether the horizontal overlap of the
// two rectangles exceeds level times the smaller of the two widths.
// Zero-width rectangles never overlap significantly.
func XOverlapSignificantSmallest(a, b Rect, level float64) bool {
	return XOverlap(a, b) > level*math.Min(a.Width(), b.Width())
}

// XOverlapSignificantLargest reports whether the horizontal overlap of the
// two rectangles exceeds level times the larger of the two widths.
func XOverlapSignificantLargest(a, b Rect, level float64) bool {
	return XOverlap(a, b) > level*math.Max(a.Width(), b.Width())
}
