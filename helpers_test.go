package borelog

import "fmt"

// testLine builds a single-word line with the given box.
func testLine(x0, y0, x1, y1 float64) TextLine {
	line := NewTextLine([]Word{{
		Text: fmt.Sprintf("line-%.0f-%.0f", x0, y0),
		Box:  Rect{X0: x0, Y0: y0, X1: x1, Y1: y1},
	}})
	return line
}

// testDescLine builds a line already tagged as description text.
func testDescLine(x0, y0, x1, y1 float64) TextLine {
	line := testLine(x0, y0, x1, y1)
	line.Kind = LineDescription
	return line
}

// testBlock builds a block from line boxes given as {x0, y0, x1, y1}.
func testBlock(boxes ...[4]float64) TextBlock {
	var lines []TextLine
	for _, b := range boxes {
		lines = append(lines, testLine(b[0], b[1], b[2], b[3]))
	}
	return TextBlock{Lines: lines}
}

// stubColumn is a DepthColumn with a fixed box and noise count, for tests
// that only need geometry and scoring.
type stubColumn struct {
	rect  Rect
	noise int
}

func (c *stubColumn) Rect() Rect                 { return c.rect }
func (c *stubColumn) NoiseCount(_ []Word) int    { return c.noise }
func (c *stubColumn) Intervals() []Interval      { return nil }
func (c *stubColumn) IdentifyGroups(_ []TextLine, _ []GeometricLine, _ Rect, _ MatchingParams) []IntervalBlockGroup {
	return nil
}

// totalLines sums the line counts of the blocks.
func totalLines(blocks []TextBlock) int {
	total := 0
	for _, b := range blocks {
		total += b.LineCount()
	}
	return total
}
