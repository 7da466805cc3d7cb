package borelog

import (
	"math"
	"sort"
)

// DescriptionLines selects the page lines lying inside a description region,
// ordered top to bottom.
func DescriptionLines(lines []TextLine, region Rect) []TextLine {
	var selected []TextLine
	for _, line := range lines {
		if line.Box.Intersects(region) {
			selected = append(selected, line)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Box.Y0 != selected[j].Box.Y0 {
			return selected[i].Box.Y0 < selected[j].Box.Y0
		}
		return selected[i].Box.X0 < selected[j].Box.X0
	})
	return selected
}

// GroupDescriptionBlocks groups a region's lines into paragraph blocks.
// A new block starts when a horizontal ruling crosses the region between two
// lines, when the vertical gap exceeds blockLineRatio times the median line
// height, or when the previous line ends more than leftLineLengthThreshold
// points short of the region's right edge. Blocks closed by a ruling carry
// the TerminatedByLine flag.
func GroupDescriptionBlocks(lines []TextLine, rulings []GeometricLine, region Rect, blockLineRatio, leftLineLengthThreshold float64) []TextBlock {
	if len(lines) == 0 {
		return nil
	}

	ordered := make([]TextLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Box.Y0 < ordered[j].Box.Y0
	})

	gapThreshold := blockLineRatio * medianLineHeight(ordered)
	separators := regionSeparatorYs(rulings, region)

	var blocks []TextBlock
	current := TextBlock{Lines: []TextLine{ordered[0]}}
	for _, line := range ordered[1:] {
		prev := current.Lines[len(current.Lines)-1]

		if separatorBetween(separators, prev.Box.Y1, line.Box.Y0+line.Box.Height()/2) {
			current.TerminatedByLine = true
			blocks = append(blocks, current)
			current = TextBlock{Lines: []TextLine{line}}
			continue
		}
		if line.Box.Y0-prev.Box.Y1 > gapThreshold ||
			prev.Box.X1 < region.X1-leftLineLengthThreshold {
			blocks = append(blocks, current)
			current = TextBlock{Lines: []TextLine{line}}
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	blocks = append(blocks, current)
	return blocks
}

// medianLineHeight returns the median height of the lines.
func medianLineHeight(lines []TextLine) float64 {
	heights := make([]float64, len(lines))
	for i, line := range lines {
		heights[i] = line.Box.Height()
	}
	sort.Float64s(heights)
	mid := len(heights) / 2
	if len(heights)%2 == 0 {
		return (heights[mid-1] + heights[mid]) / 2
	}
	return heights[mid]
}

// regionSeparatorYs collects the vertical positions of horizontal rulings
// spanning at least half the region width, sorted top to bottom.
func regionSeparatorYs(rulings []GeometricLine, region Rect) []float64 {
	var ys []float64
	for _, ruling := range rulings {
		if !ruling.isHorizontal() {
			continue
		}
		x0 := math.Min(ruling.Start.X, ruling.End.X)
		x1 := math.Max(ruling.Start.X, ruling.End.X)
		span := math.Min(x1, region.X1) - math.Max(x0, region.X0)
		if span < region.Width()/2 {
			continue
		}
		y := (ruling.Start.Y + ruling.End.Y) / 2
		if y > region.Y0 && y < region.Y1 {
			ys = append(ys, y)
		}
	}
	sort.Float64s(ys)
	return ys
}

// separatorBetween reports whether any separator lies strictly between the
// two vertical positions.
func separatorBetween(separators []float64, above, below float64) bool {
	for _, y := range separators {
		if y > above && y < below {
			return true
		}
	}
	return false
}
