package borelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptionLines(t *testing.T) {
	region := Rect{X0: 100, Y0: 100, X1: 300, Y1: 200}
	inside := testLine(120, 150, 280, 160)
	partial := testLine(90, 110, 150, 120)
	outside := testLine(100, 250, 300, 260)
	sameRow := testLine(110, 110, 180, 120)

	selected := DescriptionLines([]TextLine{inside, outside, sameRow, partial}, region)

	require.Len(t, selected, 3)
	// Ordered by Y0, then X0 for lines on the same row.
	assert.Equal(t, partial.Box, selected[0].Box)
	assert.Equal(t, sameRow.Box, selected[1].Box)
	assert.Equal(t, inside.Box, selected[2].Box)
}

func TestGroupDescriptionBlocksGapSplit(t *testing.T) {
	region := Rect{X0: 100, Y0: 90, X1: 300, Y1: 300}
	lines := []TextLine{
		testLine(100, 100, 300, 110),
		testLine(100, 112, 300, 122),
		// Large gap starts a new paragraph.
		testLine(100, 170, 300, 180),
	}

	blocks := GroupDescriptionBlocks(lines, nil, region, 0.5, 7)

	require.Len(t, blocks, 2)
	assert.Equal(t, 2, blocks[0].LineCount())
	assert.Equal(t, 1, blocks[1].LineCount())
	assert.False(t, blocks[0].TerminatedByLine)
}

func TestGroupDescriptionBlocksShortLineSplit(t *testing.T) {
	region := Rect{X0: 100, Y0: 90, X1: 300, Y1: 300}
	lines := []TextLine{
		// Ends well short of the region's right edge, closing the paragraph.
		testLine(100, 100, 250, 110),
		testLine(100, 112, 300, 122),
	}

	blocks := GroupDescriptionBlocks(lines, nil, region, 0.5, 7)

	require.Len(t, blocks, 2)
	assert.Equal(t, 1, blocks[0].LineCount())
	assert.Equal(t, 1, blocks[1].LineCount())
}

func TestGroupDescriptionBlocksRulingSplit(t *testing.T) {
	region := Rect{X0: 100, Y0: 90, X1: 300, Y1: 300}
	lines := []TextLine{
		testLine(100, 100, 300, 110),
		testLine(100, 130, 300, 140),
	}
	rulings := []GeometricLine{
		{Start: Point{X: 90, Y: 120}, End: Point{X: 310, Y: 120}},
	}

	blocks := GroupDescriptionBlocks(lines, rulings, region, 5, 7)

	require.Len(t, blocks, 2)
	assert.True(t, blocks[0].TerminatedByLine)
	assert.False(t, blocks[1].TerminatedByLine)
}

func TestGroupDescriptionBlocksEmpty(t *testing.T) {
	assert.Nil(t, GroupDescriptionBlocks(nil, nil, Rect{}, 0.5, 7))
}

func TestMedianLineHeight(t *testing.T) {
	odd := []TextLine{
		testLine(0, 0, 10, 10),
		testLine(0, 0, 10, 12),
		testLine(0, 0, 10, 30),
	}
	assert.Equal(t, 12.0, medianLineHeight(odd))

	even := []TextLine{
		testLine(0, 0, 10, 10),
		testLine(0, 0, 10, 14),
	}
	assert.Equal(t, 12.0, medianLineHeight(even))
}

func TestRegionSeparatorYs(t *testing.T) {
	region := Rect{X0: 100, Y0: 100, X1: 300, Y1: 300}
	rulings := []GeometricLine{
		// Spans the region, inside the vertical range.
		{Start: Point{X: 90, Y: 200}, End: Point{X: 310, Y: 200}},
		// Too short to count as a separator.
		{Start: Point{X: 100, Y: 150}, End: Point{X: 150, Y: 150}},
		// Outside the region's vertical range.
		{Start: Point{X: 90, Y: 350}, End: Point{X: 310, Y: 350}},
		// Vertical line, ignored.
		{Start: Point{X: 200, Y: 100}, End: Point{X: 200, Y: 300}},
	}

	assert.Equal(t, []float64{200}, regionSeparatorYs(rulings, region))
}
