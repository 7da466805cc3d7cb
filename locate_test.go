package borelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateCandidateLines(t *testing.T) {
	column := &stubColumn{rect: Rect{X0: 40, Y0: 100, X1: 60, Y1: 300}}
	above := testLine(45, 80, 55, 90)
	inside := testLine(100, 150, 200, 160)
	beyond := testLine(100, 310, 200, 320)
	lines := []TextLine{above, inside, beyond}

	candidates := gateCandidateLines(lines, column)
	require.Len(t, candidates, 1)
	assert.Equal(t, inside.Box, candidates[0].Box)

	// Without a column nothing is gated.
	assert.Len(t, gateCandidateLines(lines, nil), 3)
}

func TestDropRightColumnLines(t *testing.T) {
	candidates := []TextLine{
		testLine(100, 0, 200, 10),
		testLine(110, 20, 210, 30),
		testLine(380, 0, 400, 10),
	}

	// x range is 100..400, cutoff 0.4 puts the threshold at 280. The third
	// line starts right of it and belongs to a separate column.
	kept := dropRightColumnLines(candidates, []int{0, 1, 2}, 0.4)
	assert.Equal(t, []int{0, 1}, kept)

	assert.Empty(t, dropRightColumnLines(candidates, nil, 0.4))
}

func TestFindDescriptionRegion(t *testing.T) {
	params := DefaultMatchingParams()
	column := &stubColumn{rect: Rect{X0: 40, Y0: 100, X1: 60, Y1: 300}}

	header := testLine(30, 50, 70, 60)
	d1 := testDescLine(100, 100, 300, 120)
	d2 := testDescLine(100, 130, 300, 150)
	d3 := testDescLine(100, 160, 300, 180)
	// Short continuation line that failed description classification; the
	// downward expansion should absorb it anyway.
	cont := testLine(100, 185, 200, 195)
	below := testDescLine(100, 320, 300, 340)

	region, ok, err := FindDescriptionRegion(
		[]TextLine{header, d1, d2, d3, cont, below}, column, params)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, Rect{X0: 100, Y0: 100, X1: 300, Y1: 195}, region)
}

func TestFindDescriptionRegionNoCandidates(t *testing.T) {
	params := DefaultMatchingParams()
	column := &stubColumn{rect: Rect{X0: 40, Y0: 100, X1: 60, Y1: 300}}

	_, ok, err := FindDescriptionRegion(nil, column, params)
	require.NoError(t, err)
	assert.False(t, ok)

	// Lines exist but none are description text.
	_, ok, err = FindDescriptionRegion([]TextLine{testLine(100, 150, 200, 160)}, column, params)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindDescriptionRegionPrefersNearCluster(t *testing.T) {
	params := DefaultMatchingParams()
	column := &stubColumn{rect: Rect{X0: 40, Y0: 100, X1: 60, Y1: 300}}

	lines := []TextLine{
		testDescLine(100, 100, 300, 120),
		testDescLine(100, 130, 300, 150),
		testDescLine(400, 100, 500, 120),
		testDescLine(400, 130, 500, 150),
	}

	region, ok, err := FindDescriptionRegion(lines, column, params)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Rect{X0: 100, Y0: 100, X1: 300, Y1: 150}, region)
}

func TestFindDescriptionRegionSingleLine(t *testing.T) {
	params := DefaultMatchingParams()
	column := &stubColumn{rect: Rect{X0: 40, Y0: 100, X1: 60, Y1: 300}}

	region, ok, err := FindDescriptionRegion([]TextLine{testDescLine(100, 100, 300, 120)}, column, params)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Rect{X0: 100, Y0: 100, X1: 300, Y1: 120}, region)
}

func TestFindDescriptionRegionsFallback(t *testing.T) {
	params := DefaultLocatorParams()
	lines := []TextLine{
		testDescLine(100, 100, 300, 120),
		testDescLine(100, 130, 300, 150),
	}

	regions, err := FindDescriptionRegions(lines, params)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, Rect{X0: 100, Y0: 100, X1: 300, Y1: 150}, regions[0])
}

func TestFindDescriptionRegionIdempotent(t *testing.T) {
	params := DefaultMatchingParams()
	column := &stubColumn{rect: Rect{X0: 40, Y0: 100, X1: 60, Y1: 300}}
	lines := []TextLine{
		testDescLine(100, 100, 300, 120),
		testDescLine(100, 130, 300, 150),
		testLine(100, 155, 200, 165),
	}

	first, ok, err := FindDescriptionRegion(lines, column, params)
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := FindDescriptionRegion(lines, column, params)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, second, "locating must not mutate its inputs")
}

func TestClusterDescriptionLinesSeparatesColumns(t *testing.T) {
	params := DefaultLocatorParams()
	candidates := []TextLine{
		testDescLine(100, 100, 200, 110),
		testDescLine(100, 120, 200, 130),
		testDescLine(400, 100, 500, 110),
		testDescLine(400, 120, 500, 130),
	}

	clusters := clusterDescriptionLines(candidates, []int{0, 1, 2, 3}, params)
	require.Len(t, clusters, 2)
	assert.ElementsMatch(t, []int{0, 1}, clusters[0])
	assert.ElementsMatch(t, []int{2, 3}, clusters[1])
}

func TestClusterDescriptionLinesZeroWidth(t *testing.T) {
	// Zero-width lines never reach the overlap level; the loop must still
	// terminate and report no clusters.
	params := DefaultLocatorParams()
	candidates := []TextLine{
		testDescLine(100, 100, 100, 110),
		testDescLine(100, 120, 100, 130),
	}

	clusters := clusterDescriptionLines(candidates, []int{0, 1}, params)
	assert.Empty(t, clusters)
}
