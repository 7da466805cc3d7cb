package borelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextLine(t *testing.T) {
	line := NewTextLine([]Word{
		{Text: "Sand,", Box: Rect{X0: 100, Y0: 50, X1: 130, Y1: 60}},
		{Text: "braun", Box: Rect{X0: 135, Y0: 50, X1: 170, Y1: 60}},
	})

	assert.Equal(t, "Sand, braun", line.Text())
	assert.Equal(t, Rect{X0: 100, Y0: 50, X1: 170, Y1: 60}, line.Box)
	assert.False(t, line.IsDescription())
}

func TestTextBlockConcatenate(t *testing.T) {
	a := testBlock([4]float64{0, 0, 100, 10})
	b := testBlock([4]float64{0, 20, 100, 30})
	b.TerminatedByLine = true

	joined := a.Concatenate(b)
	assert.Equal(t, 2, joined.LineCount())
	assert.True(t, joined.TerminatedByLine)

	// Order matters: concatenating the other way drops the flag.
	assert.False(t, b.Concatenate(a).TerminatedByLine)
	// Inputs are untouched.
	assert.Equal(t, 1, a.LineCount())
}

func TestBlockDistance(t *testing.T) {
	a := testBlock([4]float64{0, 0, 100, 10})
	b := testBlock([4]float64{0, 25, 100, 35})
	assert.Equal(t, 15.0, BlockDistance(a, b))
	assert.Equal(t, -35.0, BlockDistance(b, a))
}

func TestIntervalRect(t *testing.T) {
	start := &DepthEntry{Value: 1, Box: Rect{X0: 40, Y0: 100, X1: 60, Y1: 110}}
	end := &DepthEntry{Value: 2, Box: Rect{X0: 40, Y0: 150, X1: 60, Y1: 160}}

	assert.Equal(t, Rect{X0: 40, Y0: 100, X1: 60, Y1: 160}, Interval{Start: start, End: end}.Rect())
	assert.Equal(t, start.Box, Interval{Start: start}.Rect())
	assert.Equal(t, Rect{}, Interval{}.Rect())
}

func TestToPrediction(t *testing.T) {
	block := TextBlock{Lines: []TextLine{
		NewTextLine([]Word{{Text: "Sand,"}, {Text: "braun"}}),
		NewTextLine([]Word{{Text: "feucht"}}),
	}}
	start := &DepthEntry{Value: 1.2}
	end := &DepthEntry{Value: 3.4}

	pred := MatchResult{Interval: &Interval{Start: start, End: end}, Block: block}.ToPrediction()
	assert.Equal(t, "Sand, braun feucht", pred.Description)
	require.NotNil(t, pred.DepthInterval)
	require.NotNil(t, pred.DepthInterval.Start)
	assert.Equal(t, 1.2, *pred.DepthInterval.Start)
	require.NotNil(t, pred.DepthInterval.End)
	assert.Equal(t, 3.4, *pred.DepthInterval.End)

	// Open trailing interval keeps a nil end bound.
	open := MatchResult{Interval: &Interval{Start: start}, Block: block}.ToPrediction()
	require.NotNil(t, open.DepthInterval)
	assert.Nil(t, open.DepthInterval.End)

	// Fallback results have no interval at all.
	fallback := MatchResult{Block: block}.ToPrediction()
	assert.Nil(t, fallback.DepthInterval)
}
