package borelog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := Metrics{TP: 3, FP: 1, FN: 2}
	assert.InDelta(t, 0.75, m.Precision(), 1e-9)
	assert.InDelta(t, 0.6, m.Recall(), 1e-9)
	assert.InDelta(t, 2.0/3.0, m.F1(), 1e-9)

	var zero Metrics
	assert.Zero(t, zero.Precision())
	assert.Zero(t, zero.Recall())
	assert.Zero(t, zero.F1())
}

func TestGroundTruthIsCorrect(t *testing.T) {
	truth := GroundTruth{
		"a.pdf": {"Sand, braun", "Kies mit Silt"},
	}

	assert.True(t, truth.IsCorrect("a.pdf", "Sand, braun"))
	assert.True(t, truth.IsCorrect("a.pdf", "  sand,   BRAUN "))
	assert.False(t, truth.IsCorrect("a.pdf", "Ton"))
	assert.False(t, truth.IsCorrect("b.pdf", "Sand, braun"))
}

func TestLoadGroundTruth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ground_truth.json")
	content := `{
		"a.pdf": {"layers": [
			{"material_description": "Sand, braun"},
			{"material_description": "Kies"}
		]},
		"b.pdf": {"layers": []}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	truth, err := LoadGroundTruth(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sand, braun", "Kies"}, truth["a.pdf"])
	assert.Empty(t, truth["b.pdf"])

	_, err = LoadGroundTruth(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestEvaluateMatching(t *testing.T) {
	truth := GroundTruth{
		"a.pdf": {"Sand", "Kies", "Sand"},
		"b.pdf": {"Ton"},
	}
	predictions := map[string]*DocumentPredictions{
		"a.pdf": {Layers: []LayerPrediction{
			{Description: "sand"},
			{Description: "Sand"},
			{Description: "Sand"}, // both expected "Sand" already consumed
			{Description: "Fels"},
		}},
		// No prediction for b.pdf at all.
	}

	dataset := EvaluateMatching(predictions, truth)

	a, ok := dataset.Document("a.pdf")
	require.True(t, ok)
	assert.Equal(t, Metrics{TP: 2, FP: 2, FN: 1}, a)

	b, ok := dataset.Document("b.pdf")
	require.True(t, ok)
	assert.Equal(t, Metrics{TP: 0, FP: 0, FN: 1}, b)

	micro := dataset.Micro()
	assert.Equal(t, Metrics{TP: 2, FP: 2, FN: 2}, micro)

	// Macro precision averages 0.5 and 0.
	assert.InDelta(t, 0.25, dataset.MacroPrecision(), 1e-9)
}

func TestDatasetMetricsWriteCSV(t *testing.T) {
	truth := GroundTruth{
		"b.pdf": {"Ton"},
		"a.pdf": {"Sand"},
	}
	predictions := map[string]*DocumentPredictions{
		"a.pdf": {Layers: []LayerPrediction{{Description: "Sand"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, EvaluateMatching(predictions, truth).WriteCSV(&buf))

	expected := "document,precision,recall,f1\n" +
		"a.pdf,1.0000,1.0000,1.0000\n" +
		"b.pdf,0.0000,0.0000,0.0000\n"
	assert.Equal(t, expected, buf.String())
}
