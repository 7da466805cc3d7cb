package borelog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// GroundTruth maps document filenames to their expected layer descriptions.
type GroundTruth map[string][]string

// LoadGroundTruth reads ground truth from a JSON file shaped
// {"file.pdf": {"layers": [{"material_description": "..."}]}}.
func LoadGroundTruth(path string) (GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read ground truth")
	}
	var raw map[string]struct {
		Layers []struct {
			Description string `json:"material_description"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse ground truth")
	}
	truth := make(GroundTruth, len(raw))
	for filename, doc := range raw {
		descriptions := make([]string, len(doc.Layers))
		for i, layer := range doc.Layers {
			descriptions[i] = layer.Description
		}
		truth[filename] = descriptions
	}
	return truth, nil
}

// IsCorrect reports whether a predicted description matches any expected
// layer of the file, after whitespace and case normalization.
func (g GroundTruth) IsCorrect(filename, description string) bool {
	normalized := normalizeDescription(description)
	for _, expected := range g[filename] {
		if normalizeDescription(expected) == normalized {
			return true
		}
	}
	return false
}

func normalizeDescription(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Metrics holds the match counts of one document.
type Metrics struct {
	TP int
	FP int
	FN int
}

// Precision returns TP / (TP + FP), or 0 when nothing was predicted.
func (m Metrics) Precision() float64 {
	if m.TP+m.FP == 0 {
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FP)
}

// Recall returns TP / (TP + FN), or 0 when nothing was expected.
func (m Metrics) Recall() float64 {
	if m.TP+m.FN == 0 {
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FN)
}

// F1 returns the harmonic mean of precision and recall.
func (m Metrics) F1() float64 {
	p := m.Precision()
	r := m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// DatasetMetrics aggregates per-document metrics over a benchmark run.
type DatasetMetrics struct {
	perDocument map[string]Metrics
}

// EvaluateMatching scores predicted layers against the ground truth. Each
// expected description can be consumed by at most one prediction.
func EvaluateMatching(predictions map[string]*DocumentPredictions, truth GroundTruth) *DatasetMetrics {
	dataset := &DatasetMetrics{perDocument: make(map[string]Metrics)}
	for filename, expected := range truth {
		var metrics Metrics
		remaining := make(map[string]int, len(expected))
		for _, description := range expected {
			remaining[normalizeDescription(description)]++
		}
		if prediction, ok := predictions[filename]; ok {
			for _, layer := range prediction.Layers {
				key := normalizeDescription(layer.Description)
				if remaining[key] > 0 {
					remaining[key]--
					metrics.TP++
				} else {
					metrics.FP++
				}
			}
		}
		for _, count := range remaining {
			metrics.FN += count
		}
		dataset.perDocument[filename] = metrics
	}
	return dataset
}

// Document returns the metrics of one document.
func (d *DatasetMetrics) Document(filename string) (Metrics, bool) {
	m, ok := d.perDocument[filename]
	return m, ok
}

// MacroPrecision averages per-document precision.
func (d *DatasetMetrics) MacroPrecision() float64 {
	return d.macro(Metrics.Precision)
}

// MacroRecall averages per-document recall.
func (d *DatasetMetrics) MacroRecall() float64 {
	return d.macro(Metrics.Recall)
}

// MacroF1 averages per-document F1.
func (d *DatasetMetrics) MacroF1() float64 {
	return d.macro(Metrics.F1)
}

func (d *DatasetMetrics) macro(fn func(Metrics) float64) float64 {
	if len(d.perDocument) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range d.perDocument {
		sum += fn(m)
	}
	return sum / float64(len(d.perDocument))
}

// Micro sums the counts over all documents into one Metrics value.
func (d *DatasetMetrics) Micro() Metrics {
	var total Metrics
	for _, m := range d.perDocument {
		total.TP += m.TP
		total.FP += m.FP
		total.FN += m.FN
	}
	return total
}

// WriteCSV writes document-level metrics, sorted by filename.
func (d *DatasetMetrics) WriteCSV(w io.Writer) error {
	filenames := make([]string, 0, len(d.perDocument))
	for filename := range d.perDocument {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"document", "precision", "recall", "f1"}); err != nil {
		return errors.Wrap(err, "failed to write metrics header")
	}
	for _, filename := range filenames {
		m := d.perDocument[filename]
		record := []string{
			filename,
			fmt.Sprintf("%.4f", m.Precision()),
			fmt.Sprintf("%.4f", m.Recall()),
			fmt.Sprintf("%.4f", m.F1()),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write metrics record")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush metrics")
}
