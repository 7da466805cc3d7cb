package borelog

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LocatorParams holds the empirical constants of the description region
// locator. The defaults were calibrated on the benchmark set; they are kept
// as named parameters so they can be recalibrated without re-deriving the
// algorithm.
type LocatorParams struct {
	// CoverageOverlapLevel is the minimum x-overlap (as a fraction of the
	// smaller line width) for two lines to cover each other.
	CoverageOverlapLevel float64 `yaml:"coverage_overlap_level"`

	// RightColumnCutoff drops coverage members whose left edge falls in the
	// rightmost fraction of the coverage x-range; such lines form a distinct
	// right-hand column rather than continuation text.
	RightColumnCutoff float64 `yaml:"right_column_cutoff"`

	// LeftMarginFraction and RightMarginFraction define the x0 admission
	// window of a cluster relative to each member line's width.
	LeftMarginFraction  float64 `yaml:"left_margin_fraction"`
	RightMarginFraction float64 `yaml:"right_margin_fraction"`

	// ExpandXTolerance and ExpandYTolerance bound the downward expansion
	// search that recovers paragraph continuation lines, in page points.
	ExpandXTolerance float64 `yaml:"expand_x_tolerance"`
	ExpandYTolerance float64 `yaml:"expand_y_tolerance"`
}

// MatchingParams are the tuning parameters of the matching pipeline. They
// are threaded explicitly through the orchestrator, locator and reconciler;
// there is no process-wide state.
type MatchingParams struct {
	// BlockLineRatio scales the median line height into the vertical gap at
	// which consecutive description lines start a new block.
	BlockLineRatio float64 `yaml:"block_line_ratio"`

	// LeftLineLengthThreshold is the minimum shortfall, in page points,
	// between a line's right edge and the region's right edge for the line
	// to end its paragraph.
	LeftLineLengthThreshold float64 `yaml:"left_line_length_threshold"`

	// NoisePenaltyBase is the per-noise-word decay factor of the column
	// match score.
	NoisePenaltyBase float64 `yaml:"noise_penalty_base"`

	Locator LocatorParams `yaml:"locator"`
}

// ClassifierParams drive the per-line description classification.
type ClassifierParams struct {
	// MaterialKeywords tag a line as description text when any of them
	// occurs in the line (case-insensitive substring match).
	MaterialKeywords []string `yaml:"material_description"`

	// MinLetterRatio is the minimum fraction of letters among a line's
	// non-space characters.
	MinLetterRatio float64 `yaml:"min_letter_ratio"`
}

// Config controls the document processor.
type Config struct {
	Matching   MatchingParams   `yaml:"matching"`
	Classifier ClassifierParams `yaml:"classifier"`

	// MinColumnEntries is the minimum number of vertically stacked depth
	// entries required to accept a candidate depth column.
	MinColumnEntries int `yaml:"min_column_entries"`

	// EnableMetricsLogging enables processing time and statistics logging.
	EnableMetricsLogging bool `yaml:"enable_metrics_logging"`

	// RenderOverlays renders per-page debug overlays showing detected
	// columns, regions and blocks.
	RenderOverlays bool `yaml:"render_overlays"`

	// OverlayDir is the directory overlay images are written to.
	OverlayDir string `yaml:"overlay_dir"`

	// OverlayScale is the upscale factor of rendered overlay images.
	OverlayScale float64 `yaml:"overlay_scale"`
}

// DefaultLocatorParams returns the calibrated locator constants.
func DefaultLocatorParams() LocatorParams {
	return LocatorParams{
		CoverageOverlapLevel: 0.5,
		RightColumnCutoff:    0.4,
		LeftMarginFraction:   0.01,
		RightMarginFraction:  0.2,
		ExpandXTolerance:     5,
		ExpandYTolerance:     10,
	}
}

// DefaultMatchingParams returns the calibrated matching parameters.
func DefaultMatchingParams() MatchingParams {
	return MatchingParams{
		BlockLineRatio:          0.5,
		LeftLineLengthThreshold: 7,
		NoisePenaltyBase:        0.8,
		Locator:                 DefaultLocatorParams(),
	}
}

// DefaultConfig returns the default processor configuration.
func DefaultConfig() Config {
	return Config{
		Matching: DefaultMatchingParams(),
		Classifier: ClassifierParams{
			MaterialKeywords: []string{
				"sand", "kies", "silt", "ton", "lehm", "mergel", "fels",
				"gravier", "argile", "limon", "grès", "humus", "beton",
				"asphalt", "schlamm",
			},
			MinLetterRatio: 0.5,
		},
		MinColumnEntries: 3,
		OverlayScale:     2,
	}
}

// LoadMatchingParams reads matching parameters from a YAML file, applying
// defaults for anything the file does not set.
func LoadMatchingParams(path string) (MatchingParams, error) {
	params := DefaultMatchingParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return params, errors.Wrap(err, "failed to read matching params")
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, errors.Wrap(err, "failed to parse matching params")
	}
	return params, nil
}

// LoadConfig reads a full processor configuration from a YAML file.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrap(err, "failed to parse config")
	}
	return config, nil
}
