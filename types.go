package borelog

import (
	"math"
	"strings"
)

// Rect is an axis-aligned bounding box in page coordinates.
// Y grows downward (top-left origin, after conversion from PDF coordinates).
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Intersects reports whether the two rectangles share interior area.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Point is a location in page coordinates.
type Point struct {
	X float64
	Y float64
}

// GeometricLine is a straight ruling line detected on the page.
// Rulings are used to decide where a description region splits into blocks.
type GeometricLine struct {
	Start Point
	End   Point
}

// isHorizontal reports whether the ruling runs mostly left to right.
func (l GeometricLine) isHorizontal() bool {
	return math.Abs(l.End.Y-l.Start.Y) < math.Abs(l.End.X-l.Start.X)
}

// Word is a single token with its bounding box.
type Word struct {
	Text string
	Box  Rect
}

// LineKind is the classification tag of a text line, computed once by the
// classifier and treated as immutable afterwards.
type LineKind int

const (
	// LineOther marks lines that are not part of any material description.
	LineOther LineKind = iota
	// LineDescription marks lines that look like free-text material descriptions.
	LineDescription
)

// TextLine is an ordered sequence of words sharing a visual line.
type TextLine struct {
	Words []Word
	Box   Rect
	Kind  LineKind
}

// NewTextLine builds a line from its words, deriving the bounding box.
func NewTextLine(words []Word) TextLine {
	line := TextLine{Words: words}
	for i, w := range words {
		if i == 0 {
			line.Box = w.Box
		} else {
			line.Box = line.Box.Union(w.Box)
		}
	}
	return line
}

// Text returns the line's words joined by single spaces.
func (l TextLine) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// IsDescription reports whether the classifier tagged this line as
// material-description text.
func (l TextLine) IsDescription() bool {
	return l.Kind == LineDescription
}

// TextBlock is a contiguous run of text lines treated as one paragraph unit.
type TextBlock struct {
	Lines []TextLine

	// TerminatedByLine is set when a detected geometric ruling closes the block.
	TerminatedByLine bool
}

// Rect returns the bounding box of the block, or the zero Rect for an empty block.
func (b TextBlock) Rect() Rect {
	var r Rect
	for i, line := range b.Lines {
		if i == 0 {
			r = line.Box
		} else {
			r = r.Union(line.Box)
		}
	}
	return r
}

// Text returns the block's lines joined by single spaces.
func (b TextBlock) Text() string {
	parts := make([]string, len(b.Lines))
	for i, line := range b.Lines {
		parts[i] = line.Text()
	}
	return strings.Join(parts, " ")
}

// LineCount returns the number of lines in the block.
func (b TextBlock) LineCount() int {
	return len(b.Lines)
}

// Concatenate appends the lines of o to b, producing a new block.
// The ruling-termination flag of the second block wins.
func (b TextBlock) Concatenate(o TextBlock) TextBlock {
	lines := make([]TextLine, 0, len(b.Lines)+len(o.Lines))
	lines = append(lines, b.Lines...)
	lines = append(lines, o.Lines...)
	return TextBlock{Lines: lines, TerminatedByLine: o.TerminatedByLine}
}

// BlockDistance returns the vertical gap between two blocks. Negative values
// mean the blocks overlap vertically.
func BlockDistance(a, b TextBlock) float64 {
	return b.Rect().Y0 - a.Rect().Y1
}

// Interval is a depth range derived from a depth column entry. Either bound
// may be nil: boundary columns produce an open-ended trailing interval, and
// the fallback path produces results with no interval at all.
type Interval struct {
	Start *DepthEntry
	End   *DepthEntry
}

// Rect returns the bounding box spanned by the interval's entries.
// Intervals with no located entry return the zero Rect.
func (iv Interval) Rect() Rect {
	switch {
	case iv.Start != nil && iv.End != nil:
		return iv.Start.Box.Union(iv.End.Box)
	case iv.Start != nil:
		return iv.Start.Box
	case iv.End != nil:
		return iv.End.Box
	default:
		return Rect{}
	}
}

// MatchResult pairs one depth interval with its description block.
// Interval is nil on the fallback path when no depth column was usable.
type MatchResult struct {
	Interval *Interval
	Block    TextBlock
}

// LayerPrediction is the serializable form of a MatchResult.
type LayerPrediction struct {
	Description   string      `json:"material_description"`
	DepthInterval *DepthRange `json:"depth_interval,omitempty"`
}

// DepthRange carries the numeric bounds of an interval for serialization.
type DepthRange struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// ToPrediction converts a match result into its serializable form.
func (m MatchResult) ToPrediction() LayerPrediction {
	pred := LayerPrediction{Description: m.Block.Text()}
	if m.Interval != nil {
		rng := &DepthRange{}
		if m.Interval.Start != nil {
			v := m.Interval.Start.Value
			rng.Start = &v
		}
		if m.Interval.End != nil {
			v := m.Interval.End.Value
			rng.End = &v
		}
		pred.DepthInterval = rng
	}
	return pred
}
